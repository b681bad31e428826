package publicdata

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/diillson/kr-realestate-report/internal/domain/entity"
	"golang.org/x/text/encoding/korean"
)

// xmlDocument is the flattened view of an XML response: every <item> element
// becomes a record, and well-known envelope fields are captured wherever they sit.
type xmlDocument struct {
	Items  []entity.RawRecord
	Fields map[string]string
}

var envelopeFields = map[string]bool{
	"resultCode":       true,
	"resultMsg":        true,
	"totalCount":       true,
	"returnReasonCode": true,
	"returnAuthMsg":    true,
	"errMsg":           true,
	"err":              true,
}

// parseXMLItems walks the document token by token. Element names are matched on
// their local part, so the default namespace the gateway sometimes adds is ignored.
func parseXMLItems(body []byte, itemTag string) (*xmlDocument, error) {
	doc := &xmlDocument{Fields: map[string]string{}}
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(charset) {
		case "utf-8", "utf8":
			return input, nil
		case "euc-kr", "euckr", "cp949", "ks_c_5601-1987":
			return korean.EUCKR.NewDecoder().Reader(input), nil
		}
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}

	var (
		current  entity.RawRecord
		depth    int // depth inside the current item, 0 when outside
		leaf     string
		text     strings.Builder
		sawRoot  bool
		envField string
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			sawRoot = true
			name := t.Name.Local
			switch {
			case current == nil && name == itemTag:
				current = entity.RawRecord{}
				depth = 1
			case current != nil:
				depth++
				leaf = name
				text.Reset()
			case envelopeFields[name]:
				envField = name
				text.Reset()
			}
		case xml.CharData:
			if leaf != "" || envField != "" {
				text.Write(t)
			}
		case xml.EndElement:
			name := t.Name.Local
			switch {
			case current != nil && depth == 1 && name == itemTag:
				doc.Items = append(doc.Items, current)
				current = nil
				depth = 0
			case current != nil:
				if leaf == name {
					current[name] = strings.TrimSpace(text.String())
					leaf = ""
				}
				depth--
			case envField == name:
				doc.Fields[name] = strings.TrimSpace(text.String())
				envField = ""
			}
		}
	}

	if !sawRoot {
		return nil, errors.New("malformed XML: empty document")
	}
	return doc, nil
}
