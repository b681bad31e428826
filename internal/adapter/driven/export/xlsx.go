package export

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/diillson/kr-realestate-report/internal/domain/entity"
	"github.com/xuri/excelize/v2"
)

const maxSheetNameLength = 31

// WriteWorkbook writes one worksheet per sheet to path, replacing any existing file.
func (r *ExportRepositoryImpl) WriteWorkbook(sheets []entity.Sheet, path string) (string, error) {
	if len(sheets) == 0 {
		return "", errors.New("no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return "", fmt.Errorf("error creating header style: %w", err)
	}

	used := map[string]bool{}
	for i, sheet := range sheets {
		name := uniqueSheetName(sheet.Name, used)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return "", fmt.Errorf("error naming sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return "", fmt.Errorf("error creating sheet %q: %w", name, err)
		}

		if err := writeSheet(f, name, sheet, headerStyle); err != nil {
			return "", err
		}
	}
	f.SetActiveSheet(0)

	err = writeAtomic(path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
	if err != nil {
		return "", err
	}
	return filepath.Abs(path)
}

func writeSheet(f *excelize.File, name string, sheet entity.Sheet, headerStyle int) error {
	if len(sheet.Header) == 0 {
		return nil
	}

	header := make([]interface{}, len(sheet.Header))
	for i, h := range sheet.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("error writing header of %q: %w", name, err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("error styling header of %q: %w", name, err)
	}

	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("error writing row %d of %q: %w", i+1, name, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(name, "A", lastCol, 14); err != nil {
		return err
	}
	return f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

var invalidSheetChars = strings.NewReplacer("[", "(", "]", ")", ":", "-", "*", "-", "?", "", "/", "-", "\\", "-")

// uniqueSheetName applies the Excel naming rules (no []:*?/\, at most 31
// characters, unique ignoring case).
func uniqueSheetName(name string, used map[string]bool) string {
	name = strings.Trim(invalidSheetChars.Replace(strings.TrimSpace(name)), "'")
	if name == "" {
		name = "Sheet"
	}
	name = truncateRunes(name, maxSheetNameLength)

	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncateRunes(name, maxSheetNameLength-utf8.RuneCountInString(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
