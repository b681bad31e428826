package region

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/diillson/kr-realestate-report/internal/domain/entity"
	"github.com/diillson/kr-realestate-report/internal/domain/repository"
	"github.com/diillson/kr-realestate-report/internal/shared/types"
	"golang.org/x/text/encoding/korean"
)

// Column names of the legal-dong code table (code_raw.csv).
const (
	colSido       = "시도명"
	colSigungu    = "시군구명"
	colEupmyeon   = "읍면동명"
	colLegalCode  = "법정동코드"
	colSigunguCD  = "시군구코드"
	priceSkipRows = 2
)

// RegionRepositoryImpl resolves region names from the CSV code tables. Tables are
// read on first use and kept for the life of the process.
type RegionRepositoryImpl struct {
	lawdFile  string
	priceFile string

	mu         sync.Mutex
	lawdRows   []map[string]string
	priceCodes map[string]string
}

// NewRegionRepository creates a repository over the two code tables.
func NewRegionRepository(lawdFile, priceFile string) repository.RegionRepository {
	return &RegionRepositoryImpl{lawdFile: lawdFile, priceFile: priceFile}
}

// LawdCode resolves "시도 시군구" or "시도 시군구 읍면동" (and a bare "시도") to the
// first five digits of the legal-dong code.
func (r *RegionRepositoryImpl) LawdCode(regionName string) (entity.Region, error) {
	parts := entity.RegionParts(regionName)
	if len(parts) == 0 || len(parts) > 3 {
		return entity.Region{}, types.NewValidationError("region-name", "use '시도 시군구' or '시도 시군구 읍면동', got %q", regionName)
	}

	rows, err := r.loadLawdRows()
	if err != nil {
		return entity.Region{}, err
	}

	// code_raw.csv variant with only 시군구명,시군구코드
	if len(rows) > 0 {
		if _, ok := rows[0][colLegalCode]; !ok {
			return lookupBySigungu(rows, regionName, parts)
		}
	}

	var match map[string]string
	for _, row := range rows {
		if row[colSido] != parts[0] {
			continue
		}
		switch len(parts) {
		case 1:
			if row[colSigungu] == "" && row[colEupmyeon] == "" {
				match = row
			}
		case 2:
			if row[colSigungu] == parts[1] && row[colEupmyeon] == "" {
				match = row
			}
		case 3:
			if row[colSigungu] == parts[1]+parts[2] || (row[colSigungu] == parts[1] && row[colEupmyeon] == parts[2]) {
				match = row
			}
		}
		if match != nil {
			break
		}
	}
	if match == nil {
		return entity.Region{}, fmt.Errorf("%q: %w", regionName, types.ErrRegionNotFound)
	}

	code := match[colLegalCode]
	if len(code) < 5 {
		return entity.Region{}, fmt.Errorf("%q has a malformed code %q in %s", regionName, code, r.lawdFile)
	}
	return entity.Region{Name: strings.Join(parts, " "), Code: code[:5], Level: len(parts)}, nil
}

func lookupBySigungu(rows []map[string]string, regionName string, parts []string) (entity.Region, error) {
	candidates := []string{strings.Join(parts, " "), parts[len(parts)-1]}
	for _, want := range candidates {
		for _, row := range rows {
			if row[colSigungu] == want && row[colSigunguCD] != "" {
				return entity.Region{Name: strings.Join(parts, " "), Code: row[colSigunguCD], Level: len(parts)}, nil
			}
		}
	}
	return entity.Region{}, fmt.Errorf("%q: %w", regionName, types.ErrRegionNotFound)
}

// PriceIndexCode resolves a classification name of the price code table.
func (r *RegionRepositoryImpl) PriceIndexCode(name string) (entity.Region, error) {
	codes, err := r.loadPriceCodes()
	if err != nil {
		return entity.Region{}, err
	}
	code, ok := codes[name]
	if !ok {
		return entity.Region{}, fmt.Errorf("%q: %w", name, types.ErrRegionNotFound)
	}
	return entity.Region{Name: name, Code: code, Level: len(entity.RegionParts(name))}, nil
}

func (r *RegionRepositoryImpl) loadLawdRows() ([]map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lawdRows != nil {
		return r.lawdRows, nil
	}

	records, err := readCSV(r.lawdFile, 0)
	if err != nil {
		return nil, err
	}
	rows, err := toMaps(records, r.lawdFile)
	if err != nil {
		return nil, err
	}
	r.lawdRows = rows
	return rows, nil
}

func (r *RegionRepositoryImpl) loadPriceCodes() (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.priceCodes != nil {
		return r.priceCodes, nil
	}

	records, err := readCSV(r.priceFile, priceSkipRows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s has no rows", r.priceFile)
	}

	// Header names vary between releases of the table; the first two columns are
	// always classification name and region code.
	codes := make(map[string]string, len(records))
	for _, rec := range records[1:] {
		if len(rec) < 2 {
			continue
		}
		name := strings.TrimSpace(rec[0])
		if _, dup := codes[name]; name == "" || dup {
			continue
		}
		codes[name] = strings.TrimSpace(rec[1])
	}
	r.priceCodes = codes
	return codes, nil
}

// readCSV reads a code table, decoding EUC-KR when the file is not valid UTF-8,
// and drops the first skip lines.
func readCSV(path string, skip int) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.IOError{Op: "read code table", Path: path, Err: err}
	}

	data = bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))
	var reader io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		reader = korean.EUCKR.NewDecoder().Reader(reader)
	}

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	lines := strings.SplitN(string(decoded), "\n", skip+1)
	body := lines[len(lines)-1]
	if len(lines) <= skip {
		body = ""
	}

	csvReader := csv.NewReader(strings.NewReader(body))
	csvReader.FieldsPerRecord = -1
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

func toMaps(records [][]string, path string) ([]map[string]string, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%s has no header", path)
	}
	header := records[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = strings.TrimSpace(rec[i])
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
