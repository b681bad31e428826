package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/diillson/kr-realestate-report/internal/domain/entity"
	"github.com/diillson/kr-realestate-report/internal/domain/repository"
	"github.com/diillson/kr-realestate-report/internal/shared/types"
	"gopkg.in/yaml.v3"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	pdfFont string
}

// NewExportRepository creates the exporter. pdfFont is an optional TTF path used
// for PDF output so Hangul renders; without it the PDF falls back to Arial,
// which only covers Latin text.
func NewExportRepository(pdfFont string) repository.ExportRepository {
	return &ExportRepositoryImpl{pdfFont: pdfFont}
}

// --- Side exports ---

// ExportToCSV writes one CSV per sheet next to basePath: <base>_<sheet>.csv.
func (r *ExportRepositoryImpl) ExportToCSV(sheets []entity.Sheet, basePath string) ([]string, error) {
	var written []string
	for _, sheet := range sheets {
		path := fmt.Sprintf("%s_%s.csv", trimExt(basePath), fileSafe(sheet.Name))
		err := writeAtomic(path, func(w io.Writer) error {
			// BOM so Excel opens Hangul CSVs as UTF-8.
			if _, err := w.Write([]byte("\xEF\xBB\xBF")); err != nil {
				return err
			}
			writer := csv.NewWriter(w)
			if err := writer.Write(sheet.Header); err != nil {
				return fmt.Errorf("error writing CSV header: %w", err)
			}
			for _, row := range sheet.Rows {
				record := make([]string, len(row))
				for i, cell := range row {
					record[i] = entity.CellString(cell)
				}
				if err := writer.Write(record); err != nil {
					return fmt.Errorf("error writing CSV record: %w", err)
				}
			}
			writer.Flush()
			return writer.Error()
		})
		if err != nil {
			return written, err
		}
		abs, _ := filepath.Abs(path)
		written = append(written, abs)
	}
	return written, nil
}

// ExportToJSON writes every sheet into <base>.json.
func (r *ExportRepositoryImpl) ExportToJSON(sheets []entity.Sheet, basePath string) (string, error) {
	path := trimExt(basePath) + ".json"
	err := writeAtomic(path, func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(sheets); err != nil {
			return fmt.Errorf("error encoding JSON data: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return filepath.Abs(path)
}

// ExportToYAML writes every sheet into <base>.yaml.
func (r *ExportRepositoryImpl) ExportToYAML(sheets []entity.Sheet, basePath string) (string, error) {
	path := trimExt(basePath) + ".yaml"
	err := writeAtomic(path, func(w io.Writer) error {
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(sheets); err != nil {
			return fmt.Errorf("error encoding YAML data: %w", err)
		}
		return encoder.Close()
	})
	if err != nil {
		return "", err
	}
	return filepath.Abs(path)
}

// --- Funções Auxiliares ---

// writeAtomic writes through a temp file in the destination directory and renames
// it into place, so a failed write never leaves a truncated file at path.
func writeAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &types.IOError{Op: "create directory", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &types.IOError{Op: "create", Path: path, Err: err}
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := write(tmp); err != nil {
		return &types.IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &types.IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return &types.IOError{Op: "rename", Path: path, Err: err}
	}
	committed = true
	return nil
}

func trimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

var unsafeFileChars = strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_", " ", "_")

func fileSafe(name string) string {
	return unsafeFileChars.Replace(name)
}
