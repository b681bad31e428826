package repository

import (
	"github.com/diillson/kr-realestate-report/internal/domain/entity"
)

// ExportRepository writes report sheets to disk. Every method returns the
// absolute path of what it wrote.
type ExportRepository interface {
	WriteWorkbook(sheets []entity.Sheet, path string) (string, error)

	ExportToCSV(sheets []entity.Sheet, basePath string) ([]string, error)
	ExportToJSON(sheets []entity.Sheet, basePath string) (string, error)
	ExportToYAML(sheets []entity.Sheet, basePath string) (string, error)
	ExportToPDF(sheets []entity.Sheet, title string, basePath string) (string, error)
}
