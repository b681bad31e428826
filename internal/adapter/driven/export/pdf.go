package export

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/diillson/kr-realestate-report/internal/domain/entity"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth   = 277.0 // A4 landscape minus margins
	pdfMaxColWidth = 45.0
	pdfRowHeight   = 6.0
)

// ExportToPDF renders every sheet as a table on its own page into <base>.pdf.
func (r *ExportRepositoryImpl) ExportToPDF(sheets []entity.Sheet, title string, basePath string) (string, error) {
	path := trimExt(basePath) + ".pdf"

	pdf := gofpdf.New("L", "mm", "A4", "")
	family := "Arial"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if r.pdfFont != "" {
		pdf.AddUTF8Font("report", "", r.pdfFont)
		pdf.AddUTF8Font("report", "B", r.pdfFont)
		pdf.AddUTF8Font("report", "I", r.pdfFont)
		family = "report"
		tr = func(s string) string { return s }
	}
	if err := pdf.Error(); err != nil {
		return "", fmt.Errorf("error loading PDF font %s: %w", r.pdfFont, err)
	}

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	generated := time.Now().Format("2006-01-02")

	for i, sheet := range sheets {
		pdf.AddPage()

		pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
		pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
		pdf.SetFont(family, "B", 14)
		pdf.CellFormat(0, 12, tr(fmt.Sprintf("  %s - %s", title, sheet.Name)), "", 1, "L", true, 0, "")
		pdf.Ln(6)

		colWidth := pdfMaxColWidth
		if n := len(sheet.Header); n > 0 && pdfPageWidth/float64(n) < colWidth {
			colWidth = pdfPageWidth / float64(n)
		}

		pdf.SetFont(family, "B", 9)
		pdf.SetFillColor(221, 235, 247)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		for _, h := range sheet.Header {
			pdf.CellFormat(colWidth, pdfRowHeight+1, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont(family, "", 8)
		for _, row := range sheet.Rows {
			for _, cell := range row {
				align := "L"
				if _, isString := cell.(string); !isString {
					align = "R"
				}
				pdf.CellFormat(colWidth, pdfRowHeight, tr(entity.CellString(cell)), "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}

		pdf.SetY(-15)
		pdf.SetFont(family, "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Generated by kr-realestate-report | %s", generated)), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", i+1)), "", 0, "R", false, 0, "")
	}

	err := writeAtomic(path, func(w io.Writer) error {
		if err := pdf.Output(w); err != nil {
			return fmt.Errorf("error writing PDF file: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return filepath.Abs(path)
}
