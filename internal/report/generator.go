package report

import (
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

// Generator writes a report document to path
type Generator interface {
	Extension() string
	Render(data Data, path string) error
}

// NewGenerator picks a generator by format name ("pdf" or "xlsx")
func NewGenerator(format string) (Generator, error) {
	switch format {
	case "pdf":
		return PDFGenerator{}, nil
	case "xlsx":
		return XLSXGenerator{}, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

// PDFGenerator renders a letter-sized PDF
type PDFGenerator struct{}

func (PDFGenerator) Extension() string { return "pdf" }

func (PDFGenerator) Render(data Data, path string) error {
	const lineHeight = 15

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetTitle(Title+" - "+data.Domain, true)
	pdf.SetMargins(40, 40, 40)
	pdf.SetAutoPageBreak(true, 40)
	pdf.AddPage()

	// core fonts are cp1252; URLs are mostly ASCII but IDNs may not be
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, line := range Layout(data) {
		switch line.Style {
		case StyleBlank:
			pdf.Ln(lineHeight)
			continue
		case StyleTitle:
			pdf.SetFont("Helvetica", "B", 14)
		case StyleHeading:
			pdf.SetFont("Helvetica", "B", 12)
		default:
			pdf.SetFont("Helvetica", "", 12)
		}
		pdf.MultiCell(0, lineHeight, tr(line.Text), "", "L", false)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF report: %w", err)
	}
	return nil
}

// XLSXGenerator renders a single-sheet workbook, one report line per row
type XLSXGenerator struct{}

// SheetName is the worksheet holding the report
const SheetName = "Link Report"

func (XLSXGenerator) Extension() string { return "xlsx" }

func (XLSXGenerator) Render(data Data, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", "A", 100); err != nil {
		return fmt.Errorf("failed to size column: %w", err)
	}

	for i, line := range Layout(data) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if line.Style == StyleBlank {
			continue
		}
		if err := f.SetCellValue(SheetName, cell, line.Text); err != nil {
			return fmt.Errorf("failed to write %s: %w", cell, err)
		}
		if line.Style == StyleTitle || line.Style == StyleHeading {
			if err := f.SetCellStyle(SheetName, cell, cell, bold); err != nil {
				return fmt.Errorf("failed to style %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write XLSX report: %w", err)
	}
	return nil
}
