package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 15.0
	lineHeight = 6.0
)

// skillColumnWidths sum to the A4 printable width (210 - 2*pageMargin).
var skillColumnWidths = []float64{90, 30, 30, 30}

// Render draws the document on A4 pages with the Helvetica core font.
// Text that cp1252 cannot encode is transliterated first.
func Render(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("go_jobdash", true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	txt := func(s string) string { return tr(Transliterate(s)) }

	for i, s := range doc.Sections {
		switch s.Kind {
		case SectionHeader:
			pdf.SetFont("Helvetica", "B", 18)
			pdf.CellFormat(0, 10, txt(s.Title), "", 1, "C", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			for _, l := range s.Lines {
				pdf.CellFormat(0, lineHeight, txt(l), "", 1, "C", false, 0, "")
			}
		case SectionSkills:
			sectionTitle(pdf, txt(s.Title))
			table(pdf, txt, s.Columns, s.Rows)
		default:
			sectionTitle(pdf, txt(s.Title))
			pdf.SetFont("Helvetica", "", 11)
			for _, l := range s.Lines {
				pdf.MultiCell(0, lineHeight, txt(l), "", "L", false)
			}
		}
		if i < len(doc.Sections)-1 {
			pdf.Ln(4)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("report: layout: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: output: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func table(pdf *fpdf.Fpdf, txt func(string) string, columns []string, rows [][]string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, c := range columns {
		pdf.CellFormat(skillColumnWidths[i%len(skillColumnWidths)], 7, txt(c), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		for i, cell := range row {
			align := "C"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(skillColumnWidths[i%len(skillColumnWidths)], 7, txt(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}
