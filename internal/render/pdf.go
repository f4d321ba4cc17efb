package render

import (
	"bytes"
	"fmt"

	"reader-helper/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer lays the result out as an A4 document. The panel font size
// sets the body text size.
type PDFRenderer struct {
	State models.PanelState
}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer(state models.PanelState) *PDFRenderer {
	return &PDFRenderer{State: state}
}

// pxToPt converts CSS pixels to points
const pxToPt = 0.75

// Render writes the title, headings sized by level and bulleted list items.
func (r *PDFRenderer) Render(result models.ExtractionResult) ([]byte, error) {
	fontSize := r.State.FontSizePx
	if fontSize == 0 {
		fontSize = models.DefaultFontSizePx
	}
	body := float64(fontSize) * pxToPt

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(result.Title, true)
	pdf.SetAutoPageBreak(true, 15)
	if r.State.DarkMode {
		pdf.SetHeaderFunc(func() {
			w, h := pdf.GetPageSize()
			pdf.SetFillColor(30, 30, 30)
			pdf.Rect(0, 0, w, h, "F")
		})
	}
	pdf.AddPage()
	if r.State.DarkMode {
		pdf.SetTextColor(230, 230, 230)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	renderHeading(pdf, tr(result.Title), 1, body)

	for _, g := range groupBlocks(result.Blocks) {
		if g.list {
			pdf.SetFont("Helvetica", "", body)
			for _, item := range g.blocks {
				pdf.MultiCell(0, body*0.5, tr("• "+item.Text), "", "L", false)
			}
			pdf.Ln(2)
			continue
		}

		block := g.blocks[0]
		if block.Kind == models.KindHeading {
			renderHeading(pdf, tr(block.Text), headingLevel(block), body)
			continue
		}
		pdf.SetFont("Helvetica", "", body)
		pdf.MultiCell(0, body*0.5, tr(block.Text), "", "L", false)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

// headingScale sizes h1..h6 relative to the body text
var headingScale = [...]float64{1: 1.8, 2: 1.5, 3: 1.3, 4: 1.2, 5: 1.1, 6: 1.0}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int, body float64) {
	size := body * headingScale[level]
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, text, "", "L", false)
	pdf.Ln(2)
}
