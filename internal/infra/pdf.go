package infra

// pdf.go renders quotations and receipts to A4 PDFs with go-pdf/fpdf:
//   - title with the document number
//   - client block and date lines
//   - item table (Description, Qty, Unit Price, Total), header repeated on
//     every page
//   - Subtotal / Tax / Total

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"eventdesk/internal/model"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	pdfMargin  = 15.0
	pdfLineH   = 6.0
	pdfBottomY = 297.0 - 20.0 // A4 height minus footer space
)

// PDFRenderer lays out documents for one company.
type PDFRenderer struct {
	companyName string
}

func NewPDFRenderer(companyName string) *PDFRenderer {
	return &PDFRenderer{companyName: companyName}
}

// Render writes doc to path, creating the parent directory if needed.
func (r *PDFRenderer) Render(doc *model.Document, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("pdf: create storage dir: %w", err)
	}
	pdf := r.build(doc)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("pdf: write file: %w", err)
	}
	return nil
}

func (r *PDFRenderer) build(doc *model.Document) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(doc.Date)
	pdf.SetModificationDate(doc.Date)
	pdf.SetTitle(fmt.Sprintf("%s %s", doc.Kind.Label(), doc.Number), true)
	pdf.SetAuthor(r.companyName, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*pdfMargin

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(contentW, 5, fmt.Sprintf("%s - page %d", tr(r.companyName), pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 10, tr(fmt.Sprintf("%s #%s", doc.Kind.Label(), doc.Number)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, pdfLineH, tr(r.companyName), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Client and dates ─────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, pdfLineH, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, pdfLineH, tr(doc.ClientName), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, pdfLineH, tr(doc.ClientEmail), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for _, line := range r.infoLines(doc) {
		pdf.CellFormat(contentW, pdfLineH, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Items ────────────────────────────────────────────────────────────────
	cols := []float64{contentW * 0.52, contentW * 0.12, contentW * 0.18, contentW * 0.18}
	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range []string{"Description", "Qty", "Unit Price", "Total"} {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(cols[i], 8, h, "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
	}
	header()

	for _, l := range doc.Lines {
		desc := pdf.SplitText(tr(l.Description), cols[0]-2)
		if len(desc) == 0 {
			desc = []string{""}
		}
		rowH := float64(len(desc)) * pdfLineH
		if pdf.GetY()+rowH > pdfBottomY {
			pdf.AddPage()
			header()
		}
		x, y := pdf.GetXY()
		pdf.MultiCell(cols[0], pdfLineH, strings.Join(desc, "\n"), "1", "L", false)
		pdf.SetXY(x+cols[0], y)
		pdf.CellFormat(cols[1], rowH, fmt.Sprintf("%d", l.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[2], rowH, l.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], rowH, l.Total.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.SetXY(x, y+rowH)
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	if pdf.GetY()+4*pdfLineH > pdfBottomY {
		pdf.AddPage()
	}
	pdf.Ln(4)
	labelW := cols[0] + cols[1] + cols[2]
	totals := []struct {
		label, value string
		bold         bool
	}{
		{"Subtotal:", doc.Subtotal.StringFixed(2), false},
		{"Tax:", doc.Tax.StringFixed(2), false},
		{"Total:", doc.Total.StringFixed(2), true},
	}
	for _, t := range totals {
		style := ""
		if t.bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 11)
		pdf.CellFormat(labelW, 7, t.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], 7, t.value, "", 1, "R", false, 0, "")
	}

	if doc.Terms != "" || doc.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 9)
		for _, txt := range []string{doc.Terms, doc.Notes} {
			if txt == "" {
				continue
			}
			if pdf.GetY()+2*pdfLineH > pdfBottomY {
				pdf.AddPage()
			}
			pdf.MultiCell(contentW, 5, tr(txt), "", "L", false)
		}
	}
	return pdf
}

func (r *PDFRenderer) infoLines(doc *model.Document) []string {
	// Casers are stateful; one per call.
	status := cases.Title(language.English).String(strings.ToLower(strings.ReplaceAll(doc.Status, "_", " ")))
	switch doc.Kind {
	case model.KindQuotation:
		lines := []string{"Date: " + doc.Date.Format("January 2, 2006")}
		if doc.ValidUntil != nil {
			lines = append(lines, "Valid until: "+doc.ValidUntil.Format("January 2, 2006"))
		}
		return append(lines, "Status: "+status)
	default:
		return []string{
			"Date: " + doc.Date.Format("January 2, 2006 15:04"),
			"Payment method: " + model.PaymentMethodLabel(doc.PaymentMethod),
			"Status: " + status,
		}
	}
}
