package infra

import (
	"fmt"
	"io"

	"eventdesk/internal/model"

	"github.com/xuri/excelize/v2"
)

// WriteDocumentsXLSX writes a two-sheet workbook: one row per document and
// one row per line item, keyed by document number.
func WriteDocumentsXLSX(w io.Writer, kind model.DocumentKind, docs []*model.Document) error {
	f := excelize.NewFile()
	defer f.Close()

	docSheet := kind.Label() + "s"
	itemSheet := "Items"
	if err := f.SetSheetName("Sheet1", docSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(itemSheet); err != nil {
		return err
	}

	headers := []interface{}{"Number", "Client", "Email", "Date"}
	if kind == model.KindQuotation {
		headers = append(headers, "Valid Until")
	} else {
		headers = append(headers, "Payment Method")
	}
	headers = append(headers, "Status", "Subtotal", "Tax", "Total")
	if err := f.SetSheetRow(docSheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetSheetRow(itemSheet, "A1", &[]interface{}{"Number", "Description", "Quantity", "Unit Price", "Total"}); err != nil {
		return err
	}

	itemRow := 2
	for i, d := range docs {
		row := []interface{}{d.Number, d.ClientName, d.ClientEmail}
		if kind == model.KindQuotation {
			row = append(row, d.Date.Format("2006-01-02"), "")
			if d.ValidUntil != nil {
				row[len(row)-1] = d.ValidUntil.Format("2006-01-02")
			}
		} else {
			row = append(row, d.Date.Format("2006-01-02 15:04"), model.PaymentMethodLabel(d.PaymentMethod))
		}
		row = append(row, d.Status, d.Subtotal.InexactFloat64(), d.Tax.InexactFloat64(), d.Total.InexactFloat64())
		if err := f.SetSheetRow(docSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}

		for _, l := range d.Lines {
			line := []interface{}{d.Number, l.Description, l.Quantity, l.UnitPrice.InexactFloat64(), l.Total.InexactFloat64()}
			if err := f.SetSheetRow(itemSheet, fmt.Sprintf("A%d", itemRow), &line); err != nil {
				return err
			}
			itemRow++
		}
	}

	_, err := f.WriteTo(w)
	return err
}
