package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind identifies a numbered document type. Its value is also the
// human-facing number prefix.
type DocumentKind string

const (
	KindQuotation DocumentKind = "QT"
	KindReceipt   DocumentKind = "RC"
)

// Label is the English name of the kind ("Quotation", "Receipt").
func (k DocumentKind) Label() string {
	switch k {
	case KindQuotation:
		return "Quotation"
	case KindReceipt:
		return "Receipt"
	default:
		return string(k)
	}
}

// FormatNumber renders a sequence value as QT-00001 / RC-00001.
func FormatNumber(kind DocumentKind, seq int64) string {
	return fmt.Sprintf("%s-%05d", kind, seq)
}

// ParseNumber extracts the numeric suffix of a document number issued for kind.
func ParseNumber(kind DocumentKind, number string) (int64, error) {
	prefix, suffix, ok := strings.Cut(number, "-")
	if !ok || prefix != string(kind) || suffix == "" {
		return 0, fmt.Errorf("malformed %s number %q", kind.Label(), number)
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("malformed %s number %q", kind.Label(), number)
		}
	}
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("malformed %s number %q", kind.Label(), number)
	}
	return n, nil
}

// DocumentSequence is the per-kind counter backing document numbers.
// LastValue is the last sequence value handed out for Kind.
type DocumentSequence struct {
	Kind      DocumentKind `gorm:"type:varchar(8);primaryKey"`
	LastValue int64        `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// Document is the kind-independent view of a quotation or receipt handed to
// the renderer, the mailer and the spreadsheet export.
type Document struct {
	Kind          DocumentKind
	ID            uint
	Number        string
	ClientName    string
	ClientEmail   string
	Date          time.Time
	ValidUntil    *time.Time // quotations only
	PaymentMethod string     // receipts only
	Status        string
	Terms         string
	Notes         string
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	Lines         []DocumentLine
}

type DocumentLine struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// Document returns the printable view of q. Client and Items must be loaded.
func (q *Quotation) Document() *Document {
	validUntil := q.ValidUntil
	d := &Document{
		Kind:       KindQuotation,
		ID:         q.ID,
		Number:     q.QuotationNumber,
		Date:       q.Date,
		ValidUntil: &validUntil,
		Status:     q.Status,
		Terms:      q.Terms,
		Notes:      q.Notes,
		Subtotal:   q.Subtotal,
		Tax:        q.Tax,
		Total:      q.Total,
		Lines:      make([]DocumentLine, len(q.Items)),
	}
	if q.Client != nil {
		d.ClientName, d.ClientEmail = q.Client.Name, q.Client.Email
	}
	for i, it := range q.Items {
		d.Lines[i] = DocumentLine{it.Description, it.Quantity, it.UnitPrice, it.Total}
	}
	return d
}

// Document returns the printable view of rc. Client and Items must be loaded.
func (rc *Receipt) Document() *Document {
	d := &Document{
		Kind:          KindReceipt,
		ID:            rc.ID,
		Number:        rc.ReceiptNumber,
		Date:          rc.Date,
		PaymentMethod: rc.PaymentMethod,
		Status:        rc.Status,
		Notes:         rc.Notes,
		Subtotal:      rc.Subtotal,
		Tax:           rc.Tax,
		Total:         rc.Total,
		Lines:         make([]DocumentLine, len(rc.Items)),
	}
	if rc.Client != nil {
		d.ClientName, d.ClientEmail = rc.Client.Name, rc.Client.Email
	}
	for i, it := range rc.Items {
		d.Lines[i] = DocumentLine{it.Description, it.Quantity, it.UnitPrice, it.Total}
	}
	return d
}
