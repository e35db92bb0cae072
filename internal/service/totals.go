package service

import (
	"fmt"

	"eventdesk/internal/dto"

	"github.com/shopspring/decimal"
)

// MaxAmount is the largest value a decimal(12,2) money column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// LineInput is one (quantity, unit price) pair fed to CalculateTotals.
type LineInput struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Totals is the result of CalculateTotals. LineTotals is index-aligned with
// the input lines.
type Totals struct {
	LineTotals []decimal.Decimal
	Subtotal   decimal.Decimal
	Total      decimal.Decimal
}

// CalculateTotals computes line totals, their sum and sum + tax. The
// arithmetic is exact; inputs are expected to carry at most two fractional
// digits so the results do too.
func CalculateTotals(lines []LineInput, tax decimal.Decimal) Totals {
	out := Totals{LineTotals: make([]decimal.Decimal, len(lines)), Subtotal: decimal.Zero}
	for i, l := range lines {
		lt := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		out.LineTotals[i] = lt
		out.Subtotal = out.Subtotal.Add(lt)
	}
	out.Total = out.Subtotal.Add(tax)
	return out
}

func linesFromItems(items []dto.ItemRequest) []LineInput {
	lines := make([]LineInput, len(items))
	for i, it := range items {
		lines[i] = LineInput{Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return lines
}

// hasCents reports whether d fits in two fractional digits.
func hasCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// checkMoney returns a validation message for an invalid amount, or "".
func checkMoney(field string, d decimal.Decimal) string {
	if d.IsNegative() {
		return fmt.Sprintf("%s: must not be negative", field)
	}
	if !hasCents(d) {
		return fmt.Sprintf("%s: at most 2 decimal places allowed", field)
	}
	if d.GreaterThan(MaxAmount) {
		return fmt.Sprintf("%s: must be at most %s", field, MaxAmount.StringFixed(2))
	}
	return ""
}

func totalTooLarge(total decimal.Decimal) string {
	if total.GreaterThan(MaxAmount) {
		return "total: must be at most " + MaxAmount.StringFixed(2)
	}
	return ""
}

// checkTotals reports line totals and a subtotal that would not fit their
// columns. The total depends on the stored tax on updates and is checked by
// the caller.
func checkTotals(t Totals) []string {
	var errs []string
	for i, lt := range t.LineTotals {
		if lt.GreaterThan(MaxAmount) {
			errs = append(errs, fmt.Sprintf("items[%d]: line total must be at most %s", i, MaxAmount.StringFixed(2)))
		}
	}
	if t.Subtotal.GreaterThan(MaxAmount) {
		errs = append(errs, "subtotal: must be at most "+MaxAmount.StringFixed(2))
	}
	return errs
}

// checkItems validates every line and returns one message per violation.
func checkItems(items []dto.ItemRequest) []string {
	var errs []string
	for i, it := range items {
		if it.Description == "" {
			errs = append(errs, fmt.Sprintf("items[%d].description: this field is required", i))
		}
		if it.Quantity < 1 {
			errs = append(errs, fmt.Sprintf("items[%d].quantity: must be at least 1", i))
		}
		if msg := checkMoney(fmt.Sprintf("items[%d].unit_price", i), it.UnitPrice); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}
