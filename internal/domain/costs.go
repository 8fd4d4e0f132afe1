package domain

import "github.com/shopspring/decimal"

// CostLineItem is one applied fee with the running total after it. Amounts
// are rounded to the currency's minor unit for display; the grand total is
// computed from unrounded intermediates and rounded once.
type CostLineItem struct {
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	RunningTotal decimal.Decimal `json:"running_total"`
}

// CostBreakdown is the calculator's output. Breakdowns are owned by the
// invoking computation: recomputed on every call, never mutated in place.
type CostBreakdown struct {
	JurisdictionCode string          `json:"jurisdiction_code"`
	Currency         string          `json:"currency"`
	LineItems        []CostLineItem  `json:"line_items"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
}
