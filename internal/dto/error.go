package dto

import "github.com/shopspring/decimal"

// ErrorResponse is the body of every rejected request.
type ErrorResponse struct {
	Error    string           `json:"error"`
	Code     string           `json:"code,omitempty"`
	EntityID string           `json:"entity_id,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Count    *int             `json:"count,omitempty"`
}
