package domain

import (
	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AccountClassification defines the fundamental accounting type of an account.
type AccountClassification string

const (
	Asset     AccountClassification = "ASSET"
	Liability AccountClassification = "LIABILITY"
	Equity    AccountClassification = "EQUITY"
	Revenue   AccountClassification = "REVENUE"
	Expense   AccountClassification = "EXPENSE"
)

// IsValid reports whether c is one of the five classifications.
func (c AccountClassification) IsValid() bool {
	switch c {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal is true for classifications whose balance grows with debits (assets, expenses).
func (c AccountClassification) IsDebitNormal() bool {
	return c == Asset || c == Expense
}

// IsTemporary is true for income statement accounts that are zeroed by the year-end transfer.
func (c AccountClassification) IsTemporary() bool {
	return c == Revenue || c == Expense
}

// Account is an entry in a workplace's chart of accounts.
type Account struct {
	AccountID          string                `json:"accountID"`
	WorkplaceID        string                `json:"workplaceID"`
	Code               string                `json:"code"` // unique per workplace, immutable
	Name               string                `json:"name"`
	Classification     AccountClassification `json:"classification"`
	USOAClass          *string               `json:"usoaClass,omitempty"`
	IsRetainedEarnings bool                  `json:"isRetainedEarnings"`
	IsActive           bool                  `json:"isActive"`
	AuditFields
}

// EnsureActive rejects new postings or draft lines against an inactive account.
func (a Account) EnsureActive() error {
	if !a.IsActive {
		return apperrors.Invariant(apperrors.CodeAccountInactive, a.AccountID, "account %s (%s) is inactive", a.Code, a.AccountID)
	}
	return nil
}

// NormalBalance expresses debit and credit totals as a balance on the account's normal side:
// debit minus credit for debit-normal accounts, credit minus debit otherwise.
func (c AccountClassification) NormalBalance(debit, credit decimal.Decimal) decimal.Decimal {
	if c.IsDebitNormal() {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}
