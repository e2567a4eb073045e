package dto

import (
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code               string                       `json:"code" yaml:"code" binding:"required,max=32"`
	Name               string                       `json:"name" yaml:"name" binding:"required,max=255"`
	Classification     domain.AccountClassification `json:"classification" yaml:"classification" binding:"required,classification"`
	USOAClass          *string                      `json:"usoaClass" yaml:"usoaClass"` // Optional regulatory sub-classification
	IsRetainedEarnings bool                         `json:"isRetainedEarnings" yaml:"isRetainedEarnings"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
// The code is immutable.
type UpdateAccountRequest struct {
	Name           *string                       `json:"name" binding:"omitempty,max=255"`
	USOAClass      *string                       `json:"usoaClass"`
	Classification *domain.AccountClassification `json:"classification" binding:"omitempty,classification"` // Locked once the account has postings
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID          string                       `json:"accountID"`
	Code               string                       `json:"code"`
	Name               string                       `json:"name"`
	Classification     domain.AccountClassification `json:"classification"`
	USOAClass          *string                      `json:"usoaClass,omitempty"`
	IsRetainedEarnings bool                         `json:"isRetainedEarnings"`
	IsActive           bool                         `json:"isActive"`
	CreatedAt          time.Time                    `json:"createdAt"`
	CreatedBy          string                       `json:"createdBy"`
	LastUpdatedAt      time.Time                    `json:"lastUpdatedAt"`
	LastUpdatedBy      string                       `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:          acc.AccountID,
		Code:               acc.Code,
		Name:               acc.Name,
		Classification:     acc.Classification,
		USOAClass:          acc.USOAClass,
		IsRetainedEarnings: acc.IsRetainedEarnings,
		IsActive:           acc.IsActive,
		CreatedAt:          acc.CreatedAt,
		CreatedBy:          acc.CreatedBy,
		LastUpdatedAt:      acc.LastUpdatedAt,
		LastUpdatedBy:      acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit     int     `form:"limit,default=50" binding:"omitempty,min=1,max=500"`
	NextToken *string `form:"nextToken"`
}

// ListAccountsResponse is a page of accounts ordered by code.
type ListAccountsResponse struct {
	Accounts  []AccountResponse `json:"accounts"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ChartOfAccountsFile is the YAML document accepted by the account import.
type ChartOfAccountsFile struct {
	Accounts []CreateAccountRequest `yaml:"accounts"`
}

// ImportAccountsResult reports what an import created and what already existed.
type ImportAccountsResult struct {
	Created []AccountResponse `json:"created"`
	Skipped []string          `json:"skipped"` // codes already present in the workplace
}
