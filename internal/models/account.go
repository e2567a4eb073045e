package models

// Account is a row of the accounts table.
type Account struct {
	AccountID          string  `db:"account_id"`
	WorkplaceID        string  `db:"workplace_id"`
	Code               string  `db:"code"`
	Name               string  `db:"name"`
	Classification     string  `db:"classification"`
	USOAClass          *string `db:"usoa_class"` // Nullable
	IsRetainedEarnings bool    `db:"is_retained_earnings"`
	IsActive           bool    `db:"is_active"`
	AuditFields
}
