package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Code identifies the exact rule a LedgerError reports. Codes are comparable with errors.Is:
//
//	errors.Is(err, apperrors.CodePeriodClosed)
type Code string

func (c Code) Error() string { return string(c) }

// NotFound codes.
const (
	CodePeriodNotFound       Code = "PERIOD_NOT_FOUND"
	CodeEntryNotFound        Code = "ENTRY_NOT_FOUND"
	CodeAccountNotFound      Code = "ACCOUNT_NOT_FOUND"
	CodeTrialBalanceNotFound Code = "TRIAL_BALANCE_NOT_FOUND"
	CodeCloseNotFound        Code = "CLOSE_NOT_FOUND"
)

// Conflict codes.
const (
	CodeDuplicateAccountCode        Code = "DUPLICATE_ACCOUNT_CODE"
	CodeDuplicateReference          Code = "DUPLICATE_REFERENCE"
	CodeDuplicateRetainedEarnings   Code = "DUPLICATE_RETAINED_EARNINGS"
	CodePeriodOverlap               Code = "PERIOD_OVERLAP"
	CodeDuplicateClose              Code = "DUPLICATE_CLOSE"
	CodeAlreadyReversed             Code = "ALREADY_REVERSED"
	CodeNetIncomeAlreadyTransferred Code = "NET_INCOME_ALREADY_TRANSFERRED"
)

// InvariantViolation codes.
const (
	CodePeriodClosed               Code = "PERIOD_CLOSED"
	CodeNotBalanced                Code = "NOT_BALANCED"
	CodeEntryCannotBeModified      Code = "ENTRY_CANNOT_BE_MODIFIED"
	CodeNotPosted                  Code = "NOT_POSTED"
	CodeInvalidDateRange           Code = "INVALID_DATE_RANGE"
	CodeAlreadyClosed              Code = "ALREADY_CLOSED"
	CodeNotClosed                  Code = "NOT_CLOSED"
	CodeAccountingEquationMismatch Code = "ACCOUNTING_EQUATION_MISMATCH"
	CodeTrialBalanceFinalized      Code = "TRIAL_BALANCE_FINALIZED"
	CodeTrialBalanceDraft          Code = "TRIAL_BALANCE_DRAFT"
	CodeInvalidLine                Code = "INVALID_LINE"
	CodeAccountInactive            Code = "ACCOUNT_INACTIVE"
	CodeClassificationLocked       Code = "CLASSIFICATION_LOCKED"
	CodeEntryDateOutsidePeriod     Code = "ENTRY_DATE_OUTSIDE_PERIOD"
	CodeCannotReverseReversal      Code = "CANNOT_REVERSE_REVERSAL"
	CodeNotYearEnd                 Code = "NOT_YEAR_END"
	CodeCloseTypeMismatch          Code = "CLOSE_TYPE_MISMATCH"
	CodeInvalidCloseTransition     Code = "INVALID_CLOSE_TRANSITION"
	CodeTaskNotFound               Code = "TASK_NOT_FOUND"
	CodeTaskNotManual              Code = "TASK_NOT_MANUAL"
	CodeIssueNotFound              Code = "ISSUE_NOT_FOUND"
	CodeNoRetainedEarningsAccount  Code = "NO_RETAINED_EARNINGS_ACCOUNT"
)

// PreconditionNotMet codes.
const (
	CodePendingTasks             Code = "PENDING_TASKS"
	CodeUnresolvedCriticalIssues Code = "UNRESOLVED_CRITICAL_ISSUES"
	CodeTrialBalanceNotBalanced  Code = "TRIAL_BALANCE_NOT_BALANCED"
	CodeTrialBalanceNotFinalized Code = "TRIAL_BALANCE_NOT_FINALIZED"
	CodeNetIncomeNotTransferred  Code = "NET_INCOME_NOT_TRANSFERRED"
	CodeTrialBalanceStale        Code = "TRIAL_BALANCE_STALE"
)

// CodeConcurrencyConflict is reported when storage aborted the transaction because of a concurrent writer.
const CodeConcurrencyConflict Code = "CONCURRENCY_CONFLICT"

// LedgerError is the single error type returned by the ledger core for rejected operations.
// Kind is one of the package sentinels (ErrNotFound, ErrConflict, ErrInvariantViolation,
// ErrPreconditionNotMet, ErrConcurrencyConflict); payload fields carry the quantities a
// caller needs to remediate.
type LedgerError struct {
	Kind     error
	Code     Code
	Message  string
	EntityID string
	Amount   *decimal.Decimal
	Count    *int
	Err      error
}

func (e *LedgerError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches either the kind sentinel or the code.
func (e *LedgerError) Is(target error) bool {
	if code, ok := target.(Code); ok {
		return e.Code == code
	}
	return e.Kind != nil && target == e.Kind
}

func (e *LedgerError) Unwrap() error { return e.Err }

// WithEntity attaches the id of the entity the rule failed on.
func (e *LedgerError) WithEntity(id string) *LedgerError {
	e.EntityID = id
	return e
}

// WithAmount attaches a monetary quantity (out-of-balance delta, net income, ...).
func (e *LedgerError) WithAmount(amount decimal.Decimal) *LedgerError {
	e.Amount = &amount
	return e
}

// WithCount attaches a count (pending tasks, unresolved issues, ...).
func (e *LedgerError) WithCount(n int) *LedgerError {
	e.Count = &n
	return e
}

// Wrap records the underlying cause.
func (e *LedgerError) Wrap(err error) *LedgerError {
	e.Err = err
	return e
}

func newLedgerError(kind error, code Code, format string, args ...any) *LedgerError {
	return &LedgerError{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a NotFound error for the given entity.
func NotFound(code Code, entityID string, format string, args ...any) *LedgerError {
	return newLedgerError(ErrNotFound, code, format, args...).WithEntity(entityID)
}

// Conflict builds a Conflict error.
func Conflict(code Code, entityID string, format string, args ...any) *LedgerError {
	return newLedgerError(ErrConflict, code, format, args...).WithEntity(entityID)
}

// Invariant builds an InvariantViolation error.
func Invariant(code Code, entityID string, format string, args ...any) *LedgerError {
	return newLedgerError(ErrInvariantViolation, code, format, args...).WithEntity(entityID)
}

// Precondition builds a PreconditionNotMet error.
func Precondition(code Code, entityID string, format string, args ...any) *LedgerError {
	return newLedgerError(ErrPreconditionNotMet, code, format, args...).WithEntity(entityID)
}

// Concurrency builds a ConcurrencyConflict error wrapping the storage cause.
func Concurrency(err error) *LedgerError {
	return newLedgerError(ErrConcurrencyConflict, CodeConcurrencyConflict, "transaction aborted by a concurrent update, retry the operation").Wrap(err)
}

// AsLedgerError extracts the LedgerError from an error chain.
func AsLedgerError(err error) (*LedgerError, bool) {
	var le *LedgerError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
