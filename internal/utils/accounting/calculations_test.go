package accounting_test

import (
	"testing"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateSignedAmount(t *testing.T) {
	tests := []struct {
		name   string
		debit  string
		credit string
		cls    domain.AccountClassification
		want   string
	}{
		{"debit asset", "10", "0", domain.Asset, "10"},
		{"credit asset", "0", "10", domain.Asset, "-10"},
		{"debit expense", "5", "0", domain.Expense, "5"},
		{"debit liability", "10", "0", domain.Liability, "-10"},
		{"credit revenue", "0", "7.5", domain.Revenue, "7.5"},
		{"credit equity", "0", "3", domain.Equity, "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.CalculateSignedAmount(d(tt.debit), d(tt.credit), tt.cls)
			require.NoError(t, err)
			assert.True(t, got.Equal(d(tt.want)), "got %s", got)
		})
	}

	_, err := accounting.CalculateSignedAmount(d("1"), d("0"), "BOGUS")
	assert.Error(t, err)
}

func TestAggregateDeltas(t *testing.T) {
	lines := []domain.PostedLine{
		{AccountID: "cash", DebitAmount: d("100"), CreditAmount: d("0")},
		{AccountID: "rev", DebitAmount: d("0"), CreditAmount: d("100")},
		{AccountID: "cash", DebitAmount: d("0"), CreditAmount: d("30")},
		{AccountID: "exp", DebitAmount: d("30"), CreditAmount: d("0")},
	}
	cls := map[string]domain.AccountClassification{"cash": domain.Asset, "rev": domain.Revenue, "exp": domain.Expense}

	deltas, err := accounting.AggregateDeltas(lines, cls)
	require.NoError(t, err)
	require.Len(t, deltas, 3)
	assert.Equal(t, "cash", deltas[0].AccountID)
	assert.True(t, deltas[0].SignedAmount().Equal(d("70")))
	assert.True(t, deltas[2].SignedAmount().Equal(d("100")))

	_, err = accounting.AggregateDeltas(lines, map[string]domain.AccountClassification{})
	assert.Error(t, err)
}

func TestProjectRowsAndDiff(t *testing.T) {
	at := time.Now()
	deltas := []domain.LedgerDelta{
		{AccountID: "cash", Classification: domain.Asset, Debit: d("50"), Credit: d("0")},
		{AccountID: "exp", Classification: domain.Expense, Debit: d("0"), Credit: d("50")},
	}
	rows := accounting.ProjectRows("wp", "p", deltas, at)
	require.Len(t, rows, 2)
	assert.True(t, rows[1].Balance.Equal(d("-50")))

	assert.Empty(t, accounting.DiffProjection("wp", "p", rows, rows))

	tampered := []domain.GeneralLedgerEntry{rows[0]}
	tampered[0].Balance = d("49")
	diff := accounting.DiffProjection("wp", "p", rows, tampered)
	require.Len(t, diff, 2)
	assert.Equal(t, "cash", diff[0].AccountID)
	assert.Equal(t, "exp", diff[1].AccountID)
	assert.True(t, diff[1].Actual.Balance.IsZero())
}
