package domain_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tolerance = decimal.RequireFromString("0.01")

func tbLine(id, code string, c domain.AccountClassification, debit, credit string) domain.TrialBalanceLine {
	d, cr := dec(debit), dec(credit)
	return domain.TrialBalanceLine{AccountID: id, AccountCode: code, Classification: c, DebitTotal: d, CreditTotal: cr, Balance: c.NormalBalance(d, cr)}
}

func TestTrialBalance_FinalizeBalanced(t *testing.T) {
	at := time.Now()
	tb := domain.NewTrialBalance("tb-1", "wp-1", "p-1", []domain.TrialBalanceLine{
		tbLine("rev", "4000", domain.Revenue, "0", "100"),
		tbLine("cash", "1000", domain.Asset, "100", "0"),
	}, tolerance, "u", at)

	assert.Equal(t, "1000", tb.Lines[0].AccountCode)
	assert.True(t, tb.IsBalanced)
	assert.True(t, tb.NetIncome().Equal(dec("100")))
	assert.True(t, tb.EquationDelta().IsZero())

	require.NoError(t, tb.Finalize(tolerance, "u", at))
	assert.Equal(t, domain.TrialBalanceFinalized, tb.Status)
	assert.True(t, tb.IsFinalizedAndBalanced())
	assert.ErrorIs(t, tb.Finalize(tolerance, "u", at), apperrors.CodeTrialBalanceFinalized)

	require.NoError(t, tb.Reopen("u", at))
	assert.Equal(t, domain.TrialBalanceDraft, tb.Status)
	assert.ErrorIs(t, tb.Reopen("u", at), apperrors.CodeTrialBalanceDraft)
}

func TestTrialBalance_FinalizeRejectsRandomUnbalancedSets(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	classes := []domain.AccountClassification{domain.Asset, domain.Liability, domain.Equity, domain.Revenue, domain.Expense}

	for i := 0; i < 200; i++ {
		n := 1 + rng.Intn(8)
		lines := make([]domain.TrialBalanceLine, 0, n)
		sumD, sumC := decimal.Zero, decimal.Zero
		for j := 0; j < n; j++ {
			d := decimal.New(int64(rng.Intn(1_000_000)), -2)
			c := decimal.New(int64(rng.Intn(1_000_000)), -2)
			cls := classes[rng.Intn(len(classes))]
			lines = append(lines, domain.TrialBalanceLine{
				AccountID: string(rune('a' + j)), AccountCode: string(rune('a' + j)), Classification: cls,
				DebitTotal: d, CreditTotal: c, Balance: cls.NormalBalance(d, c),
			})
			sumD, sumC = sumD.Add(d), sumC.Add(c)
		}
		if sumD.Sub(sumC).Abs().LessThan(tolerance) {
			continue
		}

		tb := domain.NewTrialBalance("tb", "wp", "p", lines, tolerance, "u", time.Now())
		require.False(t, tb.IsBalanced)

		err := tb.Finalize(tolerance, "u", time.Now())
		require.ErrorIs(t, err, apperrors.CodeNotBalanced)
		le, ok := apperrors.AsLedgerError(err)
		require.True(t, ok)
		assert.True(t, le.Amount.Equal(sumD.Sub(sumC)), "iteration %d: got %s want %s", i, le.Amount, sumD.Sub(sumC))
		assert.Equal(t, domain.TrialBalanceDraft, tb.Status)
	}
}

func TestTrialBalance_WithinTolerance(t *testing.T) {
	tb := domain.NewTrialBalance("tb", "wp", "p", []domain.TrialBalanceLine{
		tbLine("cash", "1000", domain.Asset, "100.005", "0"),
		tbLine("eq", "3000", domain.Equity, "0", "100"),
	}, tolerance, "u", time.Now())
	assert.True(t, tb.IsBalanced)
	assert.True(t, tb.OutOfBalance.Equal(dec("0.005")))
}

func TestTrialBalance_EquationMismatch(t *testing.T) {
	// Balanced totals but a stored balance that disagrees with its own totals.
	bad := tbLine("cash", "1000", domain.Asset, "100", "0")
	bad.Balance = dec("80")
	tb := domain.NewTrialBalance("tb", "wp", "p", []domain.TrialBalanceLine{
		bad,
		tbLine("eq", "3000", domain.Equity, "0", "100"),
	}, tolerance, "u", time.Now())
	require.True(t, tb.IsBalanced)

	err := tb.Finalize(tolerance, "u", time.Now())
	assert.ErrorIs(t, err, apperrors.CodeAccountingEquationMismatch)
	assert.Equal(t, domain.TrialBalanceDraft, tb.Status)
}

func TestTrialBalance_MatchesProjection(t *testing.T) {
	tb := domain.NewTrialBalance("tb", "wp", "p", []domain.TrialBalanceLine{
		tbLine("cash", "1000", domain.Asset, "100", "0"),
		tbLine("rev", "4000", domain.Revenue, "0", "100"),
	}, tolerance, "u", time.Now())

	rows := []domain.GeneralLedgerEntry{
		{AccountID: "rev", DebitTotal: dec("0"), CreditTotal: dec("100"), Balance: dec("100")},
		{AccountID: "cash", DebitTotal: dec("100"), CreditTotal: dec("0"), Balance: dec("100")},
	}
	assert.True(t, tb.MatchesProjection(rows))

	rows[1].DebitTotal = dec("150")
	assert.False(t, tb.MatchesProjection(rows))
	assert.False(t, tb.MatchesProjection(rows[:1]))
}
