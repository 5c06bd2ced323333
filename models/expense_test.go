package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareOf(t *testing.T) {
	tests := []struct {
		total string
		n     int
		want  string
	}{
		{"30.00", 3, "10.00"},
		{"30.00", 1, "30.00"},
		{"100.00", 3, "33.33"},
		{"10.00", 0, "0.00"},
	}
	for _, tt := range tests {
		got := ShareOf(decimal.RequireFromString(tt.total), tt.n)
		assert.Equal(t, tt.want, got.StringFixed(2), "%s / %d", tt.total, tt.n)
	}
}

func TestNewExpenseRecord(t *testing.T) {
	date := time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)
	r := NewExpenseRecord("Ana", date, "Dinner", decimal.RequireFromString("30"), []string{"Ben", "Ana", "Cleo", "Ben"})

	assert.Equal(t, []string{"Ana", "Ben", "Cleo"}, r.Involved)
	assert.Equal(t, []string{"Ana"}, r.Paid)
	assert.Equal(t, []string{"Ben", "Cleo"}, r.Pending)
	assert.Equal(t, "10.00", r.PerPersonShare.StringFixed(2))
	assert.Equal(t, "2024-03-09", r.Date.String())
	require.NoError(t, r.Validate())
}

func TestNewExpenseRecordAlone(t *testing.T) {
	r := NewExpenseRecord("Ana", time.Now(), "", decimal.RequireFromString("12.50"), nil)

	assert.Equal(t, UnnamedTransaction, r.Description)
	assert.Equal(t, "12.50", r.PerPersonShare.StringFixed(2))
	assert.Empty(t, r.Pending)
	assert.True(t, r.Settled())
}

func TestToggle(t *testing.T) {
	r := NewExpenseRecord("Ana", time.Now(), "Taxi", decimal.RequireFromString("9"), []string{"Ben", "Cleo"})

	require.NoError(t, r.Toggle("Ben"))
	assert.True(t, r.IsPaid("Ben"))
	assert.Equal(t, []string{"Cleo"}, r.Pending)
	assert.NotContains(t, r.Pending, "Ben")

	require.NoError(t, r.Toggle("Ben"))
	assert.False(t, r.IsPaid("Ben"))
	assert.ElementsMatch(t, []string{"Ben", "Cleo"}, r.Pending)
	assert.Equal(t, []string{"Ana"}, r.Paid)

	assert.ErrorIs(t, r.Toggle("Ana"), ErrFronterToggle)
	assert.ErrorIs(t, r.Toggle("Dana"), ErrNotInvolved)
}

func TestToggleKeepsPaidAndPendingDisjoint(t *testing.T) {
	r := NewExpenseRecord("Ana", time.Now(), "Groceries", decimal.RequireFromString("40"), []string{"Ben", "Cleo", "Dana"})
	for _, person := range []string{"Ben", "Dana", "Ben", "Cleo", "Dana", "Dana"} {
		require.NoError(t, r.Toggle(person))
		for _, p := range r.Paid {
			assert.NotContains(t, r.Pending, p)
		}
		assert.Len(t, r.Involved, len(r.Paid)+len(r.Pending))
	}
}

func TestToggleByRequiresFronter(t *testing.T) {
	r := NewExpenseRecord("Ana", time.Now(), "Rent", decimal.RequireFromString("900"), []string{"Ben"})

	assert.ErrorIs(t, r.ToggleBy("Ben", "Ben"), ErrNotFronter)
	assert.False(t, r.IsPaid("Ben"))

	require.NoError(t, r.ToggleBy("Ana", "Ben"))
	assert.True(t, r.IsPaid("Ben"))
}

func TestCanDelete(t *testing.T) {
	r := NewExpenseRecord("Ana", time.Now(), "Tickets", decimal.RequireFromString("20"), []string{"Ben"})

	assert.ErrorIs(t, r.CanDelete("Ben"), ErrNotFronter)
	assert.ErrorIs(t, r.CanDelete("Ana"), ErrOutstandingDebt)

	require.NoError(t, r.Toggle("Ben"))
	assert.NoError(t, r.CanDelete("Ana"))
}

func TestValidateRejectsNegative(t *testing.T) {
	r := NewExpenseRecord("Ana", time.Now(), "Refund", decimal.RequireFromString("-5"), nil)
	assert.ErrorIs(t, r.Validate(), ErrNegativeAmount)
}
