package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"payyourfriends/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(fronter string, participants ...string) models.ExpenseRecord {
	return models.NewExpenseRecord(fronter, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "Lunch", decimal.RequireFromString("30"), participants)
}

func TestMemoryStoreRecords(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first, err := s.CreateRecord(ctx, "flat", newRecord("Ana", "Ben"))
	require.NoError(t, err)
	second, err := s.CreateRecord(ctx, "flat", newRecord("Ben", "Ana"))
	require.NoError(t, err)
	_, err = s.CreateRecord(ctx, "other", newRecord("Zed"))
	require.NoError(t, err)

	records, err := s.ListRecords(ctx, "flat")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, second.ID, records[1].ID)

	got, err := s.GetRecord(ctx, "flat", first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FrontedBy)

	_, err = s.GetRecord(ctx, "other", first.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteRecord(ctx, "flat", first.ID, "Ana"), models.ErrOutstandingDebt)
	_, err = s.ToggleParticipant(ctx, "flat", first.ID, "Ana", "Ben")
	require.NoError(t, err)
	assert.ErrorIs(t, s.DeleteRecord(ctx, "flat", first.ID, "Ben"), models.ErrNotFronter)
	require.NoError(t, s.DeleteRecord(ctx, "flat", first.ID, "Ana"))
	assert.ErrorIs(t, s.DeleteRecord(ctx, "flat", first.ID, "Ana"), ErrNotFound)
	records, err = s.ListRecords(ctx, "flat")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	created, err := s.CreateRecord(ctx, "flat", newRecord("Ana", "Ben"))
	require.NoError(t, err)

	created.Pending[0] = "Mallory"
	got, err := s.GetRecord(ctx, "flat", created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ben"}, got.Pending)
}

func TestMemoryStoreToggle(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	created, err := s.CreateRecord(ctx, "flat", newRecord("Ana", "Ben", "Cleo"))
	require.NoError(t, err)

	updated, err := s.ToggleParticipant(ctx, "flat", created.ID, "Ana", "Ben")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Ben"}, updated.Paid)
	assert.Equal(t, []string{"Cleo"}, updated.Pending)

	_, err = s.ToggleParticipant(ctx, "flat", created.ID, "Cleo", "Cleo")
	assert.ErrorIs(t, err, models.ErrNotFronter)
	_, err = s.ToggleParticipant(ctx, "flat", created.ID, "Ana", "Ana")
	assert.ErrorIs(t, err, models.ErrFronterToggle)
	_, err = s.ToggleParticipant(ctx, "flat", "nope", "Ana", "Ben")
	assert.ErrorIs(t, err, ErrNotFound)

	stored, err := s.GetRecord(ctx, "flat", created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Paid, stored.Paid)
}

func TestMemoryStoreConcurrentToggles(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	created, err := s.CreateRecord(ctx, "flat", newRecord("Ana", "Ben"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.ToggleParticipant(ctx, "flat", created.ID, "Ana", "Ben")
		}()
	}
	wg.Wait()

	// An even number of toggles leaves Ben pending.
	got, err := s.GetRecord(ctx, "flat", created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ben"}, got.Pending)
	assert.Equal(t, []string{"Ana"}, got.Paid)
}

func TestMemoryStoreMembers(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.AddMember(ctx, models.Member{Email: "Ana@Example.com", Name: "Ana", Group: "flat"}))
	require.NoError(t, s.AddMember(ctx, models.Member{Email: "ben@example.com", Name: "Ben", Group: "flat"}))
	require.NoError(t, s.AddMember(ctx, models.Member{Email: "zed@example.com", Name: "Zed", Group: "other"}))
	require.NoError(t, s.AddMember(ctx, models.Member{Email: "nogroup@example.com", Name: "Nobody"}))

	m, err := s.LookupMember(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", m.Name)
	assert.Equal(t, "flat", m.Group)

	_, err = s.LookupMember(ctx, "nogroup@example.com")
	assert.ErrorIs(t, err, ErrMemberUnknown)
	_, err = s.LookupMember(ctx, "stranger@example.com")
	assert.ErrorIs(t, err, ErrMemberUnknown)

	names, err := s.MemberNames(ctx, "flat")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Ben"}, names)

	dir, err := s.MemberEmails(ctx, "flat")
	require.NoError(t, err)
	email, ok := dir.Lookup("Ana")
	assert.True(t, ok)
	assert.Equal(t, "ana@example.com", email)
}
