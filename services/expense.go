package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"payyourfriends/models"
)

var (
	ErrUnknownParticipant = errors.New("participant is not a member of this group")
	ErrInvalidDate        = errors.New("date must be formatted as YYYY-MM-DD")
)

// ExpenseStore is the storage the expense service works against.
type ExpenseStore interface {
	ListRecords(ctx context.Context, group string) ([]models.ExpenseRecord, error)
	CreateRecord(ctx context.Context, group string, record models.ExpenseRecord) (models.ExpenseRecord, error)
	ToggleParticipant(ctx context.Context, group, id, requester, person string) (models.ExpenseRecord, error)
	DeleteRecord(ctx context.Context, group, id, requester string) error
	MemberNames(ctx context.Context, group string) ([]string, error)
}

type ExpenseService struct {
	store    ExpenseStore
	cache    *AnalyticsCache
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

func NewExpenseService(store ExpenseStore, cache *AnalyticsCache, location *time.Location, logger *slog.Logger) *ExpenseService {
	if location == nil {
		location = time.UTC
	}
	return &ExpenseService{
		store:    store,
		cache:    cache,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// List returns the group's records sorted by date, newest first unless
// order is "asc".
func (s *ExpenseService) List(ctx context.Context, group, order string) ([]models.ExpenseRecord, error) {
	records, err := s.store.ListRecords(ctx, group)
	if err != nil {
		return nil, err
	}
	asc := strings.EqualFold(order, "asc")
	sort.SliceStable(records, func(i, j int) bool {
		if asc {
			return records[i].Date.Before(records[j].Date.Time)
		}
		return records[i].Date.After(records[j].Date.Time)
	})
	return records, nil
}

// Create records an expense fronted by member.
func (s *ExpenseService) Create(ctx context.Context, member models.Member, req models.CreateExpenseRequest) (models.ExpenseRecord, error) {
	if req.Amount.IsNegative() {
		return models.ExpenseRecord{}, models.ErrNegativeAmount
	}
	if req.Amount.IsZero() {
		return models.ExpenseRecord{}, models.ErrZeroAmount
	}

	date := s.now().In(s.location)
	if req.Date != "" {
		parsed, err := models.ParseDate(req.Date)
		if err != nil {
			return models.ExpenseRecord{}, ErrInvalidDate
		}
		date = parsed.Time
	}

	names, err := s.store.MemberNames(ctx, member.Group)
	if err != nil {
		return models.ExpenseRecord{}, fmt.Errorf("load members: %w", err)
	}
	if len(names) > 0 {
		for _, p := range req.Participants {
			if p != member.Name && !slices.Contains(names, p) {
				return models.ExpenseRecord{}, fmt.Errorf("%w: %s", ErrUnknownParticipant, p)
			}
		}
	}

	record := models.NewExpenseRecord(member.Name, date, strings.TrimSpace(req.Description), req.Amount, req.Participants)
	if err := record.Validate(); err != nil {
		return models.ExpenseRecord{}, err
	}

	created, err := s.store.CreateRecord(ctx, member.Group, record)
	if err != nil {
		return models.ExpenseRecord{}, err
	}
	s.cache.Invalidate(ctx, member.Group)
	s.logger.InfoContext(ctx, "expense added",
		"group", member.Group,
		"id", created.ID,
		"fronted_by", created.FrontedBy,
		"amount", created.TotalAmount.StringFixed(2))
	return created, nil
}

// Toggle flips person between paid and pending on one of member's records.
// Only the fronter may mark a share as paid.
func (s *ExpenseService) Toggle(ctx context.Context, member models.Member, id, person string) (models.ExpenseRecord, error) {
	record, err := s.store.ToggleParticipant(ctx, member.Group, id, member.Name, person)
	if err != nil {
		return models.ExpenseRecord{}, err
	}
	s.cache.Invalidate(ctx, member.Group)
	s.logger.InfoContext(ctx, "updated payment status",
		"group", member.Group,
		"id", id,
		"person", person,
		"paid", record.IsPaid(person))
	return record, nil
}

// Delete removes a fully settled record. Only its fronter may delete it.
func (s *ExpenseService) Delete(ctx context.Context, member models.Member, id string) error {
	if err := s.store.DeleteRecord(ctx, member.Group, id, member.Name); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, member.Group)
	s.logger.InfoContext(ctx, "expense deleted", "group", member.Group, "id", id)
	return nil
}

// Analytics summarizes the group's records as of now.
func (s *ExpenseService) Analytics(ctx context.Context, group string) (models.Analytics, error) {
	asOf := s.now().In(s.location)
	return s.cache.Fetch(ctx, group, asOf, func(ctx context.Context) (models.Analytics, error) {
		records, err := s.store.ListRecords(ctx, group)
		if err != nil {
			return models.Analytics{}, err
		}
		return Summarize(records, asOf), nil
	})
}

// Balances lists what each person in the group still owes.
func (s *ExpenseService) Balances(ctx context.Context, group string) ([]models.PersonBalance, error) {
	records, err := s.store.ListRecords(ctx, group)
	if err != nil {
		return nil, err
	}
	return Balances(records), nil
}

func (s *ExpenseService) Members(ctx context.Context, group string) ([]string, error) {
	return s.store.MemberNames(ctx, group)
}
