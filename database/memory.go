package database

import (
	"context"
	"sort"
	"strings"
	"sync"

	"payyourfriends/models"

	"github.com/google/uuid"
)

// MemoryStore keeps everything in process. Used for local runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]map[string]models.ExpenseRecord // group -> id -> record
	order   map[string][]string                        // group -> ids in insertion order
	members map[string]models.Member                   // lower-cased email -> member
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]map[string]models.ExpenseRecord),
		order:   make(map[string][]string),
		members: make(map[string]models.Member),
	}
}

// AddMember registers a member of a group.
func (s *MemoryStore) AddMember(_ context.Context, m models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	s.members[m.Email] = m
	return nil
}

func (s *MemoryStore) ListRecords(ctx context.Context, group string) ([]models.ExpenseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ExpenseRecord, 0, len(s.order[group]))
	for _, id := range s.order[group] {
		out = append(out, cloneRecord(s.records[group][id]))
	}
	return out, nil
}

func (s *MemoryStore) GetRecord(ctx context.Context, group, id string) (models.ExpenseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[group][id]
	if !ok {
		return models.ExpenseRecord{}, ErrNotFound
	}
	return cloneRecord(r), nil
}

func (s *MemoryStore) CreateRecord(ctx context.Context, group string, record models.ExpenseRecord) (models.ExpenseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record = cloneRecord(record)
	record.ID = uuid.NewString()
	if s.records[group] == nil {
		s.records[group] = make(map[string]models.ExpenseRecord)
	}
	s.records[group][record.ID] = record
	s.order[group] = append(s.order[group], record.ID)
	return cloneRecord(record), nil
}

func (s *MemoryStore) ToggleParticipant(ctx context.Context, group, id, requester, person string) (models.ExpenseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[group][id]
	if !ok {
		return models.ExpenseRecord{}, ErrNotFound
	}
	r = cloneRecord(r)
	if err := r.ToggleBy(requester, person); err != nil {
		return models.ExpenseRecord{}, err
	}
	s.records[group][id] = r
	return cloneRecord(r), nil
}

func (s *MemoryStore) DeleteRecord(ctx context.Context, group, id, requester string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[group][id]
	if !ok {
		return ErrNotFound
	}
	if err := r.CanDelete(requester); err != nil {
		return err
	}
	delete(s.records[group], id)
	ids := s.order[group]
	for i, existing := range ids {
		if existing == id {
			s.order[group] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) MemberEmails(ctx context.Context, group string) (models.EmailDirectory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dir := make(models.EmailDirectory)
	for _, m := range s.members {
		if m.Group == group && m.Name != "" {
			dir[m.Name] = m.Email
		}
	}
	return dir, nil
}

func (s *MemoryStore) MemberNames(ctx context.Context, group string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	for _, m := range s.members {
		if m.Group == group && m.Name != "" {
			names = append(names, m.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) LookupMember(ctx context.Context, email string) (models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[strings.ToLower(email)]
	if !ok || m.Group == "" {
		return models.Member{}, ErrMemberUnknown
	}
	return m, nil
}

func (s *MemoryStore) Close() error { return nil }

func cloneRecord(r models.ExpenseRecord) models.ExpenseRecord {
	r.Involved = append([]string(nil), r.Involved...)
	r.Paid = append([]string(nil), r.Paid...)
	r.Pending = append([]string{}, r.Pending...)
	return r
}
