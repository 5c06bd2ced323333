package database

import (
	"context"
	"errors"

	"payyourfriends/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrMemberUnknown = errors.New("no group membership for this email")
)

// Store is the persistence boundary shared by the API and the report job.
type Store interface {
	ListRecords(ctx context.Context, group string) ([]models.ExpenseRecord, error)
	GetRecord(ctx context.Context, group, id string) (models.ExpenseRecord, error)
	CreateRecord(ctx context.Context, group string, record models.ExpenseRecord) (models.ExpenseRecord, error)
	// ToggleParticipant flips person between paid and pending as one atomic
	// update. requester must be the record's fronter.
	ToggleParticipant(ctx context.Context, group, id, requester, person string) (models.ExpenseRecord, error)
	// DeleteRecord removes a settled record on behalf of its fronter. The
	// check and the removal happen atomically.
	DeleteRecord(ctx context.Context, group, id, requester string) error
	MemberEmails(ctx context.Context, group string) (models.EmailDirectory, error)
	MemberNames(ctx context.Context, group string) ([]string, error)
	LookupMember(ctx context.Context, email string) (models.Member, error)
	Close() error
}
