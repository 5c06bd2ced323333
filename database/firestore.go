package database

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"payyourfriends/models"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore layout:
//
//	users/{email}                        {group, name?}
//	groups/{group}                       one key per member name
//	groups/{group}/users/{name}          {email}
//	groups/{group}/transactions/{id}     expense documents
const (
	groupsCollection       = "groups"
	transactionsCollection = "transactions"
	usersCollection        = "users"
)

// NewFirebaseApp initializes the Firebase Admin app. Inline service-account
// JSON wins over a credentials file; with neither, application default
// credentials are used.
func NewFirebaseApp(ctx context.Context, projectID, credentialsJSON, credentialsFile string) (*firebase.App, error) {
	var opts []option.ClientOption
	switch {
	case credentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	case credentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	var cfg *firebase.Config
	if projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	return app, nil
}

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(ctx context.Context, app *firebase.App) (*FirestoreStore, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("open firestore: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) transactions(group string) *firestore.CollectionRef {
	return s.client.Collection(groupsCollection).Doc(group).Collection(transactionsCollection)
}

func (s *FirestoreStore) ListRecords(ctx context.Context, group string) ([]models.ExpenseRecord, error) {
	iter := s.transactions(group).Documents(ctx)
	defer iter.Stop()

	var records []models.ExpenseRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read transactions: %w", err)
		}
		records = append(records, models.NormalizeDocument(snap.Ref.ID, snap.Data()))
	}
	return records, nil
}

func (s *FirestoreStore) GetRecord(ctx context.Context, group, id string) (models.ExpenseRecord, error) {
	snap, err := s.transactions(group).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.ExpenseRecord{}, ErrNotFound
		}
		return models.ExpenseRecord{}, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return models.NormalizeDocument(snap.Ref.ID, snap.Data()), nil
}

func (s *FirestoreStore) CreateRecord(ctx context.Context, group string, record models.ExpenseRecord) (models.ExpenseRecord, error) {
	ref, _, err := s.transactions(group).Add(ctx, record.ToDocument())
	if err != nil {
		return models.ExpenseRecord{}, fmt.Errorf("add transaction: %w", err)
	}
	record.ID = ref.ID
	return record, nil
}

func (s *FirestoreStore) ToggleParticipant(ctx context.Context, group, id, requester, person string) (models.ExpenseRecord, error) {
	ref := s.transactions(group).Doc(id)
	var updated models.ExpenseRecord
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		record := models.NormalizeDocument(snap.Ref.ID, snap.Data())
		if err := record.ToggleBy(requester, person); err != nil {
			return err
		}
		updated = record
		return tx.Update(ref, []firestore.Update{
			{Path: models.FieldPaid, Value: record.Paid},
			{Path: models.FieldPending, Value: record.Pending},
		})
	})
	if err != nil {
		return models.ExpenseRecord{}, err
	}
	return updated, nil
}

func (s *FirestoreStore) DeleteRecord(ctx context.Context, group, id, requester string) error {
	ref := s.transactions(group).Doc(id)
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return fmt.Errorf("get transaction %s: %w", id, err)
		}
		if err := models.NormalizeDocument(snap.Ref.ID, snap.Data()).CanDelete(requester); err != nil {
			return err
		}
		return tx.Delete(ref)
	})
}

func (s *FirestoreStore) MemberEmails(ctx context.Context, group string) (models.EmailDirectory, error) {
	iter := s.client.Collection(groupsCollection).Doc(group).Collection(usersCollection).Documents(ctx)
	defer iter.Stop()

	dir := make(models.EmailDirectory)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read group users: %w", err)
		}
		if email, ok := snap.Data()["email"].(string); ok && email != "" {
			dir[snap.Ref.ID] = email
		}
	}
	return dir, nil
}

// MemberNames returns the keys of the group document, falling back to the
// ids in the group's users collection.
func (s *FirestoreStore) MemberNames(ctx context.Context, group string) ([]string, error) {
	snap, err := s.client.Collection(groupsCollection).Doc(group).Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return nil, fmt.Errorf("get group %s: %w", group, err)
	}

	var names []string
	if err == nil {
		for name := range snap.Data() {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		dir, err := s.MemberEmails(ctx, group)
		if err != nil {
			return nil, err
		}
		for name := range dir {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *FirestoreStore) LookupMember(ctx context.Context, email string) (models.Member, error) {
	users := s.client.Collection(usersCollection)
	snap, err := users.Doc(email).Get(ctx)
	if status.Code(err) == codes.NotFound && email != strings.ToLower(email) {
		snap, err = users.Doc(strings.ToLower(email)).Get(ctx)
	}
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.Member{}, ErrMemberUnknown
		}
		return models.Member{}, fmt.Errorf("lookup member %s: %w", email, err)
	}

	data := snap.Data()
	group, _ := data["group"].(string)
	if group == "" {
		return models.Member{}, ErrMemberUnknown
	}
	name, _ := data["name"].(string)
	return models.Member{Email: email, Name: name, Group: group}, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

var _ Store = (*FirestoreStore)(nil)
