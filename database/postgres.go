package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"payyourfriends/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type expenseRow struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	GroupName      string          `gorm:"not null;size:100;index"`
	Date           time.Time       `gorm:"type:date"`
	Description    string          `gorm:"not null;size:255"`
	FrontedBy      string          `gorm:"not null;size:100"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PerPersonShare decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Involved       pq.StringArray  `gorm:"type:text[]"`
	Paid           pq.StringArray  `gorm:"type:text[]"`
	Pending        pq.StringArray  `gorm:"type:text[]"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (expenseRow) TableName() string { return "expense_records" }

func (r *expenseRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r expenseRow) toRecord() models.ExpenseRecord {
	return models.ExpenseRecord{
		ID:             r.ID.String(),
		Date:           models.NewDate(r.Date),
		Description:    r.Description,
		FrontedBy:      r.FrontedBy,
		TotalAmount:    r.TotalAmount,
		Involved:       []string(r.Involved),
		PerPersonShare: r.PerPersonShare,
		Paid:           []string(r.Paid),
		Pending:        append([]string{}, r.Pending...),
	}
}

type memberRow struct {
	Email     string `gorm:"primaryKey;size:255"`
	Name      string `gorm:"not null;size:100"`
	GroupName string `gorm:"not null;size:100;index"`
	CreatedAt time.Time
}

func (memberRow) TableName() string { return "members" }

// PostgresStore keeps records in Postgres through gorm.
type PostgresStore struct {
	db *gorm.DB
}

// Connect opens the database and migrates the schema.
func Connect(databaseURL string, debug bool, log *slog.Logger) (*PostgresStore, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	log.Info("database connected")

	if err := db.AutoMigrate(&expenseRow{}, &memberRow{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	log.Info("database migrated")
	return &PostgresStore{db: db}, nil
}

// NewPostgresStore wraps an existing gorm handle.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListRecords(ctx context.Context, group string) ([]models.ExpenseRecord, error) {
	var rows []expenseRow
	if err := s.db.WithContext(ctx).Where("group_name = ?", group).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	records := make([]models.ExpenseRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRecord())
	}
	return records, nil
}

func (s *PostgresStore) find(db *gorm.DB, group, id string) (expenseRow, error) {
	var row expenseRow
	uid, err := uuid.Parse(id)
	if err != nil {
		return row, ErrNotFound
	}
	err = db.Where("id = ? AND group_name = ?", uid, group).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, ErrNotFound
	}
	return row, err
}

func (s *PostgresStore) GetRecord(ctx context.Context, group, id string) (models.ExpenseRecord, error) {
	row, err := s.find(s.db.WithContext(ctx), group, id)
	if err != nil {
		return models.ExpenseRecord{}, err
	}
	return row.toRecord(), nil
}

func (s *PostgresStore) CreateRecord(ctx context.Context, group string, record models.ExpenseRecord) (models.ExpenseRecord, error) {
	row := expenseRow{
		GroupName:      group,
		Date:           record.Date.Time,
		Description:    record.Description,
		FrontedBy:      record.FrontedBy,
		TotalAmount:    record.TotalAmount,
		PerPersonShare: record.PerPersonShare,
		Involved:       pq.StringArray(record.Involved),
		Paid:           pq.StringArray(record.Paid),
		Pending:        pq.StringArray(record.Pending),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.ExpenseRecord{}, fmt.Errorf("create record: %w", err)
	}
	return row.toRecord(), nil
}

func (s *PostgresStore) ToggleParticipant(ctx context.Context, group, id, requester, person string) (models.ExpenseRecord, error) {
	var updated models.ExpenseRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.find(forUpdate(tx), group, id)
		if err != nil {
			return err
		}
		record := row.toRecord()
		if err := record.ToggleBy(requester, person); err != nil {
			return err
		}
		if err := tx.Model(&row).Updates(map[string]interface{}{
			"paid":    pq.StringArray(record.Paid),
			"pending": pq.StringArray(record.Pending),
		}).Error; err != nil {
			return fmt.Errorf("update record: %w", err)
		}
		updated = record
		return nil
	})
	if err != nil {
		return models.ExpenseRecord{}, err
	}
	return updated, nil
}

func (s *PostgresStore) DeleteRecord(ctx context.Context, group, id, requester string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.find(forUpdate(tx), group, id)
		if err != nil {
			return err
		}
		if err := row.toRecord().CanDelete(requester); err != nil {
			return err
		}
		if err := tx.Delete(&row).Error; err != nil {
			return fmt.Errorf("delete record: %w", err)
		}
		return nil
	})
}

// forUpdate row-locks whatever the query selects until the transaction ends.
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (s *PostgresStore) members(ctx context.Context, group string) ([]memberRow, error) {
	var rows []memberRow
	if err := s.db.WithContext(ctx).Where("group_name = ?", group).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return rows, nil
}

func (s *PostgresStore) MemberEmails(ctx context.Context, group string) (models.EmailDirectory, error) {
	rows, err := s.members(ctx, group)
	if err != nil {
		return nil, err
	}
	dir := make(models.EmailDirectory, len(rows))
	for _, m := range rows {
		dir[m.Name] = m.Email
	}
	return dir, nil
}

func (s *PostgresStore) MemberNames(ctx context.Context, group string) ([]string, error) {
	rows, err := s.members(ctx, group)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, m := range rows {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *PostgresStore) LookupMember(ctx context.Context, email string) (models.Member, error) {
	var row memberRow
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Member{}, ErrMemberUnknown
	}
	if err != nil {
		return models.Member{}, fmt.Errorf("lookup member: %w", err)
	}
	return models.Member{Email: row.Email, Name: row.Name, Group: row.GroupName}, nil
}

// AddMember inserts or updates a group membership.
func (s *PostgresStore) AddMember(ctx context.Context, m models.Member) error {
	return upsertMember(s.db.WithContext(ctx), m).Error
}

func upsertMember(db *gorm.DB, m models.Member) *gorm.DB {
	row := memberRow{Email: strings.ToLower(strings.TrimSpace(m.Email)), Name: m.Name, GroupName: m.Group}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "group_name"}),
	}).Create(&row)
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ Store = (*PostgresStore)(nil)
