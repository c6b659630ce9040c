package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"showprep-backend/internal/model"
	"showprep-backend/internal/status"
)

var (
	// ErrCaseNotFound is returned when a case id does not resolve.
	ErrCaseNotFound = errors.New("case not found")
	// ErrShowNotFound is returned when a show id does not resolve.
	ErrShowNotFound = errors.New("show not found")
	// ErrDuplicateCase is returned on creation when the case id is taken.
	// Reported distinctly from validation errors so callers can suggest a
	// different id rather than a format fix.
	ErrDuplicateCase = errors.New("case id already exists")
)

// ScanEvent is one accepted status transition, ready to be applied to the
// projection and appended to the event log.
type ScanEvent struct {
	CaseID     string
	Status     status.Code
	Location   string
	ShowID     *string
	TruckLabel *string
	ZoneLabel  *string
	Note       *string
	ScannedAt  time.Time
}

// Counts aggregates the dashboard numbers.
type Counts struct {
	Cases    int64
	Shows    int64
	Issues   int64
	InMotion int64
}

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	GetCase(ctx context.Context, id string) (model.Case, error)
	ListCases(ctx context.Context) ([]model.Case, error)
	CreateCase(ctx context.Context, c *model.Case) error
	UpdateCase(ctx context.Context, c *model.Case) error
	UpsertCases(ctx context.Context, cases []model.Case) error
	CaseHistory(ctx context.Context, id string) ([]model.StatusEvent, error)

	ApplyScan(ctx context.Context, ev ScanEvent) (model.Case, error)
	CreateIssue(ctx context.Context, issue *model.Issue) error

	ListShows(ctx context.Context) ([]model.Show, error)
	GetShow(ctx context.Context, id string) (model.Show, error)
	ListTrucks(ctx context.Context) ([]model.TruckProfile, error)
	Counts(ctx context.Context) (Counts, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for handlers and the worker pool.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) GetCase(ctx context.Context, id string) (model.Case, error) {
	var c model.Case
	err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Case{}, ErrCaseNotFound
	}
	if err != nil {
		return model.Case{}, fmt.Errorf("failed to fetch case %s: %w", id, err)
	}
	return c, nil
}

func (s *gormStore) ListCases(ctx context.Context) ([]model.Case, error) {
	var cases []model.Case
	if err := s.db.WithContext(ctx).Order("id asc").Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	return cases, nil
}

func (s *gormStore) CreateCase(ctx context.Context, c *model.Case) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Case
		err := tx.First(&existing, "id = ?", c.ID).Error
		if err == nil {
			return ErrDuplicateCase
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check case %s: %w", c.ID, err)
		}
		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("failed to create case %s: %w", c.ID, err)
		}
		return nil
	})
}

func (s *gormStore) UpdateCase(ctx context.Context, c *model.Case) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Case
		err := tx.First(&existing, "id = ?", c.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCaseNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to fetch case %s: %w", c.ID, err)
		}
		c.CreatedAt = existing.CreatedAt
		if err := tx.Save(c).Error; err != nil {
			return fmt.Errorf("failed to update case %s: %w", c.ID, err)
		}
		return nil
	})
}

// UpsertCases inserts or replaces cases in one batch, used by CSV import.
func (s *gormStore) UpsertCases(ctx context.Context, cases []model.Case) error {
	if len(cases) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"department", "case_type", "length_in", "width_in", "height_in",
			"default_contents", "current_status", "current_location",
			"owner_label", "notes", "updated_at",
		}),
	}).Create(&cases).Error
	if err != nil {
		return fmt.Errorf("batch upsert of %d cases failed: %w", len(cases), err)
	}
	return nil
}

func (s *gormStore) CaseHistory(ctx context.Context, id string) ([]model.StatusEvent, error) {
	var events []model.StatusEvent
	err := s.db.WithContext(ctx).
		Preload("Show").
		Where("case_id = ?", id).
		Order("scanned_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for case %s: %w", id, err)
	}
	return events, nil
}

// ApplyScan mutates the case projection and appends the status event in one
// transaction, so readers never observe one without the other. The projection
// write is last-write-wins: no version check is made against concurrent scans,
// and the event log remains the source of truth for ordering.
func (s *gormStore) ApplyScan(ctx context.Context, ev ScanEvent) (model.Case, error) {
	var updated model.Case
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&updated, "id = ?", ev.CaseID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCaseNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to fetch case %s: %w", ev.CaseID, err)
		}

		if err := tx.Model(&updated).Updates(map[string]any{
			"current_status":   string(ev.Status),
			"current_location": ev.Location,
		}).Error; err != nil {
			return fmt.Errorf("failed to update projection for case %s: %w", ev.CaseID, err)
		}
		updated.CurrentStatus = string(ev.Status)
		updated.CurrentLocation = ev.Location

		location := ev.Location
		event := model.StatusEvent{
			CaseID:     ev.CaseID,
			ShowID:     ev.ShowID,
			Status:     string(ev.Status),
			Location:   &location,
			TruckLabel: ev.TruckLabel,
			ZoneLabel:  ev.ZoneLabel,
			Note:       ev.Note,
			ScannedAt:  ev.ScannedAt,
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to append status event for case %s: %w", ev.CaseID, err)
		}
		return nil
	})
	if err != nil {
		return model.Case{}, err
	}
	return updated, nil
}

func (s *gormStore) CreateIssue(ctx context.Context, issue *model.Issue) error {
	if err := s.db.WithContext(ctx).Create(issue).Error; err != nil {
		return fmt.Errorf("failed to create issue for case %s: %w", issue.CaseID, err)
	}
	return nil
}

func (s *gormStore) ListShows(ctx context.Context) ([]model.Show, error) {
	var shows []model.Show
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&shows).Error; err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}
	return shows, nil
}

func (s *gormStore) GetShow(ctx context.Context, id string) (model.Show, error) {
	var show model.Show
	err := s.db.WithContext(ctx).First(&show, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Show{}, ErrShowNotFound
	}
	if err != nil {
		return model.Show{}, fmt.Errorf("failed to fetch show %s: %w", id, err)
	}
	return show, nil
}

func (s *gormStore) ListTrucks(ctx context.Context) ([]model.TruckProfile, error) {
	var trucks []model.TruckProfile
	if err := s.db.WithContext(ctx).Order("name asc").Find(&trucks).Error; err != nil {
		return nil, fmt.Errorf("failed to list trucks: %w", err)
	}
	return trucks, nil
}

func (s *gormStore) Counts(ctx context.Context) (Counts, error) {
	var counts Counts
	db := s.db.WithContext(ctx)

	if err := db.Model(&model.Case{}).Count(&counts.Cases).Error; err != nil {
		return Counts{}, fmt.Errorf("failed to count cases: %w", err)
	}
	if err := db.Model(&model.Show{}).Count(&counts.Shows).Error; err != nil {
		return Counts{}, fmt.Errorf("failed to count shows: %w", err)
	}
	if err := db.Model(&model.Issue{}).Count(&counts.Issues).Error; err != nil {
		return Counts{}, fmt.Errorf("failed to count issues: %w", err)
	}
	err := db.Model(&model.Case{}).
		Where("current_status NOT IN ?", []string{string(status.CodeInShop), string(status.CodeBackInShop)}).
		Count(&counts.InMotion).Error
	if err != nil {
		return Counts{}, fmt.Errorf("failed to count in-motion cases: %w", err)
	}
	return counts, nil
}
