package offline

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"showprep-backend/internal/model"
)

// Namespaced keys of the client-side durable store. Each concern gets its own
// key so cached lookup data and the scan queue never collide.
const (
	KeyCases      = "showprep.offline.cases"
	KeyShows      = "showprep.offline.shows"
	KeyActiveShow = "showprep.offline.activeShow"
	KeyScanQueue  = "showprep.offline.scanQueue"
	KeySyncMeta   = "showprep.offline.syncMeta"
)

// Storage is a small durable key-value store, at least as durable as an app
// restart. Values are JSON-encoded.
type Storage interface {
	// Read unmarshals the value for key into v. Returns false when the key
	// has never been written.
	Read(key string, v any) (bool, error)
	// Write marshals v and stores it under key.
	Write(key string, v any) error
}

// GormStorage persists entries in a local sqlite database.
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage migrates the backing table and returns the store.
func NewGormStorage(db *gorm.DB) (*GormStorage, error) {
	if err := db.AutoMigrate(&model.OfflineEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate offline storage: %w", err)
	}
	return &GormStorage{db: db}, nil
}

func (s *GormStorage) Read(key string, v any) (bool, error) {
	var entry model.OfflineEntry
	err := s.db.First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read offline key %s: %w", key, err)
	}
	if err := json.Unmarshal(entry.Value, v); err != nil {
		return false, fmt.Errorf("corrupt offline value for key %s: %w", key, err)
	}
	return true, nil
}

func (s *GormStorage) Write(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode offline value for key %s: %w", key, err)
	}
	entry := model.OfflineEntry{Key: key, Value: raw}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write offline key %s: %w", key, err)
	}
	return nil
}
