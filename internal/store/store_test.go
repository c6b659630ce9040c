package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"showprep-backend/internal/model"
	"showprep-backend/internal/status"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Case{}, &model.StatusEvent{}, &model.Show{},
		&model.TruckProfile{}, &model.Issue{},
	))
	return NewGormStore(db)
}

func seedCase(t *testing.T, s Store, id string) {
	t.Helper()
	err := s.CreateCase(context.Background(), &model.Case{
		ID:              id,
		Department:      "Audio",
		CaseType:        "Amp rack",
		DefaultContents: "Amps, cabling",
		CurrentStatus:   string(status.CodeInShop),
		CurrentLocation: "Shop",
	})
	require.NoError(t, err)
}

func TestCreateCaseDuplicate(t *testing.T) {
	s := newTestStore(t)
	seedCase(t, s, "AUD-001")

	err := s.CreateCase(context.Background(), &model.Case{
		ID:              "AUD-001",
		Department:      "Audio",
		CaseType:        "Amp rack",
		DefaultContents: "Amps",
		CurrentStatus:   string(status.CodeInShop),
		CurrentLocation: "Shop",
	})
	assert.ErrorIs(t, err, ErrDuplicateCase)
}

func TestGetCaseNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetCase(context.Background(), "NOPE-1")
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestApplyScanUpdatesProjectionAndAppendsEvent(t *testing.T) {
	s := newTestStore(t)
	seedCase(t, s, "AUD-001")
	ctx := context.Background()

	truck := "Truck 2"
	note := "[op:Sam] staged early"
	updated, err := s.ApplyScan(ctx, ScanEvent{
		CaseID:     "AUD-001",
		Status:     status.CodeLoaded,
		Location:   "Truck 2",
		TruckLabel: &truck,
		Note:       &note,
		ScannedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, string(status.CodeLoaded), updated.CurrentStatus)
	assert.Equal(t, "Truck 2", updated.CurrentLocation)

	stored, err := s.GetCase(ctx, "AUD-001")
	require.NoError(t, err)
	assert.Equal(t, string(status.CodeLoaded), stored.CurrentStatus)
	assert.Equal(t, "Truck 2", stored.CurrentLocation)

	events, err := s.CaseHistory(ctx, "AUD-001")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(status.CodeLoaded), events[0].Status)
	require.NotNil(t, events[0].Location)
	assert.Equal(t, "Truck 2", *events[0].Location)
	require.NotNil(t, events[0].Note)
	assert.Equal(t, note, *events[0].Note)
}

func TestApplyScanUnknownCase(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ApplyScan(context.Background(), ScanEvent{
		CaseID:    "NOPE-1",
		Status:    status.CodePacked,
		Location:  "Shop",
		ScannedAt: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestCaseHistoryOrdering(t *testing.T) {
	s := newTestStore(t)
	seedCase(t, s, "AUD-001")
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i, code := range []status.Code{status.CodePacking, status.CodePacked, status.CodeLoaded} {
		_, err := s.ApplyScan(ctx, ScanEvent{
			CaseID:    "AUD-001",
			Status:    code,
			Location:  "Shop",
			ScannedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	events, err := s.CaseHistory(ctx, "AUD-001")
	require.NoError(t, err)
	require.Len(t, events, 3)
	// Newest first.
	assert.Equal(t, string(status.CodeLoaded), events[0].Status)
	assert.Equal(t, string(status.CodePacking), events[2].Status)
}

func TestUpsertCases(t *testing.T) {
	s := newTestStore(t)
	seedCase(t, s, "AUD-001")
	ctx := context.Background()

	err := s.UpsertCases(ctx, []model.Case{
		{
			ID:              "AUD-001",
			Department:      "Audio",
			CaseType:        "Amp rack v2",
			DefaultContents: "Amps",
			CurrentStatus:   string(status.CodePacked),
			CurrentLocation: "Dock",
		},
		{
			ID:              "LGT-001",
			Department:      "Lighting",
			CaseType:        "Dimmer",
			DefaultContents: "Dimmers",
			CurrentStatus:   string(status.CodeInShop),
			CurrentLocation: "Shop",
		},
	})
	require.NoError(t, err)

	updated, err := s.GetCase(ctx, "AUD-001")
	require.NoError(t, err)
	assert.Equal(t, "Amp rack v2", updated.CaseType)
	assert.Equal(t, string(status.CodePacked), updated.CurrentStatus)

	created, err := s.GetCase(ctx, "LGT-001")
	require.NoError(t, err)
	assert.Equal(t, "Lighting", created.Department)
}

func TestCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedCase(t, s, "AUD-001")
	seedCase(t, s, "AUD-002")

	_, err := s.ApplyScan(ctx, ScanEvent{
		CaseID:    "AUD-002",
		Status:    status.CodeLoaded,
		Location:  "Truck 1",
		ScannedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	require.NoError(t, s.DB().Create(&model.Show{ID: "show-1", Name: "Spring Tour"}).Error)

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Cases)
	assert.Equal(t, int64(1), counts.Shows)
	assert.Equal(t, int64(1), counts.InMotion)
}

func TestGetShowNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetShow(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrShowNotFound)
}
