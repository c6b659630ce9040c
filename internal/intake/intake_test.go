package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"showprep-backend/internal/model"
	"showprep-backend/internal/photo"
	"showprep-backend/internal/status"
	"showprep-backend/internal/store"
)

type fakeUploader struct {
	url  string
	err  error
	reqs []photo.UploadRequest
}

func (f *fakeUploader) Upload(_ context.Context, req photo.UploadRequest) (string, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeDispatcher struct {
	caseIDs []string
	labels  []string
}

func (f *fakeDispatcher) Dispatch(caseID, statusLabel string) {
	f.caseIDs = append(f.caseIDs, caseID)
	f.labels = append(f.labels, statusLabel)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Case{}, &model.StatusEvent{}, &model.Show{}, &model.Issue{},
	))

	require.NoError(t, db.Create(&model.Case{
		ID:              "AUD-001",
		Department:      "Audio",
		CaseType:        "Amp rack",
		DefaultContents: "Amps, cabling",
		CurrentStatus:   string(status.CodeInShop),
		CurrentLocation: "Shop",
	}).Error)
	require.NoError(t, db.Create(&model.Show{ID: "show-1", Name: "Spring Tour"}).Error)

	return store.NewGormStore(db)
}

func TestProcessPackedKeepsLocation(t *testing.T) {
	s := newTestStore(t)
	svc := NewService(s, nil, nil)

	result, err := svc.Process(context.Background(), Request{CaseID: "AUD-001", Status: "Packed"})
	require.NoError(t, err)
	assert.Equal(t, "Packed", result.Status)
	assert.Equal(t, "Shop", result.Location)

	events, err := s.CaseHistory(context.Background(), "AUD-001")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "PACKED", events[0].Status)
}

func TestProcessLoadedTruckBecomesLocation(t *testing.T) {
	s := newTestStore(t)
	svc := NewService(s, nil, nil)

	result, err := svc.Process(context.Background(), Request{
		CaseID: "AUD-001",
		Status: "Loaded",
		Truck:  "Truck 2",
		Zone:   "Nose-Curb",
	})
	require.NoError(t, err)
	assert.Equal(t, "Loaded", result.Status)
	assert.Equal(t, "Truck 2", result.Location)

	events, err := s.CaseHistory(context.Background(), "AUD-001")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].TruckLabel)
	assert.Equal(t, "Truck 2", *events[0].TruckLabel)
	require.NotNil(t, events[0].ZoneLabel)
	assert.Equal(t, "Nose-Curb", *events[0].ZoneLabel)
}

func TestProcessExplicitLocationWins(t *testing.T) {
	s := newTestStore(t)
	svc := NewService(s, nil, nil)

	result, err := svc.Process(context.Background(), Request{
		CaseID:   "AUD-001",
		Status:   "Loaded",
		Truck:    "Truck 2",
		Location: "Dock B",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dock B", result.Location)
}

func TestProcessOperatorNoteEncoding(t *testing.T) {
	s := newTestStore(t)
	svc := NewService(s, nil, nil)

	_, err := svc.Process(context.Background(), Request{
		CaseID:        "AUD-001",
		Status:        "Packing",
		Note:          "half packed",
		OperatorLabel: "Sam",
	})
	require.NoError(t, err)

	events, err := s.CaseHistory(context.Background(), "AUD-001")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].Note)
	assert.Equal(t, "[op:Sam] half packed", *events[0].Note)
}

func TestProcessValidationErrors(t *testing.T) {
	s := newTestStore(t)
	svc := NewService(s, nil, nil)
	ctx := context.Background()

	_, err := svc.Process(ctx, Request{Status: "Packed"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Process(ctx, Request{CaseID: "AUD-001"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Process(ctx, Request{CaseID: "AUD-001", Status: "Lost At Sea"})
	var invalid *InvalidStatusError
	assert.ErrorAs(t, err, &invalid)

	_, err = svc.Process(ctx, Request{CaseID: "NOPE-1", Status: "Packed"})
	assert.ErrorIs(t, err, store.ErrCaseNotFound)
}

func TestProcessIssueWithoutShowRejected(t *testing.T) {
	s := newTestStore(t)
	svc := NewService(s, nil, nil)

	_, err := svc.Process(context.Background(), Request{
		CaseID:    "AUD-001",
		Status:    "Issue",
		IssueType: "Damaged",
	})
	assert.ErrorIs(t, err, ErrIssueNeedsShow)

	// Nothing may be written when the request is rejected up front.
	events, err := s.CaseHistory(context.Background(), "AUD-001")
	require.NoError(t, err)
	assert.Empty(t, events)

	var issues []model.Issue
	require.NoError(t, s.DB().Find(&issues).Error)
	assert.Empty(t, issues)
}

func TestProcessIssueLoggedWithPhoto(t *testing.T) {
	s := newTestStore(t)
	uploader := &fakeUploader{url: "https://storage/issue-photos/x.png"}
	svc := NewService(s, uploader, nil)

	result, err := svc.Process(context.Background(), Request{
		CaseID:            "AUD-001",
		Status:            "Issue",
		ShowID:            "show-1",
		IssueType:         "Damaged",
		IssueNotes:        "caster snapped",
		IssuePhotoDataURL: "data:image/png;base64,Zm9v",
	})
	require.NoError(t, err)
	assert.True(t, result.IssueLogged)
	assert.True(t, result.IssuePhotoStored)
	assert.Empty(t, result.IssuePhotoWarning)

	require.Len(t, uploader.reqs, 1)
	assert.Equal(t, "AUD-001", uploader.reqs[0].CaseID)

	var issues []model.Issue
	require.NoError(t, s.DB().Find(&issues).Error)
	require.Len(t, issues, 1)
	assert.Equal(t, "Damaged", issues[0].Type)
	require.NotNil(t, issues[0].PhotoURL)
	assert.Equal(t, uploader.url, *issues[0].PhotoURL)
}

func TestProcessIssuePhotoFailureDegrades(t *testing.T) {
	s := newTestStore(t)
	uploader := &fakeUploader{err: errors.New("storage unreachable")}
	svc := NewService(s, uploader, nil)

	result, err := svc.Process(context.Background(), Request{
		CaseID:            "AUD-001",
		Status:            "Issue",
		ShowID:            "show-1",
		IssueType:         "Missing",
		IssuePhotoDataURL: "data:image/png;base64,Zm9v",
	})
	require.NoError(t, err)
	assert.True(t, result.IssueLogged)
	assert.False(t, result.IssuePhotoStored)
	assert.Contains(t, result.IssuePhotoWarning, "photo upload failed")

	var issues []model.Issue
	require.NoError(t, s.DB().Find(&issues).Error)
	require.Len(t, issues, 1)
	assert.Nil(t, issues[0].PhotoURL)
}

func TestProcessDispatchesNotification(t *testing.T) {
	s := newTestStore(t)
	dispatcher := &fakeDispatcher{}
	svc := NewService(s, nil, dispatcher)

	_, err := svc.Process(context.Background(), Request{CaseID: "AUD-001", Status: "Staged (Dock)"})
	require.NoError(t, err)

	require.Len(t, dispatcher.caseIDs, 1)
	assert.Equal(t, "AUD-001", dispatcher.caseIDs[0])
	assert.Equal(t, "Staged (Dock)", dispatcher.labels[0])
}
