package intake

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"showprep-backend/internal/model"
	"showprep-backend/internal/photo"
	"showprep-backend/internal/status"
	"showprep-backend/internal/store"
)

var (
	// ErrMissingFields is returned when caseId or status is absent.
	ErrMissingFields = errors.New("caseId and status are required")
	// ErrIssueNeedsShow is returned when issue logging is requested without a show context.
	ErrIssueNeedsShow = errors.New("showId is required to log an issue")
	// ErrInvalidIssueType is returned for issue types outside the closed set.
	ErrInvalidIssueType = errors.New("invalid issue type")
)

// InvalidStatusError reports a status label outside the codec vocabulary.
type InvalidStatusError struct {
	Label string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status label: %q", e.Label)
}

var issueTypes = map[string]bool{"Missing": true, "Damaged": true, "Other": true}

// Request is one scan or manual status update, as submitted by a client.
type Request struct {
	CaseID            string
	Status            string
	Zone              string
	Truck             string
	Location          string
	ShowID            string
	Note              string
	OperatorLabel     string
	IssueType         string
	IssueNotes        string
	IssuePhotoDataURL string
}

// Result reports the accepted transition and the issue-logging outcome.
type Result struct {
	ID                string
	Status            string
	Location          string
	IssueLogged       bool
	IssuePhotoStored  bool
	IssuePhotoWarning string
}

// PhotoUploader stores an issue photo and returns its public URL.
type PhotoUploader interface {
	Upload(ctx context.Context, req photo.UploadRequest) (string, error)
}

// Dispatcher hands a case id to the notification pipeline after an accepted scan.
type Dispatcher interface {
	Dispatch(caseID, statusLabel string)
}

// Service is the authoritative server-side write path for scan updates.
type Service struct {
	store  store.Store
	photos PhotoUploader
	notify Dispatcher
	now    func() time.Time
}

// NewService creates the intake service. photos and notify may be nil when the
// corresponding subsystem is disabled.
func NewService(s store.Store, photos PhotoUploader, notify Dispatcher) *Service {
	return &Service{
		store:  s,
		photos: photos,
		notify: notify,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Process validates and applies one scan update: resolve the case, encode the
// status, derive the next location, mutate the projection and append the event
// atomically, then handle optional issue logging.
func (s *Service) Process(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.CaseID) == "" || strings.TrimSpace(req.Status) == "" {
		return Result{}, ErrMissingFields
	}

	code, err := status.Encode(req.Status)
	if err != nil {
		return Result{}, &InvalidStatusError{Label: req.Status}
	}

	if req.IssueType != "" && !issueTypes[req.IssueType] {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidIssueType, req.IssueType)
	}
	// Reject before writing anything so a bad issue request leaves no event behind.
	if req.IssueType != "" && strings.TrimSpace(req.ShowID) == "" {
		return Result{}, ErrIssueNeedsShow
	}

	found, err := s.store.GetCase(ctx, req.CaseID)
	if err != nil {
		return Result{}, err
	}

	// Explicit location wins; a truck label becomes the location when the case
	// is being loaded; otherwise the location is unchanged.
	nextLocation := found.CurrentLocation
	if req.Location != "" {
		nextLocation = req.Location
	} else if code == status.CodeLoaded && req.Truck != "" {
		nextLocation = req.Truck
	}

	ev := store.ScanEvent{
		CaseID:    found.ID,
		Status:    code,
		Location:  nextLocation,
		Note:      status.BuildNote(req.Note, req.OperatorLabel),
		ScannedAt: s.now(),
	}
	if req.ShowID != "" {
		showID := req.ShowID
		ev.ShowID = &showID
	}
	if req.Truck != "" {
		truck := req.Truck
		ev.TruckLabel = &truck
	}
	if req.Zone != "" {
		zone := req.Zone
		ev.ZoneLabel = &zone
	}

	updated, err := s.store.ApplyScan(ctx, ev)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		ID:       updated.ID,
		Status:   status.Decode(status.Code(updated.CurrentStatus)),
		Location: updated.CurrentLocation,
	}

	if req.IssueType != "" {
		if err := s.logIssue(ctx, req, updated.ID, &result); err != nil {
			return Result{}, err
		}
	}

	if s.notify != nil {
		s.notify.Dispatch(updated.ID, result.Status)
	}

	return result, nil
}

// logIssue creates the issue record, uploading the photo first when one was
// supplied. A photo upload failure degrades to a warning; the issue is still
// logged.
func (s *Service) logIssue(ctx context.Context, req Request, caseID string, result *Result) error {
	issueID := uuid.NewString()
	var photoURL *string

	if dataURL := strings.TrimSpace(req.IssuePhotoDataURL); dataURL != "" {
		if s.photos == nil {
			result.IssuePhotoWarning = "Issue logged, but photo storage is not configured."
		} else {
			publicURL, err := s.photos.Upload(ctx, photo.UploadRequest{
				ShowID:  req.ShowID,
				CaseID:  caseID,
				IssueID: issueID,
				DataURL: dataURL,
			})
			if err != nil {
				log.Printf("issue photo upload failed for case %s: %v", caseID, err)
				result.IssuePhotoWarning = "Issue logged, but photo upload failed."
			} else {
				photoURL = &publicURL
				result.IssuePhotoStored = true
			}
		}
	}

	issue := model.Issue{
		ID:        issueID,
		ShowID:    req.ShowID,
		CaseID:    caseID,
		Type:      req.IssueType,
		PhotoURL:  photoURL,
		CreatedAt: s.now(),
	}
	if notes := strings.TrimSpace(req.IssueNotes); notes != "" {
		issue.Notes = &notes
	}

	if err := s.store.CreateIssue(ctx, &issue); err != nil {
		return err
	}
	result.IssueLogged = true
	return nil
}
