package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"transitdocs/internal/model"
	"transitdocs/internal/repository"
	"transitdocs/internal/storage"
)

// allowedContentTypes are the upload types the portal accepts (PDF and Word).
var allowedContentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

const presignExpiry = 15 * time.Minute

// Enricher queues post-upload enrichment. Implementations must not block and
// must never report failures back to the upload that queued them.
type Enricher interface {
	Enqueue(documentID, storagePath string)
}

// UploadInput is everything the upload form provides.
type UploadInput struct {
	File        io.Reader
	FileName    string
	ContentType string
	Size        int64
	Title       string `validate:"required"`
	Category    string `validate:"required"`
	Description string
	Priority    model.Priority
	Deadline    *time.Time
	AssigneeIDs []string
}

// DocumentDetail is a document plus a time-limited download URL.
type DocumentDetail struct {
	model.Document
	DownloadURL string `json:"download_url"`
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// Stats are the dashboard counters, scoped to the requesting role.
type Stats struct {
	Total    int `json:"total,omitempty"`
	Pending  int `json:"pending,omitempty"`
	Approved int `json:"approved,omitempty"`
	Rejected int `json:"rejected,omitempty"`
	Assigned int `json:"assigned,omitempty"`
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload validates the form, stores the file, creates the pending document,
	// writes the initial assignment edges, and queues enrichment.
	Upload(ctx context.Context, in UploadInput, actor Actor) (*model.Document, error)

	// Get returns a single document with a presigned download URL. Employees
	// only see documents that are approved and assigned to them.
	Get(ctx context.Context, id string, actor Actor) (*DocumentDetail, error)

	// List returns documents for the admin console, optionally filtered by
	// status and category, using limit/offset and a total count.
	List(ctx context.Context, f repository.DocumentFilter, actor Actor) (*DocumentListResult, error)

	// PendingReview returns every pending document regardless of assignment,
	// optionally narrowed by a title/category search term. Admin only.
	PendingReview(ctx context.Context, q string, actor Actor) ([]model.Document, error)

	// EmployeeDocuments returns the approved documents assigned to the actor.
	EmployeeDocuments(ctx context.Context, actor Actor) ([]model.Document, error)

	// Transition moves a pending document to approved or rejected. Admin only;
	// a document that is already decided is not touched.
	Transition(ctx context.Context, id string, target model.Status, actor Actor) (*model.Document, error)

	// SetAssignees replaces the full assignment edge set for the document.
	// An empty set unassigns everyone. Returns the number of edges written.
	SetAssignees(ctx context.Context, id string, employeeIDs []string, actor Actor) (int, error)

	// ListAssignees returns the employee IDs assigned to the document. Admin only.
	ListAssignees(ctx context.Context, id string, actor Actor) ([]string, error)

	// ListEmployees returns employee profiles for the assignment picker. Admin only.
	ListEmployees(ctx context.Context, actor Actor) ([]model.Profile, error)

	// Stats returns role-scoped dashboard counters.
	Stats(ctx context.Context, actor Actor) (*Stats, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store       storage.Storage
	docs        repository.DocumentRepository
	assignments repository.AssignmentRepository
	profiles    repository.ProfileRepository
	enricher    Enricher
	maxSize     int64
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(
	store storage.Storage,
	docs repository.DocumentRepository,
	assignments repository.AssignmentRepository,
	profiles repository.ProfileRepository,
	enricher Enricher,
	maxSize int64,
) DocumentService {
	return &documentService{
		store:       store,
		docs:        docs,
		assignments: assignments,
		profiles:    profiles,
		enricher:    enricher,
		maxSize:     maxSize,
	}
}

func (s *documentService) Upload(ctx context.Context, in UploadInput, actor Actor) (*model.Document, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := validateUpload(&in, s.maxSize); err != nil {
		return nil, err
	}

	// Stored filename is UUID + original extension; the original name is kept
	// as display metadata.
	ext := filepath.Ext(in.FileName)
	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join("documents", genName))

	objInfo, err := s.store.Put(ctx, key, in.File, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.FileName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Category:    in.Category,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      model.StatusPending,
		FileName:    in.FileName,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: in.ContentType,
		UploadedBy:  actor.UserID,
		Deadline:    in.Deadline,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.docs.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	if len(in.AssigneeIDs) > 0 {
		if _, err := s.assignments.Replace(ctx, stored.ID, in.AssigneeIDs); err != nil {
			return nil, fmt.Errorf("save assignments: %w", err)
		}
	}

	// Fire-and-forget: the upload already succeeded whatever happens here.
	s.enricher.Enqueue(stored.ID, stored.StoragePath)

	return stored, nil
}

func validateUpload(in *UploadInput, maxSize int64) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if in.File == nil || in.Size <= 0 {
		return fmt.Errorf("%w: file is required", ErrInvalidInput)
	}
	if in.Size > maxSize {
		return fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, maxSize)
	}
	if !allowedContentTypes[in.ContentType] {
		return fmt.Errorf("%w: content type %q is not accepted", ErrInvalidInput, in.ContentType)
	}
	if !model.ValidCategory(in.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if !in.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, in.Priority)
	}
	return nil
}

func (s *documentService) Get(ctx context.Context, id string, actor Actor) (*DocumentDetail, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !actor.IsAdmin() {
		// Employees only see approved documents assigned to them. An
		// unassigned or undecided document looks like a missing one so
		// existence is not leaked.
		if doc.Status != model.StatusApproved {
			return nil, ErrNotFound
		}
		assignees, err := s.assignments.ListAssignees(ctx, id)
		if err != nil {
			return nil, err
		}
		if !contains(assignees, actor.UserID) {
			return nil, ErrNotFound
		}
	}

	url, err := s.store.PresignGet(ctx, doc.StoragePath, presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign download: %w", err)
	}
	return &DocumentDetail{Document: *doc, DownloadURL: url}, nil
}

func (s *documentService) List(ctx context.Context, f repository.DocumentFilter, actor Actor) (*DocumentListResult, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if f.Page.Limit <= 0 {
		f.Page.Limit = 10
	}
	if f.Page.Offset < 0 {
		f.Page.Offset = 0
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, f.Status)
	}

	res, err := s.docs.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) PendingReview(ctx context.Context, q string, actor Actor) ([]model.Document, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.docs.ListPending(ctx, q)
}

func (s *documentService) EmployeeDocuments(ctx context.Context, actor Actor) ([]model.Document, error) {
	if actor.Role != model.RoleEmployee {
		return nil, ErrForbidden
	}
	return s.docs.ListAssignedApproved(ctx, actor.UserID)
}

func (s *documentService) Transition(ctx context.Context, id string, target model.Status, actor Actor) (*model.Document, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if id == "" {
		return nil, ErrIDRequired
	}
	if !target.Terminal() {
		return nil, fmt.Errorf("%w: target status must be approved or rejected", ErrInvalidInput)
	}

	updated, err := s.docs.TransitionStatus(ctx, id, target)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Zero rows matched: either the document is gone or it was already
		// decided. Disambiguate for the caller.
		if _, err := s.docs.FindByID(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return nil, ErrAlreadyDecided
	}

	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) SetAssignees(ctx context.Context, id string, employeeIDs []string, actor Actor) (int, error) {
	if !actor.IsAdmin() {
		return 0, ErrForbidden
	}
	if id == "" {
		return 0, ErrIDRequired
	}
	if _, err := s.docs.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return s.assignments.Replace(ctx, id, employeeIDs)
}

func (s *documentService) ListAssignees(ctx context.Context, id string, actor Actor) ([]string, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if id == "" {
		return nil, ErrIDRequired
	}
	return s.assignments.ListAssignees(ctx, id)
}

func (s *documentService) ListEmployees(ctx context.Context, actor Actor) ([]model.Profile, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.profiles.ListByRole(ctx, model.RoleEmployee)
}

func (s *documentService) Stats(ctx context.Context, actor Actor) (*Stats, error) {
	if actor.IsAdmin() {
		counts, err := s.docs.CountByStatus(ctx)
		if err != nil {
			return nil, err
		}
		return &Stats{
			Total:    counts[model.StatusPending] + counts[model.StatusApproved] + counts[model.StatusRejected],
			Pending:  counts[model.StatusPending],
			Approved: counts[model.StatusApproved],
			Rejected: counts[model.StatusRejected],
		}, nil
	}

	n, err := s.assignments.CountForEmployee(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &Stats{Assigned: n}, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
