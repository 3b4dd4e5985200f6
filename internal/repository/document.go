package repository

import (
	"context"

	"transitdocs/internal/model"
)

// DocumentFilter narrows List to a status and/or category. Empty fields match everything.
type DocumentFilter struct {
	Status   model.Status
	Category string
	Page     PageQuery
}

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here, strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record.
	// The caller provides required fields (ID, CreatedAt, ...) per the schema defaults.
	// Returns the stored document (may include values set by the DB).
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a paginated list of documents and total rows count for the given filter.
	List(ctx context.Context, f DocumentFilter) (*PageResult[model.Document], error)

	// ListPending returns all pending documents, newest first. If q is non-empty,
	// only documents whose title or category contains q (case-insensitive) are returned.
	ListPending(ctx context.Context, q string) ([]model.Document, error)

	// ListAssignedApproved returns approved documents that have an assignment
	// edge to the given employee, newest first.
	ListAssignedApproved(ctx context.Context, employeeID string) ([]model.Document, error)

	// TransitionStatus sets status on the document only if it is currently pending.
	// It reports whether a row was updated; false means the document is missing
	// or already decided (the caller disambiguates).
	TransitionStatus(ctx context.Context, id string, to model.Status) (bool, error)

	// SetEnrichment writes the derived parsed_text and summary fields.
	SetEnrichment(ctx context.Context, id, parsedText, summary string) error

	// CountByStatus returns the number of documents per status.
	CountByStatus(ctx context.Context) (map[model.Status]int, error)

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
