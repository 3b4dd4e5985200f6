package postgres

import (
	"context"
	"database/sql"

	"transitdocs/internal/model"
	"transitdocs/internal/repository"
)

// docColumns is the canonical column list used by every document query.
const docColumns = `id, title, category, description, priority, status, file_name, storage_path, size, content_type, uploaded_by, deadline, parsed_text, summary, created_at`

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var d model.Document
	var deadline sql.NullTime
	if err := row.Scan(
		&d.ID,
		&d.Title,
		&d.Category,
		&d.Description,
		&d.Priority,
		&d.Status,
		&d.FileName,
		&d.StoragePath,
		&d.Size,
		&d.ContentType,
		&d.UploadedBy,
		&deadline,
		&d.ParsedText,
		&d.Summary,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	if deadline.Valid {
		t := deadline.Time
		d.Deadline = &t
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, title, category, description, priority, status, file_name, storage_path, size, content_type, uploaded_by, deadline, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + docColumns
	var deadline sql.NullTime
	if doc.Deadline != nil {
		deadline = sql.NullTime{Time: *doc.Deadline, Valid: true}
	}
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Title,
		doc.Category,
		doc.Description,
		doc.Priority,
		doc.Status,
		doc.FileName,
		doc.StoragePath,
		doc.Size,
		doc.ContentType,
		doc.UploadedBy,
		deadline,
		doc.CreatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT ` + docColumns + `
		FROM documents
		WHERE id = $1
	`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// List returns documents matching the filter using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, f repository.DocumentFilter) (*repository.PageResult[model.Document], error) {
	// Empty filter fields match everything so one query serves all combinations.
	const qCount = `
		SELECT COUNT(*) FROM documents
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR category = $2)
	`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, string(f.Status), f.Category).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + docColumns + `
		FROM documents
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR category = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.QueryContext(ctx, qList, string(f.Status), f.Category, f.Page.Limit, f.Page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := collectDocuments(rows)
	if err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// ListPending returns pending documents, optionally filtered by a title/category substring.
func (r *DocumentPostgres) ListPending(ctx context.Context, q string) ([]model.Document, error) {
	const qList = `
		SELECT ` + docColumns + `
		FROM documents
		WHERE status = 'pending'
		  AND ($1 = '' OR title ILIKE '%' || $1 || '%' OR category ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, qList, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// ListAssignedApproved returns approved documents joined through the assignment edges.
func (r *DocumentPostgres) ListAssignedApproved(ctx context.Context, employeeID string) ([]model.Document, error) {
	const q = `
		SELECT d.id, d.title, d.category, d.description, d.priority, d.status, d.file_name, d.storage_path, d.size, d.content_type, d.uploaded_by, d.deadline, d.parsed_text, d.summary, d.created_at
		FROM documents d
		JOIN document_assignments a ON a.document_id = d.id
		WHERE a.employee_id = $1 AND d.status = 'approved'
		ORDER BY d.created_at DESC, d.id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// TransitionStatus writes the target status only when the row is still pending.
func (r *DocumentPostgres) TransitionStatus(ctx context.Context, id string, to model.Status) (bool, error) {
	const q = `UPDATE documents SET status = $2 WHERE id = $1 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, q, id, to)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetEnrichment stores the derived text fields produced by the enrichment pipeline.
func (r *DocumentPostgres) SetEnrichment(ctx context.Context, id, parsedText, summary string) error {
	const q = `UPDATE documents SET parsed_text = $2, summary = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, parsedText, summary)
	return err
}

// CountByStatus returns document counts grouped by status.
func (r *DocumentPostgres) CountByStatus(ctx context.Context) (map[model.Status]int, error) {
	const q = `SELECT status, COUNT(*) FROM documents GROUP BY status`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.Status]int)
	for rows.Next() {
		var s model.Status
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[s] = n
	}
	return counts, rows.Err()
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

func collectDocuments(rows *sql.Rows) ([]model.Document, error) {
	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
