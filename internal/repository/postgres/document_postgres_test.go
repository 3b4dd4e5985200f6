package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"transitdocs/internal/model"
	"transitdocs/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var docCols = []string{"id", "title", "category", "description", "priority", "status", "file_name", "storage_path", "size", "content_type", "uploaded_by", "deadline", "parsed_text", "summary", "created_at"}

func docRow(rows *sqlmock.Rows, d *model.Document) *sqlmock.Rows {
	var deadline interface{}
	if d.Deadline != nil {
		deadline = *d.Deadline
	}
	return rows.AddRow(d.ID, d.Title, d.Category, d.Description, d.Priority, d.Status, d.FileName, d.StoragePath, d.Size, d.ContentType, d.UploadedBy, deadline, d.ParsedText, d.Summary, d.CreatedAt)
}

func sampleDocument() *model.Document {
	return &model.Document{
		ID:          "doc-1",
		Title:       "Safety Bulletin",
		Category:    "safety",
		Description: "Updated platform safety procedures",
		Priority:    model.PriorityHigh,
		Status:      model.StatusPending,
		FileName:    "safety-bulletin.pdf",
		StoragePath: "documents/safety-bulletin.pdf",
		Size:        2048,
		ContentType: "application/pdf",
		UploadedBy:  "admin-1",
		CreatedAt:   time.Now().UTC(),
	}
}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	doc := sampleDocument()
	rows := docRow(sqlmock.NewRows(docCols), doc)

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.ID, doc.Title, doc.Category, doc.Description, doc.Priority, doc.Status, doc.FileName, doc.StoragePath, doc.Size, doc.ContentType, doc.UploadedBy, sql.NullTime{}, doc.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, doc.ID, result.ID)
	assert.Equal(t, model.StatusPending, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := docRow(sqlmock.NewRows(docCols), sampleDocument())

		mock.ExpectQuery("SELECT (.+) FROM documents").
			WithArgs("doc-1").
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, "doc-1")

		assert.NoError(t, err)
		assert.NotNil(t, doc)
		assert.Equal(t, "doc-1", doc.ID)
		assert.Nil(t, doc.Deadline)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")

		assert.Error(t, err)
		assert.True(t, IsNoRowsError(err))
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("filtered by status", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents").
			WithArgs("approved", "").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		doc := sampleDocument()
		doc.Status = model.StatusApproved
		rows := docRow(sqlmock.NewRows(docCols), doc)

		mock.ExpectQuery("SELECT (.+) FROM documents (.+) ORDER BY").
			WithArgs("approved", "", 10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, repository.DocumentFilter{
			Status: model.StatusApproved,
			Page:   repository.PageQuery{Limit: 10, Offset: 0},
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
		assert.Equal(t, model.StatusApproved, res.Items[0].Status)
	})
}

func TestDocumentPostgres_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	rows := docRow(sqlmock.NewRows(docCols), sampleDocument())

	mock.ExpectQuery("SELECT (.+) FROM documents\\s+WHERE status = 'pending'").
		WithArgs("safety").
		WillReturnRows(rows)

	docs, err := repo.ListPending(ctx, "safety")

	assert.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Equal(t, model.StatusPending, docs[0].Status)
}

func TestDocumentPostgres_ListAssignedApproved(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	doc := sampleDocument()
	doc.Status = model.StatusApproved
	rows := docRow(sqlmock.NewRows(docCols), doc)

	mock.ExpectQuery("JOIN document_assignments").
		WithArgs("emp-1").
		WillReturnRows(rows)

	docs, err := repo.ListAssignedApproved(ctx, "emp-1")

	assert.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_TransitionStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("pending row updated", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET status").
			WithArgs("doc-1", model.StatusApproved).
			WillReturnResult(sqlmock.NewResult(0, 1))

		updated, err := repo.TransitionStatus(ctx, "doc-1", model.StatusApproved)

		assert.NoError(t, err)
		assert.True(t, updated)
	})

	t.Run("already decided or missing", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET status").
			WithArgs("doc-1", model.StatusRejected).
			WillReturnResult(sqlmock.NewResult(0, 0))

		updated, err := repo.TransitionStatus(ctx, "doc-1", model.StatusRejected)

		assert.NoError(t, err)
		assert.False(t, updated)
	})
}

func TestDocumentPostgres_SetEnrichment(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE documents SET parsed_text").
		WithArgs("doc-1", "full text", "short summary").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.SetEnrichment(ctx, "doc-1", "full text", "short summary")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_CountByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("pending", 3).
		AddRow("approved", 5)

	mock.ExpectQuery("SELECT status, COUNT\\(\\*\\) FROM documents GROUP BY status").
		WillReturnRows(rows)

	counts, err := repo.CountByStatus(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 3, counts[model.StatusPending])
	assert.Equal(t, 5, counts[model.StatusApproved])
	assert.Equal(t, 0, counts[model.StatusRejected])
}

func TestDocumentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM documents WHERE id = ?").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(ctx, "doc-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
