package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestAssignmentPostgres_Replace(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces edge set in one transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()

		repo := NewAssignmentPostgres(db)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM document_assignments").
			WithArgs("doc-1").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("INSERT INTO document_assignments").
			WithArgs("doc-1", "emp-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO document_assignments").
			WithArgs("doc-1", "emp-2").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		n, err := repo.Replace(ctx, "doc-1", []string{"emp-1", "emp-2"})

		assert.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty set unassigns everyone", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()

		repo := NewAssignmentPostgres(db)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM document_assignments").
			WithArgs("doc-1").
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectCommit()

		n, err := repo.Replace(ctx, "doc-1", nil)

		assert.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back the delete", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()

		repo := NewAssignmentPostgres(db)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM document_assignments").
			WithArgs("doc-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO document_assignments").
			WithArgs("doc-1", "emp-1").
			WillReturnError(errors.New("insert fail"))
		mock.ExpectRollback()

		n, err := repo.Replace(ctx, "doc-1", []string{"emp-1"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "insert edge")
		assert.Equal(t, 0, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate ids count once", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()

		repo := NewAssignmentPostgres(db)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM document_assignments").
			WithArgs("doc-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO document_assignments").
			WithArgs("doc-1", "emp-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO document_assignments").
			WithArgs("doc-1", "emp-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		n, err := repo.Replace(ctx, "doc-1", []string{"emp-1", "emp-1"})

		assert.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestAssignmentPostgres_ListAssignees(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAssignmentPostgres(db)
	ctx := context.Background()

	t.Run("some assignees", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"employee_id"}).
			AddRow("emp-1").
			AddRow("emp-2")

		mock.ExpectQuery("SELECT employee_id FROM document_assignments").
			WithArgs("doc-1").
			WillReturnRows(rows)

		ids, err := repo.ListAssignees(ctx, "doc-1")

		assert.NoError(t, err)
		assert.Equal(t, []string{"emp-1", "emp-2"}, ids)
	})

	t.Run("no assignees", func(t *testing.T) {
		mock.ExpectQuery("SELECT employee_id FROM document_assignments").
			WithArgs("doc-2").
			WillReturnRows(sqlmock.NewRows([]string{"employee_id"}))

		ids, err := repo.ListAssignees(ctx, "doc-2")

		assert.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestAssignmentPostgres_CountForEmployee(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAssignmentPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
		WithArgs("emp-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountForEmployee(ctx, "emp-1")

	assert.NoError(t, err)
	assert.Equal(t, 4, n)
}
