package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"transitdocs/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var profileCols = []string{"user_id", "full_name", "email", "role", "department", "password_hash", "created_at"}

func TestProfilePostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewProfilePostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	p := &model.Profile{
		UserID:       "user-1",
		FullName:     "Priya Nair",
		Email:        "priya@example.com",
		Role:         model.RoleEmployee,
		Department:   "Operations",
		PasswordHash: "hash",
		CreatedAt:    now,
	}

	rows := sqlmock.NewRows(profileCols).
		AddRow(p.UserID, p.FullName, p.Email, p.Role, p.Department, p.PasswordHash, p.CreatedAt)

	mock.ExpectQuery("INSERT INTO profiles").
		WithArgs(p.UserID, p.FullName, p.Email, p.Role, p.Department, p.PasswordHash, p.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, p)

	assert.NoError(t, err)
	assert.Equal(t, "user-1", result.UserID)
	assert.Equal(t, model.RoleEmployee, result.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfilePostgres_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewProfilePostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(profileCols).
			AddRow("user-1", "Priya Nair", "priya@example.com", "employee", nil, "hash", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM profiles WHERE email").
			WithArgs("priya@example.com").
			WillReturnRows(rows)

		p, err := repo.FindByEmail(ctx, "priya@example.com")

		assert.NoError(t, err)
		assert.Equal(t, "user-1", p.UserID)
		assert.Empty(t, p.Department)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM profiles WHERE email").
			WithArgs("missing@example.com").
			WillReturnError(sql.ErrNoRows)

		p, err := repo.FindByEmail(ctx, "missing@example.com")

		assert.Error(t, err)
		assert.True(t, IsNoRowsError(err))
		assert.Nil(t, p)
	})
}

func TestProfilePostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewProfilePostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(profileCols).
		AddRow("user-1", "Priya Nair", "priya@example.com", "employee", "Operations", "hash", time.Now())

	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE user_id").
		WithArgs("user-1").
		WillReturnRows(rows)

	p, err := repo.FindByID(ctx, "user-1")

	assert.NoError(t, err)
	assert.Equal(t, "Operations", p.Department)
}

func TestProfilePostgres_ListByRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewProfilePostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(profileCols).
		AddRow("user-1", "John Doe", "john@example.com", "employee", "Maintenance", "hash", time.Now()).
		AddRow("user-2", "Priya Nair", "priya@example.com", "employee", "Operations", "hash", time.Now())

	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE role").
		WithArgs(model.RoleEmployee).
		WillReturnRows(rows)

	profiles, err := repo.ListByRole(ctx, model.RoleEmployee)

	assert.NoError(t, err)
	assert.Len(t, profiles, 2)
	assert.Equal(t, "John Doe", profiles[0].FullName)
}
