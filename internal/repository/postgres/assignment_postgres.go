package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"transitdocs/internal/repository"
)

// AssignmentPostgres is a PostgreSQL implementation of repository.AssignmentRepository.
type AssignmentPostgres struct {
	db *sql.DB
}

// NewAssignmentPostgres creates a new AssignmentPostgres repository.
func NewAssignmentPostgres(db *sql.DB) *AssignmentPostgres {
	return &AssignmentPostgres{db: db}
}

var _ repository.AssignmentRepository = (*AssignmentPostgres)(nil)

// Replace swaps the edge set for documentID inside one transaction.
// Either the document ends up with exactly employeeIDs or the previous set
// survives untouched; there is no window with the old edges deleted and the
// new ones not yet written.
func (r *AssignmentPostgres) Replace(ctx context.Context, documentID string, employeeIDs []string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM document_assignments WHERE document_id = $1`, documentID); err != nil {
		return 0, fmt.Errorf("delete edges: %w", err)
	}

	written := 0
	for _, employeeID := range employeeIDs {
		// ON CONFLICT keeps duplicate IDs in the input from failing the whole replace.
		const q = `
			INSERT INTO document_assignments (document_id, employee_id)
			VALUES ($1, $2)
			ON CONFLICT (document_id, employee_id) DO NOTHING
		`
		res, err := tx.ExecContext(ctx, q, documentID, employeeID)
		if err != nil {
			return 0, fmt.Errorf("insert edge: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		written += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return written, nil
}

// ListAssignees returns the employee IDs assigned to documentID.
func (r *AssignmentPostgres) ListAssignees(ctx context.Context, documentID string) ([]string, error) {
	const q = `SELECT employee_id FROM document_assignments WHERE document_id = $1 ORDER BY employee_id`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountForEmployee counts approved documents visible to the employee.
func (r *AssignmentPostgres) CountForEmployee(ctx context.Context, employeeID string) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM document_assignments a
		JOIN documents d ON d.id = a.document_id
		WHERE a.employee_id = $1 AND d.status = 'approved'
	`
	var n int
	if err := r.db.QueryRowContext(ctx, q, employeeID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
