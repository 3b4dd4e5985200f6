package repository

import "context"

// AssignmentRepository owns the document→employee assignment edges.
type AssignmentRepository interface {
	// Replace swaps the full edge set for documentID with employeeIDs inside a
	// single transaction (delete-then-insert), so a failed insert never leaves
	// the document stripped of its previous assignees. employeeIDs may be empty.
	// Returns the number of edges written.
	Replace(ctx context.Context, documentID string, employeeIDs []string) (int, error)

	// ListAssignees returns the employee IDs assigned to documentID.
	ListAssignees(ctx context.Context, documentID string) ([]string, error)

	// CountForEmployee returns the number of approved documents visible to the employee.
	CountForEmployee(ctx context.Context, employeeID string) (int, error)
}
