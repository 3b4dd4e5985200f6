package model

// Assignment is an edge in the assignment ledger: document D is visible to
// employee E once D is approved. The (document, employee) pair is unique.
type Assignment struct {
	DocumentID string `json:"document_id"`
	EmployeeID string `json:"employee_id"`
}
