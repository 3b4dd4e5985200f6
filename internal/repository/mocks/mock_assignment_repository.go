package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Replace(ctx context.Context, documentID string, employeeIDs []string) (int, error) {
	args := m.Called(ctx, documentID, employeeIDs)
	return args.Int(0), args.Error(1)
}

func (m *MockAssignmentRepository) ListAssignees(ctx context.Context, documentID string) ([]string, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAssignmentRepository) CountForEmployee(ctx context.Context, employeeID string) (int, error) {
	args := m.Called(ctx, employeeID)
	return args.Int(0), args.Error(1)
}
