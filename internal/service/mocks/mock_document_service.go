package mocks

import (
	"context"

	"transitdocs/internal/model"
	"transitdocs/internal/repository"
	"transitdocs/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, in service.UploadInput, actor service.Actor) (*model.Document, error) {
	args := m.Called(ctx, in, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id string, actor service.Actor) (*service.DocumentDetail, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentDetail), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, f repository.DocumentFilter, actor service.Actor) (*service.DocumentListResult, error) {
	args := m.Called(ctx, f, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) PendingReview(ctx context.Context, q string, actor service.Actor) ([]model.Document, error) {
	args := m.Called(ctx, q, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) EmployeeDocuments(ctx context.Context, actor service.Actor) ([]model.Document, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Transition(ctx context.Context, id string, target model.Status, actor service.Actor) (*model.Document, error) {
	args := m.Called(ctx, id, target, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) SetAssignees(ctx context.Context, id string, employeeIDs []string, actor service.Actor) (int, error) {
	args := m.Called(ctx, id, employeeIDs, actor)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentService) ListAssignees(ctx context.Context, id string, actor service.Actor) ([]string, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDocumentService) ListEmployees(ctx context.Context, actor service.Actor) ([]model.Profile, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Profile), args.Error(1)
}

func (m *MockDocumentService) Stats(ctx context.Context, actor service.Actor) (*service.Stats, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Stats), args.Error(1)
}
