package services_test

import (
	"context"

	"github.com/hh727w/portfolio-api/internal/models"
	"github.com/hh727w/portfolio-api/pkg/email"
	"github.com/stretchr/testify/mock"
)

// MockSender is a mock implementation of email.Sender
type MockSender struct {
	mock.Mock
	name string
}

func NewMockSender(name string) *MockSender {
	return &MockSender{name: name}
}

func (m *MockSender) Send(ctx context.Context, msg email.Message) (email.SendResult, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(email.SendResult), args.Error(1)
}

func (m *MockSender) Name() string {
	return m.name
}

// MockCatalogRepository is a mock implementation of CatalogRepositoryInterface
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) Projects(ctx context.Context) ([]models.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Project), args.Error(1)
}

func (m *MockCatalogRepository) ProjectByID(ctx context.Context, id int) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockCatalogRepository) ProjectBySlug(ctx context.Context, slug string) (*models.Project, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockCatalogRepository) Experience(ctx context.Context) ([]models.Experience, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Experience), args.Error(1)
}

func (m *MockCatalogRepository) ExperienceByID(ctx context.Context, id string) (*models.Experience, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Experience), args.Error(1)
}

func (m *MockCatalogRepository) IsReady() bool {
	args := m.Called()
	return args.Bool(0)
}
