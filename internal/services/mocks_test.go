package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/models"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/repository"
)

// MockProfileRepository is a mock implementation of ProfileRepository for testing
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProfileRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

// MockSessionStore is a mock implementation of session.Store for testing
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, identity models.Identity) (string, error) {
	args := m.Called(ctx, identity)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) Get(ctx context.Context, token string) (models.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.Identity), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockPropertyRepository is a mock implementation of PropertyRepository for testing
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) List(ctx context.Context, filter repository.PropertyFilter) ([]models.Property, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, id string) (*models.Property, error) {
	args := m.Called(ctx, id)
	return propertyOrNil(args.Get(0)), args.Error(1)
}

func (m *MockPropertyRepository) Create(ctx context.Context, p *models.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPropertyRepository) Update(ctx context.Context, id string, in models.PropertyInput) (*models.Property, error) {
	args := m.Called(ctx, id, in)
	return propertyOrNil(args.Get(0)), args.Error(1)
}

func (m *MockPropertyRepository) UpdateStatus(ctx context.Context, id string, status models.PropertyStatus) (*models.Property, error) {
	args := m.Called(ctx, id, status)
	return propertyOrNil(args.Get(0)), args.Error(1)
}

func (m *MockPropertyRepository) AppendImages(ctx context.Context, id string, urls []string) (*models.Property, error) {
	args := m.Called(ctx, id, urls)
	return propertyOrNil(args.Get(0)), args.Error(1)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func propertyOrNil(v interface{}) *models.Property {
	if v == nil {
		return nil
	}
	return v.(*models.Property)
}

// MockAdvisorRepository is a mock implementation of AdvisorRepository for testing
type MockAdvisorRepository struct {
	mock.Mock
}

func (m *MockAdvisorRepository) Create(ctx context.Context, req *models.AdvisorRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAdvisorRepository) List(ctx context.Context, userID string) ([]models.AdvisorRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AdvisorRequest), args.Error(1)
}

func (m *MockAdvisorRepository) FindByID(ctx context.Context, id string) (*models.AdvisorRequest, error) {
	args := m.Called(ctx, id)
	return advisorRequestOrNil(args.Get(0)), args.Error(1)
}

func (m *MockAdvisorRepository) Respond(ctx context.Context, id, advisorID string, status models.AdvisorStatus, response *string) (*models.AdvisorRequest, error) {
	args := m.Called(ctx, id, advisorID, status, response)
	return advisorRequestOrNil(args.Get(0)), args.Error(1)
}

func advisorRequestOrNil(v interface{}) *models.AdvisorRequest {
	if v == nil {
		return nil
	}
	return v.(*models.AdvisorRequest)
}

// Shared fixtures
const (
	testPropertyID = "6f1c2a54-8d3b-4c57-9a2e-0d7b5e3f1a11"
	testRequestID  = "0b9e7d62-3f4a-4e1b-8c5d-2a6f9e8b7c33"
)

var (
	testUser  = models.Identity{ID: "user-1", Email: "jane@example.com", Name: "jane", Role: models.RoleUser}
	testOther = models.Identity{ID: "user-2", Email: "sam@example.com", Name: "sam", Role: models.RoleUser}
	testAdmin = models.Identity{ID: "admin-1", Email: "admin@investoriq.com", Name: "Admin", Role: models.RoleAdmin}
)
