package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/analyzer"
	apierrors "github.com/saadrehman171000/SmartInvest-RealEstate/internal/errors"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/logger"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/middleware"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/models"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/services"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/session"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/storage"
)

const (
	userToken  = "user-token"
	adminToken = "admin-token"

	testPropertyID = "7f8e2c1a-4b5d-4e6f-8a9b-0c1d2e3f4a5b"
	testRequestID  = "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
)

var (
	testUser  = models.Identity{ID: "9d1f6a52-8c3e-4f0a-b2d7-1e5c9a3b7f40", Email: "jane@example.com", Name: "Jane", Role: models.RoleUser}
	testAdmin = models.Identity{ID: "0b9e8d7c-6a5f-4e3d-9c2b-1a0f9e8d7c6b", Email: "admin@investoriq.com", Name: "Admin", Role: models.RoleAdmin}
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubSessions resolves the two fixed test tokens.
type stubSessions struct{}

func (stubSessions) Create(ctx context.Context, identity models.Identity) (string, error) {
	return "", errors.New("not implemented")
}

func (stubSessions) Get(ctx context.Context, token string) (models.Identity, error) {
	switch token {
	case userToken:
		return testUser, nil
	case adminToken:
		return testAdmin, nil
	}
	return models.Identity{}, session.ErrSessionNotFound
}

func (stubSessions) Delete(ctx context.Context, token string) error {
	return nil
}

// newTestRouter creates a router with the request ID, logger and session middleware.
func newTestRouter() (*gin.Engine, *gin.RouterGroup) {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.New("test")))
	return router, router.Group("/api/v1", middleware.Auth(stubSessions{}))
}

// doJSON sends body encoded as JSON with the given bearer token.
func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			payload, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(payload)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeError parses the error envelope.
func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.ErrorDetail {
	t.Helper()
	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

// MockAuthService is a mock implementation of services.AuthService for testing
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (string, models.Identity, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Get(1).(models.Identity), args.Error(2)
}

func (m *MockAuthService) SignOut(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) CurrentIdentity(ctx context.Context, token string) (models.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.Identity), args.Error(1)
}

func (m *MockAuthService) CreateUser(ctx context.Context, actor models.Identity, in services.NewUser) (*models.Profile, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

// MockPropertyService is a mock implementation of services.PropertyService for testing
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) List(ctx context.Context, identity models.Identity, search string, mine bool) ([]models.Property, error) {
	args := m.Called(ctx, identity, search, mine)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockPropertyService) Get(ctx context.Context, id string) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Create(ctx context.Context, identity models.Identity, in models.PropertyInput) (*models.Property, error) {
	args := m.Called(ctx, identity, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Update(ctx context.Context, identity models.Identity, id string, in models.PropertyInput) (*models.Property, error) {
	args := m.Called(ctx, identity, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Delete(ctx context.Context, identity models.Identity, id string) error {
	args := m.Called(ctx, identity, id)
	return args.Error(0)
}

func (m *MockPropertyService) AddImages(ctx context.Context, identity models.Identity, id string, urls []string) (*models.Property, error) {
	args := m.Called(ctx, identity, id, urls)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) SetStatus(ctx context.Context, identity models.Identity, id string, status models.PropertyStatus) (*models.Property, error) {
	args := m.Called(ctx, identity, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

// MockDealService is a mock implementation of services.DealService for testing
type MockDealService struct {
	mock.Mock
}

func (m *MockDealService) Evaluate(in analyzer.DealInput, strategy analyzer.Strategy) (analyzer.DealResult, error) {
	args := m.Called(in, strategy)
	return args.Get(0).(analyzer.DealResult), args.Error(1)
}

func (m *MockDealService) AnalyzeProperty(ctx context.Context, propertyID string, strategy analyzer.Strategy, overrides analyzer.Overrides) (*services.PropertyAnalysis, error) {
	args := m.Called(ctx, propertyID, strategy, overrides)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PropertyAnalysis), args.Error(1)
}

// MockAdvisorService is a mock implementation of services.AdvisorService for testing
type MockAdvisorService struct {
	mock.Mock
}

func (m *MockAdvisorService) Create(ctx context.Context, identity models.Identity, propertyID, message string) (*models.AdvisorRequest, error) {
	args := m.Called(ctx, identity, propertyID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdvisorRequest), args.Error(1)
}

func (m *MockAdvisorService) List(ctx context.Context, identity models.Identity) ([]models.AdvisorRequest, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AdvisorRequest), args.Error(1)
}

func (m *MockAdvisorService) Respond(ctx context.Context, identity models.Identity, id string, status models.AdvisorStatus, response string) (*models.AdvisorRequest, error) {
	args := m.Called(ctx, identity, id, status, response)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdvisorRequest), args.Error(1)
}

// MockImageStore is a mock implementation of storage.ImageStore for testing
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Upload(ctx context.Context, prefix string, img storage.Image) (string, error) {
	args := m.Called(ctx, prefix, img.Filename, img.Size)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

// MockAsker is a mock implementation of Asker for testing
type MockAsker struct {
	mock.Mock
}

func (m *MockAsker) Ask(ctx context.Context, property models.Property, question string) (string, error) {
	args := m.Called(ctx, property, question)
	return args.String(0), args.Error(1)
}

var (
	_ services.AuthService     = (*MockAuthService)(nil)
	_ services.PropertyService = (*MockPropertyService)(nil)
	_ services.DealService     = (*MockDealService)(nil)
	_ services.AdvisorService  = (*MockAdvisorService)(nil)
	_ storage.ImageStore       = (*MockImageStore)(nil)
	_ Asker                    = (*MockAsker)(nil)
)
