package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/logger"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/models"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/repository"
)

// AdvisorService defines advisor review requests.
type AdvisorService interface {
	// Create opens a pending request on an existing listing.
	Create(ctx context.Context, identity models.Identity, propertyID, message string) (*models.AdvisorRequest, error)
	// List returns every request for administrators and the caller's own otherwise.
	List(ctx context.Context, identity models.Identity) ([]models.AdvisorRequest, error)
	// Respond resolves a pending request. Administrators only.
	Respond(ctx context.Context, identity models.Identity, id string, status models.AdvisorStatus, response string) (*models.AdvisorRequest, error)
}

type advisorService struct {
	requests   repository.AdvisorRepository
	properties repository.PropertyRepository
	log        *logger.Logger
}

// NewAdvisorService creates a new instance of AdvisorService.
func NewAdvisorService(requests repository.AdvisorRepository, properties repository.PropertyRepository, log *logger.Logger) AdvisorService {
	return &advisorService{requests: requests, properties: properties, log: log}
}

func (s *advisorService) Create(ctx context.Context, identity models.Identity, propertyID, message string) (*models.AdvisorRequest, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if !validID(propertyID) {
		return nil, ErrPropertyNotFound
	}

	property, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	req := &models.AdvisorRequest{
		PropertyID: propertyID,
		UserID:     identity.ID,
		Message:    message,
		Status:     models.AdvisorPending,
		Property: &models.PropertySummary{
			Title:   property.Title,
			Address: property.Address,
			Price:   property.Price,
		},
		User: &models.UserSummary{Name: identity.Name, Email: identity.Email},
	}
	if err := s.requests.Create(ctx, req); err != nil {
		s.log.Error("Failed to create advisor request", err, map[string]interface{}{"property_id": propertyID})
		return nil, fmt.Errorf("failed to create advisor request: %w", err)
	}

	s.log.Info("Advisor request created", map[string]interface{}{
		"request_id":  req.ID,
		"property_id": propertyID,
		"user_id":     identity.ID,
	})
	return req, nil
}

func (s *advisorService) List(ctx context.Context, identity models.Identity) ([]models.AdvisorRequest, error) {
	userID := identity.ID
	if identity.IsAdmin() {
		userID = ""
	}

	requests, err := s.requests.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list advisor requests: %w", err)
	}
	return requests, nil
}

func (s *advisorService) Respond(ctx context.Context, identity models.Identity, id string, status models.AdvisorStatus, response string) (*models.AdvisorRequest, error) {
	if !identity.IsAdmin() {
		return nil, ErrForbidden
	}
	if !status.IsResolution() {
		return nil, ErrInvalidResolution
	}
	if !validID(id) {
		return nil, ErrAdvisorRequestNotFound
	}

	existing, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load advisor request: %w", err)
	}
	if existing == nil {
		return nil, ErrAdvisorRequestNotFound
	}
	if existing.Status != models.AdvisorPending {
		return nil, ErrRequestAlreadyResolved
	}

	var responseText *string
	if trimmed := strings.TrimSpace(response); trimmed != "" {
		responseText = &trimmed
	}

	resolved, err := s.requests.Respond(ctx, id, identity.ID, status, responseText)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve advisor request: %w", err)
	}
	if resolved == nil {
		// Another administrator answered between the read and the update.
		return nil, ErrRequestAlreadyResolved
	}
	resolved.Property = existing.Property
	resolved.User = existing.User

	s.log.Info("Advisor request resolved", map[string]interface{}{
		"request_id": id,
		"status":     status,
		"admin_id":   identity.ID,
	})
	return resolved, nil
}
