package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/logger"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/models"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/repository"
)

// IQ score bounds assigned to new listings.
const (
	MinIQScore = 5
	MaxIQScore = 9
)

// PropertyService defines listing business logic.
type PropertyService interface {
	// List returns listings matching search; mine restricts to the caller's own.
	List(ctx context.Context, identity models.Identity, search string, mine bool) ([]models.Property, error)
	// Get returns ErrPropertyNotFound when the listing does not exist.
	Get(ctx context.Context, id string) (*models.Property, error)
	Create(ctx context.Context, identity models.Identity, in models.PropertyInput) (*models.Property, error)
	// Update, Delete and AddImages require the owner or an administrator.
	Update(ctx context.Context, identity models.Identity, id string, in models.PropertyInput) (*models.Property, error)
	Delete(ctx context.Context, identity models.Identity, id string) error
	AddImages(ctx context.Context, identity models.Identity, id string, urls []string) (*models.Property, error)
	// SetStatus is restricted to administrators.
	SetStatus(ctx context.Context, identity models.Identity, id string, status models.PropertyStatus) (*models.Property, error)
}

type propertyService struct {
	repo    repository.PropertyRepository
	log     *logger.Logger
	iqScore func() int
}

// NewPropertyService creates a new instance of PropertyService.
func NewPropertyService(repo repository.PropertyRepository, log *logger.Logger) PropertyService {
	return &propertyService{
		repo: repo,
		log:  log,
		iqScore: func() int {
			return MinIQScore + rand.IntN(MaxIQScore-MinIQScore+1)
		},
	}
}

// validateInput normalizes in and checks the required listing fields.
func validateInput(in models.PropertyInput) (models.PropertyInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Address = strings.TrimSpace(in.Address)
	if in.DealType == "" {
		in.DealType = models.DealTypeFixFlip
	}

	switch {
	case in.Title == "":
		return in, fmt.Errorf("%w: title is required", ErrInvalidProperty)
	case in.Address == "":
		return in, fmt.Errorf("%w: address is required", ErrInvalidProperty)
	case !(in.Price > 0):
		return in, fmt.Errorf("%w: price must be greater than zero", ErrInvalidProperty)
	case in.Price > models.MaxAmount:
		return in, fmt.Errorf("%w: price must not exceed %d", ErrInvalidProperty, int64(models.MaxAmount))
	case !in.DealType.Valid():
		return in, fmt.Errorf("%w: deal type must be one of Fix & Flip, BRRRR or Both", ErrInvalidProperty)
	}

	for name, v := range map[string]float64{
		"repair cost": in.RepairCost,
		"rent":        in.Rent,
		"ARV":         in.ARV,
	} {
		if v < 0 {
			return in, fmt.Errorf("%w: %s must not be negative", ErrInvalidProperty, name)
		}
		if v > models.MaxAmount {
			return in, fmt.Errorf("%w: %s must not exceed %d", ErrInvalidProperty, name, int64(models.MaxAmount))
		}
	}
	return in, nil
}

func (s *propertyService) List(ctx context.Context, identity models.Identity, search string, mine bool) ([]models.Property, error) {
	filter := repository.PropertyFilter{Search: search}
	if mine {
		filter.OwnerID = identity.ID
	}

	properties, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Error("Failed to list properties", err, map[string]interface{}{"search": search})
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	s.log.Debug("Listed properties", map[string]interface{}{
		"search": search,
		"mine":   mine,
		"count":  len(properties),
	})
	return properties, nil
}

func (s *propertyService) Get(ctx context.Context, id string) (*models.Property, error) {
	if !validID(id) {
		return nil, ErrPropertyNotFound
	}

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}
	return property, nil
}

// authorize loads id and checks that identity may modify it.
func (s *propertyService) authorize(ctx context.Context, identity models.Identity, id string) (*models.Property, error) {
	property, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !identity.CanManage(property.UserID) {
		s.log.Warn("Rejected property modification", map[string]interface{}{
			"property_id": id,
			"user_id":     identity.ID,
		})
		return nil, ErrForbidden
	}
	return property, nil
}

func (s *propertyService) Create(ctx context.Context, identity models.Identity, in models.PropertyInput) (*models.Property, error) {
	in, err := validateInput(in)
	if err != nil {
		return nil, err
	}

	property := &models.Property{
		UserID:           identity.ID,
		Title:            in.Title,
		Address:          in.Address,
		Price:            in.Price,
		DealType:         in.DealType,
		Status:           models.StatusDealPending,
		Description:      in.Description,
		Images:           in.Images,
		IQScore:          s.iqScore(),
		RepairCost:       in.RepairCost,
		ProfitForSelling: in.ProfitForSelling,
		ROI:              in.ROI,
		Rent:             in.Rent,
		NetCashFlow:      in.NetCashFlow,
		CashOnCashReturn: in.CashOnCashReturn,
		ARV:              in.ARV,
		PropertyID:       in.PropertyID,
	}
	if err := s.repo.Create(ctx, property); err != nil {
		s.log.Error("Failed to create property", err, map[string]interface{}{"user_id": identity.ID})
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	s.log.Info("Property created", map[string]interface{}{
		"property_id": property.ID,
		"user_id":     identity.ID,
		"iq_score":    property.IQScore,
	})
	return property, nil
}

func (s *propertyService) Update(ctx context.Context, identity models.Identity, id string, in models.PropertyInput) (*models.Property, error) {
	in, err := validateInput(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorize(ctx, identity, id); err != nil {
		return nil, err
	}

	property, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	s.log.Info("Property updated", map[string]interface{}{"property_id": id, "user_id": identity.ID})
	return property, nil
}

func (s *propertyService) Delete(ctx context.Context, identity models.Identity, id string) error {
	if _, err := s.authorize(ctx, identity, id); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	if !deleted {
		return ErrPropertyNotFound
	}

	s.log.Info("Property deleted", map[string]interface{}{"property_id": id, "user_id": identity.ID})
	return nil
}

func (s *propertyService) AddImages(ctx context.Context, identity models.Identity, id string, urls []string) (*models.Property, error) {
	if _, err := s.authorize(ctx, identity, id); err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: at least one image is required", ErrInvalidProperty)
	}

	property, err := s.repo.AppendImages(ctx, id, urls)
	if err != nil {
		return nil, fmt.Errorf("failed to attach images: %w", err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}
	return property, nil
}

func (s *propertyService) SetStatus(ctx context.Context, identity models.Identity, id string, status models.PropertyStatus) (*models.Property, error) {
	if !identity.IsAdmin() {
		return nil, ErrForbidden
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if !validID(id) {
		return nil, ErrPropertyNotFound
	}

	property, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	s.log.Info("Property status changed", map[string]interface{}{
		"property_id": id,
		"status":      status,
		"admin_id":    identity.ID,
	})
	return property, nil
}
