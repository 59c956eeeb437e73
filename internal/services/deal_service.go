package services

import (
	"context"
	"errors"

	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/analyzer"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/logger"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/metrics"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/models"
)

// PropertyAnalysis is a listing evaluated with its seeded and overridden inputs.
type PropertyAnalysis struct {
	Property *models.Property    `json:"property"`
	Input    analyzer.DealInput  `json:"input"`
	Result   analyzer.DealResult `json:"result"`
}

// DealService runs the deal analyzer on raw inputs or on stored listings.
type DealService interface {
	Evaluate(in analyzer.DealInput, strategy analyzer.Strategy) (analyzer.DealResult, error)
	// AnalyzeProperty seeds the input from the listing, applies overrides and
	// evaluates. An empty strategy uses the listing's deal type.
	AnalyzeProperty(ctx context.Context, propertyID string, strategy analyzer.Strategy, overrides analyzer.Overrides) (*PropertyAnalysis, error)
}

type dealService struct {
	properties PropertyService
	log        *logger.Logger
}

// NewDealService creates a new instance of DealService.
func NewDealService(properties PropertyService, log *logger.Logger) DealService {
	return &dealService{properties: properties, log: log}
}

func (s *dealService) Evaluate(in analyzer.DealInput, strategy analyzer.Strategy) (analyzer.DealResult, error) {
	result, err := analyzer.Evaluate(in, strategy)
	if err != nil {
		outcome := metrics.OutcomeError
		var vErr *analyzer.ValidationError
		if errors.As(err, &vErr) {
			outcome = metrics.OutcomeInvalid
		}
		metrics.DealEvaluations.WithLabelValues(string(strategy), outcome).Inc()
		s.log.Debug("Deal evaluation rejected", map[string]interface{}{
			"strategy": strategy,
			"error":    err.Error(),
		})
		return analyzer.DealResult{}, err
	}

	metrics.DealEvaluations.WithLabelValues(string(strategy), metrics.OutcomeSuccess).Inc()
	return result, nil
}

func (s *dealService) AnalyzeProperty(ctx context.Context, propertyID string, strategy analyzer.Strategy, overrides analyzer.Overrides) (*PropertyAnalysis, error) {
	property, err := s.properties.Get(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	seeded, defaultStrategy := analyzer.SeedFromProperty(*property)
	if strategy == "" {
		strategy = defaultStrategy
	}
	input := seeded.Apply(overrides)

	result, err := s.Evaluate(input, strategy)
	if err != nil {
		return nil, err
	}

	s.log.Info("Property analyzed", map[string]interface{}{
		"property_id":      propertyID,
		"strategy":         strategy,
		"total_investment": result.TotalInvestment,
	})
	return &PropertyAnalysis{Property: property, Input: input, Result: result}, nil
}
