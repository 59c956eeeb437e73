package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/analyzer"
	apierrors "github.com/saadrehman171000/SmartInvest-RealEstate/internal/errors"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/logger"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/services"
)

// AnalyzerHandler exposes the deal analyzer over raw inputs and seeded listings.
type AnalyzerHandler struct {
	service services.DealService
	log     *logger.Logger
}

// NewAnalyzerHandler creates a new AnalyzerHandler instance.
func NewAnalyzerHandler(service services.DealService, log *logger.Logger) *AnalyzerHandler {
	return &AnalyzerHandler{
		service: service,
		log:     log,
	}
}

// EvaluateRequest is a full set of deal inputs plus the strategy to compute.
// An empty strategy computes both.
type EvaluateRequest struct {
	analyzer.DealInput
	Strategy string `json:"strategy"`
}

// AnalysisRequest is the optional body of POST /properties/:id/analysis.
// An empty strategy uses the listing's deal type.
type AnalysisRequest struct {
	Strategy  string             `json:"strategy"`
	Overrides analyzer.Overrides `json:"overrides"`
}

// parseStrategy returns fallback for an empty value.
func parseStrategy(raw string, fallback analyzer.Strategy) (analyzer.Strategy, error) {
	if raw == "" {
		return fallback, nil
	}
	return analyzer.ParseStrategy(raw)
}

// Evaluate handles POST /api/v1/analyzer/evaluate.
func (h *AnalyzerHandler) Evaluate(c *gin.Context) {
	var req EvaluateRequest
	if !bindJSON(c, &req) {
		return
	}

	strategy, err := parseStrategy(req.Strategy, analyzer.StrategyBoth)
	if err != nil {
		respondError(c, err, "")
		return
	}

	result, err := h.service.Evaluate(req.DealInput, strategy)
	if err != nil {
		respondError(c, err, "Failed to evaluate deal")
		return
	}

	c.JSON(http.StatusOK, result)
}

// PropertyAnalysis handles GET /api/v1/properties/:id/analysis?strategy=.
func (h *AnalyzerHandler) PropertyAnalysis(c *gin.Context) {
	strategy, err := parseStrategy(c.Query("strategy"), "")
	if err != nil {
		respondError(c, err, "")
		return
	}
	h.analyze(c, strategy, analyzer.Overrides{})
}

// PropertyAnalysisWithOverrides handles POST /api/v1/properties/:id/analysis.
func (h *AnalyzerHandler) PropertyAnalysisWithOverrides(c *gin.Context) {
	var req AnalysisRequest
	if c.Request.ContentLength != 0 {
		if !bindJSON(c, &req) {
			return
		}
	}

	raw := req.Strategy
	if raw == "" {
		raw = c.Query("strategy")
	}
	strategy, err := parseStrategy(raw, "")
	if err != nil {
		respondError(c, err, "")
		return
	}
	h.analyze(c, strategy, req.Overrides)
}

func (h *AnalyzerHandler) analyze(c *gin.Context, strategy analyzer.Strategy, overrides analyzer.Overrides) {
	analysis, err := h.service.AnalyzeProperty(c.Request.Context(), c.Param("id"), strategy, overrides)
	if err != nil {
		respondError(c, err, "Failed to analyze property")
		return
	}
	if analysis == nil {
		apierrors.NotFound(c, "Property not found")
		return
	}

	c.JSON(http.StatusOK, analysis)
}
