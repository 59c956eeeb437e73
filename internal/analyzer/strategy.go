package analyzer

import (
	"strings"

	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/models"
)

// Strategy selects which profitability metrics an evaluation produces.
type Strategy string

const (
	StrategyFixFlip Strategy = "FixFlip"
	StrategyBRRRR   Strategy = "BRRRR"
	StrategyBoth    Strategy = "Both"
)

// ParseStrategy accepts the API spelling ("FixFlip") as well as the listing
// deal type spelling ("Fix & Flip"), case-insensitively.
func ParseStrategy(raw string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "fixflip", "fix & flip", "fix_flip", "fix-flip":
		return StrategyFixFlip, nil
	case "brrrr":
		return StrategyBRRRR, nil
	case "both":
		return StrategyBoth, nil
	}
	return "", &ValidationError{Field: "strategy", Message: "Strategy must be one of FixFlip, BRRRR or Both."}
}

// StrategyForDealType maps a listing's advertised deal type to a strategy.
// Unknown or empty deal types default to Fix & Flip.
func StrategyForDealType(d models.DealType) Strategy {
	switch d {
	case models.DealTypeBRRRR:
		return StrategyBRRRR
	case models.DealTypeBoth:
		return StrategyBoth
	default:
		return StrategyFixFlip
	}
}

func (s Strategy) valid() bool {
	return s == StrategyFixFlip || s == StrategyBRRRR || s == StrategyBoth
}

func (s Strategy) includesFixFlip() bool {
	return s == StrategyFixFlip || s == StrategyBoth
}

func (s Strategy) includesBRRRR() bool {
	return s == StrategyBRRRR || s == StrategyBoth
}
