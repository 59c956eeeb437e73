// Package analyzer computes deal profitability metrics from a listing's
// financial assumptions. Evaluation is pure: no I/O, no shared state.
package analyzer

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// PriceAndARVMessage is the message returned when the acquisition gate fails.
const PriceAndARVMessage = "Purchase price and ARV must be greater than zero."

// OutOfRangeMessage is returned when amounts are too large to evaluate.
const OutOfRangeMessage = "Amounts are too large to evaluate."

// ValidationError reports financial inputs that cannot be evaluated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// CostBreakdown holds the percentage-based costs resolved to currency.
type CostBreakdown struct {
	ManagementFee             float64 `json:"managementFee"`
	InterestCost              float64 `json:"interestCost"`
	RefinanceFees             float64 `json:"refinanceFees"`
	PropertyManagementHolding float64 `json:"propertyManagementHolding"`
}

// FixFlipMetrics are the resale metrics at ARV.
type FixFlipMetrics struct {
	NetProfit float64 `json:"netProfit"`
	ROI       float64 `json:"roi"`
}

// BRRRRMetrics are the hold-and-rent metrics after refinance.
type BRRRRMetrics struct {
	MonthlyLoanPayment float64 `json:"monthlyLoanPayment"`
	CashFlow           float64 `json:"cashFlow"`
	AnnualCashFlow     float64 `json:"annualCashFlow"`
	CashOnCashReturn   float64 `json:"cashOnCashReturn"`
}

// DealResult is derived from a DealInput and never persisted. Metrics for a
// strategy that was not requested are nil.
type DealResult struct {
	FixFlip                   *FixFlipMetrics `json:"fixFlip,omitempty"`
	BRRRR                     *BRRRRMetrics   `json:"brrrr,omitempty"`
	Strategy                  Strategy        `json:"strategy"`
	Costs                     CostBreakdown   `json:"costs"`
	TotalInvestment           float64         `json:"totalInvestment"`
	MonthlyPropertyManagement float64         `json:"monthlyPropertyManagement"`
	ProjectDuration           int             `json:"projectDuration"`
}

// Validate checks the input without computing anything.
// Purchase price and ARV are checked first, regardless of other fields.
func (in DealInput) Validate() error {
	if !(in.PurchasePrice > 0) {
		return &ValidationError{Field: "purchasePrice", Message: PriceAndARVMessage}
	}
	if !(in.ARV > 0) {
		return &ValidationError{Field: "arv", Message: PriceAndARVMessage}
	}
	if math.IsInf(in.PurchasePrice, 0) {
		return outOfRange("purchasePrice")
	}
	if math.IsInf(in.ARV, 0) {
		return outOfRange("arv")
	}
	for _, f := range in.nonNegativeFields() {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return outOfRange(f.field)
		}
		if f.value < 0 {
			return &ValidationError{Field: f.field, Message: fmt.Sprintf("%s must not be negative.", f.field)}
		}
	}
	return nil
}

// Evaluate computes the total investment and the metrics for strategy.
func Evaluate(in DealInput, strategy Strategy) (DealResult, error) {
	if err := in.Validate(); err != nil {
		return DealResult{}, err
	}
	if !strategy.valid() {
		return DealResult{}, &ValidationError{Field: "strategy", Message: "Strategy must be one of FixFlip, BRRRR or Both."}
	}

	duration := clampDuration(in.ProjectDuration)

	managementFee := percentOf(in.ProjectManagementFee, in.PurchasePrice)
	interestCost := percentOf(in.InterestPoints, in.LoanAmount)
	refinanceFees := percentOf(in.RefinanceLoanInterestPoints, in.LoanAmount) + in.RefinanceLoanOtherFees
	monthlyPM := percentOf(in.PropertyManagement, in.CurrentRent)
	pmHolding := monthlyPM * float64(duration)

	// HML purchase and repair are flat draws, not percentages.
	total := in.PurchasePrice +
		in.RehabCost +
		in.HoldingCosts +
		in.ClosingCosts +
		managementFee +
		in.AnnualTaxes +
		in.Utilities +
		in.AnnualInsurancePremium +
		interestCost +
		in.OtherFees +
		in.HMLPurchase +
		in.HMLRepair +
		in.SellingCosts +
		in.TurnkeyFlip +
		pmHolding +
		in.LoanFees +
		in.DownPayment +
		in.VacancyMaintenance +
		refinanceFees

	result := DealResult{
		Strategy: strategy,
		Costs: CostBreakdown{
			ManagementFee:             managementFee,
			InterestCost:              interestCost,
			RefinanceFees:             refinanceFees,
			PropertyManagementHolding: pmHolding,
		},
		TotalInvestment:           total,
		MonthlyPropertyManagement: monthlyPM,
		ProjectDuration:           duration,
	}
	if !finite(total, managementFee, interestCost, refinanceFees, pmHolding) {
		return DealResult{}, outOfRange("totalInvestment")
	}

	if strategy.includesFixFlip() {
		netProfit := in.ARV - total
		roi := netProfit / total * 100
		if !finite(netProfit, roi) {
			return DealResult{}, outOfRange("netProfit")
		}
		result.FixFlip = &FixFlipMetrics{
			NetProfit: netProfit,
			ROI:       round2(roi),
		}
	}

	if strategy.includesBRRRR() {
		monthlyLoanPayment := in.LoanAmount * in.RefinanceRate / 100 / 12
		cashFlow := in.Rent - monthlyLoanPayment - monthlyPM
		annualCashFlow := cashFlow * 12
		cashOnCash := annualCashFlow / total * 100
		if !finite(monthlyLoanPayment, cashFlow, annualCashFlow, cashOnCash) {
			return DealResult{}, outOfRange("cashFlow")
		}
		result.BRRRR = &BRRRRMetrics{
			MonthlyLoanPayment: monthlyLoanPayment,
			CashFlow:           cashFlow,
			AnnualCashFlow:     annualCashFlow,
			CashOnCashReturn:   round2(cashOnCash),
		}
	}

	return result, nil
}

func outOfRange(field string) *ValidationError {
	return &ValidationError{Field: field, Message: OutOfRangeMessage}
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func percentOf(percent, base float64) float64 {
	return percent / 100 * base
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
