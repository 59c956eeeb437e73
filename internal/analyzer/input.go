package analyzer

import "github.com/saadrehman171000/SmartInvest-RealEstate/internal/models"

// Project duration bounds in months.
const (
	MinProjectDuration = 1
	MaxProjectDuration = 12
)

// DealInput holds the financial assumptions for one analysis run.
// Currency fields are absolute amounts; fields documented as percent are
// whole percentages (10 means 10%). Unset fields are zero.
//
// DealInput is a value: edits go through Apply and return a new input.
type DealInput struct {
	// Acquisition
	PurchasePrice float64 `json:"purchasePrice"`
	ClosingCosts  float64 `json:"closingCosts"`
	RehabCost     float64 `json:"rehabCost"`
	OtherFees     float64 `json:"otherFees"`
	HMLPurchase   float64 `json:"hmlPurchase"`
	HMLRepair     float64 `json:"hmlRepair"`

	// Holding
	ProjectDuration        int     `json:"projectDuration"`
	HoldingCosts           float64 `json:"holdingCosts"`
	AnnualTaxes            float64 `json:"annualTaxes"`
	Utilities              float64 `json:"utilities"`
	AnnualInsurancePremium float64 `json:"annualInsurancePremium"`
	ProjectManagementFee   float64 `json:"projectManagementFee"` // percent of purchase price
	VacancyMaintenance     float64 `json:"vacancyMaintenance"`

	// Financing
	LoanAmount                  float64 `json:"loanAmount"`
	InterestPoints              float64 `json:"interestPoints"` // percent of loan amount
	LoanFees                    float64 `json:"loanFees"`
	DownPayment                 float64 `json:"downPayment"`
	RefinanceRate               float64 `json:"refinanceRate"`               // percent
	RefinanceLoanInterestPoints float64 `json:"refinanceLoanInterestPoints"` // percent of loan amount
	RefinanceLoanOtherFees      float64 `json:"refinanceLoanOtherFees"`

	// Disposition
	ARV          float64 `json:"arv"`
	SellingCosts float64 `json:"sellingCosts"`
	TurnkeyFlip  float64 `json:"turnkeyFlip"`

	// Rental
	Rent               float64 `json:"rent"`
	CurrentRent        float64 `json:"currentRent"`
	PropertyManagement float64 `json:"propertyManagement"` // percent of current rent
}

// SeedFromProperty builds the initial analyzer input for a listing and the
// strategy matching its deal type.
func SeedFromProperty(p models.Property) (DealInput, Strategy) {
	in := DealInput{
		PurchasePrice: p.Price,
		RehabCost:     p.RepairCost,
		ARV:           p.ARV,
		Rent:          p.Rent,
		CurrentRent:   p.Rent,
	}
	return in, StrategyForDealType(p.DealType)
}

// Overrides lists the input fields a caller wants to replace. Nil fields keep
// the current value.
type Overrides struct {
	PurchasePrice               *float64 `json:"purchasePrice"`
	ClosingCosts                *float64 `json:"closingCosts"`
	RehabCost                   *float64 `json:"rehabCost"`
	OtherFees                   *float64 `json:"otherFees"`
	HMLPurchase                 *float64 `json:"hmlPurchase"`
	HMLRepair                   *float64 `json:"hmlRepair"`
	ProjectDuration             *int     `json:"projectDuration"`
	HoldingCosts                *float64 `json:"holdingCosts"`
	AnnualTaxes                 *float64 `json:"annualTaxes"`
	Utilities                   *float64 `json:"utilities"`
	AnnualInsurancePremium      *float64 `json:"annualInsurancePremium"`
	ProjectManagementFee        *float64 `json:"projectManagementFee"`
	VacancyMaintenance          *float64 `json:"vacancyMaintenance"`
	LoanAmount                  *float64 `json:"loanAmount"`
	InterestPoints              *float64 `json:"interestPoints"`
	LoanFees                    *float64 `json:"loanFees"`
	DownPayment                 *float64 `json:"downPayment"`
	RefinanceRate               *float64 `json:"refinanceRate"`
	RefinanceLoanInterestPoints *float64 `json:"refinanceLoanInterestPoints"`
	RefinanceLoanOtherFees      *float64 `json:"refinanceLoanOtherFees"`
	ARV                         *float64 `json:"arv"`
	SellingCosts                *float64 `json:"sellingCosts"`
	TurnkeyFlip                 *float64 `json:"turnkeyFlip"`
	Rent                        *float64 `json:"rent"`
	CurrentRent                 *float64 `json:"currentRent"`
	PropertyManagement          *float64 `json:"propertyManagement"`
}

// Apply returns a copy of in with every non-nil override replaced.
func (in DealInput) Apply(o Overrides) DealInput {
	out := in
	setF := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}

	setF(&out.PurchasePrice, o.PurchasePrice)
	setF(&out.ClosingCosts, o.ClosingCosts)
	setF(&out.RehabCost, o.RehabCost)
	setF(&out.OtherFees, o.OtherFees)
	setF(&out.HMLPurchase, o.HMLPurchase)
	setF(&out.HMLRepair, o.HMLRepair)
	if o.ProjectDuration != nil {
		out.ProjectDuration = *o.ProjectDuration
	}
	setF(&out.HoldingCosts, o.HoldingCosts)
	setF(&out.AnnualTaxes, o.AnnualTaxes)
	setF(&out.Utilities, o.Utilities)
	setF(&out.AnnualInsurancePremium, o.AnnualInsurancePremium)
	setF(&out.ProjectManagementFee, o.ProjectManagementFee)
	setF(&out.VacancyMaintenance, o.VacancyMaintenance)
	setF(&out.LoanAmount, o.LoanAmount)
	setF(&out.InterestPoints, o.InterestPoints)
	setF(&out.LoanFees, o.LoanFees)
	setF(&out.DownPayment, o.DownPayment)
	setF(&out.RefinanceRate, o.RefinanceRate)
	setF(&out.RefinanceLoanInterestPoints, o.RefinanceLoanInterestPoints)
	setF(&out.RefinanceLoanOtherFees, o.RefinanceLoanOtherFees)
	setF(&out.ARV, o.ARV)
	setF(&out.SellingCosts, o.SellingCosts)
	setF(&out.TurnkeyFlip, o.TurnkeyFlip)
	setF(&out.Rent, o.Rent)
	setF(&out.CurrentRent, o.CurrentRent)
	setF(&out.PropertyManagement, o.PropertyManagement)

	return out
}

// clampDuration bounds months to [MinProjectDuration, MaxProjectDuration].
func clampDuration(months int) int {
	if months < MinProjectDuration {
		return MinProjectDuration
	}
	if months > MaxProjectDuration {
		return MaxProjectDuration
	}
	return months
}

type namedAmount struct {
	field string
	value float64
}

// nonNegativeFields lists every amount other than purchase price and ARV,
// which are gated separately.
func (in DealInput) nonNegativeFields() []namedAmount {
	return []namedAmount{
		{"closingCosts", in.ClosingCosts},
		{"rehabCost", in.RehabCost},
		{"otherFees", in.OtherFees},
		{"hmlPurchase", in.HMLPurchase},
		{"hmlRepair", in.HMLRepair},
		{"holdingCosts", in.HoldingCosts},
		{"annualTaxes", in.AnnualTaxes},
		{"utilities", in.Utilities},
		{"annualInsurancePremium", in.AnnualInsurancePremium},
		{"projectManagementFee", in.ProjectManagementFee},
		{"vacancyMaintenance", in.VacancyMaintenance},
		{"loanAmount", in.LoanAmount},
		{"interestPoints", in.InterestPoints},
		{"loanFees", in.LoanFees},
		{"downPayment", in.DownPayment},
		{"refinanceRate", in.RefinanceRate},
		{"refinanceLoanInterestPoints", in.RefinanceLoanInterestPoints},
		{"refinanceLoanOtherFees", in.RefinanceLoanOtherFees},
		{"sellingCosts", in.SellingCosts},
		{"turnkeyFlip", in.TurnkeyFlip},
		{"rent", in.Rent},
		{"currentRent", in.CurrentRent},
		{"propertyManagement", in.PropertyManagement},
	}
}
