package models

import (
	"time"
)

// DealType is the investment strategy a listing is advertised for.
type DealType string

const (
	DealTypeFixFlip DealType = "Fix & Flip"
	DealTypeBRRRR   DealType = "BRRRR"
	DealTypeBoth    DealType = "Both"
)

// Valid reports whether d is a known deal type.
func (d DealType) Valid() bool {
	switch d {
	case DealTypeFixFlip, DealTypeBRRRR, DealTypeBoth:
		return true
	}
	return false
}

// MaxAmount is the largest currency amount a listing may carry.
const MaxAmount = 1_000_000_000_000

// PropertyStatus tracks a listing through the sale pipeline.
type PropertyStatus string

const (
	StatusDealPending   PropertyStatus = "Deal Pending"
	StatusUnderContract PropertyStatus = "Under Contract"
	StatusSold          PropertyStatus = "Sold"
)

// Valid reports whether s is a known listing status.
func (s PropertyStatus) Valid() bool {
	switch s {
	case StatusDealPending, StatusUnderContract, StatusSold:
		return true
	}
	return false
}

// Property is a marketplace listing with its headline financial metrics.
// Nullable columns use pointers to distinguish NULL from zero values.
type Property struct {
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	Description      *string        `json:"description,omitempty"`
	PropertyID       *string        `json:"propertyId,omitempty"`
	ID               string         `json:"id"`
	UserID           string         `json:"userId"`
	Title            string         `json:"title"`
	Address          string         `json:"address"`
	DealType         DealType       `json:"dealType"`
	Status           PropertyStatus `json:"status"`
	Images           []string       `json:"images"`
	Price            float64        `json:"price"`
	RepairCost       float64        `json:"repairCost"`
	ProfitForSelling float64        `json:"profitForSelling"`
	ROI              float64        `json:"roi"`
	Rent             float64        `json:"rent"`
	NetCashFlow      float64        `json:"netCashFlow"`
	CashOnCashReturn float64        `json:"cashOnCashReturn"`
	ARV              float64        `json:"arv"`
	IQScore          int            `json:"iqScore"`
}

// PropertyInput carries the editable fields of a listing.
type PropertyInput struct {
	Description      *string
	PropertyID       *string
	Title            string
	Address          string
	DealType         DealType
	Images           []string
	Price            float64
	RepairCost       float64
	ProfitForSelling float64
	ROI              float64
	Rent             float64
	NetCashFlow      float64
	CashOnCashReturn float64
	ARV              float64
}
