package models

import "time"

// AdvisorStatus is the review state of an advisor request.
type AdvisorStatus string

const (
	AdvisorPending  AdvisorStatus = "pending"
	AdvisorApproved AdvisorStatus = "approved"
	AdvisorRejected AdvisorStatus = "rejected"
)

// IsResolution reports whether s is a valid answer to a pending request.
func (s AdvisorStatus) IsResolution() bool {
	return s == AdvisorApproved || s == AdvisorRejected
}

// AdvisorRequest asks an administrator to review a listing.
type AdvisorRequest struct {
	CreatedAt   time.Time        `json:"createdAt"`
	RespondedAt *time.Time       `json:"respondedAt,omitempty"`
	Response    *string          `json:"response,omitempty"`
	AdvisorID   *string          `json:"advisorId,omitempty"`
	Property    *PropertySummary `json:"property,omitempty"`
	User        *UserSummary     `json:"user,omitempty"`
	ID          string           `json:"id"`
	PropertyID  string           `json:"propertyId"`
	UserID      string           `json:"userId"`
	Message     string           `json:"message"`
	Status      AdvisorStatus    `json:"status"`
}

// PropertySummary is the listing data joined onto an advisor request.
type PropertySummary struct {
	Title   string  `json:"title"`
	Address string  `json:"address"`
	Price   float64 `json:"price"`
}

// UserSummary is the requester data joined onto an advisor request.
type UserSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
