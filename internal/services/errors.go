package services

import (
	"errors"

	"github.com/google/uuid"
)

// Service-level errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")

	ErrForbidden = errors.New("not allowed to modify this resource")

	ErrPropertyNotFound = errors.New("property not found")
	ErrInvalidProperty  = errors.New("invalid property")
	ErrInvalidStatus    = errors.New("status must be one of Deal Pending, Under Contract or Sold")

	ErrAdvisorRequestNotFound = errors.New("advisor request not found")
	ErrRequestAlreadyResolved = errors.New("advisor request has already been resolved")
	ErrInvalidResolution      = errors.New("status must be approved or rejected")
	ErrEmptyMessage           = errors.New("message is required")
)

// validID reports whether id can name a row. Malformed IDs are treated as
// missing rather than passed to the database.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}
