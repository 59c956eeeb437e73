// Package handlers exposes the HTTP API on gin.
package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/analyzer"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/assistant"
	apierrors "github.com/saadrehman171000/SmartInvest-RealEstate/internal/errors"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/middleware"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/models"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/services"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/session"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/storage"
)

func init() {
	// Report validation failures by JSON field name rather than Go field name.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	}
}

// bindJSON decodes the request body into req and writes the error response
// when decoding or validation fails.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return false
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return false
	}
	return true
}

// identity returns the authenticated caller. Routes are registered behind
// middleware.Auth, so a missing identity is answered with 401.
func identity(c *gin.Context) (models.Identity, bool) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
	}
	return id, ok
}

// respondError maps service errors onto API error responses.
func respondError(c *gin.Context, err error, fallback string) {
	var validationErr *analyzer.ValidationError
	switch {
	case errors.As(err, &validationErr):
		apierrors.InvalidField(c, validationErr.Field, validationErr.Message)

	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, "Invalid email or password")
	case errors.Is(err, session.ErrSessionNotFound):
		apierrors.Unauthorized(c, "Session expired or invalid")

	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, "You do not have permission to perform this action")

	case errors.Is(err, services.ErrPropertyNotFound):
		apierrors.NotFound(c, "Property not found")
	case errors.Is(err, services.ErrAdvisorRequestNotFound):
		apierrors.NotFound(c, "Advisor request not found")

	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrRequestAlreadyResolved):
		apierrors.Conflict(c, err.Error())

	case errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrInvalidProperty),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidResolution),
		errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, assistant.ErrEmptyQuestion),
		errors.Is(err, storage.ErrUnsupportedImage),
		errors.Is(err, storage.ErrImageTooLarge),
		errors.Is(err, storage.ErrEmptyImage):
		apierrors.BadRequest(c, err.Error(), nil)

	case errors.Is(err, assistant.ErrAssistantUnavailable):
		apierrors.ServiceUnavailable(c, "AI assistant is not available")

	default:
		apierrors.InternalServerError(c, fallback, err)
	}
}
