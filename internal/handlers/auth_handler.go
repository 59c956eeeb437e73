package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/saadrehman171000/SmartInvest-RealEstate/internal/errors"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/logger"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/middleware"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/models"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/services"
)

// AuthHandler handles sign-in, sign-out and account creation.
type AuthHandler struct {
	service services.AuthService
	log     *logger.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(service services.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

// SignInRequest is the body of POST /auth/signin.
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignInResponse carries the session token and the resolved identity.
type SignInResponse struct {
	Token    string          `json:"token"`
	Identity models.Identity `json:"identity"`
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// SignIn handles POST /api/v1/auth/signin.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if !bindJSON(c, &req) {
		return
	}

	token, id, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Failed to sign in")
		return
	}

	c.JSON(http.StatusOK, SignInResponse{Token: token, Identity: id})
}

// SignOut handles POST /api/v1/auth/signout.
func (h *AuthHandler) SignOut(c *gin.Context) {
	token := middleware.GetSessionToken(c)
	if token == "" {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.service.SignOut(c.Request.Context(), token); err != nil {
		respondError(c, err, "Failed to sign out")
		return
	}

	c.Status(http.StatusNoContent)
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, id)
}

// CreateUser handles POST /api/v1/users. Only administrators reach it.
func (h *AuthHandler) CreateUser(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}

	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.service.CreateUser(c.Request.Context(), actor, services.NewUser{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondError(c, err, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, profile)
}
