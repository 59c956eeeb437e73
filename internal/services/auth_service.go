package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/logger"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/models"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/repository"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/session"
)

// MinPasswordLength is the shortest password accepted for new accounts.
const MinPasswordLength = 6

// NewUser carries the fields an administrator supplies to create an account.
type NewUser struct {
	Email    string
	Password string
	Name     string
}

// AuthService defines sign-in, session and account operations.
type AuthService interface {
	// SignIn verifies credentials and opens a session.
	// Returns ErrInvalidCredentials for unknown emails or wrong passwords.
	SignIn(ctx context.Context, email, password string) (string, models.Identity, error)
	SignOut(ctx context.Context, token string) error
	// CurrentIdentity returns session.ErrSessionNotFound for unknown or expired tokens.
	CurrentIdentity(ctx context.Context, token string) (models.Identity, error)
	// CreateUser is restricted to administrators.
	CreateUser(ctx context.Context, actor models.Identity, in NewUser) (*models.Profile, error)
	// EnsureAdmin creates the bootstrap admin account, or promotes it if it exists.
	EnsureAdmin(ctx context.Context, email, password string) error
}

type authService struct {
	profiles   repository.ProfileRepository
	sessions   session.Store
	adminEmail string
	hashCost   int
	log        *logger.Logger
}

// NewAuthService creates a new instance of AuthService. Accounts whose email
// matches adminEmail always sign in as administrators.
func NewAuthService(profiles repository.ProfileRepository, sessions session.Store, adminEmail string, log *logger.Logger) AuthService {
	return &authService{
		profiles:   profiles,
		sessions:   sessions,
		adminEmail: normalizeEmail(adminEmail),
		hashCost:   bcrypt.DefaultCost,
		log:        log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) SignIn(ctx context.Context, email, password string) (string, models.Identity, error) {
	email = normalizeEmail(email)

	profile, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		return "", models.Identity{}, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		s.log.Warn("Sign-in for unknown email", map[string]interface{}{"email": email})
		return "", models.Identity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("Sign-in with wrong password", map[string]interface{}{"user_id": profile.ID})
		return "", models.Identity{}, ErrInvalidCredentials
	}

	identity := s.identityFor(profile)
	token, err := s.sessions.Create(ctx, identity)
	if err != nil {
		return "", models.Identity{}, fmt.Errorf("failed to open session: %w", err)
	}

	s.log.Info("User signed in", map[string]interface{}{
		"user_id": identity.ID,
		"role":    identity.Role,
	})
	return token, identity, nil
}

func (s *authService) identityFor(p *models.Profile) models.Identity {
	role := p.Role
	if p.Email == s.adminEmail {
		role = models.RoleAdmin
	}
	if role != models.RoleAdmin {
		role = models.RoleUser
	}
	return models.Identity{
		ID:    p.ID,
		Email: p.Email,
		Name:  p.DisplayName(),
		Role:  role,
	}
}

func (s *authService) SignOut(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return nil
}

func (s *authService) CurrentIdentity(ctx context.Context, token string) (models.Identity, error) {
	return s.sessions.Get(ctx, token)
}

func (s *authService) CreateUser(ctx context.Context, actor models.Identity, in NewUser) (*models.Profile, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if len(in.Password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	profile, err := s.createProfile(ctx, in, models.RoleUser)
	if err != nil {
		return nil, err
	}

	s.log.Info("User created", map[string]interface{}{
		"user_id":    profile.ID,
		"created_by": actor.ID,
	})
	return profile, nil
}

func (s *authService) createProfile(ctx context.Context, in NewUser, role models.Role) (*models.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.Profile{
		Email:        normalizeEmail(in.Email),
		PasswordHash: string(hash),
		Role:         role,
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		profile.Name = &name
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)

	existing, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to load admin profile: %w", err)
	}
	if existing != nil {
		if existing.Role != models.RoleAdmin {
			if err := s.profiles.UpdateRole(ctx, existing.ID, models.RoleAdmin); err != nil {
				return err
			}
			s.log.Info("Promoted existing account to admin", map[string]interface{}{"user_id": existing.ID})
		}
		return nil
	}

	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	profile, err := s.createProfile(ctx, NewUser{Email: email, Password: password, Name: "Admin"}, models.RoleAdmin)
	if err != nil {
		return err
	}

	s.log.Info("Bootstrap admin created", map[string]interface{}{"user_id": profile.ID})
	return nil
}
