package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/database"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/models"
)

// ProfileRepository defines account storage operations.
type ProfileRepository interface {
	// FindByEmail returns nil, nil when no profile has the email.
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	// Create inserts p and fills its ID and CreatedAt. Returns ErrDuplicate
	// when the email is already registered.
	Create(ctx context.Context, p *models.Profile) error
	UpdateRole(ctx context.Context, id string, role models.Role) error
}

type profileRepository struct {
	db *database.Database
}

// NewProfileRepository creates a new instance of ProfileRepository.
func NewProfileRepository(db *database.Database) ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `id::text, email, name, avatar_url, password_hash, role, created_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.Email, &p.Name, &p.AvatarURL, &p.PasswordHash, &p.Role, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`

	p, err := scanProfile(r.db.Pool.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile by email: %w", err)
	}
	return p, nil
}

func (r *profileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	p, err := scanProfile(r.db.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile %s: %w", id, err)
	}
	return p, nil
}

func (r *profileRepository) Create(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (email, name, avatar_url, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query, p.Email, p.Name, p.AvatarURL, p.PasswordHash, p.Role).
		Scan(&p.ID, &p.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

func (r *profileRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	if _, err := r.db.Pool.Exec(ctx, `UPDATE profiles SET role = $2 WHERE id = $1`, id, role); err != nil {
		return fmt.Errorf("failed to update role for profile %s: %w", id, err)
	}
	return nil
}
