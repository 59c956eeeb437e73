package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/database"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/models"
)

// AdvisorRepository defines advisor request storage operations.
type AdvisorRepository interface {
	Create(ctx context.Context, req *models.AdvisorRequest) error
	// List returns requests newest first with listing and requester details.
	// An empty userID lists every request.
	List(ctx context.Context, userID string) ([]models.AdvisorRequest, error)
	FindByID(ctx context.Context, id string) (*models.AdvisorRequest, error)
	// Respond resolves a pending request. It returns nil, nil when the
	// request does not exist or is no longer pending.
	Respond(ctx context.Context, id, advisorID string, status models.AdvisorStatus, response *string) (*models.AdvisorRequest, error)
}

type advisorRepository struct {
	db *database.Database
}

// NewAdvisorRepository creates a new instance of AdvisorRepository.
func NewAdvisorRepository(db *database.Database) AdvisorRepository {
	return &advisorRepository{db: db}
}

const advisorColumns = `
	ar.id::text, ar.property_id::text, ar.user_id::text, ar.advisor_id::text,
	ar.message, ar.response, ar.status, ar.created_at, ar.responded_at`

const advisorJoinedColumns = advisorColumns + `,
	p.title, p.address, p.price, COALESCE(u.name, ''), u.email`

const advisorJoins = `
	FROM advisor_requests ar
	JOIN properties p ON p.id = ar.property_id
	JOIN profiles u ON u.id = ar.user_id`

func advisorScanTargets(req *models.AdvisorRequest) []interface{} {
	return []interface{}{
		&req.ID, &req.PropertyID, &req.UserID, &req.AdvisorID,
		&req.Message, &req.Response, &req.Status, &req.CreatedAt, &req.RespondedAt,
	}
}

func scanJoinedAdvisorRequest(row pgx.Row) (*models.AdvisorRequest, error) {
	var (
		req      models.AdvisorRequest
		property models.PropertySummary
		user     models.UserSummary
	)
	targets := append(advisorScanTargets(&req), &property.Title, &property.Address, &property.Price, &user.Name, &user.Email)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	if user.Name == "" {
		user.Name = models.Profile{Email: user.Email}.DisplayName()
	}
	req.Property = &property
	req.User = &user
	return &req, nil
}

func (r *advisorRepository) Create(ctx context.Context, req *models.AdvisorRequest) error {
	query := `
		INSERT INTO advisor_requests (property_id, user_id, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query, req.PropertyID, req.UserID, req.Message, req.Status).
		Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert advisor request: %w", err)
	}
	return nil
}

func (r *advisorRepository) List(ctx context.Context, userID string) ([]models.AdvisorRequest, error) {
	query := `SELECT ` + advisorJoinedColumns + advisorJoins
	var args []interface{}
	if userID != "" {
		query += ` WHERE ar.user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY ar.created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query advisor requests: %w", err)
	}
	defer rows.Close()

	results := []models.AdvisorRequest{}
	for rows.Next() {
		req, err := scanJoinedAdvisorRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advisor request row: %w", err)
		}
		results = append(results, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating advisor request rows: %w", err)
	}

	return results, nil
}

func (r *advisorRepository) FindByID(ctx context.Context, id string) (*models.AdvisorRequest, error) {
	query := `SELECT ` + advisorJoinedColumns + advisorJoins + ` WHERE ar.id = $1`

	req, err := scanJoinedAdvisorRequest(r.db.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query advisor request %s: %w", id, err)
	}
	return req, nil
}

func (r *advisorRepository) Respond(ctx context.Context, id, advisorID string, status models.AdvisorStatus, response *string) (*models.AdvisorRequest, error) {
	query := `
		UPDATE advisor_requests ar
		SET status = $3, response = $4, advisor_id = $2, responded_at = NOW()
		WHERE ar.id = $1 AND ar.status = 'pending'
		RETURNING ` + advisorColumns

	var req models.AdvisorRequest
	err := r.db.Pool.QueryRow(ctx, query, id, advisorID, status, response).Scan(advisorScanTargets(&req)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to respond to advisor request %s: %w", id, err)
	}
	return &req, nil
}
