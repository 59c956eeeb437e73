package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/database"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/models"
)

// PropertyFilter narrows a listing query. Zero values match everything.
type PropertyFilter struct {
	// Search matches title, address or deal type case-insensitively.
	Search  string
	OwnerID string
}

// PropertyRepository defines listing storage operations.
type PropertyRepository interface {
	// List returns matching listings, newest first. Never returns a nil slice.
	List(ctx context.Context, filter PropertyFilter) ([]models.Property, error)
	FindByID(ctx context.Context, id string) (*models.Property, error)
	// Create inserts p and fills its generated fields.
	Create(ctx context.Context, p *models.Property) error
	// Update, UpdateStatus and AppendImages return nil, nil when id does not exist.
	Update(ctx context.Context, id string, in models.PropertyInput) (*models.Property, error)
	UpdateStatus(ctx context.Context, id string, status models.PropertyStatus) (*models.Property, error)
	AppendImages(ctx context.Context, id string, urls []string) (*models.Property, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

type propertyRepository struct {
	db *database.Database
}

// NewPropertyRepository creates a new instance of PropertyRepository.
func NewPropertyRepository(db *database.Database) PropertyRepository {
	return &propertyRepository{db: db}
}

const propertyColumns = `
	id::text, user_id::text, title, address, price, deal_type, status, description,
	images, iq_score, repair_cost, profit_for_selling, roi, rent, net_cash_flow,
	cash_on_cash_return, arv, property_id, created_at, updated_at`

func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Address,
		&p.Price,
		&p.DealType,
		&p.Status,
		&p.Description,
		&p.Images,
		&p.IQScore,
		&p.RepairCost,
		&p.ProfitForSelling,
		&p.ROI,
		&p.Rent,
		&p.NetCashFlow,
		&p.CashOnCashReturn,
		&p.ARV,
		&p.PropertyID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return &p, nil
}

// scanOptionalProperty maps pgx.ErrNoRows to nil, nil.
func scanOptionalProperty(row pgx.Row, action string) (*models.Property, error) {
	p, err := scanProperty(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", action, err)
	}
	return p, nil
}

func (r *propertyRepository) List(ctx context.Context, filter PropertyFilter) ([]models.Property, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, likePattern(search))
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR address ILIKE $%d OR deal_type ILIKE $%d)", n, n, n))
	}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}

	query := `SELECT ` + propertyColumns + ` FROM properties`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	results := []models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		results = append(results, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}

	return results, nil
}

func (r *propertyRepository) FindByID(ctx context.Context, id string) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	return scanOptionalProperty(r.db.Pool.QueryRow(ctx, query, id), "query property "+id)
}

func (r *propertyRepository) Create(ctx context.Context, p *models.Property) error {
	if p.Images == nil {
		p.Images = []string{}
	}

	query := `
		INSERT INTO properties (
			user_id, title, address, price, deal_type, status, description, images,
			iq_score, repair_cost, profit_for_selling, roi, rent, net_cash_flow,
			cash_on_cash_return, arv, property_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id::text, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		p.UserID, p.Title, p.Address, p.Price, p.DealType, p.Status, p.Description, p.Images,
		p.IQScore, p.RepairCost, p.ProfitForSelling, p.ROI, p.Rent, p.NetCashFlow,
		p.CashOnCashReturn, p.ARV, p.PropertyID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert property: %w", err)
	}
	return nil
}

func (r *propertyRepository) Update(ctx context.Context, id string, in models.PropertyInput) (*models.Property, error) {
	images := in.Images
	if images == nil {
		images = []string{}
	}

	query := `
		UPDATE properties SET
			title = $2, address = $3, price = $4, deal_type = $5, description = $6,
			images = $7, repair_cost = $8, profit_for_selling = $9, roi = $10, rent = $11,
			net_cash_flow = $12, cash_on_cash_return = $13, arv = $14, property_id = $15,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + propertyColumns

	row := r.db.Pool.QueryRow(ctx, query,
		id, in.Title, in.Address, in.Price, in.DealType, in.Description,
		images, in.RepairCost, in.ProfitForSelling, in.ROI, in.Rent,
		in.NetCashFlow, in.CashOnCashReturn, in.ARV, in.PropertyID,
	)
	return scanOptionalProperty(row, "update property "+id)
}

func (r *propertyRepository) UpdateStatus(ctx context.Context, id string, status models.PropertyStatus) (*models.Property, error) {
	query := `
		UPDATE properties SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + propertyColumns

	return scanOptionalProperty(r.db.Pool.QueryRow(ctx, query, id, status), "update status of property "+id)
}

func (r *propertyRepository) AppendImages(ctx context.Context, id string, urls []string) (*models.Property, error) {
	query := `
		UPDATE properties SET images = images || $2::text[], updated_at = NOW()
		WHERE id = $1
		RETURNING ` + propertyColumns

	return scanOptionalProperty(r.db.Pool.QueryRow(ctx, query, id, urls), "append images to property "+id)
}

func (r *propertyRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete property %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
