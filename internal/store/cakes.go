package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nasrin/go-cake-shop/internal/database"
	"github.com/nasrin/go-cake-shop/internal/models"
)

func CreateCake(ctx context.Context, db *sql.DB, name, description string, price decimal.Decimal, available bool) (*models.Cake, error) {
	cake := &models.Cake{}

	query := `
		INSERT INTO cakes (name, description, price, available, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, NOW(), NOW(), 1)
		RETURNING id, name, description, price, available, created_at, updated_at, version`

	err := db.QueryRowContext(ctx, query, name, description, price, available).Scan(
		&cake.ID,
		&cake.Name,
		&cake.Description,
		&cake.Price,
		&cake.Available,
		&cake.CreatedAt,
		&cake.UpdatedAt,
		&cake.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("create cake: %w", err)
	}

	return cake, nil
}

func GetCake(ctx context.Context, db *sql.DB, id int64) (*models.Cake, error) {
	cake := &models.Cake{}

	query := `
		SELECT id, name, description, price, available, created_at, updated_at, version
		FROM cakes
		WHERE id = $1`

	err := db.QueryRowContext(ctx, query, id).Scan(
		&cake.ID,
		&cake.Name,
		&cake.Description,
		&cake.Price,
		&cake.Available,
		&cake.CreatedAt,
		&cake.UpdatedAt,
		&cake.Version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrCakeNotFound
		}
		return nil, fmt.Errorf("get cake: %w", err)
	}

	return cake, nil
}

type UpdateCakeRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Available   *bool            `json:"available"`
}

// UpdateCake overwrites only the supplied fields and bumps the version.
func UpdateCake(ctx context.Context, db *sql.DB, id int64, req UpdateCakeRequest) (*models.Cake, error) {
	cake := &models.Cake{}

	query := `
		UPDATE cakes
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    price = COALESCE($4, price),
		    available = COALESCE($5, available),
		    updated_at = NOW(),
		    version = version + 1
		WHERE id = $1
		RETURNING id, name, description, price, available, created_at, updated_at, version`

	err := db.QueryRowContext(ctx, query, id, req.Name, req.Description, req.Price, req.Available).Scan(
		&cake.ID,
		&cake.Name,
		&cake.Description,
		&cake.Price,
		&cake.Available,
		&cake.CreatedAt,
		&cake.UpdatedAt,
		&cake.Version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrCakeNotFound
		}
		return nil, fmt.Errorf("update cake: %w", err)
	}

	return cake, nil
}

func DeleteCake(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM cakes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cake: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrCakeNotFound
	}

	return nil
}

func ListCakes(ctx context.Context, db *sql.DB, page, pageSize int) (*OffsetPage, error) {
	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cakes`).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count cakes: %w", err)
	}

	offset := (page - 1) * pageSize
	query := `
		SELECT id, name, description, price, available, created_at, updated_at, version
		FROM cakes
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list cakes: %w", err)
	}
	defer rows.Close()

	var cakes []models.Cake
	for rows.Next() {
		var cake models.Cake
		err := rows.Scan(
			&cake.ID,
			&cake.Name,
			&cake.Description,
			&cake.Price,
			&cake.Available,
			&cake.CreatedAt,
			&cake.UpdatedAt,
			&cake.Version,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cake: %w", err)
		}
		cakes = append(cakes, cake)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return NewOffsetPage(cakes, total, page, pageSize), nil
}
