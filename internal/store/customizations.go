package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nasrin/go-cake-shop/internal/database"
	"github.com/nasrin/go-cake-shop/internal/models"
)

// CustomizationRequest carries the optional personalization payload of an
// add-to-cart call. Zero values match the record defaults: empty message,
// toppings and shape, egg_version false.
type CustomizationRequest struct {
	Message    string `json:"message"`
	EggVersion bool   `json:"egg_version"`
	Toppings   string `json:"toppings"`
	Shape      string `json:"shape"`
}

func insertCustomization(ctx context.Context, tx *sql.Tx, customerID, cakeID int64, req CustomizationRequest) (*models.Customization, error) {
	custom := &models.Customization{}

	query := `
		INSERT INTO customizations (customer_id, cake_id, message, egg_version, toppings, shape, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, customer_id, cake_id, message, egg_version, toppings, shape, created_at`

	err := tx.QueryRowContext(ctx, query,
		customerID, cakeID, req.Message, req.EggVersion, req.Toppings, req.Shape).Scan(
		&custom.ID,
		&custom.CustomerID,
		&custom.CakeID,
		&custom.Message,
		&custom.EggVersion,
		&custom.Toppings,
		&custom.Shape,
		&custom.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create customization: %w", err)
	}

	return custom, nil
}

func CreateCustomization(ctx context.Context, db *sql.DB, customerID, cakeID int64, req CustomizationRequest) (*models.Customization, error) {
	var custom *models.Customization

	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		var err error
		custom, err = insertCustomization(ctx, tx, customerID, cakeID, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	return custom, nil
}

func GetCustomization(ctx context.Context, db *sql.DB, id int64) (*models.Customization, error) {
	custom := &models.Customization{}

	query := `
		SELECT id, customer_id, cake_id, message, egg_version, toppings, shape, created_at
		FROM customizations
		WHERE id = $1`

	err := db.QueryRowContext(ctx, query, id).Scan(
		&custom.ID,
		&custom.CustomerID,
		&custom.CakeID,
		&custom.Message,
		&custom.EggVersion,
		&custom.Toppings,
		&custom.Shape,
		&custom.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrCustomizationNotFound
		}
		return nil, fmt.Errorf("get customization: %w", err)
	}

	return custom, nil
}

func ListCustomizations(ctx context.Context, db *sql.DB, customerID int64) ([]models.Customization, error) {
	query := `
		SELECT id, customer_id, cake_id, message, egg_version, toppings, shape, created_at
		FROM customizations
		WHERE customer_id = $1
		ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list customizations: %w", err)
	}
	defer rows.Close()

	var customs []models.Customization
	for rows.Next() {
		var custom models.Customization
		err := rows.Scan(
			&custom.ID,
			&custom.CustomerID,
			&custom.CakeID,
			&custom.Message,
			&custom.EggVersion,
			&custom.Toppings,
			&custom.Shape,
			&custom.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan customization: %w", err)
		}
		customs = append(customs, custom)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return customs, nil
}

func DeleteCustomization(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM customizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customization: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrCustomizationNotFound
	}

	return nil
}
