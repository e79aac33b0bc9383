package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nasrin/go-cake-shop/internal/database"
	"github.com/nasrin/go-cake-shop/internal/models"
)

// AddToCart appends one unit of the cake to the customer's cart, creating the
// cart when the customer has none. The carts table has a unique constraint on
// customer_id and the get-or-create below is an upsert that also takes the row
// lock, so concurrent adds for the same customer serialize on it and can never
// produce a second cart.
//
// When custom is non-nil a new customization record is created and attached to
// the cart, replacing the previous attachment. The replaced record is not
// deleted; a cart carries at most one customization at a time.
func AddToCart(ctx context.Context, db *sql.DB, customerID, cakeID int64, custom *CustomizationRequest) (*models.Cart, error) {
	var cartID int64

	// Read committed is enough here: the upsert's row lock serializes
	// adds for one customer, and serializable would only turn that lock
	// wait into spurious 40001 retries.
	err := database.WithRetry(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		var available bool
		err := tx.QueryRowContext(ctx,
			`SELECT available FROM cakes WHERE id = $1`,
			cakeID).Scan(&available)
		if err != nil {
			if err == sql.ErrNoRows {
				return database.ErrCakeNotFound
			}
			return fmt.Errorf("get cake: %w", err)
		}
		if !available {
			return database.ErrCakeUnavailable
		}

		// Get-or-create. DO UPDATE makes the existing row visible to
		// RETURNING and locks it either way.
		err = tx.QueryRowContext(ctx,
			`INSERT INTO carts (customer_id, quantity, created_at, updated_at)
			 VALUES ($1, 0, NOW(), NOW())
			 ON CONFLICT (customer_id) DO UPDATE SET updated_at = NOW()
			 RETURNING id`,
			customerID).Scan(&cartID)
		if err != nil {
			return fmt.Errorf("get or create cart: %w", err)
		}

		if custom != nil {
			customization, err := insertCustomization(ctx, tx, customerID, cakeID, *custom)
			if err != nil {
				return err
			}

			_, err = tx.ExecContext(ctx,
				`UPDATE carts SET customization_id = $1 WHERE id = $2`,
				customization.ID, cartID)
			if err != nil {
				return fmt.Errorf("attach customization: %w", err)
			}
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO cart_items (cart_id, cake_id, created_at)
			 VALUES ($1, $2, NOW())`,
			cartID, cakeID)
		if err != nil {
			return fmt.Errorf("add cart item: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE carts SET quantity = quantity + 1, updated_at = NOW() WHERE id = $1`,
			cartID)
		if err != nil {
			return fmt.Errorf("increment quantity: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetCart(ctx, db, customerID)
}

// GetCart loads the customer's cart with its items and the total amount.
// The total is a pure function of contents: the sum of current cake prices
// over the item rows, duplicates counted.
func GetCart(ctx context.Context, db *sql.DB, customerID int64) (*models.Cart, error) {
	cart := &models.Cart{}

	query := `
		SELECT c.id, c.customer_id, c.quantity, c.customization_id, c.created_at, c.updated_at,
		       COALESCE((SELECT SUM(k.price)
		                 FROM cart_items ci
		                 JOIN cakes k ON k.id = ci.cake_id
		                 WHERE ci.cart_id = c.id), 0)
		FROM carts c
		WHERE c.customer_id = $1`

	err := db.QueryRowContext(ctx, query, customerID).Scan(
		&cart.ID,
		&cart.CustomerID,
		&cart.Quantity,
		&cart.CustomizationID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
		&cart.TotalAmount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrCartNotFound
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	itemsQuery := `
		SELECT id, cart_id, cake_id, created_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY id`

	rows, err := db.QueryContext(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var item models.CartItem
		err := rows.Scan(&item.ID, &item.CartID, &item.CakeID, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	cart.Items = items

	return cart, nil
}

// deleteCart removes the customer's cart inside tx and reports whether one
// existed. cart_items go with it via ON DELETE CASCADE; customization records
// survive detached.
func deleteCart(ctx context.Context, tx *sql.Tx, customerID int64) (bool, error) {
	result, err := tx.ExecContext(ctx,
		`DELETE FROM carts WHERE customer_id = $1`, customerID)
	if err != nil {
		return false, fmt.Errorf("delete cart: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
