package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nasrin/go-cake-shop/internal/database"
	"github.com/nasrin/go-cake-shop/internal/models"
	"github.com/nasrin/go-cake-shop/internal/notify"
)

func generateOrderNumber() string {
	return "ORD-" + uuid.NewString()
}

// PlaceOrder materializes the customer's cart into an order: the total, the
// distinct set of cakes and the customer's current delivery address are
// snapshotted, then the cart is deleted. Everything happens in one
// transaction, so an order can never exist with its source cart still around,
// and a failed order leaves the cart untouched.
//
// A customer without a cart gets ErrEmptyCart. A cart that exists but holds
// no items is accepted and produces an order with a zero total.
func PlaceOrder(ctx context.Context, db *sql.DB, customerID int64) (*models.Order, error) {
	var orderID int64

	err := database.WithRetry(ctx, db, database.TxOptions{
		IsolationLevel: sql.LevelSerializable,
		MaxRetries:     3,
	}, func(tx *sql.Tx) error {
		var cartID int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM carts WHERE customer_id = $1 FOR UPDATE`,
			customerID).Scan(&cartID)
		if err != nil {
			if err == sql.ErrNoRows {
				return database.ErrEmptyCart
			}
			return fmt.Errorf("lock cart: %w", err)
		}

		var totalPrice decimal.Decimal
		err = tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(k.price), 0)
			 FROM cart_items ci
			 JOIN cakes k ON k.id = ci.cake_id
			 WHERE ci.cart_id = $1`,
			cartID).Scan(&totalPrice)
		if err != nil {
			return fmt.Errorf("compute cart total: %w", err)
		}

		var address string
		err = tx.QueryRowContext(ctx,
			`SELECT address FROM customers WHERE id = $1`,
			customerID).Scan(&address)
		if err != nil {
			if err == sql.ErrNoRows {
				return database.ErrCustomerNotFound
			}
			return fmt.Errorf("get customer address: %w", err)
		}

		err = tx.QueryRowContext(ctx,
			`INSERT INTO orders (customer_id, order_number, total_price, delivery_address,
			                     order_status, payment_status, payment_method,
			                     created_at, updated_at, version)
			 VALUES ($1, $2, $3, $4, '', '', '', NOW(), NOW(), 1)
			 RETURNING id`,
			customerID, generateOrderNumber(), totalPrice, address).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		// Distinct set: a cake added three times appears once in the
		// order, the way the storefront has always presented items.
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, cake_id, created_at)
			 SELECT DISTINCT $1, cake_id, NOW()
			 FROM cart_items
			 WHERE cart_id = $2`,
			orderID, cartID)
		if err != nil {
			return fmt.Errorf("create order items: %w", err)
		}

		if _, err := deleteCart(ctx, tx, customerID); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetOrder(ctx, db, orderID)
}

type UpdateOrderRequest struct {
	OrderStatus   *string `json:"order_status"`
	PaymentStatus *string `json:"payment_status"`
	PaymentMethod *string `json:"payment_method"`
}

// UpdateOrder overwrites whichever status fields were supplied, emails the
// customer, and clears any cart that re-accumulated for them since the order
// was placed. The three steps share one transaction: if the notifier fails,
// the status change is rolled back too.
//
// The email always carries the fixed "Payment Successful" subject, whatever
// payment_status was submitted. Cart clearing is best-effort; a missing cart
// is the normal case since place-order already consumed it.
func UpdateOrder(ctx context.Context, db *sql.DB, notifier notify.Notifier, orderID int64, req UpdateOrderRequest) (*models.Order, error) {
	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		var customerID int64
		var email string
		err := tx.QueryRowContext(ctx,
			`SELECT o.customer_id, c.email
			 FROM orders o
			 JOIN customers c ON c.id = o.customer_id
			 WHERE o.id = $1
			 FOR UPDATE OF o`,
			orderID).Scan(&customerID, &email)
		if err != nil {
			if err == sql.ErrNoRows {
				return database.ErrOrderNotFound
			}
			return fmt.Errorf("lock order: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE orders
			 SET order_status = COALESCE($2, order_status),
			     payment_status = COALESCE($3, payment_status),
			     payment_method = COALESCE($4, payment_method),
			     updated_at = NOW(),
			     version = version + 1
			 WHERE id = $1`,
			orderID, req.OrderStatus, req.PaymentStatus, req.PaymentMethod)
		if err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		if err := notifier.Send(ctx, email, notify.PaymentSubject, notify.PaymentBody); err != nil {
			return fmt.Errorf("%w: %v", database.ErrNotificationFailed, err)
		}

		if _, err := deleteCart(ctx, tx, customerID); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetOrder(ctx, db, orderID)
}

func GetOrder(ctx context.Context, db *sql.DB, id int64) (*models.Order, error) {
	order := &models.Order{}

	query := `
		SELECT id, customer_id, order_number, total_price, delivery_address,
		       order_status, payment_status, payment_method,
		       created_at, updated_at, version
		FROM orders
		WHERE id = $1`

	err := db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.CustomerID,
		&order.OrderNumber,
		&order.TotalPrice,
		&order.DeliveryAddress,
		&order.OrderStatus,
		&order.PaymentStatus,
		&order.PaymentMethod,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.Version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, cake_id, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`

	rows, err := db.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.CakeID, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	order.Items = items

	return order, nil
}

func ListOrdersCursor(ctx context.Context, db *sql.DB, customerID int64, cursor string, limit int) (*CursorPage, error) {
	cursorData, err := DecodeCursor(cursor)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}

	query := `
		SELECT id, customer_id, order_number, total_price, delivery_address,
		       order_status, payment_status, payment_method,
		       created_at, updated_at, version
		FROM orders
		WHERE customer_id = $1
		  AND (created_at, id) < ($2, $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4`

	rows, err := db.QueryContext(ctx, query, customerID, cursorData.CreatedAt, cursorData.ID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		err := rows.Scan(
			&order.ID,
			&order.CustomerID,
			&order.OrderNumber,
			&order.TotalPrice,
			&order.DeliveryAddress,
			&order.OrderStatus,
			&order.PaymentStatus,
			&order.PaymentMethod,
			&order.CreatedAt,
			&order.UpdatedAt,
			&order.Version,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	hasMore := len(orders) > limit
	if hasMore {
		orders = orders[:limit]
	}

	var nextCursor string
	if hasMore && len(orders) > 0 {
		lastOrder := orders[len(orders)-1]
		nextCursor = EncodeCursor(OrderCursor{
			CreatedAt: lastOrder.CreatedAt,
			ID:        lastOrder.ID,
		})
	}

	return &CursorPage{
		Items:      orders,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}
