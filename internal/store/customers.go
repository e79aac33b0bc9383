package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/nasrin/go-cake-shop/internal/database"
	"github.com/nasrin/go-cake-shop/internal/models"
)

type RegisterCustomerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

func RegisterCustomer(ctx context.Context, db *sql.DB, req RegisterCustomerRequest) (*models.Customer, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", database.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	customer := &models.Customer{}

	query := `
		INSERT INTO customers (email, name, password_hash, address, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, NOW(), NOW(), 1)
		RETURNING id, email, name, address, created_at, updated_at, version`

	err = db.QueryRowContext(ctx, query, req.Email, req.Name, string(hash), req.Address).Scan(
		&customer.ID,
		&customer.Email,
		&customer.Name,
		&customer.Address,
		&customer.CreatedAt,
		&customer.UpdatedAt,
		&customer.Version,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, database.ErrEmailTaken
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}

	return customer, nil
}

// Authenticate looks the customer up by email and checks the password against
// the stored bcrypt hash.
func Authenticate(ctx context.Context, db *sql.DB, email, password string) (*models.Customer, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	customer := &models.Customer{}

	query := `
		SELECT id, email, name, password_hash, address, created_at, updated_at, version
		FROM customers
		WHERE email = $1`

	err := db.QueryRowContext(ctx, query, email).Scan(
		&customer.ID,
		&customer.Email,
		&customer.Name,
		&customer.PasswordHash,
		&customer.Address,
		&customer.CreatedAt,
		&customer.UpdatedAt,
		&customer.Version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)); err != nil {
		return nil, database.ErrInvalidPassword
	}

	return customer, nil
}

func GetCustomer(ctx context.Context, db *sql.DB, id int64) (*models.Customer, error) {
	customer := &models.Customer{}

	query := `
		SELECT id, email, name, address, created_at, updated_at, version
		FROM customers
		WHERE id = $1`

	err := db.QueryRowContext(ctx, query, id).Scan(
		&customer.ID,
		&customer.Email,
		&customer.Name,
		&customer.Address,
		&customer.CreatedAt,
		&customer.UpdatedAt,
		&customer.Version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}

	return customer, nil
}
