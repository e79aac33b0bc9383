package integration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nasrin/go-cake-shop/internal/database"
	"github.com/nasrin/go-cake-shop/internal/store"
)

func TestAddToCartCreatesCart(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	customer := createTestCustomer(t, db, "cart1@example.com")
	cake := createTestCake(t, db, "Victoria Sponge", 120, true)

	cart, err := store.AddToCart(ctx, db, customer.ID, cake.ID, nil)
	if err != nil {
		t.Fatalf("Add to cart: %v", err)
	}

	if cart.Quantity != 1 {
		t.Errorf("Expected quantity 1, got %d", cart.Quantity)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("Expected 1 cart item, got %d", len(cart.Items))
	}
	if cart.Items[0].CakeID != cake.ID {
		t.Errorf("Expected cake %d in cart, got %d", cake.ID, cart.Items[0].CakeID)
	}
	if !cart.TotalAmount.Equal(decimal.NewFromInt(120)) {
		t.Errorf("Expected total 120, got %s", cart.TotalAmount)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM carts WHERE customer_id = $1`, customer.ID).Scan(&count); err != nil {
		t.Fatalf("Count carts: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected exactly one cart, got %d", count)
	}
}

func TestAddToCartAccumulates(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	customer := createTestCustomer(t, db, "cart2@example.com")
	cake1 := createTestCake(t, db, "Lemon Drizzle", 80, true)
	cake2 := createTestCake(t, db, "Carrot Cake", 95, true)

	adds := []int64{cake1.ID, cake1.ID, cake2.ID, cake1.ID, cake2.ID}
	for _, cakeID := range adds {
		if _, err := store.AddToCart(ctx, db, customer.ID, cakeID, nil); err != nil {
			t.Fatalf("Add to cart: %v", err)
		}
	}

	cart, err := store.GetCart(ctx, db, customer.ID)
	if err != nil {
		t.Fatalf("Get cart: %v", err)
	}

	if cart.Quantity != len(adds) {
		t.Errorf("Expected quantity %d, got %d", len(adds), cart.Quantity)
	}
	if len(cart.Items) != len(adds) {
		t.Errorf("Expected %d item rows (duplicates counted), got %d", len(adds), len(cart.Items))
	}

	// 3x80 + 2x95
	expectedTotal := decimal.NewFromInt(430)
	if !cart.TotalAmount.Equal(expectedTotal) {
		t.Errorf("Expected total %s, got %s", expectedTotal, cart.TotalAmount)
	}
}

func TestAddToCartUnavailableCake(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	customer := createTestCustomer(t, db, "cart3@example.com")
	cake := createTestCake(t, db, "Sold Out Special", 150, false)

	_, err := store.AddToCart(ctx, db, customer.ID, cake.ID, nil)
	if !errors.Is(err, database.ErrCakeUnavailable) {
		t.Fatalf("Expected ErrCakeUnavailable, got: %v", err)
	}

	if _, err := store.GetCart(ctx, db, customer.ID); !errors.Is(err, database.ErrCartNotFound) {
		t.Errorf("Failed add must not leave a cart behind, got: %v", err)
	}
}

func TestAddToCartMissingCake(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	customer := createTestCustomer(t, db, "cart4@example.com")

	_, err := store.AddToCart(context.Background(), db, customer.ID, 99999, nil)
	if !errors.Is(err, database.ErrCakeNotFound) {
		t.Fatalf("Expected ErrCakeNotFound, got: %v", err)
	}
}

func TestCustomizationReplacement(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	customer := createTestCustomer(t, db, "cart5@example.com")
	cake := createTestCake(t, db, "Birthday Cake", 200, true)

	cart, err := store.AddToCart(ctx, db, customer.ID, cake.ID, &store.CustomizationRequest{
		Message: "Happy Birthday",
		Shape:   "round",
	})
	if err != nil {
		t.Fatalf("Add to cart: %v", err)
	}
	if cart.CustomizationID == nil {
		t.Fatal("Expected customization attached to cart")
	}
	firstID := *cart.CustomizationID

	cart, err = store.AddToCart(ctx, db, customer.ID, cake.ID, &store.CustomizationRequest{
		Message:    "Congratulations",
		EggVersion: true,
	})
	if err != nil {
		t.Fatalf("Second add to cart: %v", err)
	}
	if cart.CustomizationID == nil {
		t.Fatal("Expected customization attached to cart")
	}
	if *cart.CustomizationID == firstID {
		t.Error("Expected new customization to replace the first")
	}

	// The replaced record survives standalone.
	old, err := store.GetCustomization(ctx, db, firstID)
	if err != nil {
		t.Fatalf("Replaced customization should still exist: %v", err)
	}
	if old.Message != "Happy Birthday" {
		t.Errorf("Expected original message preserved, got %q", old.Message)
	}

	current, err := store.GetCustomization(ctx, db, *cart.CustomizationID)
	if err != nil {
		t.Fatalf("Get current customization: %v", err)
	}
	if current.Message != "Congratulations" || !current.EggVersion {
		t.Errorf("Unexpected current customization: %+v", current)
	}
	if current.Toppings != "" || current.Shape != "" {
		t.Errorf("Omitted fields should default to empty, got %+v", current)
	}
}

func TestConcurrentAddToCartSingleCart(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	customer := createTestCustomer(t, db, "cart6@example.com")
	cake := createTestCake(t, db, "Chocolate Fudge", 110, true)

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.AddToCart(ctx, db, customer.ID, cake.ID, nil); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent add failed: %v", err)
	}

	var cartCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM carts WHERE customer_id = $1`, customer.ID).Scan(&cartCount); err != nil {
		t.Fatalf("Count carts: %v", err)
	}
	if cartCount != 1 {
		t.Fatalf("Expected exactly one cart under concurrency, got %d", cartCount)
	}

	cart, err := store.GetCart(ctx, db, customer.ID)
	if err != nil {
		t.Fatalf("Get cart: %v", err)
	}
	if cart.Quantity != workers {
		t.Errorf("Expected quantity %d, got %d", workers, cart.Quantity)
	}
	if len(cart.Items) != workers {
		t.Errorf("Expected %d item rows, got %d", workers, len(cart.Items))
	}
}
