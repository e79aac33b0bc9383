package main

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nasrin/go-cake-shop/internal/notify"
	"github.com/nasrin/go-cake-shop/internal/store"
)

func handleRegister(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req store.RegisterCustomerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		customer, err := store.RegisterCustomer(r.Context(), db, req)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		respondJSON(w, http.StatusCreated, customer)
	}
}

func handleLogin(db *sql.DB, sessions *sessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		customer, err := store.Authenticate(r.Context(), db, req.Email, req.Password)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		if err := sessions.signIn(w, r, customer.ID); err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to create session")
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{"message": "Login Successful"})
	}
}

func handleCakes(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		switch r.Method {
		case http.MethodPost:
			var req struct {
				Name        string  `json:"name"`
				Description string  `json:"description"`
				Price       float64 `json:"price"`
				Available   bool    `json:"available"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			price := decimal.NewFromFloat(req.Price)
			cake, err := store.CreateCake(ctx, db, req.Name, req.Description, price, req.Available)
			if err != nil {
				respondStoreError(w, err)
				return
			}

			respondJSON(w, http.StatusCreated, cake)

		case http.MethodGet:
			page, _ := strconv.Atoi(r.URL.Query().Get("page"))
			if page < 1 {
				page = 1
			}
			pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
			if pageSize < 1 || pageSize > 100 {
				pageSize = 20
			}

			result, err := store.ListCakes(ctx, db, page, pageSize)
			if err != nil {
				respondStoreError(w, err)
				return
			}

			respondJSON(w, http.StatusOK, result)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleCakeByID(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/cakes/"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid cake ID")
			return
		}

		switch r.Method {
		case http.MethodGet:
			cake, err := store.GetCake(ctx, db, id)
			if err != nil {
				respondStoreError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, cake)

		case http.MethodPut:
			var req store.UpdateCakeRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			cake, err := store.UpdateCake(ctx, db, id, req)
			if err != nil {
				respondStoreError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, cake)

		case http.MethodDelete:
			if err := store.DeleteCake(ctx, db, id); err != nil {
				respondStoreError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, map[string]string{"message": "Cake deleted"})

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleCustomizations(db *sql.DB, sessions *sessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		customerID, ok := sessions.currentCustomer(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Not logged in")
			return
		}

		switch r.Method {
		case http.MethodPost:
			var req struct {
				CakeID int64 `json:"cake_id"`
				store.CustomizationRequest
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			custom, err := store.CreateCustomization(ctx, db, customerID, req.CakeID, req.CustomizationRequest)
			if err != nil {
				respondStoreError(w, err)
				return
			}

			respondJSON(w, http.StatusCreated, custom)

		case http.MethodGet:
			customs, err := store.ListCustomizations(ctx, db, customerID)
			if err != nil {
				respondStoreError(w, err)
				return
			}

			respondJSON(w, http.StatusOK, customs)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleCustomizationByID(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/customizations/"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid customization ID")
			return
		}

		switch r.Method {
		case http.MethodGet:
			custom, err := store.GetCustomization(ctx, db, id)
			if err != nil {
				respondStoreError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, custom)

		case http.MethodDelete:
			if err := store.DeleteCustomization(ctx, db, id); err != nil {
				respondStoreError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, map[string]string{"message": "Customization deleted"})

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleCart(db *sql.DB, sessions *sessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		customerID, ok := sessions.currentCustomer(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Not logged in")
			return
		}

		cart, err := store.GetCart(r.Context(), db, customerID)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, cart)
	}
}

func handleAddToCart(db *sql.DB, sessions *sessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		customerID, ok := sessions.currentCustomer(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Not logged in")
			return
		}

		var req struct {
			CakeID        int64                       `json:"cake_id"`
			Customization *store.CustomizationRequest `json:"customization"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if _, err := store.AddToCart(r.Context(), db, customerID, req.CakeID, req.Customization); err != nil {
			respondStoreError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{"message": "Cake added to cart"})
	}
}

func handlePlaceOrder(db *sql.DB, sessions *sessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		customerID, ok := sessions.currentCustomer(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Not logged in")
			return
		}

		order, err := store.PlaceOrder(r.Context(), db, customerID)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		respondJSON(w, http.StatusCreated, order)
	}
}

func handleOrders(db *sql.DB, sessions *sessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		customerID, ok := sessions.currentCustomer(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Not logged in")
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit < 1 || limit > 100 {
			limit = 20
		}

		result, err := store.ListOrdersCursor(r.Context(), db, customerID, r.URL.Query().Get("cursor"), limit)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}

func handleOrderByID(db *sql.DB, notifier notify.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		path := strings.TrimPrefix(r.URL.Path, "/orders/")

		if r.Method == http.MethodPut && strings.HasSuffix(path, "/update_order") {
			id, err := strconv.ParseInt(strings.TrimSuffix(path, "/update_order"), 10, 64)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid order ID")
				return
			}

			var req store.UpdateOrderRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			order, err := store.UpdateOrder(ctx, db, notifier, id, req)
			if err != nil {
				respondStoreError(w, err)
				return
			}

			respondJSON(w, http.StatusOK, map[string]interface{}{
				"message": "Order updated and email sent",
				"order":   order,
			})
			return
		}

		if r.Method != http.MethodGet {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		id, err := strconv.ParseInt(path, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid order ID")
			return
		}

		order, err := store.GetOrder(ctx, db, id)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, order)
	}
}
