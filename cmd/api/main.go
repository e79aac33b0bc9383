package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/nasrin/go-cake-shop/internal/config"
	"github.com/nasrin/go-cake-shop/internal/database"
	"github.com/nasrin/go-cake-shop/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database successfully")

	notifier := notify.NewSMTPNotifier(cfg.SMTP)
	sessionMgr := newSessionManager(cfg.Session)

	mux := http.NewServeMux()

	mux.HandleFunc("/customers/register", handleRegister(db))
	mux.HandleFunc("/customers/login", handleLogin(db, sessionMgr))
	mux.HandleFunc("/cakes", handleCakes(db))
	mux.HandleFunc("/cakes/", handleCakeByID(db))
	mux.HandleFunc("/customizations", handleCustomizations(db, sessionMgr))
	mux.HandleFunc("/customizations/", handleCustomizationByID(db))
	mux.HandleFunc("/carts", handleCart(db, sessionMgr))
	mux.HandleFunc("/carts/add_to_cart", handleAddToCart(db, sessionMgr))
	mux.HandleFunc("/orders", handleOrders(db, sessionMgr))
	mux.HandleFunc("/orders/place_order", handlePlaceOrder(db, sessionMgr))
	mux.HandleFunc("/orders/", handleOrderByID(db, notifier))

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondStoreError maps the store's error taxonomy onto HTTP statuses:
// lookup misses 404, business-rule violations 400, duplicate registration
// 409, undeliverable notification 502, everything else 500.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case database.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	case database.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrEmailTaken):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, database.ErrNotificationFailed):
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
