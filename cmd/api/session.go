package main

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/nasrin/go-cake-shop/internal/config"
)

const sessionCustomerKey = "customer_id"

type sessionManager struct {
	store *sessions.CookieStore
	name  string
}

func newSessionManager(cfg config.SessionConfig) *sessionManager {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode

	return &sessionManager{store: store, name: cfg.Name}
}

func (m *sessionManager) signIn(w http.ResponseWriter, r *http.Request, customerID int64) error {
	session, _ := m.store.Get(r, m.name)
	session.Values[sessionCustomerKey] = customerID
	return session.Save(r, w)
}

// currentCustomer returns the acting customer's id from the session cookie.
// Every cart and order handler threads this id explicitly into the store
// layer; nothing below the handlers reads request state.
func (m *sessionManager) currentCustomer(r *http.Request) (int64, bool) {
	session, err := m.store.Get(r, m.name)
	if err != nil {
		return 0, false
	}

	id, ok := session.Values[sessionCustomerKey].(int64)
	return id, ok
}
