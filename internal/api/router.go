package api

import (
	"database/sql"
	"net/http"

	"github.com/invtrail/invtrail/internal/auth"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, provider auth.Provider, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, Provider: provider, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{DB: db}
	auditHandler := &AuditHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))

	mux.Handle("GET /api/audit", authMW(http.HandlerFunc(auditHandler.List)))

	return mux
}
