package web

import (
	"database/sql"
	"net/http"

	"github.com/invtrail/invtrail/internal/auth"
	webembed "github.com/invtrail/invtrail/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB, provider auth.Provider, jwtSecret string) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
		Provider:  provider,
		JWTSecret: jwtSecret,
	}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(jwtSecret, db)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes.
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Authenticated routes.
	mux.Handle("GET /{$}", cookieAuth(http.HandlerFunc(s.Dashboard)))

	mux.Handle("GET /items", cookieAuth(http.HandlerFunc(s.ItemsPage)))
	mux.Handle("POST /items", cookieAuth(http.HandlerFunc(s.ItemCreateSubmit)))
	mux.Handle("GET /items/new", cookieAuth(http.HandlerFunc(s.ItemNewPage)))
	mux.Handle("GET /items/{id}/edit", cookieAuth(http.HandlerFunc(s.ItemEditPage)))
	mux.Handle("POST /items/{id}", cookieAuth(http.HandlerFunc(s.ItemUpdateSubmit)))
	mux.Handle("POST /items/{id}/delete", cookieAuth(http.HandlerFunc(s.ItemDeleteSubmit)))

	mux.Handle("GET /audit", cookieAuth(http.HandlerFunc(s.AuditPage)))

	return mux, nil
}
