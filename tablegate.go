// Package tablegate exposes generic CRUD over HTTP for any table of a
// configured relational database. Table names and record ids come from the
// URL path, query-string parameters become equality filters, and every
// response uses the same JSON envelope.
package tablegate

import (
	"net/http"
	"strings"
)

// App represents the gateway instance.
type App struct {
	config Config
	client *Client
}

// New creates a new App instance with the given configuration and database
// client. The client is the single process-wide handle; App never opens
// connections of its own.
func New(cfg Config, client *Client) *App {
	if cfg.BasePath == "" {
		cfg.BasePath = "/api"
	}
	return &App{config: cfg, client: client}
}

// Handler returns an http.Handler that serves the gateway API.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	base := strings.TrimRight(a.config.BasePath, "/")

	mux.HandleFunc("GET "+base+"/health", a.handleHealth)

	mux.HandleFunc("GET "+base+"/{table}", a.handleRecordsList)
	mux.HandleFunc("POST "+base+"/{table}", a.handleRecordCreate)
	mux.HandleFunc("GET "+base+"/{table}/{id}", a.handleRecordView)
	mux.HandleFunc("PUT "+base+"/{table}/{id}", a.handleRecordUpdate)
	mux.HandleFunc("DELETE "+base+"/{table}/{id}", a.handleRecordDelete)

	mux.HandleFunc("POST "+base+"/{table}/{id}/deactivate", a.handleRecordDeactivate)
	mux.HandleFunc("POST "+base+"/{table}/{id}/reactivate", a.handleRecordReactivate)

	return RequestLogger(a.middleware(mux))
}

// middleware applies common middleware to all handlers
func (a *App) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Add security headers
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")

		// CORS: the gateway is consumed by browser frontends on other origins
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
