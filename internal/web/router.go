package web

import (
	"net/http"

	"balancegame-web/middleware"

	"github.com/gorilla/mux"
)

func (h *WebHandler) SetupRoutes() *mux.Router {
	r := mux.NewRouter()

	// Pages from the route table
	nav := NavigationMiddleware(h.resolver)
	for _, entry := range h.resolver.Routes() {
		page := http.HandlerFunc(h.Page)
		if entry.Name == "OAuth2Redirect" {
			page = h.OAuth2Redirect
		}
		r.Handle(entry.Path, nav(page)).Methods("GET", "HEAD")
	}

	// Session forms
	r.Handle("/login", middleware.SameOrigin(http.HandlerFunc(h.Login))).Methods("POST")
	r.Handle("/mobile/login", middleware.SameOrigin(http.HandlerFunc(h.Login))).Methods("POST")
	r.Handle("/logout", middleware.SameOrigin(http.HandlerFunc(h.Logout))).Methods("POST")
	r.HandleFunc("/healthz", h.Health).Methods("GET")

	// JSON API
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.SetupCORS(h.config.CORSOrigins...))
	api.HandleFunc("/session", h.APISession).Methods("GET", "OPTIONS")
	api.HandleFunc("/session/user", h.APIUpdateUser).Methods("PATCH", "OPTIONS")
	api.HandleFunc("/routes", h.APIRoutes).Methods("GET", "OPTIONS")
	if h.issuer != nil {
		api.HandleFunc("/dev/auth/validate-token", h.issuer.ValidateTokenHandler).Methods("POST", "OPTIONS")
	}

	// 404 handler
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)

	return r
}
