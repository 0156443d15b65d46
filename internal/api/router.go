package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/slambookhq/slambook/internal/middleware"
)

// RegisterRoutes attaches every API route to the router. Owner-only
// routes are wrapped with RequireAuth; everything else is public so a
// respondent needs nothing but the share link.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// identity
	r.HandleFunc("/api/auth/register", h.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.handleLogin).Methods(http.MethodPost)
	r.Handle("/api/auth/me", owner(h.handleMe)).Methods(http.MethodGet)

	// authoring + review (owner)
	r.Handle("/api/slam", owner(h.handleGetSlam)).Methods(http.MethodGet)
	r.Handle("/api/slam", owner(h.handleSaveSlam)).Methods(http.MethodPut)
	r.HandleFunc("/api/slam/suggested", h.handleSuggested).Methods(http.MethodGet)

	// response collection (public, share-link driven)
	r.HandleFunc("/api/slam/{ownerKey}/form", h.handleForm).Methods(http.MethodGet)
	r.HandleFunc("/api/slam/{ownerKey}/answers", h.handleSubmitAnswer).Methods(http.MethodPost)

	// export (owner)
	r.Handle("/api/export/book.pdf", owner(h.handleExportBook)).Methods(http.MethodGet)
	r.Handle("/api/export/page.pdf", owner(h.handleExportPage)).Methods(http.MethodGet)
	r.Handle("/api/export/answers.csv", owner(h.handleExportCSV)).Methods(http.MethodGet)
}

func owner(fn http.HandlerFunc) http.Handler {
	return middleware.RequireAuth(fn)
}
