// Package api wires the domain services onto HTTP. It owns the route
// table, the request/response shapes, and the adapters that bind each
// service's store interface to the document store.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/slambookhq/slambook/internal/services"
	"github.com/slambookhq/slambook/internal/store"
)

// Handler provides the HTTP handlers for the slam-book API.
type Handler struct {
	auth    *services.AuthService
	slams   *services.SlamService
	exports *services.ExportService
	logger  *zap.Logger
}

// NewHandler builds the service stack over the given store.
func NewHandler(st *store.Store, signer services.TokenSigner, tokenTTL time.Duration, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	slamStore := newSlamStoreAdapter(st)
	return &Handler{
		auth:    services.NewAuthService(newAuthStoreAdapter(st), signer, tokenTTL),
		slams:   services.NewSlamService(slamStore),
		exports: services.NewExportService(slamStore, logger.Named("export")),
		logger:  logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Anything that is not a ServiceError is a transport/store failure and
// reported as 500.
func writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	if se, ok := services.AsServiceError(err); ok {
		msg = se.Message
		switch se.Code {
		case services.ErrorInvalid:
			status = http.StatusBadRequest
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		case services.ErrorForbidden:
			status = http.StatusForbidden
		case services.ErrorNotFound:
			status = http.StatusNotFound
		case services.ErrorConflict:
			status = http.StatusConflict
		case services.ErrorUnavailable:
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
