// Package dashboard holds the role-specific view controllers. Each role
// implements the Dashboard capability interface over the session store,
// the catalog and the assistant gateway; the router mounts one per role
// and the login flow decides which one a session may reach.
package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumeskin/clinic-platform/internal/assistant"
	"github.com/lumeskin/clinic-platform/internal/catalog"
	"github.com/lumeskin/clinic-platform/internal/observability/metrics"
	"github.com/lumeskin/clinic-platform/internal/session"
	"github.com/lumeskin/clinic-platform/pkg/logging"
)

// Dashboard is the per-role capability surface.
type Dashboard interface {
	// Role names the role this dashboard serves.
	Role() session.UserRole

	// Routes returns the role's HTTP surface, mounted behind role auth.
	Routes() chi.Router
}

// Deps carries the shared collaborators every dashboard composes.
type Deps struct {
	Store      *session.Store
	Catalog    *catalog.Store
	Gateway    assistant.Gateway
	Transcript *assistant.Transcript
	Metrics    *metrics.ClinicMetrics
	Logger     *logging.Logger
}

func (d *Deps) logger() *logging.Logger {
	if d.Logger == nil {
		return logging.Default()
	}
	return d.Logger
}

// ForRole selects the dashboard variant for a role.
func ForRole(role session.UserRole, deps Deps) (Dashboard, error) {
	switch role {
	case session.RolePatient:
		return NewPatient(deps), nil
	case session.RoleDoctor:
		return NewDoctor(deps), nil
	case session.RoleStaff:
		return NewStaff(deps), nil
	case session.RoleAdmin:
		return NewAdmin(deps), nil
	}
	return nil, fmt.Errorf("dashboard: no dashboard for role %q", role)
}

// All builds one dashboard per role for the router to mount.
func All(deps Deps) []Dashboard {
	return []Dashboard{
		NewPatient(deps),
		NewDoctor(deps),
		NewStaff(deps),
		NewAdmin(deps),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps store errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrNoUser):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
