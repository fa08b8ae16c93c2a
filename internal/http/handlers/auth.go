package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/lumeskin/clinic-platform/internal/http/middleware"
	"github.com/lumeskin/clinic-platform/internal/session"
	"github.com/lumeskin/clinic-platform/pkg/logging"
)

const sessionTTL = 12 * time.Hour

// AuthHandler materializes the session for a chosen role. There is no
// credential verification; picking a role is the whole login flow.
type AuthHandler struct {
	store  *session.Store
	secret string
	logger *logging.Logger
}

// NewAuthHandler creates the login/logout handler.
func NewAuthHandler(store *session.Store, secret string, logger *logging.Logger) *AuthHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuthHandler{store: store, secret: secret, logger: logger}
}

type loginRequest struct {
	Role string `json:"role"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	role, err := session.ParseRole(req.Role)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user := session.PlaceholderUser(role)
	h.store.SetUser(user)

	token, err := middleware.IssueSessionToken(h.secret, user, sessionTTL)
	if err != nil {
		h.logger.Error("failed to sign session token", "error", err)
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	h.logger.Info("session started", "user_id", user.ID, "role", user.Role)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(loginResponse{Token: token, User: user})
}

// Logout handles POST /logout. The cart empties with the session; the
// appointment book stays.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.store.ClearUser()
	h.logger.Info("session ended")
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.store.CurrentUser()
	if !ok {
		http.Error(w, "no active session", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(user)
}
