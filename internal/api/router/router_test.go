package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumeskin/clinic-platform/internal/assistant"
	"github.com/lumeskin/clinic-platform/internal/catalog"
	"github.com/lumeskin/clinic-platform/internal/dashboard"
	"github.com/lumeskin/clinic-platform/internal/http/handlers"
	"github.com/lumeskin/clinic-platform/internal/observability/metrics"
	"github.com/lumeskin/clinic-platform/internal/session"
	"github.com/lumeskin/clinic-platform/internal/webchat"
	"github.com/lumeskin/clinic-platform/pkg/logging"
)

const testSecret = "router-test-secret"

func newTestRouter(t *testing.T) (http.Handler, *session.Store) {
	t.Helper()

	logger := logging.New("error")
	cat, err := catalog.Load("", "")
	require.NoError(t, err)

	store := session.NewStore()
	gateway := assistant.NewOfflineGateway(0)
	transcript := assistant.NewTranscript()
	registry := prometheus.NewRegistry()
	clinicMetrics := metrics.NewClinicMetrics(registry)

	deps := dashboard.Deps{
		Store:      store,
		Catalog:    cat,
		Gateway:    gateway,
		Transcript: transcript,
		Metrics:    clinicMetrics,
		Logger:     logger,
	}

	h := New(&Config{
		Logger:         logger,
		AuthHandler:    handlers.NewAuthHandler(store, testSecret, logger),
		CatalogHandler: handlers.NewCatalogHandler(cat),
		WebChatHandler: webchat.NewHandler(gateway, transcript, logger),
		Dashboards:     dashboard.All(deps),
		SessionSecret:  testSecret,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})
	return h, store
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, h http.Handler, role string) string {
	t.Helper()
	w := do(t, h, http.MethodPost, "/login", "", map[string]string{"role": role})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealthEndpoint(t *testing.T) {
	h, _ := newTestRouter(t)
	w := do(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCatalogIsPublic(t *testing.T) {
	h, _ := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/catalog/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var products []catalog.Product
	require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
	assert.Len(t, products, 5)

	w = do(t, h, http.MethodGet, "/catalog/doctors", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var doctors []catalog.Doctor
	require.NoError(t, json.NewDecoder(w.Body).Decode(&doctors))
	assert.Len(t, doctors, 3)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t)
	w := do(t, h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDashboardsRequireAuth(t *testing.T) {
	h, _ := newTestRouter(t)

	for _, path := range []string{
		"/patient/cart",
		"/doctor/appointments",
		"/staff/appointments",
		"/admin/stats",
	} {
		w := do(t, h, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRoleTokenCannotCrossDashboards(t *testing.T) {
	h, _ := newTestRouter(t)
	patientToken := login(t, h, "patient")

	w := do(t, h, http.MethodGet, "/patient/cart", patientToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	for _, path := range []string{"/doctor/appointments", "/staff/appointments", "/admin/stats"} {
		w := do(t, h, http.MethodGet, path, patientToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}
}

func TestPatientShoppingJourney(t *testing.T) {
	h, store := newTestRouter(t)
	token := login(t, h, "patient")

	do(t, h, http.MethodPost, "/patient/cart/items", token, map[string]string{"product_id": "p1"})
	do(t, h, http.MethodPost, "/patient/cart/items", token, map[string]string{"product_id": "p2"})
	w := do(t, h, http.MethodPost, "/patient/cart/items", token, map[string]string{"product_id": "p2"})
	require.Equal(t, http.StatusCreated, w.Code)

	var cart struct {
		Items []session.CartItem `json:"items"`
		Total float64            `json:"total"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&cart))
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 2, cart.Items[1].Quantity)
	assert.InDelta(t, 109.0, cart.Total, 0.001)

	// Logout empties the cart; the appointment book is untouched.
	store.SeedAppointments(session.Appointment{ID: "a1", Status: session.StatusConfirmed})
	w = do(t, h, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, store.Cart())
	assert.Len(t, store.Appointments(), 1)
}

func TestBookingAcrossDashboards(t *testing.T) {
	h, _ := newTestRouter(t)
	patientToken := login(t, h, "patient")

	w := do(t, h, http.MethodPost, "/patient/appointments", patientToken, map[string]string{
		"doctor_id": "d1",
		"date":      "2026-09-10",
		"time":      "09:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var appt session.Appointment
	require.NoError(t, json.NewDecoder(w.Body).Decode(&appt))
	assert.Equal(t, session.StatusConfirmed, appt.Status)

	// The doctor sees the booking and completes the visit.
	doctorToken := login(t, h, "doctor")
	w = do(t, h, http.MethodGet, "/doctor/appointments", doctorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var schedule []session.Appointment
	require.NoError(t, json.NewDecoder(w.Body).Decode(&schedule))
	require.Len(t, schedule, 1)

	w = do(t, h, http.MethodPost, "/doctor/appointments/"+appt.ID+"/complete", doctorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Admin stats reflect the completed visit.
	adminToken := login(t, h, "admin")
	w = do(t, h, http.MethodGet, "/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats dashboard.StatsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	assert.Equal(t, 1, stats.AppointmentsTotal)
	assert.Equal(t, 1, stats.AppointmentsByStatus[string(session.StatusCompleted)])
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	h, _ := newTestRouter(t)
	w := do(t, h, http.MethodPost, "/login", "", map[string]string{"role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
