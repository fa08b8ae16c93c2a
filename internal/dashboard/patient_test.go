package dashboard

import (
	"context"
	"encoding/base64"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumeskin/clinic-platform/internal/assistant"
	"github.com/lumeskin/clinic-platform/internal/session"
)

func newPatient(t *testing.T) (*Patient, Deps) {
	t.Helper()
	deps := newTestDeps(t)
	deps.Store.SetUser(session.PlaceholderUser(session.RolePatient))
	p := NewPatient(deps)
	return p, deps
}

func TestPatientCartFlow(t *testing.T) {
	p, _ := newPatient(t)
	routes := p.Routes()

	// One serum, two cleansers: the serum line stays first and the
	// cleanser line carries quantity 2.
	doJSON(t, routes, http.MethodPost, "/cart/items", addCartItemRequest{ProductID: "p1"})
	doJSON(t, routes, http.MethodPost, "/cart/items", addCartItemRequest{ProductID: "p2"})
	w := doJSON(t, routes, http.MethodPost, "/cart/items", addCartItemRequest{ProductID: "p2"})
	require.Equal(t, http.StatusCreated, w.Code)

	cart := decode[cartResponse](t, w)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "p1", cart.Items[0].Product.ID)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, "p2", cart.Items[1].Product.ID)
	assert.Equal(t, 2, cart.Items[1].Quantity)
	assert.InDelta(t, 109.0, cart.Total, 0.001)
}

func TestPatientRemoveCartLine(t *testing.T) {
	p, _ := newPatient(t)
	routes := p.Routes()

	doJSON(t, routes, http.MethodPost, "/cart/items", addCartItemRequest{ProductID: "p2"})
	doJSON(t, routes, http.MethodPost, "/cart/items", addCartItemRequest{ProductID: "p2"})

	// Removing the line drops both units at once.
	w := doJSON(t, routes, http.MethodDelete, "/cart/items/p2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cart := decode[cartResponse](t, w)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)

	// Removing it again is a harmless no-op.
	w = doJSON(t, routes, http.MethodDelete, "/cart/items/p2", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPatientAddUnknownProduct(t *testing.T) {
	p, _ := newPatient(t)
	w := doJSON(t, p.Routes(), http.MethodPost, "/cart/items", addCartItemRequest{ProductID: "p999"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPatientBookAppointment(t *testing.T) {
	p, deps := newPatient(t)
	routes := p.Routes()

	w := doJSON(t, routes, http.MethodPost, "/appointments", bookAppointmentRequest{
		DoctorID: "d1",
		Date:     "2026-09-10",
		Time:     "09:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	appt := decode[session.Appointment](t, w)
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, session.StatusConfirmed, appt.Status)
	assert.Equal(t, "d1", appt.DoctorID)
	assert.Equal(t, "Dr. Sarah Smith", appt.DoctorName)
	assert.Equal(t, "patient_1", appt.PatientID)

	// A second booking gets its own id.
	w = doJSON(t, routes, http.MethodPost, "/appointments", bookAppointmentRequest{
		DoctorID: "d1",
		Date:     "2026-09-11",
		Time:     "10:00",
	})
	second := decode[session.Appointment](t, w)
	assert.NotEqual(t, appt.ID, second.ID)
	assert.Len(t, deps.Store.Appointments(), 2)
}

func TestPatientBookValidation(t *testing.T) {
	p, _ := newPatient(t)
	routes := p.Routes()

	tests := []struct {
		name string
		req  bookAppointmentRequest
		want int
	}{
		{"unknown doctor", bookAppointmentRequest{DoctorID: "d9", Date: "2026-09-10", Time: "09:00"}, http.StatusNotFound},
		{"slot not offered", bookAppointmentRequest{DoctorID: "d1", Date: "2026-09-10", Time: "03:00"}, http.StatusBadRequest},
		{"missing date", bookAppointmentRequest{DoctorID: "d1", Time: "09:00"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, routes, http.MethodPost, "/appointments", tt.req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestPatientCancelOwnAppointment(t *testing.T) {
	p, _ := newPatient(t)
	routes := p.Routes()

	w := doJSON(t, routes, http.MethodPost, "/appointments", bookAppointmentRequest{
		DoctorID: "d1", Date: "2026-09-10", Time: "09:00",
	})
	appt := decode[session.Appointment](t, w)

	w = doJSON(t, routes, http.MethodPost, "/appointments/"+appt.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cancelled := decode[session.Appointment](t, w)
	assert.Equal(t, session.StatusCancelled, cancelled.Status)

	// Cancelling twice succeeds and leaves the status as it was.
	w = doJSON(t, routes, http.MethodPost, "/appointments/"+appt.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	again := decode[session.Appointment](t, w)
	assert.Equal(t, session.StatusCancelled, again.Status)
}

func TestPatientCannotCancelOthersAppointment(t *testing.T) {
	p, deps := newPatient(t)
	deps.Store.SeedAppointments(session.Appointment{
		ID:          "a1",
		PatientID:   "other_patient",
		PatientName: "Jane Doe",
		DoctorID:    "d1",
		DoctorName:  "Dr. Sarah Smith",
		Date:        "2026-09-10",
		Time:        "09:00",
		Status:      session.StatusConfirmed,
	})

	w := doJSON(t, p.Routes(), http.MethodPost, "/appointments/a1/cancel", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	appt, ok := deps.Store.AppointmentByID("a1")
	require.True(t, ok)
	assert.Equal(t, session.StatusConfirmed, appt.Status)
}

func TestPatientCancelUnknownAppointment(t *testing.T) {
	p, _ := newPatient(t)
	w := doJSON(t, p.Routes(), http.MethodPost, "/appointments/nope/cancel", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPatientListAppointmentsScopedToUser(t *testing.T) {
	p, deps := newPatient(t)
	deps.Store.SeedAppointments(
		session.Appointment{ID: "a1", PatientID: "patient_1", Status: session.StatusConfirmed},
		session.Appointment{ID: "a2", PatientID: "someone_else", Status: session.StatusConfirmed},
	)

	w := doJSON(t, p.Routes(), http.MethodGet, "/appointments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	appts := decode[[]session.Appointment](t, w)
	require.Len(t, appts, 1)
	assert.Equal(t, "a1", appts[0].ID)
}

func TestPatientAnalysisOffline(t *testing.T) {
	p, _ := newPatient(t)

	w := doJSON(t, p.Routes(), http.MethodPost, "/analysis", analyzeRequest{
		ImageBase64: base64.StdEncoding.EncodeToString([]byte("fake-image-bytes")),
		MIMEType:    "image/jpeg",
	})
	require.Equal(t, http.StatusOK, w.Code)

	result := decode[assistant.Analysis](t, w)
	assert.Equal(t, "Offline Mode", result.Condition)
	assert.Equal(t, "N/A", result.Severity)
	assert.NotEmpty(t, result.Recommendations)
}

func TestPatientAnalysisRejectsBadInput(t *testing.T) {
	p, _ := newPatient(t)
	routes := p.Routes()

	w := doJSON(t, routes, http.MethodPost, "/analysis", analyzeRequest{ImageBase64: "not base64!!"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, routes, http.MethodPost, "/analysis", analyzeRequest{ImageBase64: ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// blockingGateway parks AnalyzeImage until released so tests can observe
// the in-flight state.
type blockingGateway struct {
	started chan struct{}
	release chan struct{}
}

func (g *blockingGateway) Provider() string { return "blocking" }

func (g *blockingGateway) AnalyzeImage(ctx context.Context, _ assistant.Image) (assistant.Analysis, error) {
	close(g.started)
	select {
	case <-g.release:
	case <-ctx.Done():
	}
	return assistant.Analysis{Condition: "Done"}, nil
}

func (g *blockingGateway) ChatTurn(_ context.Context, _ string, _ []assistant.ChatMessage) (string, error) {
	return "", nil
}

func TestPatientAnalysisSingleFlight(t *testing.T) {
	deps := newTestDeps(t)
	deps.Store.SetUser(session.PlaceholderUser(session.RolePatient))
	gw := &blockingGateway{started: make(chan struct{}), release: make(chan struct{})}
	deps.Gateway = gw
	p := NewPatient(deps)
	routes := p.Routes()

	body := analyzeRequest{ImageBase64: base64.StdEncoding.EncodeToString([]byte("img"))}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w := doJSON(t, routes, http.MethodPost, "/analysis", body)
		assert.Equal(t, http.StatusOK, w.Code)
	}()

	<-gw.started
	w := doJSON(t, routes, http.MethodPost, "/analysis", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	close(gw.release)
	wg.Wait()
}

func TestPatientChatAppendsTranscript(t *testing.T) {
	p, deps := newPatient(t)
	routes := p.Routes()

	w := doJSON(t, routes, http.MethodPost, "/chat", chatRequest{Message: "hello"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[chatResponse](t, w)
	assert.Contains(t, resp.Reply, "Lume")

	entries := deps.Transcript.List("patient:patient_1")
	require.Len(t, entries, 2)
	assert.Equal(t, assistant.RoleUser, entries[0].Role)
	assert.Equal(t, "hello", entries[0].Text)
	assert.Equal(t, assistant.RoleAssistant, entries[1].Role)

	w = doJSON(t, routes, http.MethodGet, "/chat/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[[]assistant.TranscriptEntry](t, w)
	assert.Len(t, history, 2)
}

func TestPatientChatRequiresMessage(t *testing.T) {
	p, _ := newPatient(t)
	w := doJSON(t, p.Routes(), http.MethodPost, "/chat", chatRequest{Message: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatientEndpointsWithoutSession(t *testing.T) {
	deps := newTestDeps(t)
	p := NewPatient(deps)
	routes := p.Routes()

	for _, path := range []string{"/appointments", "/chat/history"} {
		w := doJSON(t, routes, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	w := doJSON(t, routes, http.MethodPost, "/chat", chatRequest{Message: "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
