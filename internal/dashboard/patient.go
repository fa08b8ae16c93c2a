package dashboard

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lumeskin/clinic-platform/internal/assistant"
	"github.com/lumeskin/clinic-platform/internal/session"
)

var patientTracer = otel.Tracer("lumeskin.internal.dashboard.patient")

// Patient is the patient-facing dashboard: boutique cart, doctor booking,
// skin analysis and the assistant chat.
type Patient struct {
	deps Deps

	// analyzing guards against duplicate in-flight skin scans; the UI
	// disables the upload button while one is outstanding and the API
	// enforces the same rule.
	analyzing atomic.Bool
}

// NewPatient creates the patient dashboard.
func NewPatient(deps Deps) *Patient {
	return &Patient{deps: deps}
}

// Role implements Dashboard.
func (p *Patient) Role() session.UserRole { return session.RolePatient }

// Routes implements Dashboard.
func (p *Patient) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/cart", p.GetCart)
	r.Post("/cart/items", p.AddCartItem)
	r.Delete("/cart/items/{productID}", p.RemoveCartItem)
	r.Get("/appointments", p.ListAppointments)
	r.Post("/appointments", p.BookAppointment)
	r.Post("/appointments/{apptID}/cancel", p.CancelAppointment)
	r.Post("/analysis", p.AnalyzeSkin)
	r.Post("/chat", p.ChatTurn)
	r.Get("/chat/history", p.ChatHistory)
	return r
}

func (p *Patient) currentUser(w http.ResponseWriter) (session.User, bool) {
	user, ok := p.deps.Store.CurrentUser()
	if !ok {
		writeError(w, http.StatusUnauthorized, "no active session")
		return session.User{}, false
	}
	return user, true
}

type cartResponse struct {
	Items []session.CartItem `json:"items"`
	Total float64            `json:"total"`
}

func (p *Patient) cartResponse() cartResponse {
	return cartResponse{
		Items: p.deps.Store.Cart(),
		Total: p.deps.Store.CartTotal(),
	}
}

// GetCart handles GET /patient/cart
func (p *Patient) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, p.cartResponse())
}

type addCartItemRequest struct {
	ProductID string `json:"product_id"`
}

// AddCartItem handles POST /patient/cart/items
func (p *Patient) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	product, ok := p.deps.Catalog.ProductByID(req.ProductID)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	p.deps.Store.AddToCart(*product)
	p.deps.Metrics.ObserveCart("add")
	p.deps.logger().Info("cart item added", "product_id", product.ID)
	writeJSON(w, http.StatusCreated, p.cartResponse())
}

// RemoveCartItem handles DELETE /patient/cart/items/{productID}. Removing
// an id that is not in the cart succeeds and leaves the cart unchanged.
func (p *Patient) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	p.deps.Store.RemoveFromCart(productID)
	p.deps.Metrics.ObserveCart("remove")
	writeJSON(w, http.StatusOK, p.cartResponse())
}

// ListAppointments handles GET /patient/appointments, scoped to the
// logged-in patient.
func (p *Patient) ListAppointments(w http.ResponseWriter, r *http.Request) {
	user, ok := p.currentUser(w)
	if !ok {
		return
	}
	var mine []session.Appointment
	for _, a := range p.deps.Store.Appointments() {
		if a.PatientID == user.ID {
			mine = append(mine, a)
		}
	}
	writeJSON(w, http.StatusOK, mine)
}

type bookAppointmentRequest struct {
	DoctorID string `json:"doctor_id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

// BookAppointment handles POST /patient/appointments. Bookings are created
// directly CONFIRMED; the clinic does not hold patient self-service
// bookings in PENDING.
func (p *Patient) BookAppointment(w http.ResponseWriter, r *http.Request) {
	_, span := patientTracer.Start(r.Context(), "patient.book")
	defer span.End()

	user, ok := p.currentUser(w)
	if !ok {
		return
	}

	var req bookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	doctor, ok := p.deps.Catalog.DoctorByID(req.DoctorID)
	if !ok {
		writeError(w, http.StatusNotFound, "doctor not found")
		return
	}
	if !p.deps.Catalog.DoctorOffersSlot(req.DoctorID, req.Time) {
		writeError(w, http.StatusBadRequest, "doctor does not offer that time slot")
		return
	}
	if strings.TrimSpace(req.Date) == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	appt, err := p.deps.Store.AddAppointment(session.Appointment{
		PatientID:   user.ID,
		PatientName: user.Name,
		DoctorID:    doctor.ID,
		DoctorName:  doctor.Name,
		Date:        req.Date,
		Time:        req.Time,
		Status:      session.StatusConfirmed,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	span.SetAttributes(
		attribute.String("lumeskin.appointment_id", appt.ID),
		attribute.String("lumeskin.doctor_id", appt.DoctorID),
	)
	p.deps.Metrics.ObserveAppointment("booked", string(appt.Status))
	p.deps.logger().Info("appointment booked",
		"appointment_id", appt.ID,
		"doctor_id", appt.DoctorID,
		"time", appt.Time,
	)
	writeJSON(w, http.StatusCreated, appt)
}

// CancelAppointment handles POST /patient/appointments/{apptID}/cancel.
// Patients may only cancel their own bookings.
func (p *Patient) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	user, ok := p.currentUser(w)
	if !ok {
		return
	}
	apptID := chi.URLParam(r, "apptID")

	existing, found := p.deps.Store.AppointmentByID(apptID)
	if !found {
		writeError(w, http.StatusNotFound, session.ErrAppointmentNotFound.Error())
		return
	}
	if existing.PatientID != user.ID {
		writeError(w, http.StatusForbidden, "appointment belongs to another patient")
		return
	}

	appt, err := p.deps.Store.UpdateAppointmentStatus(apptID, session.StatusCancelled)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	p.deps.Metrics.ObserveAppointment("cancelled", string(appt.Status))
	writeJSON(w, http.StatusOK, appt)
}

type analyzeRequest struct {
	ImageBase64 string `json:"image_base64"`
	MIMEType    string `json:"mime_type"`
}

// AnalyzeSkin handles POST /patient/analysis. One scan may be in flight at
// a time; concurrent submissions get 409.
func (p *Patient) AnalyzeSkin(w http.ResponseWriter, r *http.Request) {
	if _, ok := p.currentUser(w); !ok {
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image_base64 is not valid base64")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "no image supplied")
		return
	}

	if !p.analyzing.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "an analysis is already in progress")
		return
	}
	defer p.analyzing.Store(false)

	start := time.Now()
	result, err := p.deps.Gateway.AnalyzeImage(r.Context(), assistant.Image{
		Data:     data,
		MIMEType: req.MIMEType,
	})
	p.deps.Metrics.ObserveAssistantLatency("analyze", time.Since(start).Seconds())
	if err != nil {
		p.deps.Metrics.ObserveAssistant("analyze", p.deps.Gateway.Provider(), "error")
		p.deps.logger().Error("skin analysis failed", "error", err)
		writeError(w, http.StatusBadGateway, "analysis failed, please retry")
		return
	}

	p.deps.Metrics.ObserveAssistant("analyze", p.deps.Gateway.Provider(), "ok")
	writeJSON(w, http.StatusOK, result)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func chatConversationID(user session.User) string {
	return "patient:" + user.ID
}

// ChatTurn handles POST /patient/chat. The turn and its reply land on the
// append-only transcript; prior turns ride along as provider context.
func (p *Patient) ChatTurn(w http.ResponseWriter, r *http.Request) {
	user, ok := p.currentUser(w)
	if !ok {
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	convID := chatConversationID(user)
	history := p.deps.Transcript.History(convID)

	start := time.Now()
	reply, err := p.deps.Gateway.ChatTurn(r.Context(), req.Message, history)
	p.deps.Metrics.ObserveAssistantLatency("chat", time.Since(start).Seconds())
	if err != nil {
		p.deps.Metrics.ObserveAssistant("chat", p.deps.Gateway.Provider(), "error")
		p.deps.logger().Error("chat turn failed", "error", err)
		writeError(w, http.StatusBadGateway, "assistant unavailable, please retry")
		return
	}
	if reply == "" {
		reply = "I am currently calibrating. Please try again."
	}

	p.deps.Transcript.Append(convID, assistant.RoleUser, req.Message)
	p.deps.Transcript.Append(convID, assistant.RoleAssistant, reply)
	p.deps.Metrics.ObserveAssistant("chat", p.deps.Gateway.Provider(), "ok")
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

// ChatHistory handles GET /patient/chat/history.
func (p *Patient) ChatHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := p.currentUser(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p.deps.Transcript.List(chatConversationID(user)))
}
