package dashboard

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lumeskin/clinic-platform/internal/session"
)

// Staff is the front-desk dashboard: the full appointment book plus
// staff-assisted booking and status changes.
type Staff struct {
	deps Deps
}

// NewStaff creates the staff dashboard.
func NewStaff(deps Deps) *Staff {
	return &Staff{deps: deps}
}

// Role implements Dashboard.
func (s *Staff) Role() session.UserRole { return session.RoleStaff }

// Routes implements Dashboard.
func (s *Staff) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/appointments", s.ListAppointments)
	r.Post("/appointments", s.BookAppointment)
	r.Post("/appointments/{apptID}/status", s.UpdateStatus)
	return r
}

// ListAppointments handles GET /staff/appointments. Staff see everything,
// cancelled included.
func (s *Staff) ListAppointments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Store.Appointments())
}

type staffBookRequest struct {
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	DoctorID    string `json:"doctor_id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// BookAppointment handles POST /staff/appointments: booking on behalf of a
// named patient, e.g. a phone caller without an account.
func (s *Staff) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req staffBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.PatientName) == "" {
		writeError(w, http.StatusBadRequest, "patient_name is required")
		return
	}
	doctor, ok := s.deps.Catalog.DoctorByID(req.DoctorID)
	if !ok {
		writeError(w, http.StatusNotFound, "doctor not found")
		return
	}
	if !s.deps.Catalog.DoctorOffersSlot(req.DoctorID, req.Time) {
		writeError(w, http.StatusBadRequest, "doctor does not offer that time slot")
		return
	}
	if strings.TrimSpace(req.Date) == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	patientID := strings.TrimSpace(req.PatientID)
	if patientID == "" {
		patientID = "walkin_" + uuid.NewString()
	}

	appt, err := s.deps.Store.AddAppointment(session.Appointment{
		PatientID:   patientID,
		PatientName: req.PatientName,
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

	s.deps.Metrics.ObserveAppointment("booked", string(appt.Status))
	s.deps.logger().Info("staff booked appointment",
		"appointment_id", appt.ID,
		"patient_name", appt.PatientName,
		"doctor_id", appt.DoctorID,
	)
	writeJSON(w, http.StatusCreated, appt)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles POST /staff/appointments/{apptID}/status with an
// explicit target status.
func (s *Staff) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status, err := session.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	apptID := chi.URLParam(r, "apptID")
	appt, err := s.deps.Store.UpdateAppointmentStatus(apptID, status)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.deps.Metrics.ObserveAppointment("status_changed", string(appt.Status))
	writeJSON(w, http.StatusOK, appt)
}
