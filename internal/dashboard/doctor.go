package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lumeskin/clinic-platform/internal/session"
)

var doctorTracer = otel.Tracer("lumeskin.internal.dashboard.doctor")

// Doctor is the doctor-facing dashboard: the day's schedule and visit
// status transitions.
type Doctor struct {
	deps Deps
}

// NewDoctor creates the doctor dashboard.
func NewDoctor(deps Deps) *Doctor {
	return &Doctor{deps: deps}
}

// Role implements Dashboard.
func (d *Doctor) Role() session.UserRole { return session.RoleDoctor }

// Routes implements Dashboard.
func (d *Doctor) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/appointments", d.ListAppointments)
	r.Post("/appointments/{apptID}/confirm", d.transition(session.StatusConfirmed, "confirmed"))
	r.Post("/appointments/{apptID}/complete", d.transition(session.StatusCompleted, "completed"))
	r.Post("/appointments/{apptID}/cancel", d.transition(session.StatusCancelled, "cancelled"))
	return r
}

// ListAppointments handles GET /doctor/appointments. The schedule hides
// cancelled visits, matching the clinic's working view.
func (d *Doctor) ListAppointments(w http.ResponseWriter, r *http.Request) {
	var active []session.Appointment
	for _, a := range d.deps.Store.Appointments() {
		if a.Status != session.StatusCancelled {
			active = append(active, a)
		}
	}
	writeJSON(w, http.StatusOK, active)
}

// transition builds a handler moving an appointment to the target status.
// Completing a visit is the doctor's call, which is why COMPLETED is only
// reachable here.
func (d *Doctor) transition(target session.AppointmentStatus, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := doctorTracer.Start(r.Context(), "doctor."+action)
		defer span.End()

		apptID := chi.URLParam(r, "apptID")
		appt, err := d.deps.Store.UpdateAppointmentStatus(apptID, target)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		span.SetAttributes(attribute.String("lumeskin.appointment_id", appt.ID))
		d.deps.Metrics.ObserveAppointment(action, string(appt.Status))
		d.deps.logger().Info("appointment "+action,
			"appointment_id", appt.ID,
			"doctor_id", appt.DoctorID,
		)
		writeJSON(w, http.StatusOK, appt)
	}
}
