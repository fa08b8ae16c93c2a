package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumeskin/clinic-platform/internal/session"
)

// Admin is the administrative dashboard. It only composes reads; admins
// manage the clinic through aggregate views, not direct mutation.
type Admin struct {
	deps Deps
}

// NewAdmin creates the admin dashboard.
func NewAdmin(deps Deps) *Admin {
	return &Admin{deps: deps}
}

// Role implements Dashboard.
func (a *Admin) Role() session.UserRole { return session.RoleAdmin }

// Routes implements Dashboard.
func (a *Admin) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/stats", a.GetStats)
	r.Get("/appointments", a.ListAppointments)
	return r
}

// StatsResponse aggregates clinic activity for the admin overview.
type StatsResponse struct {
	AppointmentsTotal    int            `json:"appointments_total"`
	AppointmentsByStatus map[string]int `json:"appointments_by_status"`
	CatalogProducts      int            `json:"catalog_products"`
	CatalogDoctors       int            `json:"catalog_doctors"`
	CartItems            int            `json:"cart_items"`
	CartTotal            float64        `json:"cart_total"`
}

// GetStats handles GET /admin/stats.
func (a *Admin) GetStats(w http.ResponseWriter, r *http.Request) {
	appts := a.deps.Store.Appointments()
	byStatus := make(map[string]int)
	for _, appt := range appts {
		byStatus[string(appt.Status)]++
	}

	cart := a.deps.Store.Cart()
	var cartItems int
	for _, item := range cart {
		cartItems += item.Quantity
	}

	writeJSON(w, http.StatusOK, StatsResponse{
		AppointmentsTotal:    len(appts),
		AppointmentsByStatus: byStatus,
		CatalogProducts:      len(a.deps.Catalog.Products()),
		CatalogDoctors:       len(a.deps.Catalog.Doctors()),
		CartItems:            cartItems,
		CartTotal:            a.deps.Store.CartTotal(),
	})
}

// ListAppointments handles GET /admin/appointments.
func (a *Admin) ListAppointments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.deps.Store.Appointments())
}
