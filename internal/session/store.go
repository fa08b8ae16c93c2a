package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/lumeskin/clinic-platform/internal/catalog"
)

// Store is the single source of truth for session state: the current user,
// the shopping cart and the clinic-wide appointment book. All mutation goes
// through named operations; views read snapshots. There is one logical
// writer (the current session), the mutex only guards against concurrent
// HTTP requests touching the same store.
type Store struct {
	mu           sync.RWMutex
	user         *User
	cart         []CartItem
	appointments []Appointment
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// SeedAppointments installs pre-existing appointments with their ids intact.
// Used at startup for reference data; later additions go through
// AddAppointment.
func (s *Store) SeedAppointments(appts ...Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = append(s.appointments, appts...)
}

// SetUser replaces the session identity.
func (s *Store) SetUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := u
	s.user = &copied
}

// ClearUser ends the session identity. The cart empties with it; the
// appointment book is clinic-wide and survives logout.
func (s *Store) ClearUser() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.cart = nil
}

// CurrentUser returns the logged-in user, if any.
func (s *Store) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// AddToCart adds one unit of the product. An existing line for the same
// product id gains quantity instead of duplicating; new lines append at
// the end, so cart order is stable.
func (s *Store) AddToCart(p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].Product.ID == p.ID {
			s.cart[i].Quantity++
			return
		}
	}
	s.cart = append(s.cart, CartItem{Product: p, Quantity: 1})
}

// RemoveFromCart drops the whole line for the product id, whatever its
// quantity. An absent id is a no-op.
func (s *Store) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].Product.ID == productID {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			return
		}
	}
}

// Cart returns a snapshot of the cart lines in order.
func (s *Store) Cart() []CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CartItem, len(s.cart))
	copy(out, s.cart)
	return out
}

// CartTotal derives the cart total from current contents. It is never
// cached, so it cannot go stale.
func (s *Store) CartTotal() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, item := range s.cart {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// AddAppointment appends a booking. The store assigns the id; a caller-set
// id is ignored.
func (s *Store) AddAppointment(appt Appointment) (Appointment, error) {
	if appt.Status == "" {
		appt.Status = StatusPending
	}
	if _, err := ParseStatus(string(appt.Status)); err != nil {
		return Appointment{}, err
	}
	appt.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = append(s.appointments, appt)
	return appt, nil
}

// UpdateAppointmentStatus moves the appointment with the given id to a new
// status, leaving every other field untouched. Unknown ids are an explicit
// error, not a silent success. Re-applying the current status is an
// idempotent success, so a second cancel does not fail.
func (s *Store) UpdateAppointmentStatus(id string, status AppointmentStatus) (Appointment, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return Appointment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appointments {
		if s.appointments[i].ID != id {
			continue
		}
		current := s.appointments[i].Status
		if current == status {
			return s.appointments[i], nil
		}
		if !canTransition(current, status) {
			return Appointment{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, status)
		}
		s.appointments[i].Status = status
		return s.appointments[i], nil
	}
	return Appointment{}, fmt.Errorf("%w: %s", ErrAppointmentNotFound, id)
}

// Appointments returns a snapshot of the appointment book in insertion
// order.
func (s *Store) Appointments() []Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out
}

// AppointmentByID looks up a single appointment.
func (s *Store) AppointmentByID(id string) (Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.appointments {
		if a.ID == id {
			return a, true
		}
	}
	return Appointment{}, false
}
