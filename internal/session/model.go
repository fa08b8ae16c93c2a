package session

import (
	"fmt"
	"strings"

	"github.com/lumeskin/clinic-platform/internal/catalog"
)

// UserRole is the closed set of roles a session user can hold.
type UserRole string

const (
	RolePatient UserRole = "PATIENT"
	RoleDoctor  UserRole = "DOCTOR"
	RoleAdmin   UserRole = "ADMIN"
	RoleStaff   UserRole = "STAFF"
)

// ParseRole normalizes and validates a role string.
func ParseRole(s string) (UserRole, error) {
	switch UserRole(strings.ToUpper(strings.TrimSpace(s))) {
	case RolePatient:
		return RolePatient, nil
	case RoleDoctor:
		return RoleDoctor, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleStaff:
		return RoleStaff, nil
	}
	return "", fmt.Errorf("session: unknown role %q", s)
}

// User is the session identity. It is immutable for the lifetime of the
// login; logout discards it.
type User struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
	Avatar string   `json:"avatar,omitempty"`
}

// PlaceholderUser materializes the stub identity for a chosen role. There
// is no credential check; role selection alone drives the session.
func PlaceholderUser(role UserRole) User {
	lower := strings.ToLower(string(role))
	title := strings.ToUpper(lower[:1]) + lower[1:]
	return User{
		ID:    lower + "_1",
		Name:  title + " User",
		Email: lower + "@lumeskin.com",
		Role:  role,
	}
}

// CartItem pairs a catalog product with a quantity. A cart holds at most
// one item per product id.
type CartItem struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// AppointmentStatus is the appointment lifecycle state.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusCompleted AppointmentStatus = "COMPLETED"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (AppointmentStatus, error) {
	switch AppointmentStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusCancelled:
		return StatusCancelled, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("session: unknown appointment status %q", s)
}

// canTransition encodes the lifecycle: PENDING may confirm or cancel,
// CONFIRMED may complete or cancel, CANCELLED and COMPLETED are terminal.
func canTransition(from, to AppointmentStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled
	default:
		return false
	}
}

// Appointment is a clinic booking. Appointments are never deleted, only
// moved through status transitions.
type Appointment struct {
	ID          string            `json:"id"`
	PatientID   string            `json:"patientId"`
	PatientName string            `json:"patientName"`
	DoctorID    string            `json:"doctorId"`
	DoctorName  string            `json:"doctorName"`
	Date        string            `json:"date"`
	Time        string            `json:"time"`
	Status      AppointmentStatus `json:"status"`
}
