package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Product is a boutique catalog entry. Catalog data is read-only reference
// data; nothing mutates a Product after load.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Rating      float64  `json:"rating"`
	Reviews     []Review `json:"reviews"`
}

// Review is a customer review attached to a product.
type Review struct {
	ID       string  `json:"id"`
	UserName string  `json:"userName"`
	Rating   float64 `json:"rating"`
	Comment  string  `json:"comment"`
	Date     string  `json:"date"`
}

// Doctor is a directory entry with its bookable time slots.
type Doctor struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Specialty    string   `json:"specialty"`
	Availability []string `json:"availability"`
	Bio          string   `json:"bio"`
	Image        string   `json:"image"`
}

// Store holds the loaded product and doctor directories. All reads return
// the shared immutable entries; callers must not mutate them.
type Store struct {
	products     []Product
	productsByID map[string]*Product
	doctors      []Doctor
	doctorsByID  map[string]*Doctor
}

// New builds a store from already-decoded catalog entries.
func New(products []Product, doctors []Doctor) (*Store, error) {
	s := &Store{
		products:     products,
		productsByID: make(map[string]*Product, len(products)),
		doctors:      doctors,
		doctorsByID:  make(map[string]*Doctor, len(doctors)),
	}
	for i := range products {
		p := &s.products[i]
		if p.ID == "" {
			return nil, fmt.Errorf("catalog: product %d has no id", i)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("catalog: product %s has negative price", p.ID)
		}
		if _, dup := s.productsByID[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %s", p.ID)
		}
		s.productsByID[p.ID] = p
	}
	for i := range doctors {
		d := &s.doctors[i]
		if d.ID == "" {
			return nil, fmt.Errorf("catalog: doctor %d has no id", i)
		}
		if _, dup := s.doctorsByID[d.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate doctor id %s", d.ID)
		}
		s.doctorsByID[d.ID] = d
	}
	return s, nil
}

// Load decodes catalog JSON. Empty paths fall back to the embedded seed
// data, so a bare deployment always has a working catalog.
func Load(productPath, doctorPath string) (*Store, error) {
	productData := seedProducts
	if productPath != "" {
		data, err := os.ReadFile(productPath)
		if err != nil {
			return nil, fmt.Errorf("catalog: read products: %w", err)
		}
		productData = data
	}

	doctorData := seedDoctors
	if doctorPath != "" {
		data, err := os.ReadFile(doctorPath)
		if err != nil {
			return nil, fmt.Errorf("catalog: read doctors: %w", err)
		}
		doctorData = data
	}

	var products []Product
	if err := json.Unmarshal(productData, &products); err != nil {
		return nil, fmt.Errorf("catalog: decode products: %w", err)
	}
	var doctors []Doctor
	if err := json.Unmarshal(doctorData, &doctors); err != nil {
		return nil, fmt.Errorf("catalog: decode doctors: %w", err)
	}
	return New(products, doctors)
}

// Products returns all products in catalog order.
func (s *Store) Products() []Product {
	return s.products
}

// Doctors returns the doctor directory.
func (s *Store) Doctors() []Doctor {
	return s.doctors
}

// ProductByID looks up a product.
func (s *Store) ProductByID(id string) (*Product, bool) {
	p, ok := s.productsByID[id]
	return p, ok
}

// DoctorByID looks up a doctor.
func (s *Store) DoctorByID(id string) (*Doctor, bool) {
	d, ok := s.doctorsByID[id]
	return d, ok
}

// DoctorOffersSlot reports whether the doctor lists the given time slot.
func (s *Store) DoctorOffersSlot(doctorID, slot string) bool {
	d, ok := s.doctorsByID[doctorID]
	if !ok {
		return false
	}
	for _, t := range d.Availability {
		if t == slot {
			return true
		}
	}
	return false
}
