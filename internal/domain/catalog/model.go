package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category agrupa servicios (Baño, Corte, ...).
type Category struct {
	ID           string
	Name         string
	Description  string
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
}

// Size es el tamaño del perro (Chico, Mediano, Grande, ...).
type Size struct {
	ID           string
	Name         string
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
}

// Service es una combinación categoría × tamaño con precio y duración base.
type Service struct {
	ID              string
	CategoryID      string
	SizeID          string
	Description     string
	BasePrice       decimal.Decimal
	DurationMinutes int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Cargados en lecturas.
	CategoryName string
	SizeName     string
}

func (s Service) Name() string {
	return strings.TrimSpace(s.CategoryName + " " + s.SizeName)
}

// Item es un adicional con precio fijo (moño, perfume, corte de uñas...).
type Item struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	IsActive  bool
	CreatedAt time.Time
}

// Group es una categoría activa con sus servicios activos, para el selector de turnos.
type Group struct {
	Category Category
	Services []Service
}
