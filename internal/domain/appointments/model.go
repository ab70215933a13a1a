package appointments

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "Pendiente"
	StatusDeposited Status = "Señado"
	StatusCollected Status = "Cobrado"
)

type DiscountType string

const (
	DiscountNone    DiscountType = ""
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// DefaultColor es el color del evento en el calendario si no se elige otro.
const DefaultColor = "#3788d8"

// MinDuration es la duración mínima de un turno.
const MinDuration = 15 * time.Minute

// Line es un item adicional del turno con el precio congelado al reservar.
type Line struct {
	ItemID string
	Name   string
	Price  decimal.Decimal
}

type Appointment struct {
	ID             string
	DogID          string
	ServiceID      string
	ProfessionalID string
	StartTime      time.Time
	EndTime        time.Time
	Description    string
	Color          string
	Status         Status
	IsDeleted      bool

	TotalAmount      decimal.Decimal
	DiscountType     DiscountType
	DiscountValue    decimal.Decimal
	FinalPrice       decimal.Decimal
	CommissionAmount decimal.Decimal

	Items []Line

	CreatedAt time.Time
	UpdatedAt time.Time

	// Sólo lectura (join).
	DogName string
}

func (a Appointment) Duration() time.Duration {
	return a.EndTime.Sub(a.StartTime)
}

func (a Appointment) ItemIDs() []string {
	out := make([]string, 0, len(a.Items))
	for _, l := range a.Items {
		out = append(out, l.ItemID)
	}
	return out
}

// CalendarEvent es lo que consume el calendario del front.
type CalendarEvent struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Color string    `json:"color"`
}

func (a Appointment) Event() CalendarEvent {
	title := a.DogName
	if a.Description != "" {
		title += " - " + a.Description
	}
	color := a.Color
	if color == "" {
		color = DefaultColor
	}
	return CalendarEvent{ID: a.ID, Title: title, Start: a.StartTime, End: a.EndTime, Color: color}
}
