package appointments

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"peluqueria-canina/internal/middleware"
	"peluqueria-canina/internal/platform/apperr"
	"peluqueria-canina/internal/platform/httpx"
	"peluqueria-canina/internal/ports/capabilities"
)

// RegisterRoutes monta los turnos. loc es la zona horaria en la que se
// interpretan fechas sin offset que manda el front ("2024-05-10T10:00").
func RegisterRoutes(r chi.Router, s *Scheduler, gate middleware.Gate, loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}

	r.Route("/appointments", func(ar chi.Router) {
		ar.Get("/", calendarHandler(s, loc))
		ar.Post("/", createHandler(s, loc))

		ar.Get("/deleted", listDeletedHandler(s))
		ar.With(gate(capabilities.CapPermanentDelete)).Delete("/deleted", purgeHandler(s))

		ar.Get("/{appointmentID}", getHandler(s))
		ar.Put("/{appointmentID}", updateHandler(s, loc))
		ar.Delete("/{appointmentID}", softDeleteHandler(s))
		ar.Post("/{appointmentID}/restore", restoreHandler(s))
		ar.With(gate(capabilities.CapPermanentDelete)).Delete("/{appointmentID}/permanent", hardDeleteHandler(s))
	})

	r.Get("/dogs/{dogID}/appointments", listByDogHandler(s))
}

// bookingRequest acepta start_time RFC3339 o local "YYYY-MM-DDTHH:MM".
type bookingRequest struct {
	DogID           string          `json:"dog_id"`
	ServiceID       string          `json:"service_id"`
	ProfessionalID  string          `json:"professional_id"`
	ItemIDs         []string        `json:"item_ids"`
	StartTime       string          `json:"start_time"`
	DurationMinutes int             `json:"duration"`
	Description     string          `json:"description"`
	Color           string          `json:"color"`
	DiscountType    DiscountType    `json:"discount_type"`
	DiscountValue   decimal.Decimal `json:"discount_value"`
}

type lineResponse struct {
	ItemID string          `json:"item_id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// Response es la vista JSON de un turno.
type Response struct {
	ID               string          `json:"id"`
	DogID            string          `json:"dog_id"`
	DogName          string          `json:"dog_name,omitempty"`
	ServiceID        string          `json:"service_id"`
	ProfessionalID   string          `json:"professional_id"`
	StartTime        time.Time       `json:"start_time"`
	EndTime          time.Time       `json:"end_time"`
	Description      string          `json:"description"`
	Color            string          `json:"color"`
	Status           Status          `json:"status"`
	IsDeleted        bool            `json:"is_deleted"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	DiscountType     DiscountType    `json:"discount_type,omitempty"`
	DiscountValue    decimal.Decimal `json:"discount_value"`
	FinalPrice       decimal.Decimal `json:"final_price"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	Items            []lineResponse  `json:"items"`
}

type purgeResponse struct {
	Deleted int64 `json:"deleted"`
}

func (req bookingRequest) toInput(loc *time.Location) (BookingInput, error) {
	in := BookingInput{
		DogID:           strings.TrimSpace(req.DogID),
		ServiceID:       strings.TrimSpace(req.ServiceID),
		ProfessionalID:  strings.TrimSpace(req.ProfessionalID),
		ItemIDs:         req.ItemIDs,
		DurationMinutes: req.DurationMinutes,
		Description:     req.Description,
		Color:           req.Color,
		DiscountType:    req.DiscountType,
		DiscountValue:   req.DiscountValue,
	}
	t, err := ParseStart(req.StartTime, loc)
	if err != nil {
		return BookingInput{}, err
	}
	in.StartTime = t
	return in, nil
}

// ParseStart interpreta la hora de inicio. Vacío devuelve time.Time{} (lo rechaza la validación).
func ParseStart(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperr.Validation("start_time", "invalid date-time")
}

// createHandler godoc
// @Summary Reservar turno
// @Description Crea un turno en estado Pendiente. Rechaza duración < 15 minutos (400) y superposición (409).
// @Tags appointments
// @Accept json
// @Produce json
// @Param payload body bookingRequest true "Turno; start_time RFC3339 o YYYY-MM-DDTHH:MM local"
// @Success 201 {object} Response
// @Failure 400 {string} string "validación"
// @Failure 409 {string} string "schedule overlap"
// @Router /appointments [post]
func createHandler(s *Scheduler, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookingRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		in, err := req.toInput(loc)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		a, err := s.Create(r.Context(), in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, ToResponse(a))
	}
}

// updateHandler godoc
// @Summary Editar turno
// @Description Reemplaza horario, servicio, items y precio. Mantiene estado, pagos y comisión.
// @Tags appointments
// @Accept json
// @Produce json
// @Param appointmentID path string true "ID del turno"
// @Param payload body bookingRequest true "Turno"
// @Success 200 {object} Response
// @Failure 400 {string} string "validación"
// @Failure 404 {string} string "appointment not found"
// @Failure 409 {string} string "schedule overlap"
// @Router /appointments/{appointmentID} [put]
func updateHandler(s *Scheduler, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookingRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		in, err := req.toInput(loc)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		a, err := s.Update(r.Context(), chi.URLParam(r, "appointmentID"), in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(a))
	}
}

// calendarHandler godoc
// @Summary Eventos del calendario
// @Description Turnos activos como eventos (id, title, start, end, color). start/end opcionales acotan la ventana.
// @Tags appointments
// @Produce json
// @Param start query string false "RFC3339 o YYYY-MM-DD"
// @Param end query string false "RFC3339 o YYYY-MM-DD (fecha sola: incluye ese día)"
// @Success 200 {array} CalendarEvent
// @Router /appointments [get]
func calendarHandler(s *Scheduler, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := httpx.QueryTime(r, "start", loc)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		to, err := httpx.QueryEndTime(r, "end", loc)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		events, err := s.ListCalendar(r.Context(), from, to)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, events)
	}
}

func getHandler(s *Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := s.Get(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(a))
	}
}

func listByDogHandler(s *Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.ListByDog(r.Context(), chi.URLParam(r, "dogID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		writeList(w, items)
	}
}

func listDeletedHandler(s *Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.ListDeleted(r.Context())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		writeList(w, items)
	}
}

func softDeleteHandler(s *Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.SoftDelete(r.Context(), chi.URLParam(r, "appointmentID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func restoreHandler(s *Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := s.Restore(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(a))
	}
}

func hardDeleteHandler(s *Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.HardDelete(r.Context(), chi.URLParam(r, "appointmentID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func purgeHandler(s *Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := s.PurgeDeleted(r.Context())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, purgeResponse{Deleted: n})
	}
}

func writeList(w http.ResponseWriter, items []Appointment) {
	out := make([]Response, 0, len(items))
	for _, a := range items {
		out = append(out, ToResponse(a))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// ToResponse lo reutiliza checkout para devolver el turno actualizado.
func ToResponse(a Appointment) Response {
	lines := make([]lineResponse, 0, len(a.Items))
	for _, l := range a.Items {
		lines = append(lines, lineResponse{ItemID: l.ItemID, Name: l.Name, Price: l.Price})
	}
	return Response{
		ID:               a.ID,
		DogID:            a.DogID,
		DogName:          a.DogName,
		ServiceID:        a.ServiceID,
		ProfessionalID:   a.ProfessionalID,
		StartTime:        a.StartTime,
		EndTime:          a.EndTime,
		Description:      a.Description,
		Color:            a.Color,
		Status:           a.Status,
		IsDeleted:        a.IsDeleted,
		TotalAmount:      a.TotalAmount,
		DiscountType:     a.DiscountType,
		DiscountValue:    a.DiscountValue,
		FinalPrice:       a.FinalPrice,
		CommissionAmount: a.CommissionAmount,
		Items:            lines,
	}
}
