package checkout

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"peluqueria-canina/internal/domain/appointments"
	"peluqueria-canina/internal/middleware"
	"peluqueria-canina/internal/platform/httpx"
)

func RegisterRoutes(r chi.Router, l *Ledger) {
	r.Route("/appointments/{appointmentID}/checkout", func(cr chi.Router) {
		cr.Get("/", summaryHandler(l))
		cr.Post("/", recordPaymentHandler(l))
	})

	r.Delete("/payments/{paymentID}", deletePaymentHandler(l))
	r.Get("/sales/daily", dailyReportHandler(l))
}

type paymentResponse struct {
	ID            string          `json:"id"`
	AppointmentID string          `json:"appointment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Method        Method          `json:"payment_method"`
	Type          Type            `json:"payment_type"`
	Notes         string          `json:"notes"`
}

type summaryResponse struct {
	Appointment appointments.Response `json:"appointment"`
	Payments    []paymentResponse     `json:"payments"`
	Paid        decimal.Decimal       `json:"paid"`
	Balance     decimal.Decimal       `json:"balance"`
}

type recordPaymentResponse struct {
	Appointment appointments.Response `json:"appointment"`
	Payment     paymentResponse       `json:"payment"`
}

type dailyReportResponse struct {
	Day              string                     `json:"day"`
	Settlements      []paymentResponse          `json:"pagos"`
	Deposits         []paymentResponse          `json:"senas"`
	TotalSettlements decimal.Decimal            `json:"total_pagos"`
	TotalDeposits    decimal.Decimal            `json:"total_senas"`
	TotalCash        decimal.Decimal            `json:"total_cash"`
	ByMethod         map[Method]decimal.Decimal `json:"by_method"`
	Collected        []appointments.Response    `json:"appointments"`
	TotalCommissions decimal.Decimal            `json:"total_comisiones"`
}

// summaryHandler godoc
// @Summary Estado de cuenta del turno
// @Tags checkout
// @Produce json
// @Param appointmentID path string true "ID del turno"
// @Success 200 {object} summaryResponse
// @Failure 404 {string} string "appointment not found"
// @Router /appointments/{appointmentID}/checkout [get]
func summaryHandler(l *Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := l.Summary(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, summaryResponse{
			Appointment: appointments.ToResponse(s.Appointment),
			Payments:    toPaymentResponses(s.Payments),
			Paid:        s.Paid,
			Balance:     s.Balance,
		})
	}
}

// recordPaymentHandler godoc
// @Summary Registrar seña o pago
// @Description Agrega un pago. Opcionalmente revisa final_price, service_id e item_ids antes. Deriva estado (Pendiente/Señado/Cobrado) y comisión.
// @Tags checkout
// @Accept json
// @Produce json
// @Param appointmentID path string true "ID del turno"
// @Param payload body PaymentInput true "Pago"
// @Success 201 {object} recordPaymentResponse
// @Failure 400 {string} string "validación"
// @Failure 404 {string} string "appointment not found"
// @Failure 409 {string} string "appointment is cancelled"
// @Router /appointments/{appointmentID}/checkout [post]
func recordPaymentHandler(l *Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var in PaymentInput
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		a, p, err := l.RecordPayment(r.Context(), chi.URLParam(r, "appointmentID"), claims.UserID, in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, recordPaymentResponse{
			Appointment: appointments.ToResponse(a),
			Payment:     toPaymentResponse(p),
		})
	}
}

// deletePaymentHandler godoc
// @Summary Borrar un pago
// @Description Elimina el pago y recalcula estado y comisión del turno.
// @Tags checkout
// @Produce json
// @Param paymentID path string true "ID del pago"
// @Success 200 {object} appointments.Response
// @Failure 404 {string} string "payment not found"
// @Router /payments/{paymentID} [delete]
func deletePaymentHandler(l *Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := l.DeletePayment(r.Context(), chi.URLParam(r, "paymentID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, appointments.ToResponse(a))
	}
}

// dailyReportHandler godoc
// @Summary Caja del día
// @Tags checkout
// @Produce json
// @Param date query string false "YYYY-MM-DD (default hoy)"
// @Success 200 {object} dailyReportResponse
// @Router /sales/daily [get]
func dailyReportHandler(l *Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := httpx.QueryTime(r, "date", l.loc)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		var d time.Time
		if day != nil {
			d = *day
		}

		rep, err := l.DailyReport(r.Context(), d)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		collected := make([]appointments.Response, 0, len(rep.Collected))
		for _, a := range rep.Collected {
			collected = append(collected, appointments.ToResponse(a))
		}
		httpx.WriteJSON(w, http.StatusOK, dailyReportResponse{
			Day:              rep.Day.Format("2006-01-02"),
			Settlements:      toPaymentResponses(rep.Settlements),
			Deposits:         toPaymentResponses(rep.Deposits),
			TotalSettlements: rep.TotalSettlements,
			TotalDeposits:    rep.TotalDeposits,
			TotalCash:        rep.TotalCash,
			ByMethod:         rep.ByMethod,
			Collected:        collected,
			TotalCommissions: rep.TotalCommissions,
		})
	}
}

func toPaymentResponses(ps []Payment) []paymentResponse {
	out := make([]paymentResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPaymentResponse(p))
	}
	return out
}

func toPaymentResponse(p Payment) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		AppointmentID: p.AppointmentID,
		Amount:        p.Amount,
		Date:          p.Date,
		Method:        p.Method,
		Type:          p.Type,
		Notes:         p.Notes,
	}
}
