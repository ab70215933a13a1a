package staff

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"peluqueria-canina/internal/middleware"
	"peluqueria-canina/internal/platform/httpx"
	"peluqueria-canina/internal/ports/capabilities"
)

func RegisterRoutes(r chi.Router, svc *Service, gate middleware.Gate) {
	r.Route("/professionals", func(pr chi.Router) {
		pr.Get("/", listHandler(svc))
		pr.Get("/{professionalID}", getHandler(svc))

		pr.With(gate(capabilities.CapStaffWrite)).Post("/", createHandler(svc))
		pr.With(gate(capabilities.CapStaffWrite)).Put("/{professionalID}", updateHandler(svc))
		pr.With(gate(capabilities.CapStaffWrite)).Delete("/{professionalID}", deactivateHandler(svc))
	})
}

type professionalResponse struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	IsActive             bool            `json:"is_active"`
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), httpx.QueryBool(r, "active"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		out := make([]professionalResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toResponse(p))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetProfessional(r.Context(), chi.URLParam(r, "professionalID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toResponse(p))
	}
}

// createHandler godoc
// @Summary Alta de profesional
// @Tags professionals
// @Accept json
// @Produce json
// @Param payload body Input true "Nombre y porcentaje de comisión (0-100)"
// @Success 201 {object} professionalResponse
// @Failure 400 {string} string "validación"
// @Failure 403 {string} string "forbidden"
// @Router /professionals [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in Input
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		p, err := svc.Create(r.Context(), in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toResponse(p))
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in Input
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		p, err := svc.Update(r.Context(), chi.URLParam(r, "professionalID"), in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toResponse(p))
	}
}

func deactivateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Deactivate(r.Context(), chi.URLParam(r, "professionalID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toResponse(p Professional) professionalResponse {
	return professionalResponse{
		ID:                   p.ID,
		Name:                 p.Name,
		CommissionPercentage: p.CommissionPercentage,
		IsActive:             p.IsActive,
	}
}
