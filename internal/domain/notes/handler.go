package notes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"peluqueria-canina/internal/middleware"
	"peluqueria-canina/internal/platform/httpx"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/dogs/{dogID}/notes", func(nr chi.Router) {
		nr.Post("/", createNoteHandler(svc))
		nr.Get("/", listNotesHandler(svc))
	})
}

type noteResponse struct {
	ID        string    `json:"id"`
	DogID     string    `json:"dog_id"`
	Note      string    `json:"note"`
	Date      time.Time `json:"date"`
	CreatedBy string    `json:"created_by"`
}

// createNoteHandler godoc
// @Summary Agregar nota a un perro
// @Tags notes
// @Accept json
// @Produce json
// @Param dogID path string true "ID del perro"
// @Param payload body AddInput true "Nota; date opcional RFC3339"
// @Success 201 {object} noteResponse
// @Failure 400 {string} string "invalid json / note is required"
// @Failure 404 {string} string "dog not found"
// @Router /dogs/{dogID}/notes [post]
func createNoteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var in AddInput
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		n, err := svc.Add(r.Context(), chi.URLParam(r, "dogID"), claims.UserID, in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toNoteResponse(n))
	}
}

func listNotesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByDog(r.Context(), chi.URLParam(r, "dogID"), httpx.QueryLimit(r, 50, 200))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := make([]noteResponse, 0, len(items))
		for _, n := range items {
			out = append(out, toNoteResponse(n))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func toNoteResponse(n Note) noteResponse {
	return noteResponse{
		ID:        n.ID,
		DogID:     n.DogID,
		Note:      n.Text,
		Date:      n.Date,
		CreatedBy: n.CreatedBy,
	}
}
