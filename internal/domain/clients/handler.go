package clients

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"peluqueria-canina/internal/middleware"
	"peluqueria-canina/internal/platform/httpx"
	"peluqueria-canina/internal/ports/capabilities"
)

func RegisterRoutes(r chi.Router, svc *Service, gate middleware.Gate) {
	r.Route("/dogs", func(dr chi.Router) {
		dr.Get("/", listDogsHandler(svc))
		dr.Post("/", createDogHandler(svc))

		dr.Get("/{dogID}", getDogHandler(svc))
		dr.Put("/{dogID}", updateDogHandler(svc))
		dr.Delete("/{dogID}", deleteDogHandler(svc))
		dr.Post("/{dogID}/restore", restoreDogHandler(svc))

		// Borrado definitivo: sólo admin
		dr.With(gate(capabilities.CapPermanentDelete)).Delete("/{dogID}/permanent", permanentDeleteDogHandler(svc))
	})

	r.Get("/owners/{ownerID}", getOwnerHandler(svc))
	r.Put("/owners/{ownerID}", updateOwnerHandler(svc))

	// Autocompletado
	r.Get("/api/dogs/search", searchDogsHandler(svc))
	r.Get("/api/owners/search", searchOwnersHandler(svc))
}

type ownerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type dogResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Breed     string        `json:"breed"`
	Notes     string        `json:"notes"`
	IsDeleted bool          `json:"is_deleted"`
	Owner     ownerResponse `json:"owner"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type ownerDetailResponse struct {
	ownerResponse
	Dogs []dogResponse `json:"dogs"`
}

// dogSearchResult es lo que consume el autocompletado del formulario de turnos.
type dogSearchResult struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Breed     string `json:"breed"`
	OwnerName string `json:"owner_name"`
}

type ownerSearchResult struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// createDogHandler godoc
// @Summary Alta de perro
// @Description Crea un perro. Si owner_phone coincide con un dueño existente se reutiliza y se actualizan sus datos.
// @Tags dogs
// @Accept json
// @Produce json
// @Param payload body DogInput true "Perro y dueño"
// @Success 201 {object} dogResponse
// @Failure 400 {string} string "invalid json / validación"
// @Failure 401 {string} string "unauthorized"
// @Router /dogs [post]
func createDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in DogInput
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		d, err := svc.CreateDog(r.Context(), in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toDogResponse(d))
	}
}

// listDogsHandler godoc
// @Summary Listar perros
// @Tags dogs
// @Produce json
// @Param deleted query bool false "true para ver la papelera"
// @Success 200 {array} dogResponse
// @Router /dogs [get]
func listDogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListDogs(r.Context(), httpx.QueryBool(r, "deleted"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := make([]dogResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDogResponse(d))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.GetDog(r.Context(), chi.URLParam(r, "dogID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toDogResponse(d))
	}
}

func updateDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in DogInput
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		d, err := svc.UpdateDog(r.Context(), chi.URLParam(r, "dogID"), in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toDogResponse(d))
	}
}

func deleteDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.SoftDeleteDog(r.Context(), chi.URLParam(r, "dogID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func restoreDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.RestoreDog(r.Context(), chi.URLParam(r, "dogID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toDogResponse(d))
	}
}

// permanentDeleteDogHandler godoc
// @Summary Borrar perro definitivamente
// @Description Sólo admin. Falla con 409 si el perro tiene turnos.
// @Tags dogs
// @Param dogID path string true "ID del perro"
// @Success 204
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "dog not found"
// @Failure 409 {string} string "dog has appointments"
// @Router /dogs/{dogID}/permanent [delete]
func permanentDeleteDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.PermanentDeleteDog(r.Context(), chi.URLParam(r, "dogID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func getOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		od, err := svc.GetOwner(r.Context(), chi.URLParam(r, "ownerID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := ownerDetailResponse{
			ownerResponse: toOwnerResponse(od.Owner),
			Dogs:          make([]dogResponse, 0, len(od.Dogs)),
		}
		for _, d := range od.Dogs {
			d.Owner = od.Owner
			out.Dogs = append(out.Dogs, toDogResponse(d))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func updateOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in OwnerInput
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		o, err := svc.UpdateOwner(r.Context(), chi.URLParam(r, "ownerID"), in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toOwnerResponse(o))
	}
}

// searchDogsHandler godoc
// @Summary Buscar perros
// @Description Busca por nombre del perro, nombre del dueño o ID exacto. Máximo 50 resultados.
// @Tags dogs
// @Produce json
// @Param q query string false "texto"
// @Success 200 {array} dogSearchResult
// @Router /api/dogs/search [get]
func searchDogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.SearchDogs(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := make([]dogSearchResult, 0, len(items))
		for _, d := range items {
			out = append(out, dogSearchResult{ID: d.ID, Name: d.Name, Breed: d.Breed, OwnerName: d.Owner.Name})
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func searchOwnersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.SearchOwners(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := make([]ownerSearchResult, 0, len(items))
		for _, o := range items {
			out = append(out, ownerSearchResult{ID: o.ID, Name: o.Name, Phone: o.Phone, Address: o.Address})
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func toOwnerResponse(o Owner) ownerResponse {
	return ownerResponse{
		ID:        o.ID,
		Name:      o.Name,
		Phone:     o.Phone,
		Address:   o.Address,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toDogResponse(d Dog) dogResponse {
	return dogResponse{
		ID:        d.ID,
		Name:      d.Name,
		Breed:     d.Breed,
		Notes:     d.Notes,
		IsDeleted: d.IsDeleted,
		Owner:     toOwnerResponse(d.Owner),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
