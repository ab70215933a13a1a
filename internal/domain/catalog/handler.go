package catalog

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"peluqueria-canina/internal/middleware"
	"peluqueria-canina/internal/platform/httpx"
	"peluqueria-canina/internal/ports/capabilities"
)

func RegisterRoutes(r chi.Router, c *Catalog, gate middleware.Gate) {
	r.Route("/catalog", func(cr chi.Router) {
		cr.Get("/categories", listCategoriesHandler(c))
		cr.Get("/sizes", listSizesHandler(c))
		cr.Get("/services", listServicesHandler(c))
		cr.Get("/services/grouped", groupedServicesHandler(c))
		cr.Get("/services/{serviceID}", getServiceHandler(c))
		cr.Get("/items", listItemsHandler(c))

		// Escritura: sólo admin
		cr.Group(func(wr chi.Router) {
			wr.Use(gate(capabilities.CapCatalogWrite))

			wr.Post("/categories", createCategoryHandler(c))
			wr.Put("/categories/{categoryID}", updateCategoryHandler(c))
			wr.Delete("/categories/{categoryID}", deactivateHandler(c.DeactivateCategory, "categoryID"))
			wr.Post("/sizes", createSizeHandler(c))
			wr.Put("/sizes/{sizeID}", updateSizeHandler(c))
			wr.Delete("/sizes/{sizeID}", deactivateHandler(c.DeactivateSize, "sizeID"))
			wr.Post("/services", createServiceHandler(c))
			wr.Put("/services/{serviceID}", updateServiceHandler(c))
			wr.Delete("/services/{serviceID}", deactivateHandler(c.DeactivateService, "serviceID"))
			wr.Post("/items", createItemHandler(c))
			wr.Put("/items/{itemID}", updateItemHandler(c))
			wr.Delete("/items/{itemID}", deactivateHandler(c.DeactivateItem, "itemID"))
		})

		cr.With(gate(capabilities.CapPermanentDelete)).Delete("/services/{serviceID}/permanent", deleteServiceHandler(c))
	})
}

type categoryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

type sizeResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

type serviceResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	CategoryID      string          `json:"category_id"`
	SizeID          string          `json:"size_id"`
	Description     string          `json:"description"`
	BasePrice       decimal.Decimal `json:"base_price"`
	DurationMinutes int             `json:"duration_minutes"`
	IsActive        bool            `json:"is_active"`
}

type itemResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	IsActive bool            `json:"is_active"`
}

type groupResponse struct {
	Category categoryResponse  `json:"category"`
	Services []serviceResponse `json:"services"`
}

func listCategoriesHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := c.ListCategories(r.Context(), httpx.QueryBool(r, "active"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		out := make([]categoryResponse, 0, len(items))
		for _, cat := range items {
			out = append(out, toCategoryResponse(cat))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func createCategoryHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in CategoryInput
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		cat, err := c.CreateCategory(r.Context(), in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toCategoryResponse(cat))
	}
}

func updateCategoryHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in CategoryInput
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		cat, err := c.UpdateCategory(r.Context(), chi.URLParam(r, "categoryID"), in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toCategoryResponse(cat))
	}
}

func listSizesHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := c.ListSizes(r.Context(), httpx.QueryBool(r, "active"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		out := make([]sizeResponse, 0, len(items))
		for _, sz := range items {
			out = append(out, toSizeResponse(sz))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func createSizeHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in SizeInput
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		sz, err := c.CreateSize(r.Context(), in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toSizeResponse(sz))
	}
}

func updateSizeHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in SizeInput
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		sz, err := c.UpdateSize(r.Context(), chi.URLParam(r, "sizeID"), in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toSizeResponse(sz))
	}
}

// listServicesHandler godoc
// @Summary Listar servicios
// @Tags catalog
// @Produce json
// @Param active query bool false "sólo activos"
// @Success 200 {array} serviceResponse
// @Router /catalog/services [get]
func listServicesHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := c.ListServices(r.Context(), httpx.QueryBool(r, "active"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		out := make([]serviceResponse, 0, len(items))
		for _, s := range items {
			out = append(out, toServiceResponse(s))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// groupedServicesHandler godoc
// @Summary Servicios activos agrupados por categoría
// @Tags catalog
// @Produce json
// @Success 200 {array} groupResponse
// @Router /catalog/services/grouped [get]
func groupedServicesHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := c.ListActiveGrouped(r.Context())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		out := make([]groupResponse, 0, len(groups))
		for _, g := range groups {
			gr := groupResponse{
				Category: toCategoryResponse(g.Category),
				Services: make([]serviceResponse, 0, len(g.Services)),
			}
			for _, s := range g.Services {
				gr.Services = append(gr.Services, toServiceResponse(s))
			}
			out = append(out, gr)
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getServiceHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := c.GetService(r.Context(), chi.URLParam(r, "serviceID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toServiceResponse(s))
	}
}

func createServiceHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in ServiceInput
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		s, err := c.CreateService(r.Context(), in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toServiceResponse(s))
	}
}

func updateServiceHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in ServiceInput
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		s, err := c.UpdateService(r.Context(), chi.URLParam(r, "serviceID"), in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toServiceResponse(s))
	}
}

func deleteServiceHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := c.DeleteService(r.Context(), chi.URLParam(r, "serviceID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// deactivateHandler: DELETE sobre catálogo sólo desactiva.
func deactivateHandler(fn func(ctx context.Context, id string) error, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(r.Context(), chi.URLParam(r, param)); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listItemsHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := c.ListItems(r.Context(), httpx.QueryBool(r, "active"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		out := make([]itemResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toItemResponse(it))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func createItemHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in ItemInput
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		it, err := c.CreateItem(r.Context(), in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toItemResponse(it))
	}
}

func updateItemHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in ItemInput
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		it, err := c.UpdateItem(r.Context(), chi.URLParam(r, "itemID"), in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toItemResponse(it))
	}
}

func toCategoryResponse(c Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, DisplayOrder: c.DisplayOrder, IsActive: c.IsActive}
}

func toSizeResponse(s Size) sizeResponse {
	return sizeResponse{ID: s.ID, Name: s.Name, DisplayOrder: s.DisplayOrder, IsActive: s.IsActive}
}

func toServiceResponse(s Service) serviceResponse {
	return serviceResponse{
		ID:              s.ID,
		Name:            s.Name(),
		CategoryID:      s.CategoryID,
		SizeID:          s.SizeID,
		Description:     s.Description,
		BasePrice:       s.BasePrice,
		DurationMinutes: s.DurationMinutes,
		IsActive:        s.IsActive,
	}
}

func toItemResponse(it Item) itemResponse {
	return itemResponse{ID: it.ID, Name: it.Name, Price: it.Price, IsActive: it.IsActive}
}
