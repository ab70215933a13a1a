package users

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"peluqueria-canina/internal/middleware"
	"peluqueria-canina/internal/platform/httpx"
	"peluqueria-canina/internal/platform/logger"
	"peluqueria-canina/internal/ports/capabilities"
)

// Sessions abre y cierra la sesión del navegador (cookie).
type Sessions interface {
	Start(w http.ResponseWriter, r *http.Request, u User) error
	End(w http.ResponseWriter, r *http.Request) error
}

// RegisterPublicRoutes monta /login. limit se aplica sólo a ese endpoint.
func RegisterPublicRoutes(r chi.Router, svc *Service, sessions Sessions, limit func(http.Handler) http.Handler) {
	r.With(limit).Post("/login", loginHandler(svc, sessions))
}

func RegisterRoutes(r chi.Router, svc *Service, sessions Sessions, gate middleware.Gate) {
	r.Post("/logout", logoutHandler(sessions))
	r.Get("/me", meHandler(svc))
	r.Put("/me/password", changePasswordHandler(svc))

	r.Route("/users", func(ur chi.Router) {
		ur.Use(gate(capabilities.CapUsersWrite))
		ur.Get("/", listUsersHandler(svc))
		ur.Post("/", createUserHandler(svc))
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// loginHandler godoc
// @Summary Iniciar sesión
// @Description Valida credenciales y setea la cookie de sesión.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} userResponse
// @Failure 401 {string} string "invalid credentials"
// @Failure 429 {string} string "too many requests"
// @Router /login [post]
func loginHandler(svc *Service, sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		u, err := svc.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			logger.FromContext(r.Context()).Warn("login failed", map[string]any{"username": req.Username})
			httpx.WriteError(w, r, err)
			return
		}

		if err := sessions.Start(w, r, u); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		logger.FromContext(r.Context()).Info("login", map[string]any{"user_id": u.ID, "role": u.Role})
		httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func logoutHandler(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.End(w, r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		u, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			// Modo dev: el usuario del header puede no existir en la base.
			httpx.WriteJSON(w, http.StatusOK, userResponse{ID: claims.UserID, Username: claims.Username, Role: claims.Role})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func changePasswordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var in ChangePasswordInput
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if err := svc.ChangePassword(r.Context(), claims.UserID, in); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		out := make([]userResponse, 0, len(items))
		for _, u := range items {
			out = append(out, toUserResponse(u))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func createUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in CreateInput
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		u, err := svc.Create(r.Context(), in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Role: u.Role, CreatedAt: u.CreatedAt}
}
