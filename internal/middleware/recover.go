package middleware

import (
	"net/http"
	"runtime/debug"

	"peluqueria-canina/internal/platform/logger"
)

// Recover reemplaza a chi/middleware.Recoverer para loguear el panic con nuestro logger.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.FromContext(r.Context()).Error("panic recovered", map[string]any{
				"panic":  rec,
				"method": r.Method,
				"path":   r.URL.Path,
				"stack":  string(debug.Stack()),
			})
			http.Error(w, "internal error", http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}
