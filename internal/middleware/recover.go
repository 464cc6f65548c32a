package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/hartono/salesimport/internal/domain"
)

// Recover converts panics in downstream handlers into a 500 response instead
// of killing the connection. The stack is logged with the request-scoped
// logger; the response body stays generic.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger := GetLogger(r.Context())
				logger.Error("panic recovered",
					"panic", fmt.Sprint(rec),
					"stack", string(debug.Stack()))

				err := domain.Internal(fmt.Errorf("panic: %v", rec), "middleware.recover", "unhandled panic")
				respondWithError(w, r, err)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
