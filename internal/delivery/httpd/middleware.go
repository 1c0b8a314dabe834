package httpd

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const studentEmailKey contextKey = "student_email"

// Authenticate validates the bearer token and puts the resolved student
// email on the request context.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "Authorization header must be a bearer token")
			return
		}

		email, err := h.authService.ParseToken(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), studentEmailKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func studentEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(studentEmailKey).(string)
	return email
}
