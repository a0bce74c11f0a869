package middleware

import (
	"net/http"
	"strings"

	"github.com/fotoclick/gallerygate/internal/ctxkeys"
	"github.com/fotoclick/gallerygate/internal/service"
)

// StaffAuth verifies a bearer staff JWT and adds the claims to the
// request context if valid. Requests without a token continue
// unauthenticated; RequireStaff rejects them at the route level.
func StaffAuth(staffService *service.StaffService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := staffService.VerifyJWT(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				// Invalid token, continue without staff context
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithStaff(r.Context(), claims.StaffID, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff ensures the request carries a verified staff identity.
func RequireStaff(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.StaffID(r.Context()) == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}
}
