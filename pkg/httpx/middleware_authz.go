package httpx

import (
	"net/http"
	"strings"
)

// RequireAnyRole allows the request through only when the authenticated
// caller holds one of the listed roles. Runs after AuthnMiddleware, so a
// failure here is always 403, never 401.
func RequireAnyRole(allowed ...string) Middleware {
	want := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		want[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if _, ok := want[role]; !ok {
				writeForbidden(w, allowed...)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeForbidden(w http.ResponseWriter, required ...string) {
	w.Header().
		Set("WWW-Authenticate", `Bearer error="insufficient_role", role="`+strings.Join(required, " ")+`"`)
	WriteJSON(w, http.StatusForbidden, map[string]string{
		"error":             "forbidden",
		"error_description": "Caller role is not permitted to perform this operation",
	})
}
