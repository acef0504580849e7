package middleware

import (
	"context"
	"net/http"

	"marquee/services"
)

type contextKey string

const viewerContextKey contextKey = "viewer"

// RequireViewer sends requests without a selected viewer to the picker.
// isViewer guards against a cookie naming someone no longer configured.
func RequireViewer(sessions *services.Sessions, isViewer func(string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := sessions.Viewer(r)
			if name == "" || !isViewer(name) {
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", "/viewer")
					w.WriteHeader(http.StatusOK)
					return
				}
				http.Redirect(w, r, "/viewer", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), viewerContextKey, name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Viewer returns the viewer stored by RequireViewer, or "".
func Viewer(ctx context.Context) string {
	name, _ := ctx.Value(viewerContextKey).(string)
	return name
}
