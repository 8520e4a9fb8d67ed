package middleware

import (
	"net/http"

	"github.com/angelmondragon/pricesnapshot/pkg/config"
)

// FrameAncestors controls which parent pages may embed the app in an iframe.
func FrameAncestors(cfg config.EmbedConfig) func(http.Handler) http.Handler {
	directive := cfg.FrameAncestorsDirective()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Content-Security-Policy", directive)
			h.Del("X-Frame-Options")
			h.Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	}
}
