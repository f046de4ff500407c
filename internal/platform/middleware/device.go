package middleware

import (
	"net/http"

	"github.com/mssola/useragent"

	"campustrust/pkg/requestcontext"
)

// Device parses the User-Agent header into a compact "browser/os" label that
// gate decision audit events attach for forensics.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.UserAgent()
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		ua := useragent.New(raw)
		name, version := ua.Browser()
		device := name + "/" + version + " " + ua.OS()
		ctx := requestcontext.WithDevice(r.Context(), device)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
