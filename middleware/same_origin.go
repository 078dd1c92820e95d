package middleware

import (
	"log"
	"net/http"
	"net/url"
)

// SameOrigin rejects form posts whose Origin (or, failing that, Referer)
// names another host. Requests with neither header come from
// non-browser clients and pass through.
func SameOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		source := r.Header.Get("Origin")
		if source == "" {
			source = r.Referer()
		}
		if source != "" && !sameHost(source, r.Host) {
			log.Printf("Rejected cross-site %s %s from %q", r.Method, r.URL.Path, source)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sameHost reports whether raw is an absolute URL on host. The opaque
// "null" origin never matches.
func sameHost(raw, host string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Host == host
}
