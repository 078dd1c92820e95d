package web

import (
	"context"
	"log"
	"net/http"
	"net/url"

	"balancegame-web/internal/device"
	"balancegame-web/internal/route"
	"balancegame-web/models"
)

type ctxKey int

const (
	decisionKey ctxKey = iota
	mobileKey
)

// NavigationMiddleware runs the route resolver for page loads and
// redirects to the other platform's page when the device calls for it.
func NavigationMiddleware(resolver *route.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mobile := device.IsMobile(device.SignalsFromRequest(r))
			nav := models.NavigationRequest{
				Target: r.URL.Path,
				Origin: refererPath(r),
			}

			d := resolver.Resolve(nav, mobile)
			if d.Redirect() {
				location := d.Location
				if r.URL.RawQuery != "" {
					location += "?" + r.URL.RawQuery
				}
				log.Printf("Redirecting %s -> %s (mobile=%v)", nav.Target, location, mobile)
				http.Redirect(w, r, location, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), decisionKey, d)
			ctx = context.WithValue(ctx, mobileKey, mobile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// refererPath returns the path of a same-site Referer, which is the
// closest thing to "the page we came from" a server sees.
func refererPath(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.Host != r.Host {
		return ""
	}
	if u.Path == "" {
		return "/"
	}
	return u.Path
}

func decisionFrom(ctx context.Context) (route.Decision, bool) {
	d, ok := ctx.Value(decisionKey).(route.Decision)
	return d, ok
}

func mobileFrom(r *http.Request) bool {
	if m, ok := r.Context().Value(mobileKey).(bool); ok {
		return m
	}
	return device.IsMobile(device.SignalsFromRequest(r))
}
