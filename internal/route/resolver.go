package route

import (
	"fmt"
	"net/http"
	"net/url"

	"balancegame-web/models"

	"github.com/gorilla/mux"
)

type Action string

const (
	ActionAllow    Action = "allow"
	ActionRedirect Action = "redirect"
)

// Decision is the outcome of resolving one navigation.
// Entry is nil when the target matches no route.
type Decision struct {
	Action   Action
	Location string
	Entry    *models.RouteEntry
	Params   map[string]string
	Title    string
}

func (d Decision) Redirect() bool { return d.Action == ActionRedirect }

// Resolver matches paths against the route table and applies the
// web/mobile redirect policy. It is read-only after construction.
type Resolver struct {
	table    []models.RouteEntry
	entries  map[string]models.RouteEntry // by name
	matcher  *mux.Router
	webToMob map[string]string
	mobToWeb map[string]string
}

func NewResolver(table []models.RouteEntry, counterparts map[string]string) (*Resolver, error) {
	r := &Resolver{
		table:    append([]models.RouteEntry(nil), table...),
		entries:  make(map[string]models.RouteEntry, len(table)),
		matcher:  mux.NewRouter(),
		webToMob: make(map[string]string, len(counterparts)),
		mobToWeb: make(map[string]string, len(counterparts)),
	}

	byPath := make(map[string]models.RouteEntry, len(table))
	for _, e := range table {
		if !e.Platform.Valid() {
			return nil, fmt.Errorf("route %q: unknown platform %q", e.Path, e.Platform)
		}
		if _, dup := byPath[e.Path]; dup {
			return nil, fmt.Errorf("duplicate route path %q", e.Path)
		}
		if _, dup := r.entries[e.Name]; dup {
			return nil, fmt.Errorf("duplicate route name %q", e.Name)
		}
		byPath[e.Path] = e
		r.entries[e.Name] = e
		r.matcher.NewRoute().Path(e.Path).Name(e.Name)
	}

	for web, mob := range counterparts {
		w, ok := byPath[web]
		if !ok || w.Platform != models.PlatformWeb {
			return nil, fmt.Errorf("counterpart %q is not a web route", web)
		}
		m, ok := byPath[mob]
		if !ok || m.Platform != models.PlatformMobile {
			return nil, fmt.Errorf("counterpart %q is not a mobile route", mob)
		}
		r.webToMob[web] = mob
		r.mobToWeb[mob] = web
	}

	return r, nil
}

// NewDefaultResolver builds a resolver over the built-in table.
func NewDefaultResolver() *Resolver {
	r, err := NewResolver(DefaultTable(), DefaultCounterparts())
	if err != nil {
		panic(err)
	}
	return r
}

// Match returns the entry serving path along with its path parameters.
func (r *Resolver) Match(path string) (*models.RouteEntry, map[string]string, bool) {
	req := &http.Request{Method: http.MethodGet, URL: &url.URL{Path: path}}
	var m mux.RouteMatch
	if !r.matcher.Match(req, &m) || m.Route == nil {
		return nil, nil, false
	}
	e, ok := r.entries[m.Route.GetName()]
	if !ok {
		return nil, nil, false
	}
	return &e, m.Vars, true
}

// Counterpart returns the other platform's path for a web or mobile path.
func (r *Resolver) Counterpart(path string) (string, bool) {
	if p, ok := r.webToMob[path]; ok {
		return p, true
	}
	p, ok := r.mobToWeb[path]
	return p, ok
}

// Resolve decides whether a navigation proceeds or is sent to the
// other platform's twin of the target.
func (r *Resolver) Resolve(req models.NavigationRequest, mobile bool) Decision {
	entry, params, ok := r.Match(req.Target)

	if req.Origin == req.Target {
		return allow(entry, params)
	}
	if !ok {
		return Decision{Action: ActionAllow}
	}

	switch {
	case mobile && entry.Platform == models.PlatformWeb:
		if to, ok := r.webToMob[entry.Path]; ok && to != req.Origin {
			return Decision{Action: ActionRedirect, Location: to, Entry: entry, Params: params}
		}
	case !mobile && entry.Platform == models.PlatformMobile:
		if to, ok := r.mobToWeb[entry.Path]; ok && to != req.Origin {
			return Decision{Action: ActionRedirect, Location: to, Entry: entry, Params: params}
		}
	}

	return allow(entry, params)
}

func allow(entry *models.RouteEntry, params map[string]string) Decision {
	d := Decision{Action: ActionAllow, Entry: entry, Params: params}
	if entry != nil {
		d.Title = Title(*entry)
	}
	return d
}

// LoginPath picks the login page for a visitor who hit a protected entry.
// Platform-bound entries keep their platform; common ones follow the device.
func (r *Resolver) LoginPath(entry models.RouteEntry, mobile bool) string {
	switch entry.Platform {
	case models.PlatformMobile:
		if p, ok := r.webToMob["/login"]; ok {
			return p
		}
		return "/login"
	case models.PlatformWeb:
		return "/login"
	}
	if mobile {
		if p, ok := r.webToMob["/login"]; ok {
			return p
		}
	}
	return "/login"
}

// HomePath is the landing page for the given device class.
func (r *Resolver) HomePath(mobile bool) string {
	if mobile {
		if p, ok := r.webToMob["/"]; ok {
			return p
		}
	}
	return "/"
}

// Routes returns the table in declaration order.
func (r *Resolver) Routes() []models.RouteEntry {
	return append([]models.RouteEntry(nil), r.table...)
}
