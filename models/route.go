package models

// Platform tells which device class a route is meant for.
type Platform string

const (
	PlatformWeb    Platform = "web"
	PlatformMobile Platform = "mobile"
	PlatformCommon Platform = "common"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformWeb, PlatformMobile, PlatformCommon:
		return true
	}
	return false
}

// RouteEntry is one row of the static route table
type RouteEntry struct {
	Path         string   `json:"path"`
	Name         string   `json:"name"`
	View         string   `json:"view"`
	Title        string   `json:"title"`
	Platform     Platform `json:"platform"`
	RequiresAuth bool     `json:"requires_auth,omitempty"`
}

// NavigationRequest is a single navigation from Origin to Target.
// Origin is empty on a fresh page load.
type NavigationRequest struct {
	Target string `json:"target"`
	Origin string `json:"origin"`
}
