package device

import (
	"net/http"
	"strconv"
	"strings"
)

// MaxMobileViewport is the widest viewport, in CSS pixels, that still
// counts as a phone when the device also reports touch support.
const MaxMobileViewport = 768

var mobilePatterns = []string{
	"android",
	"webos",
	"iphone",
	"ipad",
	"ipod",
	"blackberry",
	"iemobile",
	"opera mini",
	"mobile",
	"crios",
}

// Signals are the client facts the classifier looks at. Zero values mean
// "unknown" and never push the result towards mobile.
type Signals struct {
	UserAgent      string
	MaxTouchPoints int
	HasTouchEvents bool
	ViewportWidth  int
}

// IsMobile reports whether any of the mobile heuristics fire.
func IsMobile(s Signals) bool {
	return MatchesMobilePattern(s.UserAgent) ||
		IsSmallTouchScreen(s) ||
		IsMobileSafari(s.UserAgent) ||
		IsAndroidChrome(s.UserAgent)
}

func MatchesMobilePattern(ua string) bool {
	lower := strings.ToLower(ua)
	for _, p := range mobilePatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func IsSmallTouchScreen(s Signals) bool {
	touch := s.MaxTouchPoints > 0 || s.HasTouchEvents
	return touch && s.ViewportWidth > 0 && s.ViewportWidth <= MaxMobileViewport
}

func IsMobileSafari(ua string) bool {
	if !strings.Contains(ua, "Safari") || strings.Contains(ua, "Chrome") || strings.Contains(ua, "CriOS") {
		return false
	}
	return strings.Contains(ua, "Mobile") || strings.Contains(ua, "iPhone") || strings.Contains(ua, "iPad")
}

func IsAndroidChrome(ua string) bool {
	return strings.Contains(ua, "Chrome") && strings.Contains(ua, "Android")
}

// Cookie names written by the shell page script.
const (
	ViewportCookie    = "vw"
	TouchPointsCookie = "tp"
	TouchEventsCookie = "te"
)

// SignalsFromRequest collects the classifier inputs from an HTTP request.
// Viewport width prefers the client-hint headers over the cookie.
func SignalsFromRequest(r *http.Request) Signals {
	s := Signals{UserAgent: r.UserAgent()}

	for _, h := range []string{"Sec-CH-Viewport-Width", "Viewport-Width"} {
		if w, ok := positiveInt(r.Header.Get(h)); ok {
			s.ViewportWidth = w
			break
		}
	}
	if s.ViewportWidth == 0 {
		s.ViewportWidth, _ = positiveInt(cookieValue(r, ViewportCookie))
	}

	s.MaxTouchPoints, _ = positiveInt(cookieValue(r, TouchPointsCookie))
	s.HasTouchEvents, _ = strconv.ParseBool(cookieValue(r, TouchEventsCookie))
	return s
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func positiveInt(v string) (int, bool) {
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
