package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"balancegame-web/internal/apiclient"
	"balancegame-web/internal/auth"
	"balancegame-web/internal/config"
	"balancegame-web/internal/route"
	"balancegame-web/internal/session"
	"balancegame-web/models"

	"github.com/gorilla/sessions"
)

const sessionName = "balancegame-session"

var (
	errLoginUnavailable = errors.New("login is not available: no API configured and dev login disabled")
	errMissingUsername  = errors.New("username is required")
	errMissingToken     = errors.New("oauth2 redirect carries no token")
)

type WebHandler struct {
	resolver     *route.Resolver
	api          *apiclient.Client
	issuer       *auth.Issuer
	sessionStore sessions.Store
	config       *config.Config
}

type PageData struct {
	Title       string
	Path        string
	View        string
	RouteName   string
	Platform    models.Platform
	ParamsJSON  string
	Mobile      bool
	LoggedIn    bool
	DisplayName string
	IsLogin     bool
	Redirect    string
	Error       string
}

// NewWebHandler wires the page and session handlers. api and issuer are
// optional; login needs at least one of them.
func NewWebHandler(cfg *config.Config, resolver *route.Resolver, api *apiclient.Client, issuer *auth.Issuer) *WebHandler {
	options := &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30, // 30 days
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}

	var store sessions.Store
	if cfg.SessionDir != "" {
		// The cookie only carries the session id, so user records are not
		// bound by the 4096-byte cookie limit.
		fs := sessions.NewFilesystemStore(cfg.SessionDir, cfg.SessionSecret)
		fs.MaxLength(0)
		fs.Options = options
		store = fs
	} else {
		cs := sessions.NewCookieStore(cfg.SessionSecret)
		cs.Options = options
		store = cs
	}

	return &WebHandler{
		resolver:     resolver,
		api:          api,
		issuer:       issuer,
		sessionStore: store,
		config:       cfg,
	}
}

// requestSession is the Session Store for a single request, persisted
// through the gorilla session.
type requestSession struct {
	cookie *sessions.Session
	store  *session.Store
	api    *apiclient.Client
	dirty  bool
}

func (h *WebHandler) openSession(r *http.Request) *requestSession {
	cookie, err := h.sessionStore.Get(r, sessionName)
	if err != nil {
		log.Printf("Discarding unreadable session cookie: %v", err)
	}

	rs := &requestSession{cookie: cookie}
	var authz session.Authorizer = nopAuthorizer{}
	if h.api != nil {
		rs.api = h.api.Clone()
		authz = rs.api
	}
	rs.store = session.NewStore(session.NewCookieStorage(cookie), authz)
	rs.store.Subscribe(func(session.State) { rs.dirty = true })
	rs.store.Init()
	return rs
}

// save writes the session back if the Store changed. A failure means the
// client keeps its previous session, so callers that just changed who is
// signed in must not report success.
func (rs *requestSession) save(w http.ResponseWriter, r *http.Request) error {
	if !rs.dirty {
		return nil
	}
	if err := rs.cookie.Save(r, w); err != nil {
		log.Printf("Failed to save session cookie: %v", err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	rs.dirty = false
	return nil
}

type nopAuthorizer struct{}

func (nopAuthorizer) SetBearerToken(string) {}
func (nopAuthorizer) ClearBearerToken()     {}

// Page Handlers
func (h *WebHandler) Page(w http.ResponseWriter, r *http.Request) {
	d, ok := decisionFrom(r.Context())
	if !ok {
		entry, params, found := h.resolver.Match(r.URL.Path)
		if found {
			d = route.Decision{Action: route.ActionAllow, Entry: entry, Params: params, Title: route.Title(*entry)}
		}
	}
	if d.Entry == nil {
		h.NotFound(w, r)
		return
	}

	rs := h.openSession(r)
	mobile := mobileFrom(r)

	if d.Entry.RequiresAuth && !rs.store.IsLoggedIn() {
		_ = rs.save(w, r)
		login := h.resolver.LoginPath(*d.Entry, mobile)
		http.Redirect(w, r, login+"?redirect="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
		return
	}

	data := h.pageData(r, rs, d, mobile)
	_ = rs.save(w, r)
	h.render(w, http.StatusOK, data)
}

func (h *WebHandler) pageData(r *http.Request, rs *requestSession, d route.Decision, mobile bool) PageData {
	data := PageData{
		Title:    d.Title,
		Path:     r.URL.Path,
		Mobile:   mobile,
		LoggedIn: rs.store.IsLoggedIn(),
		Error:    r.URL.Query().Get("error"),
		Redirect: r.URL.Query().Get("redirect"),
	}
	if d.Entry != nil {
		data.View = d.Entry.View
		data.RouteName = d.Entry.Name
		data.Platform = d.Entry.Platform
		data.IsLogin = d.Entry.Name == "Login" || d.Entry.Name == "MobileLogin"
	}
	if len(d.Params) > 0 {
		if raw, err := json.Marshal(d.Params); err == nil {
			data.ParamsJSON = string(raw)
		}
	}
	if data.LoggedIn {
		data.DisplayName = rs.store.User().DisplayName()
	}
	return data
}

func (h *WebHandler) render(w http.ResponseWriter, status int, data PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := shellTemplate.Execute(w, data); err != nil {
		log.Printf("Template execution error: %v", err)
	}
}

func (h *WebHandler) Login(w http.ResponseWriter, r *http.Request) {
	platform := models.PlatformWeb
	if strings.HasPrefix(r.URL.Path, "/mobile/") {
		platform = models.PlatformMobile
	}
	mobile := platform == models.PlatformMobile

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	redirect := r.FormValue("redirect")

	rs := h.openSession(r)
	user, token, err := h.authenticate(r, rs, platform, username, password)
	if err != nil {
		log.Printf("Login failed for %q: %v", username, err)
		status := h.loginFailureStatus(err)
		msg := "아이디 또는 비밀번호가 올바르지 않습니다"
		if status != http.StatusUnauthorized {
			msg = "지금은 로그인할 수 없습니다"
		}
		h.renderLoginError(w, r, rs, mobile, redirect, status, msg)
		return
	}

	if err := h.establish(w, r, rs, user, token); err != nil {
		log.Printf("Failed to store session for %q: %v", username, err)
		h.renderLoginError(w, r, rs, mobile, redirect, http.StatusInternalServerError, "로그인 정보를 저장할 수 없습니다")
		return
	}

	http.Redirect(w, r, safeRedirect(redirect, h.resolver.HomePath(mobile)), http.StatusSeeOther)
}

// establish signs the request's Store in and writes the session back.
// When either step fails the Store is signed out again and that is what
// gets saved, so the client is left signed out rather than half in.
func (h *WebHandler) establish(w http.ResponseWriter, r *http.Request, rs *requestSession, user models.User, token string) error {
	err := rs.store.Login(user, token)
	if err == nil {
		err = rs.save(w, r)
	}
	if err != nil {
		if lerr := rs.store.Logout(); lerr != nil {
			log.Printf("Failed to roll back session: %v", lerr)
		}
		_ = rs.save(w, r)
		return err
	}
	return nil
}

func (h *WebHandler) renderLoginError(w http.ResponseWriter, r *http.Request, rs *requestSession, mobile bool, redirect string, status int, msg string) {
	entry, _, _ := h.resolver.Match(r.URL.Path)
	d := route.Decision{Action: route.ActionAllow, Entry: entry}
	if entry != nil {
		d.Title = route.Title(*entry)
	}
	data := h.pageData(r, rs, d, mobile)
	data.Error = msg
	data.Redirect = redirect
	_ = rs.save(w, r)
	h.render(w, status, data)
}

// OAuth2Redirect finishes a social login. The API sends the browser here
// with the issued token; the user behind it comes from the API's
// current-user endpoint, or from the token itself with dev login.
func (h *WebHandler) OAuth2Redirect(w http.ResponseWriter, r *http.Request) {
	mobile := mobileFrom(r)
	platform := models.PlatformWeb
	if mobile {
		platform = models.PlatformMobile
	}
	loginPath := h.resolver.LoginPath(models.RouteEntry{Platform: models.PlatformCommon}, mobile)
	fail := func(msg string) {
		http.Redirect(w, r, loginPath+"?error="+url.QueryEscape(msg), http.StatusFound)
	}

	query := r.URL.Query()
	if msg := query.Get("error"); msg != "" {
		log.Printf("OAuth2 login failed upstream: %s", msg)
		fail(msg)
		return
	}

	rs := h.openSession(r)
	user, err := h.currentUser(r, rs, platform, query.Get("token"))
	if err != nil {
		log.Printf("OAuth2 login failed: %v", err)
		fail("사용자 정보를 불러올 수 없습니다")
		return
	}

	if err := h.establish(w, r, rs, user, query.Get("token")); err != nil {
		log.Printf("Failed to store OAuth2 session: %v", err)
		fail("로그인 정보를 저장할 수 없습니다")
		return
	}

	http.Redirect(w, r, h.resolver.HomePath(mobile), http.StatusSeeOther)
}

func (h *WebHandler) currentUser(r *http.Request, rs *requestSession, platform models.Platform, token string) (models.User, error) {
	if token == "" {
		return nil, errMissingToken
	}
	switch {
	case rs.api != nil:
		rs.api.SetBearerToken(token)
		user, err := rs.api.CurrentUser(r.Context(), platform)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, fmt.Errorf("current user response is empty")
		}
		return user, nil
	case h.issuer != nil:
		claims, err := h.issuer.ParseToken(token)
		if err != nil {
			return nil, fmt.Errorf("invalid token: %w", err)
		}
		return models.User{
			"id":       claims.UserID,
			"username": claims.Username,
			"nickname": claims.Username,
			"platform": string(platform),
		}, nil
	}
	return nil, errLoginUnavailable
}

func (h *WebHandler) authenticate(r *http.Request, rs *requestSession, platform models.Platform, username, password string) (models.User, string, error) {
	if username == "" {
		return nil, "", errMissingUsername
	}
	switch {
	case rs.api != nil:
		resp, err := rs.api.TestLogin(r.Context(), platform, username, password)
		if err != nil {
			return nil, "", err
		}
		return resp.User, resp.Token, nil
	case h.issuer != nil:
		return h.issuer.TestLogin(username, platform)
	}
	return nil, "", errLoginUnavailable
}

func (h *WebHandler) loginFailureStatus(err error) int {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, errLoginUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, errMissingUsername):
		return http.StatusUnauthorized
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 500 {
			return http.StatusBadGateway
		}
		return http.StatusUnauthorized
	case h.api != nil:
		// transport or decode failure talking to the API
		return http.StatusBadGateway
	}
	return http.StatusUnauthorized
}

func (h *WebHandler) Logout(w http.ResponseWriter, r *http.Request) {
	rs := h.openSession(r)
	mobile := mobileFrom(r)

	if rs.api != nil && rs.store.IsLoggedIn() {
		platform := models.PlatformWeb
		if mobile {
			platform = models.PlatformMobile
		}
		if err := rs.api.Logout(r.Context(), platform); err != nil {
			log.Printf("Upstream logout failed: %v", err)
		}
	}

	if err := rs.store.Logout(); err != nil {
		log.Printf("Failed to clear session: %v", err)
	}
	if err := rs.save(w, r); err != nil {
		http.Error(w, "Failed to sign out", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, h.resolver.HomePath(mobile), http.StatusSeeOther)
}

func (h *WebHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	rs := h.openSession(r)
	data := h.pageData(r, rs, route.Decision{Title: "페이지를 찾을 수 없음 - " + route.WebBrand}, mobileFrom(r))
	data.View = "not-found"
	_ = rs.save(w, r)
	h.render(w, http.StatusNotFound, data)
}

// safeRedirect only follows same-site absolute paths.
func safeRedirect(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}
