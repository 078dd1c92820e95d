package route

import (
	"testing"

	"balancegame-web/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nav(from, to string) models.NavigationRequest {
	return models.NavigationRequest{Origin: from, Target: to}
}

func TestResolve_MobileRedirect(t *testing.T) {
	r := NewDefaultResolver()

	d := r.Resolve(nav("/login", "/"), true)
	require.True(t, d.Redirect())
	assert.Equal(t, "/mobile", d.Location)

	// Following the redirect lands on the mobile page with no further hop.
	d = r.Resolve(nav("/login", "/mobile"), true)
	assert.False(t, d.Redirect())
	assert.Equal(t, "홈 - 술하재밸", d.Title)
}

func TestResolve_NoLoopWhenOriginIsCounterpart(t *testing.T) {
	r := NewDefaultResolver()

	d := r.Resolve(nav("/mobile", "/"), true)
	assert.False(t, d.Redirect())
	require.NotNil(t, d.Entry)
	assert.Equal(t, "Home", d.Entry.Name)
	assert.Equal(t, "홈 - 밸런스 게임 커뮤니티", d.Title)
}

func TestResolve_SamePathAlwaysAllowed(t *testing.T) {
	r := NewDefaultResolver()

	d := r.Resolve(nav("/games", "/games"), true)
	assert.False(t, d.Redirect())
	d = r.Resolve(nav("/mobile/games", "/mobile/games"), false)
	assert.False(t, d.Redirect())
}

func TestResolve_DesktopRedirect(t *testing.T) {
	r := NewDefaultResolver()

	for mob, web := range map[string]string{
		"/mobile":        "/",
		"/mobile/games":  "/games",
		"/mobile/create": "/create",
		"/mobile/login":  "/login",
	} {
		d := r.Resolve(nav("", mob), false)
		require.True(t, d.Redirect(), mob)
		assert.Equal(t, web, d.Location)
	}

	d := r.Resolve(nav("/", "/mobile"), false)
	assert.False(t, d.Redirect())
}

func TestResolve_CommonRoutesNeverRedirect(t *testing.T) {
	r := NewDefaultResolver()

	for _, path := range []string{"/register", "/oauth2/redirect", "/profile"} {
		for _, mobile := range []bool{true, false} {
			d := r.Resolve(nav("", path), mobile)
			assert.False(t, d.Redirect(), "%s mobile=%v", path, mobile)
			require.NotNil(t, d.Entry)
			assert.Equal(t, models.PlatformCommon, d.Entry.Platform)
		}
	}
}

func TestResolve_RoutesWithoutCounterpart(t *testing.T) {
	r := NewDefaultResolver()

	d := r.Resolve(nav("", "/game/42"), true)
	assert.False(t, d.Redirect())
	require.NotNil(t, d.Entry)
	assert.Equal(t, "GameDetail", d.Entry.Name)
	assert.Equal(t, "42", d.Params["id"])

	d = r.Resolve(nav("", "/mobile/game/7"), false)
	assert.False(t, d.Redirect())
	assert.Equal(t, "7", d.Params["id"])
}

func TestResolve_UnknownPath(t *testing.T) {
	r := NewDefaultResolver()

	d := r.Resolve(nav("", "/nowhere"), true)
	assert.False(t, d.Redirect())
	assert.Nil(t, d.Entry)
	assert.Empty(t, d.Title)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "로그인 - 술하재밸", Title(models.RouteEntry{Title: "로그인", Platform: models.PlatformMobile}))
	assert.Equal(t, "회원가입 - 밸런스 게임 커뮤니티", Title(models.RouteEntry{Title: "회원가입", Platform: models.PlatformCommon}))
	assert.Equal(t, WebBrand, Title(models.RouteEntry{Platform: models.PlatformWeb}))
	assert.Equal(t, MobileBrand, Title(models.RouteEntry{Platform: models.PlatformMobile}))
}

func TestNewResolver_Validation(t *testing.T) {
	web := models.RouteEntry{Path: "/", Name: "Home", Platform: models.PlatformWeb}
	mob := models.RouteEntry{Path: "/mobile", Name: "MobileHome", Platform: models.PlatformMobile}

	_, err := NewResolver([]models.RouteEntry{web, web}, nil)
	assert.Error(t, err)

	_, err = NewResolver([]models.RouteEntry{{Path: "/x", Name: "X", Platform: "tv"}}, nil)
	assert.Error(t, err)

	_, err = NewResolver([]models.RouteEntry{web}, map[string]string{"/": "/mobile"})
	assert.Error(t, err)

	_, err = NewResolver([]models.RouteEntry{web, mob}, map[string]string{"/mobile": "/"})
	assert.Error(t, err)

	r, err := NewResolver([]models.RouteEntry{web, mob}, map[string]string{"/": "/mobile"})
	require.NoError(t, err)
	p, ok := r.Counterpart("/mobile")
	assert.True(t, ok)
	assert.Equal(t, "/", p)
}

func TestLoginAndHomePaths(t *testing.T) {
	r := NewDefaultResolver()
	profile, _, ok := r.Match("/profile")
	require.True(t, ok)

	assert.Equal(t, "/mobile/login", r.LoginPath(*profile, true))
	assert.Equal(t, "/login", r.LoginPath(*profile, false))
	assert.Equal(t, "/mobile", r.HomePath(true))
	assert.Equal(t, "/", r.HomePath(false))
	assert.Len(t, r.Routes(), len(DefaultTable()))
}
