package route

import "balancegame-web/models"

const (
	MobileBrand = "술하재밸"
	WebBrand    = "밸런스 게임 커뮤니티"
)

// DefaultTable is the site's route table. Order matters only for listing.
func DefaultTable() []models.RouteEntry {
	return []models.RouteEntry{
		// Web
		{Path: "/", Name: "Home", View: "home", Title: "홈", Platform: models.PlatformWeb},
		{Path: "/games", Name: "GameList", View: "game-list", Title: "게임 목록", Platform: models.PlatformWeb},
		{Path: "/game/{id}", Name: "GameDetail", View: "game-detail", Title: "게임 상세", Platform: models.PlatformWeb},
		{Path: "/create", Name: "CreateGame", View: "create-game", Title: "게임 만들기", Platform: models.PlatformWeb},
		{Path: "/login", Name: "Login", View: "login", Title: "로그인", Platform: models.PlatformWeb},

		// Mobile
		{Path: "/mobile", Name: "MobileHome", View: "mobile-home", Title: "홈", Platform: models.PlatformMobile},
		{Path: "/mobile/games", Name: "MobileGameList", View: "mobile-game-list", Title: "게임 목록", Platform: models.PlatformMobile},
		{Path: "/mobile/game/{id}", Name: "MobileGameDetail", View: "mobile-game-detail", Title: "게임 상세", Platform: models.PlatformMobile},
		{Path: "/mobile/create", Name: "MobileCreateGame", View: "mobile-create-game", Title: "게임 만들기", Platform: models.PlatformMobile},
		{Path: "/mobile/login", Name: "MobileLogin", View: "mobile-login", Title: "로그인", Platform: models.PlatformMobile},

		// Both
		{Path: "/register", Name: "Register", View: "register", Title: "회원가입", Platform: models.PlatformCommon},
		{Path: "/oauth2/redirect", Name: "OAuth2Redirect", View: "oauth2-redirect", Title: "로그인 처리중", Platform: models.PlatformCommon},
		{Path: "/profile", Name: "Profile", View: "profile", Title: "마이페이지", Platform: models.PlatformCommon, RequiresAuth: true},
	}
}

// DefaultCounterparts links each web path to its mobile twin.
func DefaultCounterparts() map[string]string {
	return map[string]string{
		"/":       "/mobile",
		"/games":  "/mobile/games",
		"/create": "/mobile/create",
		"/login":  "/mobile/login",
	}
}

// Title builds the document title for an entry.
func Title(e models.RouteEntry) string {
	brand := WebBrand
	if e.Platform == models.PlatformMobile {
		brand = MobileBrand
	}
	if e.Title == "" {
		return brand
	}
	return e.Title + " - " + brand
}
