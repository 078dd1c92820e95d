// Command balancectl keeps a balance game session on disk and exposes
// the route resolver for scripting.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"balancegame-web/db"
	"balancegame-web/internal/apiclient"
	"balancegame-web/internal/auth"
	"balancegame-web/internal/config"
	"balancegame-web/internal/device"
	"balancegame-web/internal/route"
	"balancegame-web/internal/session"
	"balancegame-web/models"
)

const usage = `usage: balancectl <command> [flags]

commands:
  login -u USER [-p PASS] [-mobile]   sign in and store the session
  logout                              clear the stored session
  whoami                              print the stored user
  update key=value...                 merge fields into the stored user
  resolve -to PATH [-from PATH] [-ua UA] [-vw N] [-tp N]
                                      print the routing decision
`

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		log.Fatalf("balancectl: %v", err)
	}
}

func run(cmd string, args []string, out io.Writer) error {
	if cmd == "resolve" {
		return runResolve(args, out)
	}

	cfg, err := config.LoadCLIConfig()
	if err != nil {
		return err
	}
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	switch cmd {
	case "login":
		return a.login(args, out)
	case "logout":
		return a.logout(out)
	case "whoami":
		return a.whoami(out)
	case "update":
		return a.update(args, out)
	}
	return fmt.Errorf("unknown command %q\n%s", cmd, usage)
}

// platformKey remembers which auth endpoints issued the stored token.
const platformKey = "platform"

type app struct {
	cfg    *config.Config
	close  func()
	api    *apiclient.Client
	issuer *auth.Issuer
	repo   *db.SQLiteKVRepository
	store  *session.Store
}

func openApp(cfg *config.Config) (*app, error) {
	conn, err := db.ConnectToSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	if err := db.InitializeSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	a := &app{cfg: cfg, close: func() { conn.Close() }}
	var authz session.Authorizer = noAuth{}
	if cfg.APIBaseURL != "" {
		a.api = apiclient.NewClient(cfg.APIBaseURL, cfg.APITimeout)
		authz = a.api
	}
	if cfg.DevLogin {
		a.issuer = auth.NewIssuer(cfg.JwtKey)
	}

	a.repo = db.NewSQLiteKVRepository(conn, "balancectl")
	a.store = session.NewStore(a.repo, authz)
	a.store.Init()
	return a, nil
}

func (a *app) login(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	mobile := fs.Bool("mobile", false, "use the mobile auth endpoints")
	if err := fs.Parse(args); err != nil {
		return err
	}
	platform := models.PlatformWeb
	if *mobile {
		platform = models.PlatformMobile
	}

	var (
		user  models.User
		token string
		err   error
	)
	switch {
	case a.api != nil:
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.APITimeout)
		defer cancel()
		var resp *apiclient.LoginResponse
		resp, err = a.api.TestLogin(ctx, platform, *username, *password)
		if resp != nil {
			user, token = resp.User, resp.Token
		}
	case a.issuer != nil:
		user, token, err = a.issuer.TestLogin(*username, platform)
	default:
		return fmt.Errorf("set API_BASE_URL or DEV_LOGIN to log in")
	}
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := a.store.Login(user, token); err != nil {
		return err
	}
	if err := a.repo.Set(platformKey, string(platform)); err != nil {
		return err
	}
	fmt.Fprintf(out, "logged in as %s\n", user.DisplayName())
	return nil
}

func (a *app) logout(out io.Writer) error {
	if a.api != nil && a.store.IsLoggedIn() {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.APITimeout)
		defer cancel()
		if err := a.api.Logout(ctx, a.loginPlatform()); err != nil {
			log.Printf("upstream logout failed: %v", err)
		}
	}
	if err := a.store.Logout(); err != nil {
		return err
	}
	if err := a.repo.Remove(platformKey); err != nil {
		return err
	}
	fmt.Fprintln(out, "logged out")
	return nil
}

// loginPlatform is the platform the stored session signed in on. Sessions
// stored before it was recorded fall back to the user's platform field.
func (a *app) loginPlatform() models.Platform {
	if p, ok := a.repo.Get(platformKey); ok && models.Platform(p).Valid() {
		return models.Platform(p)
	}
	if p, ok := a.store.User()["platform"].(string); ok && models.Platform(p).Valid() {
		return models.Platform(p)
	}
	return models.PlatformWeb
}

func (a *app) whoami(out io.Writer) error {
	if !a.store.IsLoggedIn() {
		fmt.Fprintln(out, "not logged in")
		return nil
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(a.store.User())
}

func (a *app) update(args []string, out io.Writer) error {
	partial, err := parseFields(args)
	if err != nil {
		return err
	}
	if err := a.store.UpdateUser(partial); err != nil {
		return err
	}
	return a.whoami(out)
}

// parseFields turns key=value pairs into a user record. Values that parse
// as JSON keep their type; anything else is a string.
func parseFields(args []string) (models.User, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("update needs at least one key=value")
	}
	partial := make(models.User, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("bad field %q, want key=value", arg)
		}
		var parsed interface{}
		if err := json.Unmarshal([]byte(v), &parsed); err == nil {
			partial[k] = parsed
		} else {
			partial[k] = v
		}
	}
	return partial, nil
}

func runResolve(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	from := fs.String("from", "", "origin path")
	to := fs.String("to", "", "target path")
	ua := fs.String("ua", "", "user agent")
	vw := fs.Int("vw", 0, "viewport width")
	tp := fs.Int("tp", 0, "max touch points")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *to == "" {
		return fmt.Errorf("resolve needs -to")
	}

	resolver, err := route.NewResolver(route.DefaultTable(), route.DefaultCounterparts())
	if err != nil {
		return err
	}
	mobile := device.IsMobile(device.Signals{UserAgent: *ua, ViewportWidth: *vw, MaxTouchPoints: *tp})
	d := resolver.Resolve(models.NavigationRequest{Origin: *from, Target: *to}, mobile)

	switch {
	case d.Redirect():
		fmt.Fprintf(out, "redirect %s (mobile=%s)\n", d.Location, strconv.FormatBool(mobile))
	case d.Entry == nil:
		fmt.Fprintf(out, "allow %s (no route)\n", *to)
	default:
		fmt.Fprintf(out, "allow %s %q\n", d.Entry.Name, d.Title)
	}
	return nil
}

type noAuth struct{}

func (noAuth) SetBearerToken(string) {}
func (noAuth) ClearBearerToken()     {}

