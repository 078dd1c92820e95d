package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"balancegame-web/internal/apiclient"
	"balancegame-web/internal/auth"
	"balancegame-web/internal/config"
	"balancegame-web/internal/route"
	"balancegame-web/internal/web"
	"balancegame-web/middleware"
)

// Global loggers for different output streams
var (
	infoLogger  = log.New(os.Stdout, "", log.LstdFlags)
	errorLogger = log.New(os.Stderr, "", log.LstdFlags)
)

func main() {
	infoLogger.Printf("Starting balance game web shell - Process ID: %d", os.Getpid())
	infoLogger.Printf("Runtime: %s/%s, Go version: %s", runtime.GOOS, runtime.GOARCH, runtime.Version())

	cfg, err := config.LoadConfig()
	if err != nil {
		errorLogger.Fatalf("Failed to load configuration: %v", err)
	}

	resolver, err := route.NewResolver(route.DefaultTable(), route.DefaultCounterparts())
	if err != nil {
		errorLogger.Fatalf("Invalid route table: %v", err)
	}

	var api *apiclient.Client
	if cfg.APIBaseURL != "" {
		api = apiclient.NewClient(cfg.APIBaseURL, cfg.APITimeout)
		checkUpstream(api)
	} else {
		infoLogger.Println("API_BASE_URL not set - running without an upstream API")
	}

	var issuer *auth.Issuer
	if cfg.DevLogin {
		issuer = auth.NewIssuer(cfg.JwtKey)
		infoLogger.Println("Dev login enabled - tokens are signed locally")
	}
	if api == nil && issuer == nil {
		infoLogger.Println("Warning: neither API_BASE_URL nor DEV_LOGIN is set; login will be unavailable")
	}

	if cfg.SessionDir != "" {
		if err := os.MkdirAll(cfg.SessionDir, 0o700); err != nil {
			errorLogger.Fatalf("Failed to create session directory: %v", err)
		}
		infoLogger.Printf("Session values are kept in %s", cfg.SessionDir)
	}

	webHandler := web.NewWebHandler(cfg, resolver, api, issuer)
	router := webHandler.SetupRoutes()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.LoggingMiddleware(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		infoLogger.Printf("Server is starting on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorLogger.Printf("Server ListenAndServe error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	infoLogger.Println("Shutting down the server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		errorLogger.Printf("Server Shutdown error: %v", err)
		os.Exit(1)
	}
	infoLogger.Println("[SUCCESS] Server stopped")
}

func checkUpstream(api *apiclient.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := api.Ping(ctx); err != nil {
		infoLogger.Printf("Warning: upstream API at %s is not answering: %v", api.BaseURL(), err)
		return
	}
	infoLogger.Printf("Upstream API at %s is reachable", api.BaseURL())
}
