package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	adapthttp "weightmelters/internal/adapter/http"
	"weightmelters/internal/adapter/postgres"
	"weightmelters/internal/app"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

func main() {
	addr := env("ADDR", ":8080")
	webDir := env("WEB_DIR", "web")

	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := postgres.Open(connStr)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer func() { _ = db.Close() }()

	sessionRepo := postgres.NewSessionRepo(db)

	weightSvc := app.NewWeightService(db)
	graphSvc := app.NewGraphService(db, db)
	authSvc := app.NewAuthService(db, sessionRepo)

	h := adapthttp.New(weightSvc, graphSvc, authSvc, oidcFromEnv(context.Background()), webDir).Handler()
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// oidcFromEnv builds the SSO configuration when OIDC_ISSUER is set.
func oidcFromEnv(ctx context.Context) adapthttp.OIDCConfig {
	issuer := os.Getenv("OIDC_ISSUER")
	if issuer == "" {
		return adapthttp.OIDCConfig{}
	}

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		log.Fatalf("oidc provider: %v", err)
	}

	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: &oauth2.Config{
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
