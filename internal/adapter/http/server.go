package adapthttp

import (
	"net/http"

	"weightmelters/internal/app"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OIDCConfig holds the optional SSO configuration. Enabled is false when no
// issuer was configured, in which case the SSO routes answer 404.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	weight     *app.WeightService
	graph      *app.GraphService
	authSvc    *app.AuthService
	oidcConfig OIDCConfig
	webDir     string
}

// New creates a Server wired to the given application services.
func New(ws *app.WeightService, gs *app.GraphService, as *app.AuthService, oidcConfig OIDCConfig, webDir string) *Server {
	return &Server{weight: ws, graph: gs, authSvc: as, oidcConfig: oidcConfig, webDir: webDir}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/auth/login", s.handleLogin)
	api.HandleFunc("/auth/logout", s.handleLogout)
	api.HandleFunc("/auth/register", s.handleRegister)
	api.HandleFunc("/auth/setup", s.handleSetupUser)
	api.HandleFunc("/auth/config", s.handleConfig)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	protected := http.NewServeMux()
	protected.HandleFunc("/weight/today", s.handleWeightToday)
	protected.HandleFunc("/weight/log", s.handleWeightLog)
	protected.HandleFunc("/weight/entries", s.handleWeightEntries)
	protected.HandleFunc("/weight/graph", s.handleWeightGraph)
	protected.HandleFunc("/weight/", s.handleWeightDelete)
	api.Handle("/weight/", s.authMiddleware(protected))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("/", spaFromDisk(s.webDir))

	return s.loggingMiddleware(withNoCache(root))
}
