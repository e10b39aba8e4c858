package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/souq/internal/souq/domain"
	"github.com/aussiebroadwan/souq/internal/souq/guard"
	"github.com/aussiebroadwan/souq/internal/souq/session"
	"github.com/aussiebroadwan/souq/pkg/httpx"
	"github.com/aussiebroadwan/souq/pkg/slogx"

	_ "github.com/aussiebroadwan/souq/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	controller   *session.Controller
	guard        *guard.Guard
	db           Pinger
	loginLimit   httpx.RateLimitConfig
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
}

func NewRouter(
	controller *session.Controller,
	db Pinger,
	loginLimit httpx.RateLimitConfig,
	buildVersion string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		controller:   controller,
		guard:        guard.New(controller, guard.DefaultPaths),
		db:           db,
		loginLimit:   loginLimit,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerPages()
	r.registerSecurity()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Souq Gateway API
//	@version		0.1.0
//	@description	Local gateway in front of the Souq marketplace API. It holds the browser session,
//	@description	proxies the sign-in, registration and recovery forms and gates pages by role and verification.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/souq
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Controller: r.controller}

	// POST /login - rate limited by IP + identifier to slow down guessing
	r.Mux.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndFormField(r.loginLimit, "identifier"),
		),
	)
	r.Mux.Handle("POST /login/2fa",
		httpx.Chain(http.HandlerFunc(h.HandleTwoFactor),
			httpx.RateLimitMiddleware(r.loginLimit, httpx.IPKeyExtractor),
		),
	)

	r.Mux.HandleFunc("POST /register", h.HandleRegister)
	r.Mux.HandleFunc("POST /otp/send", h.HandleSendOTP)
	r.Mux.HandleFunc("POST /otp/verify", h.HandleVerifyOTP)
	r.Mux.HandleFunc("POST /password/reset", h.HandlePasswordReset)
	r.Mux.HandleFunc("POST /password/reset/confirm", h.HandlePasswordResetConfirm)
	r.Mux.HandleFunc("POST /logout", h.HandleLogout)
}

func (r *Router) registerPages() {
	h := &PageHandler{Status: r.controller}

	public := r.guard.Protect(guard.Route(guard.Public()))
	signedIn := r.guard.Protect(guard.Route())
	verified := r.guard.Protect(guard.Route(guard.RequireVerification()))
	admin := r.guard.Protect(guard.Route(guard.RequireRole(domain.RoleAdmin)))

	r.Mux.Handle("GET /{$}", httpx.Chain(h.page("home"), public))
	r.Mux.Handle("GET /login", httpx.Chain(http.HandlerFunc(h.HandleLoginPage), public))
	r.Mux.Handle("GET /unauthorized", httpx.Chain(h.page("unauthorized"), public))
	r.Mux.Handle("GET /api/session", httpx.Chain(http.HandlerFunc(h.HandleSession), public))

	r.Mux.Handle("GET /dashboard", httpx.Chain(h.page("dashboard"), signedIn))
	r.Mux.Handle("GET /verify-account", httpx.Chain(h.page("verify-account"), signedIn))
	r.Mux.Handle("GET /provider/dashboard", httpx.Chain(h.page("provider-dashboard"), verified))
	r.Mux.Handle("GET /admin", httpx.Chain(h.page("admin"), admin))
}

func (r *Router) registerSecurity() {
	h := &SecurityHandler{Controller: r.controller}
	signedIn := r.guard.Protect(guard.Route())

	r.Mux.Handle("POST /security/2fa/setup", httpx.Chain(http.HandlerFunc(h.HandleTwoFactorSetup), signedIn))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.db))
}
