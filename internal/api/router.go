package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	apihandler "github.com/maraichr/gradient/internal/api/handler"
	apimw "github.com/maraichr/gradient/internal/api/middleware"
	"github.com/maraichr/gradient/internal/config"
)

// RouterDeps holds the router's collaborators. Nil optional fields disable
// the routes that need them.
type RouterDeps struct {
	DB        apihandler.Pinger
	Exchanger apihandler.SessionExchanger
	Profiles  apihandler.ProfileSaver
	// Images is optional; without it uploads return a placeholder URL.
	Images apihandler.ImageStore

	// MCP is the authenticated MCP handler, served on /mcp and /.
	MCP http.Handler
	// ResourceMetadata serves RFC 9728 protected resource metadata.
	ResourceMetadata http.Handler
	Metrics          http.Handler

	Static    config.StaticConfig
	RateLimit config.RateLimitConfig
	MaxUpload int64
}

func NewRouter(logger *slog.Logger, deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(apimw.Logger(logger))
	r.Use(apimw.CORS())
	r.Use(chimw.Recoverer)

	// Health checks
	health := apihandler.NewHealthHandler(deps.DB)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}
	if deps.ResourceMetadata != nil {
		r.Handle("/.well-known/oauth-protected-resource", deps.ResourceMetadata)
	}

	r.Route("/api", func(r chi.Router) {
		if deps.Exchanger != nil && deps.Profiles != nil {
			profiles := apihandler.NewProfileHandler(logger, deps.Exchanger, deps.Profiles)
			r.With(apimw.RateLimitByIP(deps.RateLimit.SaveProfilePerMinute, apihandler.TooManyRequests)).
				Post("/save-profile", profiles.Save)
		}

		gradients := apihandler.NewGradientHandler()
		r.Get("/gradients", gradients.List)
		r.Get("/gradients/hero", gradients.Heroes)

		upload := apihandler.NewUploadHandler(logger, deps.Images, deps.MaxUpload)
		r.Post("/upload-image", upload.Upload)
	})

	static := apihandler.NewStaticHandler(logger, deps.Static.WidgetDir, deps.Static.FrontendDir)
	r.Get("/widget/gradient-tweet", static.Widget)
	r.Get("/login", static.Login)
	r.Handle("/assets/*", static.Assets())

	if deps.MCP != nil {
		r.Handle("/mcp", deps.MCP)
		r.Handle("/", deps.MCP)
	}

	return r
}
