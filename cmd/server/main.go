package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	sdkauth "github.com/modelcontextprotocol/go-sdk/auth"
	"github.com/modelcontextprotocol/go-sdk/oauthex"

	"github.com/maraichr/gradient/internal/api"
	apihandler "github.com/maraichr/gradient/internal/api/handler"
	"github.com/maraichr/gradient/internal/auth"
	"github.com/maraichr/gradient/internal/config"
	"github.com/maraichr/gradient/internal/identity"
	"github.com/maraichr/gradient/internal/mcp"
	"github.com/maraichr/gradient/internal/mcp/tools"
	"github.com/maraichr/gradient/internal/metrics"
	"github.com/maraichr/gradient/internal/profile"
	"github.com/maraichr/gradient/internal/store"
	minioclient "github.com/maraichr/gradient/internal/store/minio"
	"github.com/maraichr/gradient/internal/store/postgres"
	s3client "github.com/maraichr/gradient/internal/store/s3"
	vk "github.com/maraichr/gradient/internal/store/valkey"
)

const resourceMetadataPath = "/.well-known/oauth-protected-resource"

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := postgres.NewPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	s := store.New(pool)
	if err := s.Migrate(ctx); err != nil {
		logger.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Valkey (optional profile cache)
	var cache profile.Cache
	vkClient, err := vk.NewClient(cfg.Valkey)
	if err != nil {
		logger.Warn("valkey unavailable, profile cache disabled", slog.String("error", err.Error()))
	} else {
		defer vkClient.Close()
		cache = vk.NewProfileCache(vkClient, cfg.Valkey.ProfileCacheTTL)
		logger.Info("connected to valkey")
	}

	profiles := profile.NewService(s, cache, logger)
	exchanger := identity.NewExchanger(cfg.Identity, logger)

	images, err := newImageStore(ctx, cfg.Storage)
	if err != nil {
		logger.Error("failed to init upload backend", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("upload backend", slog.String("backend", cfg.Storage.Backend))

	// MCP
	dispatcher := tools.NewDispatcher(profiles, tools.Options{
		PublicURL: cfg.Server.PublicURL,
		WidgetDir: cfg.Static.WidgetDir,
	}, logger)
	mcpServer := mcp.NewServer(dispatcher, logger)

	tokenVerifier, err := newTokenVerifier(ctx, cfg.Auth, logger)
	if err != nil {
		logger.Error("failed to init OIDC verifier", slog.String("error", err.Error()))
		os.Exit(1)
	}

	resourceMetadataURL := cfg.Server.PublicURL + resourceMetadataPath
	mcpHandler := auth.OptionalBearer(tokenVerifier, &sdkauth.RequireBearerTokenOptions{
		ResourceMetadataURL: resourceMetadataURL,
	})(mcpServer.Handler())

	// RFC 9728 Protected Resource Metadata
	prm := &oauthex.ProtectedResourceMetadata{
		Resource:               cfg.Server.PublicURL,
		AuthorizationServers:   []string{cfg.Auth.AuthorizationServer()},
		ScopesSupported:        []string{"openid", "profile"},
		BearerMethodsSupported: []string{"header"},
		ResourceName:           "Beautiful Gradient MCP",
	}

	router := api.NewRouter(logger, api.RouterDeps{
		DB:               s.Pool(),
		Exchanger:        exchanger,
		Profiles:         profiles,
		Images:           images,
		MCP:              mcpHandler,
		ResourceMetadata: sdkauth.ProtectedResourceMetadataHandler(prm),
		Metrics:          metrics.Handler(),
		Static:           cfg.Static,
		RateLimit:        cfg.RateLimit,
		MaxUpload:        cfg.Storage.MaxBytes,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logStartup(logger, cfg)

	go func() {
		var err error
		if cfg.Server.TLSEnabled() {
			logger.Info("starting HTTPS server", slog.String("addr", srv.Addr), slog.String("cert", cfg.Server.CertPath))
			err = srv.ListenAndServeTLS(cfg.Server.CertPath, cfg.Server.KeyPath)
		} else {
			if cfg.Server.UseHTTPS {
				logger.Warn("USE_HTTPS=true but SSL_CERT_PATH/SSL_KEY_PATH not set, serving plain HTTP")
			}
			logger.Info("starting HTTP server", slog.String("addr", srv.Addr))
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}

// newTokenVerifier returns the OIDC-backed verifier, or the dev verifier
// when auth is disabled.
func newTokenVerifier(ctx context.Context, cfg config.AuthConfig, logger *slog.Logger) (sdkauth.TokenVerifier, error) {
	if !cfg.Enabled {
		return auth.DevTokenVerifier(logger), nil
	}
	v, err := auth.NewVerifier(ctx, cfg.IssuerURL, cfg.PublicIssuer, auth.Options{
		Audience: cfg.Audience,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("OIDC auth enabled", slog.String("issuer", cfg.IssuerURL))
	return auth.NewMCPTokenVerifier(v, logger), nil
}

// newImageStore returns nil when uploads are disabled.
func newImageStore(ctx context.Context, cfg config.StorageConfig) (apihandler.ImageStore, error) {
	switch cfg.Backend {
	case config.UploadBackendMinIO:
		mc, err := minioclient.NewClient(cfg.MinIO)
		if err != nil {
			return nil, err
		}
		if err := mc.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return mc, nil
	case config.UploadBackendS3:
		return s3client.NewClient(ctx, cfg.S3)
	default:
		return nil, nil
	}
}

func logStartup(logger *slog.Logger, cfg *config.Config) {
	projectID := cfg.Identity.ProjectID
	if projectID == "" {
		projectID = "NOT SET"
	} else if len(projectID) > 20 {
		projectID = projectID[:20] + "..."
	}
	logger.Info("gradient MCP server starting",
		slog.String("stytch_project_id", projectID),
		slog.String("authorization_server", cfg.Auth.AuthorizationServer()),
		slog.Bool("auth_enabled", cfg.Auth.Enabled),
		slog.String("public_url", cfg.Server.PublicURL),
		slog.String("resource_metadata", resourceMetadataPath))
}
