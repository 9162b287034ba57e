package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Identity  IdentityConfig
	Database  DatabaseConfig
	Valkey    ValkeyConfig
	Storage   StorageConfig
	Static    StaticConfig
	RateLimit RateLimitConfig
	LogLevel  slog.Level
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// PublicURL is the externally reachable base URL (MCP_SERVER_URL). It is
	// advertised as the protected resource and used to build widget links.
	PublicURL string
	CertPath  string
	KeyPath   string
	UseHTTPS  bool
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// TLSEnabled reports whether a certificate and key are configured.
func (s ServerConfig) TLSEnabled() bool {
	return s.CertPath != "" && s.KeyPath != ""
}

type AuthConfig struct {
	Enabled      bool
	IssuerURL    string
	PublicIssuer string
	Audience     string
	Timeout      time.Duration
}

// AuthorizationServer is the issuer advertised to clients in protected
// resource metadata.
func (a AuthConfig) AuthorizationServer() string {
	if a.PublicIssuer != "" {
		return a.PublicIssuer
	}
	return a.IssuerURL
}

type IdentityConfig struct {
	ProjectID   string
	Secret      string
	APIURL      string
	PublicToken string
	Timeout     time.Duration
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type ValkeyConfig struct {
	Addr            string
	Password        string
	DB              int
	ProfileCacheTTL time.Duration
}

// Upload backends.
const (
	UploadBackendNone  = "none"
	UploadBackendMinIO = "minio"
	UploadBackendS3    = "s3"
)

type StorageConfig struct {
	Backend  string
	MaxBytes int64
	MinIO    MinIOConfig
	S3       S3Config
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL overrides the base used to build object URLs returned to clients.
	PublicURL string
}

type S3Config struct {
	Region   string // S3_REGION
	Bucket   string // S3_BUCKET
	Prefix   string // S3_PREFIX (optional key prefix)
	Endpoint string // S3_ENDPOINT (for MinIO/LocalStack compatibility)
}

type StaticConfig struct {
	WidgetDir   string
	FrontendDir string
}

type RateLimitConfig struct {
	SaveProfilePerMinute int
}

func Load() (*Config, error) {
	port := getEnvInt("SERVER_PORT", 8000)
	useHTTPS := getEnvBool("USE_HTTPS", false)
	scheme := "http"
	if useHTTPS {
		scheme = "https"
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         port,
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT_SECS", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT_SECS", 60)) * time.Second,
			PublicURL:    strings.TrimRight(getEnv("MCP_SERVER_URL", fmt.Sprintf("%s://localhost:%d", scheme, port)), "/"),
			CertPath:     getEnv("SSL_CERT_PATH", ""),
			KeyPath:      getEnv("SSL_KEY_PATH", ""),
			UseHTTPS:     useHTTPS,
		},
		Auth: AuthConfig{
			Enabled:      getEnvBool("AUTH_ENABLED", true),
			IssuerURL:    getEnv("AUTH_ISSUER_URL", ""),
			PublicIssuer: getEnv("AUTH_PUBLIC_ISSUER", ""),
			Audience:     getEnv("AUTH_AUDIENCE", ""),
			Timeout:      time.Duration(getEnvInt("AUTH_TIMEOUT_SECS", 10)) * time.Second,
		},
		Identity: IdentityConfig{
			ProjectID:   getEnv("STYTCH_PROJECT_ID", ""),
			Secret:      getEnv("STYTCH_SECRET", ""),
			APIURL:      strings.TrimRight(getEnv("STYTCH_API_URL", "https://test.stytch.com"), "/"),
			PublicToken: getEnv("STYTCH_PUBLIC_TOKEN", ""),
			Timeout:     time.Duration(getEnvInt("IDENTITY_TIMEOUT_SECS", 10)) * time.Second,
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "gradient"),
			Password: getEnv("DB_PASSWORD", "gradient"),
			Name:     getEnv("DB_NAME", "gradient"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 1)),
		},
		Valkey: ValkeyConfig{
			Addr:            getEnv("VALKEY_ADDR", ""),
			Password:        getEnv("VALKEY_PASSWORD", ""),
			DB:              getEnvInt("VALKEY_DB", 0),
			ProfileCacheTTL: time.Duration(getEnvInt("PROFILE_CACHE_TTL_SECS", 300)) * time.Second,
		},
		Storage: StorageConfig{
			Backend:  strings.ToLower(getEnv("UPLOAD_BACKEND", UploadBackendNone)),
			MaxBytes: int64(getEnvInt("UPLOAD_MAX_BYTES", 10*1024*1024)),
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", "gradient-shares"),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
				PublicURL: strings.TrimRight(getEnv("MINIO_PUBLIC_URL", ""), "/"),
			},
			S3: S3Config{
				Region:   getEnv("S3_REGION", ""),
				Bucket:   getEnv("S3_BUCKET", ""),
				Prefix:   getEnv("S3_PREFIX", ""),
				Endpoint: getEnv("S3_ENDPOINT", ""),
			},
		},
		Static: StaticConfig{
			WidgetDir:   getEnv("WIDGET_DIR", "widgets"),
			FrontendDir: getEnv("FRONTEND_DIR", "frontend/dist"),
		},
		RateLimit: RateLimitConfig{
			SaveProfilePerMinute: getEnvInt("SAVE_PROFILE_RATE_PER_MIN", 30),
		},
		LogLevel: parseLevel(getEnv("LOG_LEVEL", "info")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks combinations that would only fail later at startup.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid SERVER_PORT %d", c.Server.Port))
	}
	if c.Auth.Enabled && c.Auth.IssuerURL == "" {
		errs = append(errs, errors.New("AUTH_ENABLED=true but AUTH_ISSUER_URL is empty"))
	}
	switch c.Storage.Backend {
	case UploadBackendNone, "":
	case UploadBackendMinIO:
		if c.Storage.MinIO.Bucket == "" {
			errs = append(errs, errors.New("UPLOAD_BACKEND=minio requires MINIO_BUCKET"))
		}
	case UploadBackendS3:
		if c.Storage.S3.Bucket == "" {
			errs = append(errs, errors.New("UPLOAD_BACKEND=s3 requires S3_BUCKET"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown UPLOAD_BACKEND %q", c.Storage.Backend))
	}
	return errors.Join(errs...)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
