package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/maraichr/gradient/internal/auth"
	"github.com/maraichr/gradient/internal/metrics"
	"github.com/maraichr/gradient/pkg/models"
)

const (
	widgetFile = "gradient_tweet.html"
	widgetPath = "/widget/gradient-tweet"
)

// ProfileLookup reads stored profiles by principal subject.
type ProfileLookup interface {
	GetByUserID(ctx context.Context, userID string) (models.Profile, bool, error)
}

// Options configure a Dispatcher.
type Options struct {
	// PublicURL is the externally reachable base URL used in widget links.
	PublicURL string
	// WidgetDir holds gradient_tweet.html. Empty disables inline widget HTML.
	WidgetDir string
}

type handlerFunc func(ctx context.Context, args map[string]json.RawMessage, p *auth.Principal, logger *slog.Logger) Result

// Dispatcher routes tool calls by name. It never returns a Go error: every
// failure is an error-flagged Result.
type Dispatcher struct {
	profiles  ProfileLookup
	publicURL string
	widgetDir string
	logger    *slog.Logger
	now       func() time.Time

	tools    []*sdkmcp.Tool
	handlers map[string]handlerFunc
}

// NewDispatcher creates a Dispatcher with get-my-profile and
// create-gradient-tweet registered.
func NewDispatcher(profiles ProfileLookup, opts Options, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		profiles:  profiles,
		publicURL: strings.TrimRight(opts.PublicURL, "/"),
		widgetDir: opts.WidgetDir,
		logger:    logger,
		now:       time.Now,
		handlers:  make(map[string]handlerFunc),
	}
	d.register(getMyProfileTool(), d.getMyProfile)
	d.register(createGradientTweetTool(), d.createGradientTweet)
	return d
}

func (d *Dispatcher) register(t *sdkmcp.Tool, h handlerFunc) {
	d.tools = append(d.tools, t)
	d.handlers[t.Name] = h
}

// Tools returns the tool descriptors in registration order.
func (d *Dispatcher) Tools() []*sdkmcp.Tool {
	return d.tools
}

// Dispatch runs the named tool. principal is nil for unauthenticated calls.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, rawArgs json.RawMessage, principal *auth.Principal) Result {
	logger := d.logger.With(
		slog.String("request_id", uuid.New().String()[:8]),
		slog.String("tool", name),
	)
	if principal != nil {
		logger = logger.With(slog.String("sub", principal.Subject))
	}
	logger.Info("tool call")

	h, ok := d.handlers[name]
	if !ok {
		logger.Warn("unknown tool")
		metrics.RecordToolCall("unknown", true)
		return errorResult("Unknown tool: " + name)
	}

	args, err := decodeArgs(rawArgs)
	if err != nil {
		logger.Warn("invalid arguments", slog.String("error", err.Error()))
		metrics.RecordToolCall(name, true)
		return errorResult("Invalid arguments")
	}

	start := time.Now()
	res := h(ctx, args, principal, logger)
	metrics.RecordToolCall(name, res.IsError)
	logger.Info("tool call finished",
		slog.Bool("is_error", res.IsError),
		slog.Duration("duration", time.Since(start)))
	return res
}

// decodeArgs accepts an absent or null payload as no arguments.
func decodeArgs(raw json.RawMessage) (map[string]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	args := map[string]json.RawMessage{}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	return args, nil
}

// readWidget loads the widget HTML on every call so edits are picked up
// without a restart.
func (d *Dispatcher) readWidget() (string, error) {
	if d.widgetDir == "" {
		return "", os.ErrNotExist
	}
	data, err := os.ReadFile(filepath.Join(d.widgetDir, widgetFile))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (d *Dispatcher) widgetURL() string {
	return d.publicURL + widgetPath
}
