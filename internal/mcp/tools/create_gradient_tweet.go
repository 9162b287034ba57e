package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/maraichr/gradient/internal/auth"
	"github.com/maraichr/gradient/internal/gradient"
)

// Identity is the author shown on a rendered tweet.
type Identity struct {
	Handle string `json:"handle"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// DefaultIdentity is shown whenever no stored profile can be used.
var DefaultIdentity = Identity{
	Handle: "twitter_user",
	Name:   "Twitter User",
	Avatar: "https://abs.twimg.com/sticky/default_profile_images/default_profile_400x400.png",
}

var (
	errNoPrincipal = errors.New("no principal")
	errNoProfile   = errors.New("no stored profile")
)

// TweetOutput is the structured content consumed by the gradient tweet widget.
type TweetOutput struct {
	TweetContent  string   `json:"tweetContent"`
	GradientIndex int      `json:"gradientIndex"`
	GradientName  string   `json:"gradientName"`
	GradientCSS   string   `json:"gradientCss"`
	Profile       Identity `json:"profile"`
	Timestamp     string   `json:"timestamp"`
	WidgetURL     string   `json:"widgetUrl"`
	WidgetHTML    *string  `json:"widget_html"`
}

// createGradientTweet renders tweet data over a palette entry. Profile
// lookup failures of any kind fall back to DefaultIdentity and never fail
// the call.
func (d *Dispatcher) createGradientTweet(ctx context.Context, args map[string]json.RawMessage, p *auth.Principal, logger *slog.Logger) Result {
	content := stringArg(args, "tweetContent")
	index := gradient.Clamp(intArg(args, "gradientIndex"))
	g := gradient.At(index)

	ident, err := d.resolveIdentity(ctx, p)
	if err != nil {
		logger.Warn("using default identity", slog.String("reason", err.Error()))
	} else {
		logger.Info("using stored profile", slog.String("handle", ident.Handle))
	}

	out := TweetOutput{
		TweetContent:  content,
		GradientIndex: index,
		GradientName:  g.Name,
		GradientCSS:   g.CSS(),
		Profile:       ident,
		Timestamp:     d.now().UTC().Format(time.RFC3339Nano),
		WidgetURL:     d.widgetURL(),
	}

	texts := []string{fmt.Sprintf("Created gradient tweet with %s gradient!", g.Name)}
	if html, err := d.readWidget(); err != nil {
		logger.Debug("widget html unavailable", slog.String("error", err.Error()))
	} else {
		out.WidgetHTML = &html
		texts = append(texts, html)
	}

	return Result{
		Content:           texts,
		StructuredContent: out,
		Meta: map[string]any{
			"openai/widgetAccessible":       true,
			"openai/resultCanProduceWidget": true,
			"widget_type":                   "html",
			"inline_render":                 true,
		},
	}
}

// resolveIdentity returns the stored identity for the principal. On any
// failure the returned Identity is DefaultIdentity and err says why.
func (d *Dispatcher) resolveIdentity(ctx context.Context, p *auth.Principal) (Identity, error) {
	if p == nil || p.Subject == "" {
		return DefaultIdentity, errNoPrincipal
	}
	if d.profiles == nil {
		return DefaultIdentity, errNoProfile
	}

	prof, ok, err := d.profiles.GetByUserID(ctx, p.Subject)
	if err != nil {
		return DefaultIdentity, fmt.Errorf("profile lookup: %w", err)
	}
	if !ok {
		return DefaultIdentity, errNoProfile
	}

	return Identity{
		Handle: orDefault(prof.TwitterHandle, DefaultIdentity.Handle),
		Name:   orDefault(prof.DisplayName, DefaultIdentity.Name),
		Avatar: orDefault(prof.AvatarURL, DefaultIdentity.Avatar),
	}, nil
}

// stringArg returns "" for missing or non-string values.
func stringArg(args map[string]json.RawMessage, key string) string {
	var s string
	if raw, ok := args[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

// intArg returns 0 for missing, non-numeric or fractional values, and -1
// for integers that overflow int so they clamp like any other bad index.
func intArg(args map[string]json.RawMessage, key string) int {
	raw, ok := args[key]
	if !ok {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || f != math.Trunc(f) {
		return 0
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return -1
	}
	return int(f)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
