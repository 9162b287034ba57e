package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/maraichr/gradient/internal/gradient"
)

const (
	ToolGetMyProfile        = "get-my-profile"
	ToolCreateGradientTweet = "create-gradient-tweet"
)

// oauthSecurity advertises that both tools accept an OAuth bearer token with
// these scopes. Neither tool enforces them.
var oauthSecurity = []map[string]any{
	{"type": "oauth2", "scopes": []string{"openid", "profile"}},
}

func readOnly() *sdkmcp.ToolAnnotations {
	f := false
	return &sdkmcp.ToolAnnotations{
		DestructiveHint: &f,
		OpenWorldHint:   &f,
		ReadOnlyHint:    true,
	}
}

func getMyProfileTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        ToolGetMyProfile,
		Title:       "Get My Profile",
		Description: "Get the authenticated user's profile information from OAuth",
		InputSchema: map[string]any{
			"type":                 "object",
			"properties":           map[string]any{},
			"additionalProperties": false,
		},
		Annotations: readOnly(),
		Meta: sdkmcp.Meta{
			"securitySchemes": oauthSecurity,
		},
	}
}

func createGradientTweetTool() *sdkmcp.Tool {
	return &sdkmcp.Tool{
		Name:        ToolCreateGradientTweet,
		Title:       "Create Gradient Tweet",
		Description: "Generate a beautiful tweet mockup with a vibrant gradient background",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tweetContent": map[string]any{
					"type":        "string",
					"description": "The content of the tweet to render",
				},
				"gradientIndex": map[string]any{
					"type":        "integer",
					"description": "Gradient preset index (0-24)",
					"default":     0,
					"minimum":     0,
					"maximum":     gradient.Size() - 1,
				},
			},
			"required":             []string{"tweetContent"},
			"additionalProperties": false,
		},
		Annotations: readOnly(),
		Meta: sdkmcp.Meta{
			"securitySchemes":               oauthSecurity,
			"openai/widgetAccessible":       true,
			"openai/resultCanProduceWidget": true,
		},
	}
}
