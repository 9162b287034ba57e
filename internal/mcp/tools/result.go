package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Result is the outcome of one tool call. Callers must check IsError.
type Result struct {
	Content           []string
	StructuredContent any
	IsError           bool
	Meta              map[string]any
}

func errorResult(msg string) Result {
	return Result{Content: []string{msg}, IsError: true}
}

// CallToolResult converts the Result to the SDK wire type.
func (r Result) CallToolResult() *sdkmcp.CallToolResult {
	content := make([]sdkmcp.Content, 0, len(r.Content))
	for _, text := range r.Content {
		content = append(content, &sdkmcp.TextContent{Text: text})
	}
	out := &sdkmcp.CallToolResult{
		Content:           content,
		StructuredContent: r.StructuredContent,
		IsError:           r.IsError,
	}
	if len(r.Meta) > 0 {
		out.Meta = sdkmcp.Meta(r.Meta)
	}
	return out
}
