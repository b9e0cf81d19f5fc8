package tools

import (
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/condameta/conda-meta-mcp/internal/toolerr"
)

// textResult wraps plain text in a tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult converts a classified error into a protocol-visible tool
// error. The message carries the tool name and the classification tag; no
// partial results accompany it.
func errorResult(tool string, err error) *mcp.CallToolResult {
	var te *toolerr.Error

	var msg string
	if errors.As(err, &te) {
		msg = fmt.Sprintf("'%s' %s: %v", tool, te.Kind, te.Err)
	} else {
		msg = fmt.Sprintf("'%s' failed: %v", tool, err)
	}

	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}
