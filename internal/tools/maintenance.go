package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// maintenanceMessage is the fixed confirmation returned by cache_maintenance.
const maintenanceMessage = "External and tool-level caches cleared."

type cacheMaintenanceInput struct{}

func (s *Service) registerCacheMaintenance(srv *mcp.Server) error {
	schema, err := jsonschema.For[cacheMaintenanceInput](nil)
	if err != nil {
		return err
	}

	tool := &mcp.Tool{
		Name: "cache_maintenance",
		Description: "Clear every registered cache: per-tool memo caches and the mapping file " +
			"caches of the upstream clients. Best effort; always succeeds.",
		InputSchema: schema,
	}

	mcp.AddTool(srv, tool, func(ctx context.Context, req *mcp.CallToolRequest, in cacheMaintenanceInput) (*mcp.CallToolResult, any, error) {
		s.log.Debug("Clearing caches", "clearers", s.clearers.Len())
		s.clearers.ClearAll()
		return textResult(maintenanceMessage), nil, nil
	})

	return nil
}
