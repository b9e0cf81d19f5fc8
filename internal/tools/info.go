package tools

import (
	"context"
	"runtime"
	"runtime/debug"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type infoInput struct{}

func (s *Service) registerInfo(srv *mcp.Server) error {
	schema, err := jsonschema.For[infoInput](nil)
	if err != nil {
		return err
	}

	tool := &mcp.Tool{
		Name:        "info",
		Description: "Report the server version, runtime, platform, and key dependency versions.",
		InputSchema: schema,
	}

	mcp.AddTool(srv, tool, func(ctx context.Context, req *mcp.CallToolRequest, in infoInput) (*mcp.CallToolResult, any, error) {
		s.log.Debug("Info requested")
		return nil, s.info(), nil
	})

	return nil
}

// info assembles the static environment map once; the values cannot change
// within a process lifetime.
func (s *Service) info() map[string]string {
	s.infoOnce.Do(func() {
		data := map[string]string{
			"conda_meta_mcp_version": s.version,
			"go_version":             runtime.Version(),
			"platform":               runtime.GOOS + "-" + runtime.GOARCH,
		}

		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, dep := range bi.Deps {
				switch dep.Path {
				case "github.com/modelcontextprotocol/go-sdk",
					"github.com/hashicorp/golang-lru/v2",
					"github.com/klauspost/compress",
					"github.com/tidwall/gjson",
					"github.com/spf13/cobra":
					data[dep.Path] = dep.Version
				}
			}
		}

		s.infoData = data
	})

	return s.infoData
}
