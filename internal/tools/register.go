package tools

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Descriptor is one entry of the fixed tool table: the tool name and the
// hook that registers its definition and handler with a server.
type Descriptor struct {
	Name     string
	register func(*Service, *mcp.Server) error
}

// Descriptors returns the complete tool table. The set is explicit, with no
// discovery or import scanning; registration order is the listing order
// below.
func Descriptors() []Descriptor {
	return []Descriptor{
		{Name: "cli_help", register: (*Service).registerCliHelp},
		{Name: "info", register: (*Service).registerInfo},
		{Name: "package_insights", register: (*Service).registerPackageInsights},
		{Name: "package_search", register: (*Service).registerPackageSearch},
		{Name: "repoquery", register: (*Service).registerRepoquery},
		{Name: "import_mapping", register: (*Service).registerImportMapping},
		{Name: "file_path_search", register: (*Service).registerFilePathSearch},
		{Name: "pypi_to_conda", register: (*Service).registerPypiToConda},
		{Name: "cache_maintenance", register: (*Service).registerCacheMaintenance},
	}
}

// NewServer builds an MCP server exposing the full tool table backed by s.
func NewServer(s *Service, name, version string) (*mcp.Server, error) {
	srv := mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil)

	for _, d := range Descriptors() {
		if err := d.register(s, srv); err != nil {
			return nil, fmt.Errorf("register tool %s: %w", d.Name, err)
		}
	}

	return srv, nil
}
