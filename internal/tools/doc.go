// Package tools implements the MCP tool surface of the conda metadata
// server. Each tool is a thin adapter around one upstream client, wrapped in
// a bounded memo cache and fronted by pagination and field projection. The
// tool set is a fixed, explicit descriptor table; every cache-owning tool
// registers its clear operation with the shared maintenance registry at
// construction time.
package tools
