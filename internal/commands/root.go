// Package commands provides the CLI commands for conda-meta-mcp.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "conda-meta-mcp",
	Short: "MCP server for conda ecosystem metadata",
	Long: `conda-meta-mcp is an MCP server exposing conda ecosystem metadata as
tools: package search, dependency queries, package archive insights,
file path lookup, import-to-package mapping, and PyPI name translation.

Examples:
  conda-meta-mcp run          Serve over stdio
  conda-meta-mcp run -v       Serve with debug logging
  conda-meta-mcp mcp-json     Print an MCP client configuration snippet`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("conda-meta-mcp %s (built %s)\n", Version, BuildTime)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "Show version and exit")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(mcpJSONCmd)
}
