package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var mcpJSONCmd = &cobra.Command{
	Use:   "mcp-json",
	Short: "Print an MCP client configuration snippet",
	Long: `Print a ready-to-paste mcpServers entry pointing at this executable, for
use in an MCP client configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve executable path: %w", err)
		}

		cfg := map[string]any{
			"mcpServers": map[string]any{
				"conda-meta-mcp": map[string]any{
					"command": exe,
					"args":    []string{"run"},
				},
			},
		}

		out, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("encode configuration: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		return nil
	},
}
