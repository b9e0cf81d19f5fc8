package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/condameta/conda-meta-mcp/internal/tools"
)

var verboseFlag bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Serve the MCP tool set over stdio",
	Long: `Serve the MCP tool set over stdio. Stdout carries the protocol, so all
logging goes to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
}

func runServer() error {
	level := slog.LevelInfo
	if verboseFlag {
		level = slog.LevelDebug
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With("session_id", ulid.Make().String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service := tools.NewService(
		tools.WithLogger(log),
		tools.WithVersion(Version),
	)

	srv, err := tools.NewServer(service, "conda-meta-mcp", Version)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	log.Info("Starting MCP server", "version", Version, "tools", len(tools.Descriptors()))

	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	log.Info("Server stopped")

	return nil
}
