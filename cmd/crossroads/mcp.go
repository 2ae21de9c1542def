package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/crossroads/internal/cli"
	"github.com/aretw0/crossroads/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the decision-point tools (parse, encode, decode, instructions) and the
developer instructions as resources to MCP clients.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")
		baseURL, _ := cmd.Flags().GetString("base-url")

		srv := mcp.NewServer(
			mcp.WithDialect(cfg.DialectValue()),
			mcp.WithLogger(logger),
			mcp.WithLifecycleHooks(cli.CreateDebugHooks(logger)),
		)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("Starting Crossroads MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			if baseURL == "" {
				baseURL = "http://localhost" + addr
			}
			logger.Info("Starting Crossroads MCP Server (SSE)", "addr", addr, "base_url", baseURL)

			sigCtx := cli.NewSignalContext(cmd.Context())
			defer sigCtx.Cancel()
			if err := srv.ServeSSE(sigCtx, addr, baseURL); err != nil {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", ":8081", "Address to listen on (only for SSE)")
	mcpCmd.Flags().String("base-url", "", "Public base URL announced to SSE clients")
}
