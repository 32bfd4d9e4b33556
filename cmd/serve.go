package cmd

import (
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/hsbc-statement-converter/internal/api"
	"github.com/insightdelivered/hsbc-statement-converter/internal/parser"
)

var serverAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for converting statements.

The API provides endpoints for:
  - GET  /api/health   - Health check
  - POST /api/convert  - Convert uploaded PDFs (multipart field "files")

Examples:
  hsbc-statement-converter serve
  hsbc-statement-converter serve --addr :9000 --config converter.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "addr", "", "Server listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Address
	if serverAddr != "" {
		addr = serverAddr
	}

	h := &api.Handler{
		Parser:   parser.New(cfg.Layout),
		Batch:    parser.BatchOptions{Workers: cfg.Parser.Workers, Timeout: cfg.Parser.Timeout},
		MaxFiles: cfg.Server.MaxFiles,
		Version:  Version,
		Context:  cmd.Context(),
	}
	app := api.NewApp(cfg, h)

	go func() {
		<-cmd.Context().Done()
		fmt.Println("\nShutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Errorf("[API] shutdown: %v", err)
		}
	}()

	log.Infof("[API] listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
