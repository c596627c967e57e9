package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/ui-locator-mcp/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Run the locator as an MCP (Model Context Protocol) server.

Requests are read from stdin and responses written to stdout, one JSON-RPC
message per line. Logs go to stderr. Configure it in your MCP client, e.g.:

  {"command": "ui-locator", "args": ["serve"]}`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx, a, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); err == nil {
				err = cerr
			}
		}()

		if err := a.openResolver(ctx); err != nil {
			return err
		}

		a.log.Info("mcp server starting",
			zap.String("version", Version),
			zap.String("model", a.cfg.Vision.ModelConfig().QualifiedName()),
			zap.Bool("ocr", a.cfg.OCR.Enabled),
			zap.String("feedback_store", a.cfg.Feedback.Type))

		srv := server.New(a.resolver, server.Options{
			Version:      Version,
			DefaultModel: a.cfg.Vision.ModelConfig(),
		})
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
