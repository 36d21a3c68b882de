// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/appraisal-engine/internal/appraise"
	"github.com/pdiddy/appraisal-engine/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the appraisal pipeline over HTTP",
	Long: `Serve exposes POST /api/v1/analyze (multipart "file", key in X-API-Key),
GET /api/v1/appraisal, GET /api/v1/appraisal/export?format=json|yaml|xlsx and
GET /health. The current record lives only in memory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		if debug, _ := cmd.Flags().GetBool("debug"); !debug {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(cfg.Server, appraise.NewPipeline(cfg, logger), &appraise.Session{},
			resolveAPIKey(cfg.AI, loadedSecrets), logger)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().StringSlice("allowed-origins", nil, "CORS origins (default: all)")
	serveCmd.Flags().Bool("debug", false, "run gin in debug mode")
	bindFlag(serveCmd.Flags().Lookup("addr"), "server.addr")
	bindFlag(serveCmd.Flags().Lookup("allowed-origins"), "server.allowed_origins")

	rootCmd.AddCommand(serveCmd)
}
