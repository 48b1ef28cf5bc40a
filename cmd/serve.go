package cmd

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kbellanger/salescope/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard HTTP backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err == nil {
			logger.Debug().Msg("loaded .env")
		}

		addr := cfg.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		if env := os.Getenv("SALESCOPE_LISTEN_ADDR"); serveAddr == "" && env != "" {
			addr = env
		}

		srvLogger := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(logger.GetLevel())
		api := server.NewWebAPI(srvLogger, server.Config{
			Addr:            addr,
			ShutdownTimeout: time.Duration(cfg.ShutdownTimeoutSec) * time.Second,
			MaxUploadBytes:  int64(cfg.MaxUploadMB) << 20,
			PreviewRows:     cfg.PreviewRows,
			TopProducts:     cfg.TopProducts,
			ChartWidth:      cfg.ChartWidth,
			ChartHeight:     cfg.ChartHeight,
		})
		return api.Start()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
