package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	cfgpkg "github.com/kbellanger/salescope/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or write the active configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration values",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("listen_addr: %s\n", cfg.ListenAddr)
		fmt.Printf("shutdown_timeout_sec: %d\n", cfg.ShutdownTimeoutSec)
		fmt.Printf("max_upload_mb: %d\n", cfg.MaxUploadMB)
		fmt.Printf("preview_rows: %d\n", cfg.PreviewRows)
		fmt.Printf("top_products: %d\n", cfg.TopProducts)
		fmt.Printf("chart_width: %d\n", cfg.ChartWidth)
		fmt.Printf("chart_height: %d\n", cfg.ChartHeight)
		fmt.Printf("log_level: %s\n", cfg.LogLevel)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the active configuration to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("✓ Config written")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
