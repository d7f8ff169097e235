package cmd

import (
	"fmt"

	"github.com/theirongolddev/welth/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    User:          %s\n", cfg.General.User)
	fmt.Printf("    Default days:  %d\n", cfg.General.DefaultDays)
	fmt.Printf("    Currency:      %s\n", cfg.General.Currency)
	fmt.Printf("    Database:      %s\n", dbPath())
	fmt.Printf("    Log level:     %s\n", cfg.General.LogLevel)
	fmt.Println()

	fmt.Println("  [Guardian]")
	fmt.Printf("    Enabled:       %v\n", cfg.Guardian.Enabled)
	fmt.Printf("    Lock above:    %d%%\n", cfg.Guardian.LockPercent)
	fmt.Printf("    Interval:      %s\n", cfg.Guardian.Interval.Duration)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	if cfg.Daemon.RateLimit > 0 {
		fmt.Printf("    Rate limit:    %d per %s\n", cfg.Daemon.RateLimit, cfg.Daemon.RateWindow.Duration)
	} else {
		fmt.Println("    Rate limit:    off")
	}
	fmt.Println()

	fmt.Println("  [Redis]")
	if cfg.Redis.Addr == "" {
		fmt.Println("    Locks:         in-process")
	} else {
		fmt.Printf("    Address:       %s (db %d)\n", cfg.Redis.Addr, cfg.Redis.DB)
		if pw := config.GetRedisPassword(cfg); pw != "" {
			fmt.Printf("    Password:      %s\n", maskSecret(pw))
		}
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:         %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `welth setup` to reconfigure.")
	return nil
}
