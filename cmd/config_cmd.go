package cmd

import (
	"fmt"

	"github.com/theirongolddev/reserva/internal/config"

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
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Max months: %d\n", cfg.General.MaxMonths)
	if cfg.General.PlanFile != "" {
		fmt.Printf("    Plan file:  %s\n", cfg.General.PlanFile)
	}
	fmt.Printf("    Log level:  %s\n", cfg.General.LogLevel)
	fmt.Println()

	fmt.Println("  [Currency]")
	fmt.Printf("    Symbol:    %s\n", cfg.Currency.Symbol)
	fmt.Printf("    Thousands: %s\n", separatorName(cfg.Currency.Thousands))
	fmt.Printf("    Decimal:   %s\n", separatorName(cfg.Currency.Decimal))
	fmt.Printf("    Example:   %s\n", money(exampleAmount))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Server.EventsBuffer)
	fmt.Println()

	fmt.Println("  Run `reserva setup` to reconfigure.")
	return nil
}

func separatorName(sep string) string {
	switch sep {
	case "":
		return "none"
	case " ":
		return "space"
	default:
		return fmt.Sprintf("%q", sep)
	}
}
