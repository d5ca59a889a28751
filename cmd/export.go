package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/reserva/internal/report"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	flagExportOut   string
	flagExportTitle string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a PDF report comparing the scenarios",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "output", "o", "reserva-report.pdf", "Output PDF path")
	exportCmd.Flags().StringVar(&flagExportTitle, "title", report.DefaultTitle, "Report title")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	entries, outcomes, err := runScenarios(cmd)
	if err != nil {
		return err
	}

	r := report.Report{
		ID:          uuid.NewString(),
		Title:       flagExportTitle,
		Target:      entries.Target,
		Outcomes:    outcomes,
		Currency:    cfg.Currency,
		GeneratedAt: time.Now(),
	}

	//nolint:gosec // output path is chosen by the local user
	f, err := os.Create(flagExportOut)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.WritePDF(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(flagExportOut)
		return fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}

	log.WithField("report_id", r.ID).Debug("report written")
	if !flagQuiet {
		fmt.Printf("  Saved report to %s\n", flagExportOut)
	}
	return nil
}
