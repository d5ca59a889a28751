package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/reserva/internal/config"
	"github.com/theirongolddev/reserva/internal/model"
	"github.com/theirongolddev/reserva/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var exampleAmount = decimal.RequireFromString("1234567.89")

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

type setupValues struct {
	months    string
	symbol    string
	thousands string
	decimal   string
	theme     string
}

func runSetup(_ *cobra.Command, _ []string) error {
	vals := setupValues{
		months:    strconv.Itoa(cfg.General.MaxMonths),
		symbol:    cfg.Currency.Symbol,
		thousands: cfg.Currency.Thousands,
		decimal:   cfg.Currency.Decimal,
		theme:     cfg.Appearance.Theme,
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to reserva!").
				Description(fmt.Sprintf("Settings are saved to %s", config.ConfigPath())),
			huh.NewInput().
				Title("Month cap").
				Description("Longest projection to simulate").
				Value(&vals.months).
				Validate(validateMonths),
			huh.NewInput().
				Title("Currency symbol").
				Description("Leave blank for none").
				Value(&vals.symbol),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Thousands separator").
				Options(
					huh.NewOption(`"." (1.234)`, "."),
					huh.NewOption(`"," (1,234)`, ","),
					huh.NewOption("space (1 234)", " "),
					huh.NewOption("none (1234)", ""),
				).
				Value(&vals.thousands),
			huh.NewSelect[string]().
				Title("Decimal separator").
				Options(
					huh.NewOption(`"," (0,50)`, ","),
					huh.NewOption(`"." (0.50)`, "."),
				).
				Value(&vals.decimal),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	updated, err := vals.apply(cfg)
	if err != nil {
		return err
	}
	if err := config.Save(updated); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	cfg = updated

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Printf("  Amounts will look like %s\n", money(exampleAmount))
	fmt.Println("  Run `reserva setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func validateMonths(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > model.MaxMonthsLimit {
		return fmt.Errorf("enter a whole number of months from 1 to %d", model.MaxMonthsLimit)
	}
	return nil
}

// apply copies the wizard answers onto c and validates the result.
func (v setupValues) apply(c config.Config) (config.Config, error) {
	months, err := strconv.Atoi(strings.TrimSpace(v.months))
	if err != nil {
		return c, fmt.Errorf("month cap: %w", err)
	}
	c.General.MaxMonths = months
	c.Currency.Symbol = strings.TrimSpace(v.symbol)
	c.Currency.Thousands = v.thousands
	c.Currency.Decimal = v.decimal
	c.Appearance.Theme = v.theme
	return c, c.Validate()
}
