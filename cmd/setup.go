package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/theirongolddev/welth/internal/config"
	"github.com/theirongolddev/welth/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	c := cfg
	lockPercent := strconv.Itoa(c.Guardian.LockPercent)

	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themes = append(themes, huh.NewOption(t.Name, t.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Your user name").
				Description("Owns imported records that name no user.").
				Value(&c.General.User),
			huh.NewInput().
				Title("Currency symbol").
				Value(&c.General.Currency),
			huh.NewSelect[int]().
				Title("Default time range").
				Options(
					huh.NewOption("7 days", 7),
					huh.NewOption("30 days", 30),
					huh.NewOption("90 days", 90),
				).
				Value(&c.General.DefaultDays),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Run the Safety Guardian in the daemon?").
				Value(&c.Guardian.Enabled),
			huh.NewInput().
				Title("Lock the budget above this usage %").
				Value(&lockPercent).
				Validate(validatePercent),
			huh.NewInput().
				Title("Redis address for guardian locks").
				Description("Leave empty to lock in-process.").
				Placeholder("localhost:6379").
				Value(&c.Redis.Addr),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&c.Appearance.Theme),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.RunWithContext(cmd.Context()); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}
	c.Guardian.LockPercent, _ = strconv.Atoi(lockPercent)

	if err := config.Save(c); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `welth setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func validatePercent(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 100 {
		return errors.New("enter a whole number from 1 to 100")
	}
	return nil
}

func maskSecret(s string) string {
	if len(s) > 8 {
		return s[:2] + "..." + s[len(s)-2:]
	}
	return "****"
}
