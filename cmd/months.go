package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/welth/internal/cli"
	"github.com/theirongolddev/welth/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagMonths int

var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "Monthly income, spending and net",
	RunE:  runMonths,
}

func init() {
	monthsCmd.Flags().IntVar(&flagMonths, "months", 6, "Number of calendar months to show")
	rootCmd.AddCommand(monthsCmd)
}

func runMonths(cmd *cobra.Command, _ []string) error {
	if flagMonths < 1 {
		return errors.New("--months must be positive")
	}

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	snap, err := a.svc.Snapshot(ctx, activeUser(), 0)
	if err != nil {
		return err
	}
	now := snap.Now
	since := time.Date(now.Year(), now.Month()-time.Month(flagMonths-1), 1, 0, 0, 0, 0, now.Location())
	months := pipeline.AggregateMonths(snap.Transactions, since, now)

	if len(months) == 0 {
		fmt.Println("\n  No transactions in the selected months.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("MONTHS  Last %d", flagMonths)))
	fmt.Println()

	rows := make([][]string, 0, len(months))
	for _, m := range months {
		rows = append(rows, []string{
			m.Month.Format("Jan 2006"),
			cli.FormatMoneyWhole(m.Income),
			cli.FormatMoneyWhole(m.Expense),
			cli.RenderSigned(cli.FormatDelta(m.Net), m.Net.Sign()),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Income", "Spent", "Net"},
		Rows:    rows,
	}))
	return nil
}
