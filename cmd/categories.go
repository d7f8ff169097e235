package cmd

import (
	"fmt"

	"github.com/theirongolddev/welth/internal/cli"
	"github.com/theirongolddev/welth/internal/pipeline"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Spending by category with trend vs the previous period",
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, _ []string) error {
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
	days := activeDays()
	until := snap.Now
	since := until.AddDate(0, 0, -days)
	cats := pipeline.AggregateCategories(snap.Transactions, since, until)

	if len(cats) == 0 {
		fmt.Println("\n  No spending in the selected period.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CATEGORIES  Last %dd", days)))
	fmt.Println()

	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{
			truncate(c.Category, 18),
			cli.FormatNumber(int64(c.Transactions)),
			cli.FormatMoney(c.Expense),
			fmt.Sprintf("%.1f%%", c.SharePercent),
			trendArrow(c.TrendDirection),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Category", "Txns", "Spent", "Share", "Trend"},
		Rows:    rows,
	}))
	return nil
}

// trendArrow shows rising spend in red.
func trendArrow(dir int) string {
	switch {
	case dir > 0:
		return cli.RenderSigned("▲", -1)
	case dir < 0:
		return cli.RenderSigned("▼", 1)
	default:
		return cli.RenderMuted("=")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
