package cmd

import (
	"fmt"

	"github.com/theirongolddev/welth/internal/cli"

	"github.com/spf13/cobra"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project the balance forward from the last 30 days of cash flow",
	RunE:  runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	report, err := a.svc.Forecast(ctx, activeUser(), activeDays())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CASH-FLOW FORECAST  Next %dd", report.Days)))
	fmt.Println()

	fmt.Println(cli.RenderKV("Income (30d)", cli.FormatMoney(report.WindowIncome)))
	fmt.Println(cli.RenderKV("Expenses (30d)", cli.FormatMoney(report.WindowExpense)))
	fmt.Println(cli.RenderKV("Net per day", cli.RenderSigned(cli.FormatMoney(report.DailyNet), report.DailyNet.Sign())))
	fmt.Println(cli.RenderKV("Safe to save", cli.FormatMoney(report.SafeToSave)))
	fmt.Println()

	values := make([]float64, len(report.Points))
	for i, p := range report.Points {
		values[i] = p.Predicted.InexactFloat64()
	}
	fmt.Printf("  %s\n\n", cli.RenderSparkline(values))

	// Weekly checkpoints keep long horizons readable.
	step := 1
	if report.Days > 31 {
		step = 7
	}
	rows := make([][]string, 0, len(report.Points)/step+1)
	for i, p := range report.Points {
		if i%step != 0 && i != len(report.Points)-1 {
			continue
		}
		rows = append(rows, []string{
			fmt.Sprintf("+%d", p.DayOffset),
			cli.FormatDate(p.Date),
			cli.FormatMoney(p.Predicted),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Day", "Date", "Predicted"},
		Rows:    rows,
	}))

	if last := report.Points[len(report.Points)-1]; last.Predicted.IsNegative() {
		fmt.Println()
		fmt.Println(cli.RenderWarning(fmt.Sprintf("Balance is projected to go negative by %s", cli.FormatDate(last.Date))))
	}
	return nil
}
