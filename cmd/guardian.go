package cmd

import (
	"fmt"

	"github.com/theirongolddev/welth/internal/cli"
	"github.com/theirongolddev/welth/internal/engine"
	"github.com/theirongolddev/welth/internal/guardian"

	"github.com/spf13/cobra"
)

var flagGuardianAll bool

var guardianCmd = &cobra.Command{
	Use:   "guardian",
	Short: "Run the Safety Guardian now",
	Long:  "Lock an overspent budget or move a safe amount into savings.",
	RunE:  runGuardian,
}

func init() {
	guardianCmd.Flags().BoolVar(&flagGuardianAll, "all", false, "Sweep every user")
	rootCmd.AddCommand(guardianCmd)
}

func runGuardian(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	var results []*guardian.Result
	if flagGuardianAll {
		users, err := a.svc.Users(ctx)
		if err != nil {
			return err
		}
		results = a.runner.Sweep(ctx, users)
	} else {
		res, err := a.svc.Guardian(ctx, activeUser())
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SAFETY GUARDIAN"))
	fmt.Println()

	rows := make([][]string, 0, len(results))
	for _, res := range results {
		rows = append(rows, []string{
			res.UserID,
			cli.FormatPercent(res.Stats.BudgetUsage),
			guardianAction(res),
			cli.FormatMoney(res.Stats.TotalBalance),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"User", "Budget Used", "Action", "Balance"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func guardianAction(res *guardian.Result) string {
	switch res.Action {
	case engine.ActionLockBudget:
		return cli.RenderSigned("Budget locked", -1)
	case engine.ActionAutoSave:
		return cli.RenderSigned("Saved "+cli.FormatMoney(res.Amount), 1)
	default:
		if res.Stats.IsLocked {
			return cli.RenderMuted("Already locked")
		}
		return cli.RenderMuted("No action")
	}
}
