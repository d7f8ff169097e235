package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/welth/internal/cli"
	"github.com/theirongolddev/welth/internal/engine"
	"github.com/theirongolddev/welth/internal/model"
	"github.com/theirongolddev/welth/internal/service"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagTMKind     string
	flagTMAmount   string
	flagTMCategory string
	flagTMStart    string
	flagTMQuick    int
)

var timemachineCmd = &cobra.Command{
	Use:     "timemachine",
	Aliases: []string{"tm"},
	Short:   "Replay your finances under a what-if scenario",
	Long: `Replay your finances under a what-if scenario.

Kinds:
  SAVE_MONTHLY     put --amount aside every month since --start
  AVOID_CATEGORY   skip every --category expense since --start
  REDUCE_SPENDING  cut all expenses since --start by --amount percent

Use --quick N to run one of the preset scenarios instead.`,
	RunE: runTimeMachine,
}

func init() {
	timemachineCmd.Flags().StringVarP(&flagTMKind, "kind", "k", string(model.SaveMonthly), "Scenario kind")
	timemachineCmd.Flags().StringVarP(&flagTMAmount, "amount", "a", "0", "Monthly amount or percentage")
	timemachineCmd.Flags().StringVarP(&flagTMCategory, "category", "c", "", "Category for AVOID_CATEGORY")
	timemachineCmd.Flags().StringVarP(&flagTMStart, "start", "s", "", "Start date, YYYY-MM-DD (default three months ago)")
	timemachineCmd.Flags().IntVar(&flagTMQuick, "quick", 0, "Run preset scenario N (see --list)")
	timemachineCmd.Flags().Bool("list", false, "List preset scenarios")
	rootCmd.AddCommand(timemachineCmd)
}

func runTimeMachine(cmd *cobra.Command, _ []string) error {
	presets := engine.QuickScenarios()
	if list, _ := cmd.Flags().GetBool("list"); list {
		fmt.Println()
		for i, q := range presets {
			fmt.Printf("  %d. %s\n", i+1, q.Label)
		}
		fmt.Println()
		return nil
	}

	req := service.TimelineRequest{
		Kind:      model.ScenarioKind(strings.ToUpper(flagTMKind)),
		Category:  flagTMCategory,
		StartDate: flagTMStart,
	}
	if flagTMQuick != 0 {
		if flagTMQuick < 1 || flagTMQuick > len(presets) {
			return fmt.Errorf("--quick must be between 1 and %d", len(presets))
		}
		q := presets[flagTMQuick-1]
		req.Kind, req.Amount = q.Kind, q.Amount
	} else {
		amount, err := decimal.NewFromString(flagTMAmount)
		if err != nil {
			return fmt.Errorf("invalid --amount %q: %w", flagTMAmount, err)
		}
		req.Amount = amount
	}
	if req.Kind == model.AvoidCategory && req.Category == "" {
		return errors.New("AVOID_CATEGORY needs --category")
	}

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	tl, err := a.svc.TimeMachine(ctx, activeUser(), req)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("TIME MACHINE"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"", "Reality", "Alternate"},
		Rows: [][]string{
			{"Balance", cli.FormatMoney(tl.Current.Balance), cli.FormatMoney(tl.Alternate.Balance)},
			{"Savings", cli.FormatMoney(tl.Current.Savings), cli.FormatMoney(tl.Alternate.Savings)},
		},
	}))
	fmt.Println()
	fmt.Println(cli.RenderKV("Difference", cli.RenderSigned(cli.FormatDelta(tl.Impact.Difference), tl.Impact.Difference.Sign())))
	fmt.Println(cli.RenderKV("Gain", tl.Impact.PercentageGain+"%"))
	fmt.Println(cli.RenderKV("Months", cli.FormatNumber(int64(tl.Impact.MonthsPassed))))
	if tl.Impact.SavedAmount.IsPositive() {
		fmt.Println(cli.RenderKV("Saved", cli.FormatMoney(tl.Impact.SavedAmount)))
	}
	if tl.Impact.AvoidedExpenses.IsPositive() {
		fmt.Println(cli.RenderKV("Avoided", cli.FormatMoney(tl.Impact.AvoidedExpenses)))
	}
	fmt.Println()
	fmt.Printf("  %s\n\n", tl.Message)
	return nil
}
