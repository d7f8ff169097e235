package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/welth/internal/cli"
	"github.com/theirongolddev/welth/internal/model"
	"github.com/theirongolddev/welth/internal/service"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var flagAskAmount string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask your spending twin whether to buy something",
	Example: `  welth ask "Should I buy new headphones?" --amount 2500`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&flagAskAmount, "amount", "a", "", "Purchase amount")
	_ = askCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(flagAskAmount)
	if err != nil {
		return fmt.Errorf("invalid --amount %q: %w", flagAskAmount, err)
	}
	question := strings.Join(args, " ")

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	d, err := a.svc.Ask(ctx, activeUser(), question, amount)
	if errors.Is(err, service.ErrNoProfile) {
		fmt.Println()
		fmt.Println(cli.RenderWarning("Your twin doesn't know you yet."))
		fmt.Println("  Run `welth profile quiz` first.")
		fmt.Println()
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s  %s", d.Verdict, cli.FormatMoney(amount))))
	fmt.Println()
	fmt.Printf("  %s\n\n", verdictLine(d))
	fmt.Println(cli.RenderKV("Confidence", fmt.Sprintf("%d%%", d.Confidence)))
	fmt.Println(cli.RenderKV("Similar purchases", cli.FormatNumber(int64(d.SimilarPurchases))))
	fmt.Println(cli.RenderKV("Risk tolerance", string(d.Behavior.RiskTolerance)))
	fmt.Println(cli.RenderKV("Spending style", string(d.Behavior.SpendingStyle)))
	fmt.Println(cli.RenderKV("Regret threshold", cli.FormatMoneyWhole(d.Behavior.RegretThreshold)))
	fmt.Println()
	return nil
}

func verdictLine(d *model.Decision) string {
	switch d.Verdict {
	case model.Approve:
		return cli.RenderSigned(d.Reasoning, 1)
	case model.Wait:
		return cli.RenderSigned(d.Reasoning, -1)
	default:
		return cli.RenderWarning(d.Reasoning)
	}
}
