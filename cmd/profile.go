package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/welth/internal/cli"
	"github.com/theirongolddev/welth/internal/model"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your spending profile",
	RunE:  runProfile,
}

var profileQuizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Answer the personality quiz and refresh your profile",
	RunE:  runProfileQuiz,
}

func init() {
	profileCmd.AddCommand(profileQuizCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	report, err := a.svc.Profile(ctx, activeUser())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SPENDING PROFILE"))
	fmt.Println()

	b := report.Behavior
	fmt.Println(cli.RenderKV("Risk tolerance", string(b.RiskTolerance)))
	fmt.Println(cli.RenderKV("Spending style", string(b.SpendingStyle)))
	fmt.Println(cli.RenderKV("Regret threshold", cli.FormatMoneyWhole(b.RegretThreshold)))
	triggers := "none"
	if len(b.EmotionalTriggers) > 0 {
		triggers = strings.Join(b.EmotionalTriggers, ", ")
	}
	fmt.Println(cli.RenderKV("Triggers", triggers))
	fmt.Println()

	if !report.HasProfile {
		fmt.Println(cli.RenderWarning("No quiz answers yet. Run `welth profile quiz`."))
		fmt.Println()
		return nil
	}

	p := report.Profile
	for _, q := range report.Questions {
		answer := "-"
		if v := p.Answer(q.Key); v != nil && *v != nil {
			answer = **v
		}
		fmt.Println(cli.RenderKV(q.Question, answer))
	}
	fmt.Println()
	fmt.Println(cli.RenderKV("Approved", cli.FormatNumber(int64(p.ApprovedDecisions))))
	fmt.Println(cli.RenderKV("Waited", cli.FormatNumber(int64(p.RejectedDecisions))))
	fmt.Println()
	return nil
}

func runProfileQuiz(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	user := activeUser()
	report, err := a.svc.Profile(ctx, user)
	if err != nil {
		return err
	}

	values := make([]string, len(model.PersonalityQuestions))
	fields := make([]huh.Field, len(model.PersonalityQuestions))
	for i, q := range model.PersonalityQuestions {
		if report.Profile != nil {
			if v := report.Profile.Answer(q.Key); v != nil && *v != nil {
				values[i] = **v
			}
		}
		fields[i] = huh.NewInput().
			Title(q.Question).
			Placeholder(q.Placeholder).
			Value(&values[i])
	}

	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeCharm())
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	var answers model.ProfileAnswers
	for i, q := range model.PersonalityQuestions {
		v := strings.TrimSpace(values[i])
		if v == "" {
			continue
		}
		*answers.Answer(q.Key) = model.StringPtr(v)
	}

	p, err := a.svc.SaveProfile(ctx, user, answers)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("  Profile saved. You look %s with %s risk tolerance.\n\n",
		strings.ToLower(string(p.SpendingStyle)), strings.ToLower(string(p.RiskTolerance)))
	return nil
}
