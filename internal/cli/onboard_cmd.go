package cli

import (
	"fmt"

	"github.com/alexanderramin/farmquest/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newOnboardCmd(app *App) *cobra.Command {
	var a onboardingAnswers

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Set up your farmer profile and earn the welcome reward",
		Long: `Set up your farmer profile. In a terminal with no flags this opens a
four-step wizard unless --name is given; otherwise every required field
must be passed as a flag.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, _, err := app.session(ctx)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("name") && app.interactive() {
				if err := onboardingForm(&a).RunWithContext(ctx); err != nil {
					return err
				}
			}

			profile, err := a.toProfile()
			if err != nil {
				return err
			}
			u, err := app.Users.Onboard(ctx, sess, profile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Welcome to FarmQuest, %s! %s\n\n", formatter.StyleGreen.Render("✔"), u.DisplayName(), formatter.FormatXP(u.TotalXP))
			fmt.Fprint(out, formatter.FormatUserSummary(u))
			return nil
		},
	}

	cmd.Flags().StringVar(&a.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&a.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&a.DateOfBirth, "dob", "", "date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&a.Village, "village", "", "village")
	cmd.Flags().StringVar(&a.District, "district", "", "district")
	cmd.Flags().StringVar(&a.State, "state", "", "state")
	cmd.Flags().StringVar(&a.FarmSize, "farm-size", "", "farm size")
	cmd.Flags().StringVar(&a.FarmUnit, "unit", "acres", "farm size unit (acres, hectares, bigha)")
	cmd.Flags().StringSliceVar(&a.Crops, "crops", nil, "primary crops, comma separated")
	cmd.Flags().StringVar(&a.Language, "language", "english", "preferred language")

	return cmd
}
