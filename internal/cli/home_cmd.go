package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/farmquest/internal/cli/formatter"
	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/spf13/cobra"
)

func newHomeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Claim today's bonus and see today's missions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHome(cmd, app)
		},
	}
}

// runHome is a session start: it claims the daily bonus, then lists the
// personalised missions for today.
func runHome(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	sess, u, err := app.session(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !u.OnboardingCompleted {
		fmt.Fprintf(out, "Welcome, %s! Set up your profile first: %s\n", u.Handle, formatter.Bold("farmquest onboard"))
		return nil
	}

	bonus, err := app.Users.ClaimDailyBonus(ctx, sess)
	if err != nil {
		return err
	}
	today, err := app.Missions.Today(ctx, sess)
	if err != nil {
		return err
	}
	fmt.Fprint(out, formatter.FormatHome(bonus.User, bonus, today))
	return nil
}

func newBonusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "bonus",
		Short: "Claim the once-a-day login bonus",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, _, err := app.session(ctx)
			if err != nil {
				return err
			}
			res, err := app.Users.ClaimDailyBonus(ctx, sess)
			if err != nil {
				return onboardingHint(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDailyBonus(res))
			return nil
		},
	}
}

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your level, stats and badges",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, _, err := app.session(ctx)
			if err != nil {
				return err
			}
			stats, err := app.Users.Profile(ctx, sess)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProfile(stats))
			return nil
		},
	}
	cmd.AddCommand(newProfileSetCmd(app))
	return cmd
}

func newProfileSetCmd(app *App) *cobra.Command {
	var a onboardingAnswers

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields; only the flags given are changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, _, err := app.session(ctx)
			if err != nil {
				return err
			}
			parsed, err := a.toProfile()
			if err != nil {
				return err
			}

			var patch domain.ProfilePatch
			flags := cmd.Flags()
			set := func(name string, dst **string, v string) {
				if flags.Changed(name) {
					*dst = &v
				}
			}
			set("name", &patch.FullName, parsed.FullName)
			set("phone", &patch.Phone, parsed.Phone)
			set("village", &patch.Village, parsed.Village)
			set("district", &patch.District, parsed.District)
			set("state", &patch.State, parsed.State)
			set("unit", &patch.FarmSizeUnit, parsed.FarmSizeUnit)
			set("language", &patch.PreferredLanguage, parsed.PreferredLanguage)
			if flags.Changed("farm-size") {
				patch.FarmSize = &parsed.FarmSize
			}
			if flags.Changed("crops") {
				patch.PrimaryCrops = parsed.PrimaryCrops
			}
			if flags.Changed("dob") {
				patch.DateOfBirth = parsed.DateOfBirth
			}

			u, err := app.Users.UpdateProfile(ctx, sess, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Profile updated for %s\n", formatter.StyleGreen.Render("✔"), u.Handle)
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
	cmd.Flags().StringVar(&a.FarmUnit, "unit", "", "farm size unit")
	cmd.Flags().StringSliceVar(&a.Crops, "crops", nil, "primary crops, comma separated")
	cmd.Flags().StringVar(&a.Language, "language", "", "preferred language")

	return cmd
}

func newLeaderboardCmd(app *App) *cobra.Command {
	scope := newScopeFlag()

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank farmers by XP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, _, err := app.session(ctx)
			if err != nil {
				return err
			}
			board, err := app.Leaderboard.Leaderboard(ctx, sess, scope.value)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLeaderboard(board))
			return nil
		},
	}
	cmd.Flags().Var(scope, "scope", "all, village or district")
	return cmd
}

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Serve == nil {
				return errors.New("serve is not available in this build")
			}
			return app.Serve(cmd.Context())
		},
	}
}
