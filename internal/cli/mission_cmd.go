package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/farmquest/internal/cli/formatter"
	"github.com/alexanderramin/farmquest/internal/repository"
	"github.com/alexanderramin/farmquest/internal/service"
	"github.com/spf13/cobra"
)

// resolveMissionID accepts a full mission ID or a unique prefix of an
// active mission's ID.
func resolveMissionID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("mission ID is required")
	}
	if m, err := app.Missions.Get(ctx, input); err == nil {
		return m.ID, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	missions, err := app.Missions.List(ctx, service.MissionQuery{})
	if err != nil {
		return "", err
	}
	var matches []string
	for _, m := range missions {
		if strings.HasPrefix(strings.ToLower(m.ID), strings.ToLower(input)) {
			matches = append(matches, m.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("mission not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("mission ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// startNavigator resolves the mission and opens a navigator on it for the
// acting user.
func startNavigator(ctx context.Context, app *App, input string) (*service.Navigator, service.Session, error) {
	sess, _, err := app.session(ctx)
	if err != nil {
		return nil, sess, err
	}
	id, err := resolveMissionID(ctx, app, input)
	if err != nil {
		return nil, sess, err
	}
	nav, err := app.Missions.Start(ctx, sess, id)
	return nav, sess, err
}

func newMissionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mission",
		Aliases: []string{"m"},
		Short:   "Browse, play and import missions",
	}

	cmd.AddCommand(
		newMissionListCmd(app),
		newMissionShowCmd(app),
		newMissionSearchCmd(app),
		newMissionStartCmd(app),
		newMissionNextCmd(app),
		newMissionBackCmd(app),
		newMissionProofCmd(app),
		newMissionPlayCmd(app),
		newMissionImportCmd(app),
	)

	return cmd
}

func newMissionListCmd(app *App) *cobra.Command {
	var category categoryFlag
	var crop string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active missions with your progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, _, err := app.session(ctx)
			if err != nil {
				return err
			}
			views, err := app.Missions.Overview(ctx, sess, service.MissionQuery{Category: category.value, Crop: crop})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMissionOverview(views))
			return nil
		},
	}
	cmd.Flags().Var(&category, "category", "filter by category")
	cmd.Flags().StringVar(&crop, "crop", "", "only missions for this crop")
	return cmd
}

func newMissionShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a mission and its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveMissionID(ctx, app, args[0])
			if err != nil {
				return err
			}
			m, err := app.Missions.Get(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMissionDetail(m))
			return nil
		},
	}
}

func newMissionSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search mission titles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			missions, err := app.Missions.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMissionList(missions))
			return nil
		},
	}
}

func newMissionStartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start or resume a mission and show the current card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, _, err := startNavigator(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNavigator(nav))
			return nil
		},
	}
}

func newMissionNextCmd(app *App) *cobra.Command {
	var answer int

	cmd := &cobra.Command{
		Use:   "next <id>",
		Short: "Move to the next card, answering the current quiz with --answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			nav, _, err := startNavigator(ctx, app, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("answer") {
				if err := nav.RecordQuizAnswer(nav.Cursor(), answer-1); err != nil {
					return err
				}
			}
			if _, err := nav.Advance(ctx); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNavigator(nav))
			return nil
		},
	}
	cmd.Flags().IntVarP(&answer, "answer", "a", 0, "quiz option number, starting at 1")
	return cmd
}

func newMissionBackCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "back <id>",
		Short: "Go back one card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			nav, _, err := startNavigator(ctx, app, args[0])
			if err != nil {
				return err
			}
			if _, err := nav.Retreat(ctx); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNavigator(nav))
			return nil
		},
	}
}

func newMissionProofCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "proof <id> <photo-file-or-url>",
		Short: "Submit photo proof and complete the mission",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			nav, sess, err := startNavigator(ctx, app, args[0])
			if err != nil {
				return err
			}
			url, err := proofURL(ctx, app, sess.UserID, nav.Mission().ID, args[1])
			if err != nil {
				return err
			}
			if _, err := nav.SubmitPhotoProof(ctx, url); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNavigator(nav))
			return nil
		},
	}
}

// proofURL passes hosted URLs through and uploads local files to the photo
// store.
func proofURL(ctx context.Context, app *App, userID, missionID, src string) (string, error) {
	src = strings.TrimSpace(src)
	if strings.HasPrefix(src, "https://") || strings.HasPrefix(src, "http://") {
		return src, nil
	}
	if app.Photos == nil {
		return "", fmt.Errorf("photo storage is not configured")
	}
	return app.Photos.Save(ctx, userID, missionID, src)
}

func newMissionImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import or update missions from a catalogue file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Importing catalogue...")
			}
			res, err := app.Import.ImportCatalog(cmd.Context(), args[0])
			stop()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImportResult(res))
			return nil
		},
	}
}
