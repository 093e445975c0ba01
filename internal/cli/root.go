package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/alexanderramin/farmquest/internal/photostore"
	"github.com/alexanderramin/farmquest/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to the services used by CLI commands.
type App struct {
	Users       service.UserService
	Missions    service.MissionService
	Leaderboard service.LeaderboardService
	Import      service.ImportService
	Photos      photostore.Store

	// Serve runs the HTTP API until ctx is cancelled. Nil disables the
	// serve command.
	Serve func(ctx context.Context) error

	// DefaultUser is the handle used when --user is not given.
	DefaultUser string

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool

	// Clock overrides the session clock in tests.
	Clock func() time.Time

	handle string
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// session resolves the acting user from --user, creating the record on
// first use.
func (a *App) session(ctx context.Context) (service.Session, *domain.User, error) {
	handle := a.handle
	if handle == "" {
		handle = a.DefaultUser
	}
	if handle == "" {
		return service.Session{}, nil, fmt.Errorf("no user selected: pass --user or set FARMQUEST_USER")
	}
	u, err := a.Users.EnsureUser(ctx, handle)
	if err != nil {
		return service.Session{}, nil, err
	}
	return service.Session{UserID: u.ID, Clock: a.Clock}, u, nil
}

// NewRootCmd creates the top-level "farmquest" command and registers all
// subcommands against the provided App. Without a subcommand it shows home.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "farmquest",
		Short:         "Bite-sized farming missions, streaks and rewards",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHome(cmd, app)
		},
	}
	root.PersistentFlags().StringVarP(&app.handle, "user", "u", "", "farmer handle to act as (default from config)")

	root.AddCommand(
		newOnboardCmd(app),
		newHomeCmd(app),
		newBonusCmd(app),
		newMissionCmd(app),
		newLeaderboardCmd(app),
		newProfileCmd(app),
		newServeCmd(app),
	)

	return root
}

// onboardingHint turns NOT_ONBOARDED into an actionable message.
func onboardingHint(err error) error {
	if errors.Is(err, &domain.ValidationError{Code: domain.ErrCodeNotOnboarded}) {
		return fmt.Errorf("%w (run: farmquest onboard)", err)
	}
	return err
}
