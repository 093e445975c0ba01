package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/farmquest/internal/cli/formatter"
	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/alexanderramin/farmquest/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type playerKeys struct {
	Next   key.Binding
	Back   key.Binding
	Answer key.Binding
	Proof  key.Binding
	Quit   key.Binding
}

func newPlayerKeys() playerKeys {
	return playerKeys{
		Next:   key.NewBinding(key.WithKeys("right", "l", "enter", "n"), key.WithHelp("→/enter", "next")),
		Back:   key.NewBinding(key.WithKeys("left", "h", "b"), key.WithHelp("←", "back")),
		Answer: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "answer")),
		Proof:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "photo proof")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// missionPlayer is the full-screen card-by-card mission view. Navigator
// calls are quick local writes, so they run inline in Update.
type missionPlayer struct {
	ctx    context.Context
	app    *App
	userID string
	nav    *service.Navigator

	keys  playerKeys
	help  help.Model
	bar   progress.Model
	input textinput.Model

	proofMode bool
	notice    string
	err       error
}

func newMissionPlayer(ctx context.Context, app *App, userID string, nav *service.Navigator) missionPlayer {
	in := textinput.New()
	in.Placeholder = "path/to/photo.jpg or https://..."
	in.Prompt = "📷 "
	in.CharLimit = 512

	return missionPlayer{
		ctx:    ctx,
		app:    app,
		userID: userID,
		nav:    nav,
		keys:   newPlayerKeys(),
		help:   help.New(),
		bar:    progress.New(progress.WithSolidFill(string(formatter.ColorLeaf)), progress.WithWidth(40)),
		input:  in,
	}
}

func (m missionPlayer) Init() tea.Cmd { return nil }

func (m missionPlayer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(msg.Width-20, 60))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.proofMode {
			return m.updateProof(msg)
		}
		m.err = nil
		m.notice = ""

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case m.nav.State() == service.NavCompleted:
			return m, nil
		case key.Matches(msg, m.keys.Next):
			m.advance()
		case key.Matches(msg, m.keys.Back):
			_, m.err = m.nav.Retreat(m.ctx)
		case key.Matches(msg, m.keys.Answer):
			m.answer(int(msg.Runes[0] - '1'))
		case key.Matches(msg, m.keys.Proof):
			if m.nav.IsLast() && m.nav.Mission().HasPhotoProof() {
				m.proofMode = true
				cmd := m.input.Focus()
				return m, cmd
			}
			m.notice = "Photo proof is taken on the last card."
		}
		return m, nil
	}
	return m, nil
}

func (m *missionPlayer) advance() {
	state, err := m.nav.Advance(m.ctx)
	if err != nil {
		m.err = err
		return
	}
	if state == service.NavNeedsProof {
		m.notice = "Press p to add your photo proof."
	}
}

func (m *missionPlayer) answer(option int) {
	card := m.nav.Card()
	if card.Type != domain.CardQuiz {
		return
	}
	if err := m.nav.RecordQuizAnswer(m.nav.Cursor(), option); err != nil {
		m.err = err
	}
}

func (m missionPlayer) updateProof(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.proofMode = false
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case tea.KeyEnter:
		url, err := proofURL(m.ctx, m.app, m.userID, m.nav.Mission().ID, m.input.Value())
		if err == nil {
			_, err = m.nav.SubmitPhotoProof(m.ctx, url)
		}
		if err != nil {
			m.err = err
			return m, nil
		}
		m.proofMode = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m missionPlayer) View() string {
	var b strings.Builder
	mission := m.nav.Mission()
	fmt.Fprintf(&b, "%s  %s\n", formatter.Bold(mission.Title), formatter.CategoryBadge(mission.Category))
	b.WriteString(m.bar.ViewAs(float64(m.nav.Percent())/100) + "\n\n")

	if m.nav.State() == service.NavCompleted {
		b.WriteString(formatter.StyleGreen.Render("✔ Mission complete!") + "\n\n")
		if c := m.nav.Completion(); c != nil {
			b.WriteString(formatter.FormatCompletion(c) + "\n")
		}
		b.WriteString(formatter.Dim("Press q to return.") + "\n")
		return b.String()
	}

	var selected *int
	if opt, ok := m.nav.Answer(m.nav.Cursor()); ok {
		selected = &opt
	}
	b.WriteString(formatter.FormatCard(m.nav.Card(), m.nav.Cursor(), len(mission.Cards), selected))
	b.WriteString("\n")

	if m.proofMode {
		b.WriteString(m.input.View() + "\n" + formatter.Dim("enter to submit · esc to cancel") + "\n")
	}
	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render(playerError(m.err)) + "\n")
	}
	if m.notice != "" {
		b.WriteString(formatter.StyleYellow.Render(m.notice) + "\n")
	}
	if !m.proofMode {
		b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{m.keys.Back, m.keys.Next, m.keys.Answer, m.keys.Proof, m.keys.Quit}))
	}
	return b.String()
}

// playerError shortens validation errors to their message.
func playerError(err error) string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}

func newMissionPlayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "play <id>",
		Short: "Play a mission card by card in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("play needs a terminal; use mission start/next/back/proof instead")
			}
			ctx := cmd.Context()
			nav, sess, err := startNavigator(ctx, app, args[0])
			if err != nil {
				return err
			}
			p := tea.NewProgram(newMissionPlayer(ctx, app, sess.UserID, nav), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNavigator(nav))
			return nil
		},
	}
}
