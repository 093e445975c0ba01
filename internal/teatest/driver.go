// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and every returned Cmd is run inline, so a
// screen can be stepped key by key without starting a tea.Program.
// Cmds that block (cursor blink timers) are abandoned after a short wait.
package teatest

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxDepth bounds Cmd chains that keep producing new Cmds.
const maxDepth = 64

// cmdWait separates instant Cmds from timer-driven ones.
const cmdWait = 10 * time.Millisecond

var ansi = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// namedKeys maps the names accepted by Press to key messages.
var namedKeys = map[string]tea.KeyMsg{
	"enter":  {Type: tea.KeyEnter},
	"esc":    {Type: tea.KeyEsc},
	"ctrl+c": {Type: tea.KeyCtrlC},
	"up":     {Type: tea.KeyUp},
	"down":   {Type: tea.KeyDown},
	"left":   {Type: tea.KeyLeft},
	"right":  {Type: tea.KeyRight},
	"tab":    {Type: tea.KeyTab},
	"space":  {Type: tea.KeySpace, Runes: []rune{' '}},
}

// Driver holds a model and feeds it messages.
type Driver struct {
	t     *testing.T
	Model tea.Model

	// Quitting records that a Cmd produced tea.QuitMsg. The runtime
	// normally swallows it, so models rarely see it themselves.
	Quitting bool
}

// Option adjusts a Driver before the first message.
type Option func(*Driver)

// WithSize delivers a WindowSizeMsg first.
func WithSize(width, height int) Option {
	return func(d *Driver) {
		d.Send(tea.WindowSizeMsg{Width: width, Height: height})
	}
}

// New wraps model and runs its Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{t: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	d.run(model.Init(), 0)
	return d
}

// Send passes msg to Update unless the model already quit.
func (d *Driver) Send(msg tea.Msg) {
	d.t.Helper()
	if d.Quitting {
		return
	}
	next, cmd := d.Model.Update(msg)
	d.Model = next
	d.run(cmd, 0)
}

// Press sends each key in turn. Names from namedKeys are special keys;
// anything else is sent as typed runes.
func (d *Driver) Press(keys ...string) {
	d.t.Helper()
	for _, k := range keys {
		if msg, ok := namedKeys[k]; ok {
			d.Send(msg)
			continue
		}
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
}

// Type sends s one rune at a time, the way a terminal delivers input.
func (d *Driver) Type(s string) {
	d.t.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// View returns the rendered screen with styling removed.
func (d *Driver) View() string {
	return ansi.ReplaceAllString(d.Model.View(), "")
}

// RequireView fails the test unless the screen contains every want.
func (d *Driver) RequireView(want ...string) {
	d.t.Helper()
	view := d.View()
	for _, w := range want {
		if !strings.Contains(view, w) {
			d.t.Fatalf("screen does not contain %q:\n%s", w, view)
		}
	}
}

func (d *Driver) run(cmd tea.Cmd, depth int) {
	if cmd == nil {
		return
	}
	if depth >= maxDepth {
		d.t.Logf("teatest: stopped after %d chained commands", maxDepth)
		return
	}

	msg := await(cmd)
	switch m := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, c := range m {
			d.run(c, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		return
	}
	if blink(msg) {
		return
	}

	next, cmd := d.Model.Update(msg)
	d.Model = next
	d.run(cmd, depth+1)
}

func await(cmd tea.Cmd) tea.Msg {
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	select {
	case msg := <-out:
		return msg
	case <-time.After(cmdWait):
		return nil
	}
}

// blink reports cursor blink messages, whose types are unexported.
func blink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
