package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/telmii/telmii/internal/service/ui"
)

type InputOptions struct {
	Title       string
	EnvKey      string
	Placeholder string
	Secret      bool
	Optional    bool
	// When reports whether the step applies; nil means always
	When func(state *InstallState) bool
}

// InputStep collects one free-text value, skipping itself when it does not apply.
type InputStep struct {
	opts    InputOptions
	input   textinput.Model
	checked bool
	missing bool
}

func NewInputStep(opts InputOptions) Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 50
	ti.Placeholder = opts.Placeholder
	if opts.Optional {
		ti.Placeholder = "optional, press Enter to skip"
	}
	if opts.Secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
	}
	return &InputStep{opts: opts, input: ti}
}

func (s *InputStep) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, next)
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !s.checked {
		s.checked = true
		if s.opts.When != nil && !s.opts.When(state) {
			return nil, nil
		}
	}
	if _, ok := msg.(nextMsg); ok {
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		switch {
		case val != "":
			state.EnvVars[s.opts.EnvKey] = val
			return nil, nil
		case s.opts.Optional:
			return nil, nil
		default:
			s.missing = true
		}
	}
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	view := fmt.Sprintf("Enter your %s:\n\n%s\n\n", s.opts.Title, s.input.View())
	if s.missing {
		view += ui.ErrorStyle.Render("A value is required.") + "\n"
	}
	return view + "(press enter to confirm)\n"
}
