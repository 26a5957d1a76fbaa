package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/telmii/telmii/internal/service/ui"
)

type Choice struct {
	Value string
	Desc  string
}

// ChoiceStep stores one of a fixed set of values under envKey.
type ChoiceStep struct {
	title   string
	envKey  string
	choices []Choice
	cursor  int
}

func NewChoiceStep(title, envKey string, choices []Choice) Step {
	return &ChoiceStep{
		title:   title,
		envKey:  envKey,
		choices: choices,
	}
}

func (s *ChoiceStep) Init() tea.Cmd {
	return nil
}

func (s *ChoiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			state.EnvVars[s.envKey] = s.choices[s.cursor].Value
			return nil, nil
		}
	}
	return s, nil
}

func (s *ChoiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + "\n\n")
	for i, choice := range s.choices {
		line := fmt.Sprintf("%-8s %s", choice.Value, ui.DescStyle.Render(choice.Desc))
		if s.cursor == i {
			b.WriteString(ui.SelectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString(ui.ItemStyle.Render("  "+line) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
