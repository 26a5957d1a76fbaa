package installer

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/telmii/telmii/internal/config"
	"github.com/telmii/telmii/internal/service/ui"
)

// Step represents a single step in the setup wizard
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

type errMsg error
type nextMsg struct{}

func next() tea.Msg { return nextMsg{} }

func getSteps(runtimePath string) []Step {
	redis := func(s *InstallState) bool { return s.Is("HISTORY_BACKEND", config.HistoryBackendRedis) }
	gateway := func(s *InstallState) bool { return s.Is("LLM_TRANSPORT", config.LLMTransportGateway) }
	direct := func(s *InstallState) bool { return s.Is("LLM_TRANSPORT", config.LLMTransportDirect) }
	openAIKeyNeeded := func(s *InstallState) bool { return direct(s) || s.Is("EMBEDDING_PROVIDER", "openai") }

	return []Step{
		NewChoiceStep("Where should chat transcripts be kept?", "HISTORY_BACKEND", []Choice{
			{Value: config.HistoryBackendRedis, Desc: "Redis sorted sets, shared between processes"},
			{Value: config.HistoryBackendSQLite, Desc: "local SQLite file in the runtime directory"},
		}),
		NewInputStep(InputOptions{
			Title:       "Redis URL",
			EnvKey:      "REDIS_URL",
			Placeholder: "redis://localhost:6379/0",
			When:        redis,
		}),
		NewChoiceStep("Which embedding model should long-term memory use?", "EMBEDDING_PROVIDER", []Choice{
			{Value: "openai", Desc: "OpenAI compatible /embeddings endpoint"},
			{Value: "hash", Desc: "offline hashed bag of words, for local testing"},
		}),
		NewChoiceStep("How should replies be generated?", "LLM_TRANSPORT", []Choice{
			{Value: config.LLMTransportGateway, Desc: "through the LLM gateway service"},
			{Value: config.LLMTransportDirect, Desc: "call each provider API directly"},
		}),
		NewInputStep(InputOptions{
			Title:       "LLM gateway URL",
			EnvKey:      "GATEWAY_URL",
			Placeholder: "http://127.0.0.1:8000",
			Optional:    true,
			When:        gateway,
		}),
		NewInputStep(InputOptions{
			Title:       "OpenAI API key",
			EnvKey:      "OPENAI_API_KEY",
			Placeholder: "sk-...",
			Secret:      true,
			When:        openAIKeyNeeded,
		}),
		NewInputStep(InputOptions{
			Title:       "Anthropic API key",
			EnvKey:      "ANTHROPIC_API_KEY",
			Placeholder: "sk-ant-...",
			Secret:      true,
			Optional:    true,
			When:        direct,
		}),
		NewInputStep(InputOptions{
			Title:       "xAI API key",
			EnvKey:      "XAI_API_KEY",
			Placeholder: "xai-...",
			Secret:      true,
			Optional:    true,
			When:        direct,
		}),
		NewInputStep(InputOptions{
			Title:       "Google Generative AI API key",
			EnvKey:      "GOOGLE_GENERATIVE_AI_API_KEY",
			Placeholder: "AIza...",
			Secret:      true,
			Optional:    true,
			When:        direct,
		}),
		NewSaveEnvStep(runtimePath),
	}
}

// model is the main Bubble Tea model that orchestrates the steps
type model struct {
	steps       []Step
	currentStep int
	state       *InstallState
	quitting    bool
	err         error
	width       int
	height      int
}

func initialModel(runtimePath string) model {
	return model{
		steps:       getSteps(runtimePath),
		currentStep: 0,
		state:       NewInstallState(),
	}
}

func (m model) Init() tea.Cmd {
	if len(m.steps) > 0 && m.steps[0] != nil {
		return m.steps[0].Init()
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case errMsg:
		m.err = msg
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	if m.currentStep >= len(m.steps) {
		return m, tea.Quit
	}

	nextStep, cmd := m.steps[m.currentStep].Update(msg, m.state, m.width, m.height)

	if nextStep == nil {
		// Step indicated completion, move to next
		m.currentStep++
		if m.currentStep >= len(m.steps) {
			return m, tea.Quit
		}
		return m, m.steps[m.currentStep].Init()
	}

	if nextStep != m.steps[m.currentStep] {
		m.steps[m.currentStep] = nextStep
	}

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return "Setup cancelled.\n"
	}

	if m.err != nil {
		return ui.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(press ctrl+c to quit)\n"
	}

	if m.currentStep >= len(m.steps) {
		return "Configuration complete!\n"
	}

	return ui.TitleStyle.Render("Setting up Telmii") + "\n\n" + m.steps[m.currentStep].View(m.state)
}

// RunWizard starts the TUI and writes the answers to runtimePath/.env.
func RunWizard(runtimePath string) (*InstallState, error) {
	p := tea.NewProgram(initialModel(runtimePath), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	finalModel := m.(model)
	if finalModel.quitting {
		return nil, fmt.Errorf("telmii setup interrupted")
	}
	if finalModel.currentStep < len(finalModel.steps) {
		return nil, fmt.Errorf("telmii setup did not finish")
	}

	return finalModel.state, nil
}
