package command

import (
	"fmt"
	"strings"

	"github.com/telmii/telmii/internal/service/ui"
)

// ResponseFormatter renders command output for the terminal.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

func (f *ResponseFormatter) Title(title string) string {
	return ui.TitleStyle.Render(title) + "\n"
}

func (f *ResponseFormatter) Success(message string) string {
	return ui.LabelStyle.Render("[System] "+message) + "\n"
}

func (f *ResponseFormatter) Error(err error) string {
	return ui.ErrorStyle.Render("Error: "+err.Error()) + "\n"
}

func (f *ResponseFormatter) Label(label, value string) string {
	return fmt.Sprintf("%s  %s\n", ui.LabelStyle.Render(label+":"), value)
}

func (f *ResponseFormatter) Usage(command string) string {
	return ui.DescStyle.Render("Usage: "+command) + "\n"
}

func (f *ResponseFormatter) List(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("  - " + item + "\n")
	}
	return sb.String()
}

func (f *ResponseFormatter) Combine(sections ...string) string {
	return strings.Join(sections, "")
}
