package adapter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrPromptAborted is returned when the user quits the directory prompt
// before adding at least one directory.
var ErrPromptAborted = errors.New("no allowed directories provided")

var (
	promptTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	promptDirStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	promptHelpStyle  = lipgloss.NewStyle().Faint(true)
)

// dirPromptModel collects project directories interactively. Enter adds the
// typed directory, an empty enter finishes once at least one directory was
// added, esc aborts.
type dirPromptModel struct {
	input   textinput.Model
	dirs    []string
	done    bool
	aborted bool
}

func newDirPromptModel() dirPromptModel {
	ti := textinput.New()
	ti.Placeholder = "/path/to/project"
	ti.Prompt = "> "
	ti.Focus()

	return dirPromptModel{input: ti}
}

// Init implements tea.Model.
func (p dirPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (p dirPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			p.aborted = true
			return p, tea.Quit
		case tea.KeyEnter:
			value := strings.TrimSpace(p.input.Value())
			if value == "" {
				if len(p.dirs) == 0 {
					return p, nil
				}

				p.done = true

				return p, tea.Quit
			}

			p.dirs = append(p.dirs, value)
			p.input.SetValue("")

			return p, nil
		}
	}

	var cmd tea.Cmd

	p.input, cmd = p.input.Update(msg)

	return p, cmd
}

// View implements tea.Model.
func (p dirPromptModel) View() string {
	if p.done || p.aborted {
		return ""
	}

	var b strings.Builder

	b.WriteString(promptTitleStyle.Render("Allowed project directories"))
	b.WriteString("\n")

	for _, dir := range p.dirs {
		b.WriteString(promptDirStyle.Render(fmt.Sprintf("  %s", dir)))
		b.WriteString("\n")
	}

	b.WriteString(p.input.View())
	b.WriteString("\n")
	b.WriteString(promptHelpStyle.Render("enter: add directory • empty enter: finish • esc: abort"))
	b.WriteString("\n")

	return b.String()
}

// PromptDirs interactively collects at least one project directory. It is
// used when the server starts without any --allowed-dir flag or config entry.
func PromptDirs(in io.Reader, out io.Writer) ([]string, error) {
	program := tea.NewProgram(newDirPromptModel(), tea.WithInput(in), tea.WithOutput(out))

	final, err := program.Run()
	if err != nil {
		return nil, err
	}

	prompt, ok := final.(dirPromptModel)
	if !ok || prompt.aborted || len(prompt.dirs) == 0 {
		return nil, ErrPromptAborted
	}

	return prompt.dirs, nil
}
