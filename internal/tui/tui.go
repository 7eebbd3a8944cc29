// Package tui provides the Bubble Tea prompt that asks for a music
// directory when none is given on the command line.
package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user leaves the prompt without
// choosing a directory.
var ErrCancelled = errors.New("cancelled by user")

// Styles for the prompt
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

// Model is the Bubble Tea model for the directory prompt.
type Model struct {
	textInput textinput.Model
	err       error
	dir       string
	cancelled bool
}

// NewModel creates a prompt pre-filled with initial.
func NewModel(initial string) Model {
	ti := textinput.New()
	ti.Placeholder = "~/Music"
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = 60
	ti.SetValue(initial)

	return Model{textInput: ti}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit

		case tea.KeyEnter:
			dir, err := ValidateDir(m.textInput.Value())
			if err != nil {
				m.err = err
				return m, nil
			}
			m.dir = dir
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// View renders the UI.
func (m Model) View() string {
	if m.dir != "" || m.cancelled {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("🎵 Flare"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Enter music directory:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("✗ " + m.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(dimStyle.Render("enter: play • esc: quit"))
	return b.String()
}

// Dir returns the chosen directory, or "" if none was chosen.
func (m Model) Dir() string {
	return m.dir
}

// ValidateDir expands a leading ~ and checks that path is a directory.
func ValidateDir(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("no directory given")
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand home: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	return abs, nil
}

// PromptDirectory runs the prompt and returns the chosen directory.
func PromptDirectory(initial string) (string, error) {
	p := tea.NewProgram(NewModel(initial))
	final, err := p.Run()
	if err != nil {
		return "", err
	}

	m := final.(Model)
	if m.dir == "" {
		return "", ErrCancelled
	}
	return m.dir, nil
}
