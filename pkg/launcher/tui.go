package launcher

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUI is the built-in terminal picker, for when no graphical launcher is around
type TUI struct{}

func NewTUI() *TUI {
	return &TUI{}
}

func (t *TUI) Name() string {
	return "tui"
}

// Show runs the picker on the controlling terminal
func (t *TUI) Show(options []string, prompt string) (string, error) {
	program := tea.NewProgram(newPickerModel(options, prompt),
		tea.WithAltScreen(),
		tea.WithInputTTY(),
		tea.WithOutput(os.Stderr),
	)

	final, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("tui picker failed: %w", err)
	}

	m, ok := final.(pickerModel)
	if !ok || m.cancelled || m.choice == "" {
		return "", ErrCancelled
	}
	return m.choice, nil
}

var (
	pickerPrompt   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3465a4")).Bold(true)
	pickerSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#3465a4"))
	pickerOption   = lipgloss.NewStyle().Foreground(lipgloss.Color("#d3d7cf"))
	pickerMuted    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888a85"))
)

type pickerModel struct {
	input     textinput.Model
	options   []string
	matches   []int
	cursor    int
	offset    int
	height    int
	choice    string
	cancelled bool
}

func newPickerModel(options []string, prompt string) pickerModel {
	input := textinput.New()
	input.Prompt = pickerPrompt.Render(prompt) + " "
	input.Focus()

	m := pickerModel{
		input:   input,
		options: options,
		height:  20,
	}
	m.filter()
	return m
}

func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-2, 1)
		m.scroll()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			if len(m.matches) > 0 {
				m.choice = m.options[m.matches[m.cursor]]
			} else {
				// free text, like dmenu
				m.choice = m.input.Value()
			}
			return m, tea.Quit
		case tea.KeyUp, tea.KeyCtrlP, tea.KeyShiftTab:
			if m.cursor > 0 {
				m.cursor--
			}
			m.scroll()
			return m, nil
		case tea.KeyDown, tea.KeyCtrlN, tea.KeyTab:
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			m.scroll()
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.filter()
	}
	return m, cmd
}

// filter ranks the options against the query with the same fuzzy matcher
// bubbles' list uses. An empty query shows every option in its original order.
func (m *pickerModel) filter() {
	query := strings.TrimSpace(m.input.Value())

	m.matches = m.matches[:0]
	if query == "" {
		for i := range m.options {
			m.matches = append(m.matches, i)
		}
	} else {
		for _, rank := range list.DefaultFilter(query, m.options) {
			m.matches = append(m.matches, rank.Index)
		}
	}
	m.cursor = 0
	m.offset = 0
}

func (m *pickerModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString(pickerMuted.Render(fmt.Sprintf("  %d/%d", len(m.matches), len(m.options))))
	b.WriteString("\n")

	end := min(m.offset+m.height, len(m.matches))
	for i := m.offset; i < end; i++ {
		line := m.options[m.matches[i]]
		if i == m.cursor {
			b.WriteString(pickerSelected.Render(line))
		} else {
			b.WriteString(pickerOption.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
