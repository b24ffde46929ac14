package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// CheckboxOption is one choice of a checkbox picker
type CheckboxOption struct {
	Label   string
	Value   string
	Checked bool
}

type pickerKeys struct {
	Up, Down, Toggle, All, Confirm, Cancel key.Binding
}

func (k pickerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.All, k.Confirm, k.Cancel}
}

func (k pickerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, k.ShortHelp()}
}

var checkboxKeys = pickerKeys{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	All:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
	Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Cancel:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "cancel")),
}

// CheckboxModel is a multi-select picker. Confirming needs at least
// minSelect checked options.
type CheckboxModel struct {
	title     string
	options   []CheckboxOption
	minSelect int
	cursor    int
	confirmed bool
	help      help.Model
}

// NewCheckboxModel creates a picker over a copy of options
func NewCheckboxModel(title string, options []CheckboxOption, minSelect int) CheckboxModel {
	return CheckboxModel{
		title:     title,
		options:   append([]CheckboxOption(nil), options...),
		minSelect: minSelect,
		help:      help.New(),
	}
}

func (m CheckboxModel) Init() tea.Cmd { return nil }

func (m CheckboxModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	k := checkboxKeys
	switch {
	case key.Matches(keyMsg, k.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(keyMsg, k.Down):
		m.cursor = min(m.cursor+1, max(len(m.options)-1, 0))
	case key.Matches(keyMsg, k.Toggle):
		if m.cursor < len(m.options) {
			m.options[m.cursor].Checked = !m.options[m.cursor].Checked
		}
	case key.Matches(keyMsg, k.All):
		m.setAll(m.checked() < len(m.options))
	case key.Matches(keyMsg, k.Confirm):
		if m.checked() >= m.minSelect {
			m.confirmed = true
			return m, tea.Quit
		}
	case key.Matches(keyMsg, k.Cancel):
		m.confirmed = false
		return m, tea.Quit
	}
	return m, nil
}

func (m *CheckboxModel) setAll(checked bool) {
	for i := range m.options {
		m.options[i].Checked = checked
	}
}

func (m CheckboxModel) checked() int {
	n := 0
	for _, opt := range m.options {
		if opt.Checked {
			n++
		}
	}
	return n
}

func (m CheckboxModel) View() string {
	lines := []string{titleStyle.Render(m.title), ""}

	for i, opt := range m.options {
		pointer := "  "
		if i == m.cursor {
			pointer = accentStyle.Render("> ")
		}
		style := uncheckedStyle
		if opt.Checked {
			style = checkedStyle
		}
		lines = append(lines, pointer+style.Render(FormatCheck(opt.Checked)+" "+opt.Label))
	}

	lines = append(lines, "")
	if m.checked() < m.minSelect {
		lines = append(lines, warningStyle.Render(fmt.Sprintf("(select at least %d)", m.minSelect)))
	}
	lines = append(lines, m.help.View(checkboxKeys))
	return strings.Join(lines, "\n") + "\n"
}

// Selected returns the values of the checked options, in option order
func (m CheckboxModel) Selected() []string {
	var values []string
	for _, opt := range m.options {
		if opt.Checked {
			values = append(values, opt.Value)
		}
	}
	return values
}

// Cancelled reports whether the picker closed without confirming
func (m CheckboxModel) Cancelled() bool {
	return !m.confirmed
}

// RunCheckbox runs the picker and returns the selected values, or nil when
// cancelled
func RunCheckbox(title string, options []CheckboxOption, minSelect int) ([]string, error) {
	final, err := tea.NewProgram(NewCheckboxModel(title, options, minSelect)).Run()
	if err != nil {
		return nil, err
	}

	m := final.(CheckboxModel)
	if m.Cancelled() {
		return nil, nil
	}
	return m.Selected(), nil
}
