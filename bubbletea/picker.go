// Package bubbletea provides the interactive terminal UI for batch sending.
package bubbletea

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type pickerItem string

func (i pickerItem) FilterValue() string { return string(i) }

type pickerDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func (d pickerDelegate) Height() int                             { return 1 }
func (d pickerDelegate) Spacing() int                            { return 0 }
func (d pickerDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d pickerDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	if index == m.Index() {
		fmt.Fprint(w, d.selected.Render(fmt.Sprintf("> %s", item.(pickerItem))))
		return
	}
	fmt.Fprint(w, d.normal.Render(fmt.Sprintf("  %s", item.(pickerItem))))
}

// Picker is a Bubble Tea model that selects one option from a list.
type Picker struct {
	list    list.Model
	keymap  KeyMap
	choice  string
	aborted bool
}

// NewPicker creates a picker titled title over the given options.
func NewPicker(title string, options []string) Picker {
	items := make([]list.Item, len(options))
	for i, option := range options {
		items[i] = pickerItem(option)
	}

	delegate := pickerDelegate{
		normal:   lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().Bold(true),
	}

	l := list.New(items, delegate, 40, len(options)+6)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return Picker{list: l, keymap: DefaultKeyMap()}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.list.SetSize(msg.Width, msg.Height)
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keymap.Quit):
			p.aborted = true
			return p, tea.Quit

		case key.Matches(msg, p.keymap.Select):
			if item, ok := p.list.SelectedItem().(pickerItem); ok {
				p.choice = string(item)
			}
			return p, tea.Quit
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

// View implements tea.Model.
func (p Picker) View() string {
	var s strings.Builder
	s.WriteString(p.list.View())
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Faint(true).Render("[enter] select  [q] quit"))
	return s.String()
}

// Choice returns the selected option. ok is false when the picker was
// quit without a selection.
func (p Picker) Choice() (choice string, ok bool) {
	if p.aborted || p.choice == "" {
		return "", false
	}
	return p.choice, true
}
