package bubbletea

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lzhao/llmbatch"
)

// ProcessFunc handles one input file, returning the path the result was
// written to.
type ProcessFunc func(path string) (outputPath string, err error)

// fileDoneMsg reports one processed file.
type fileDoneMsg struct {
	path       string
	outputPath string
	err        error
}

// fileResult is a completed file shown in the results log.
type fileResult struct {
	path       string
	outputPath string
	err        error
}

// SendModel is the Bubble Tea model driving sequential batch sending.
// Files are processed one at a time; each completion advances the
// progress bar and appends to the results log.
type SendModel struct {
	files   []string
	process ProcessFunc

	index   int
	results []fileResult
	done    bool
	aborted bool

	progress progress.Model
	viewport viewport.Model
	ready    bool
	width    int
	height   int

	styles llmbatch.Styles
	keymap SendKeyMap
}

// NewSendModel creates a send model over the given files.
func NewSendModel(files []string, process ProcessFunc, theme llmbatch.Theme) SendModel {
	return SendModel{
		files:    files,
		process:  process,
		progress: progress.New(progress.WithDefaultGradient()),
		styles:   theme.Styles(),
		keymap:   DefaultSendKeyMap(),
	}
}

// Results returns per-file outcomes recorded so far.
func (m SendModel) Results() (succeeded, failed int) {
	for _, r := range m.results {
		if r.err != nil {
			failed++
		} else {
			succeeded++
		}
	}
	return succeeded, failed
}

// Aborted reports whether the user quit before all files completed.
func (m SendModel) Aborted() bool {
	return m.aborted
}

// Init implements tea.Model.
func (m SendModel) Init() tea.Cmd {
	if len(m.files) == 0 {
		return tea.Quit
	}
	return m.processNext()
}

// processNext runs the next file off the UI goroutine.
func (m SendModel) processNext() tea.Cmd {
	path := m.files[m.index]
	return func() tea.Msg {
		outputPath, err := m.process(path)
		return fileDoneMsg{path: path, outputPath: outputPath, err: err}
	}
}

// Update implements tea.Model.
func (m SendModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			if !m.done {
				m.aborted = true
			}
			return m, tea.Quit

		case key.Matches(msg, m.keymap.Up):
			m.viewport.ScrollUp(1)
			return m, nil

		case key.Matches(msg, m.keymap.Down):
			m.viewport.ScrollDown(1)
			return m, nil

		case key.Matches(msg, m.keymap.HalfPageUp):
			m.viewport.HalfPageUp()
			return m, nil

		case key.Matches(msg, m.keymap.HalfPageDown):
			m.viewport.HalfPageDown()
			return m, nil
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case fileDoneMsg:
		m.results = append(m.results, fileResult{
			path:       msg.path,
			outputPath: msg.outputPath,
			err:        msg.err,
		})
		m.index++
		m.updateViewportContent()

		percent := float64(m.index) / float64(len(m.files))
		cmds := []tea.Cmd{m.progress.SetPercent(percent)}

		if m.index < len(m.files) {
			cmds = append(cmds, m.processNext())
		} else {
			m.done = true
		}
		return m, tea.Batch(cmds...)

	case progress.FrameMsg:
		model, cmd := m.progress.Update(msg)
		m.progress = model.(progress.Model)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m SendModel) handleWindowSize(msg tea.WindowSizeMsg) SendModel {
	m.width = msg.Width
	m.height = msg.Height
	m.progress.Width = msg.Width - 4

	// Reserve header (1), progress (2), status bar (2)
	viewportHeight := msg.Height - 5
	if viewportHeight < 2 {
		viewportHeight = 2
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, viewportHeight)
		m.updateViewportContent()
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = viewportHeight
	}
	return m
}

func (m *SendModel) updateViewportContent() {
	var s strings.Builder
	for _, r := range m.results {
		name := filepath.Base(r.path)
		if r.err != nil {
			s.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.styles.Error.Foreground)).
				Render(fmt.Sprintf("✗ %s: %v", name, r.err)))
		} else {
			s.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.styles.Success.Foreground)).
				Render(fmt.Sprintf("✓ %s → %s", name, filepath.Base(r.outputPath))))
		}
		s.WriteString("\n")
	}
	m.viewport.SetContent(s.String())
	m.viewport.GotoBottom()
}

// View implements tea.Model.
func (m SendModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var s strings.Builder

	header := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color(m.styles.Header.Foreground)).
		Render("Batch send")
	s.WriteString(header)
	s.WriteString("\n\n")

	s.WriteString(m.progress.View())
	s.WriteString("\n\n")

	s.WriteString(m.viewport.View())
	s.WriteString("\n")

	s.WriteString(m.renderStatusBar())
	return s.String()
}

func (m SendModel) renderStatusBar() string {
	succeeded, failed := m.Results()
	status := fmt.Sprintf("%d/%d files │ %d ok │ %d failed", m.index, len(m.files), succeeded, failed)
	if m.done {
		status += " │ done, press q"
	} else {
		status += " │ [q] abort"
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.Muted.Foreground)).
		Render(status)
}
