// Package ui provides the optional terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskdeck/internal/task"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Strikethrough(true)
	reminderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// RunTUI starts the terminal interface over the store.
func RunTUI(ctx context.Context, store *task.Store) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newModel(store)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// IsTTY checks if the writer is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}

type model struct {
	store *task.Store

	tasks   []task.Task
	cursor  int
	lastErr error

	tickInterval time.Duration
	showHelp     bool
}

type tickMsg time.Time

func newModel(store *task.Store) *model {
	return &model{
		store:        store,
		tasks:        store.Tasks(),
		tickInterval: time.Second,
	}
}

func (m *model) Init() tea.Cmd {
	return tickCmd(m.tickInterval)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
			return m, nil
		case " ", "enter":
			m.toggleCurrent()
			return m, nil
		case "d", "delete":
			m.deleteCurrent()
			return m, nil
		case "r", "f5":
			m.refresh()
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}

	return m, nil
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("taskdeck"))
	b.WriteString("\n\n")

	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}

	if len(m.tasks) == 0 {
		b.WriteString(dimStyle.Render("No tasks. Add one with: taskdeck add <name>"))
		b.WriteString("\n")
	}

	for i, t := range m.tasks {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		check := "[ ]"
		if t.IsCompleted {
			check = "[x]"
		}

		line := fmt.Sprintf("%s %s  %3.0f%%", check, t.Name, t.Progress*100)
		if t.IsCompleted {
			line = doneStyle.Render(line)
		}
		b.WriteString(cursor + line)

		if t.Reminder != nil {
			b.WriteString("  " + reminderStyle.Render("⏰ "+t.Reminder.Local().Format("Jan 2 15:04")))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.lastErr != nil {
		b.WriteString(errStyle.Render("save failed: "+m.lastErr.Error()) + "\n")
	}
	b.WriteString(dimStyle.Render("space toggle · d delete · r refresh · h help · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *model) refresh() {
	m.tasks = m.store.Tasks()
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) toggleCurrent() {
	if m.cursor >= len(m.tasks) {
		return
	}
	id := m.tasks[m.cursor].ID
	m.lastErr = m.store.Update(id, func(t *task.Task) {
		t.ToggleCompleted()
	})
	m.refresh()
}

func (m *model) deleteCurrent() {
	if m.cursor >= len(m.tasks) {
		return
	}
	m.lastErr = m.store.Delete(m.cursor)
	m.refresh()
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keys:\n")
	b.WriteString("  up/k, down/j   Move cursor\n")
	b.WriteString("  space, enter   Toggle completion\n")
	b.WriteString("  d              Delete task\n")
	b.WriteString("  r, f5          Refresh\n")
	b.WriteString("  h, ?           Toggle this help\n")
	b.WriteString("  q, ctrl+c      Quit\n")
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
