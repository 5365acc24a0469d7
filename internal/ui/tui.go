// Package ui provides the interactive terminal task browser.
package ui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskman-go/internal/ops"
	"github.com/nibzard/taskman-go/internal/task"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	completedStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	helpStyle      = lipgloss.NewStyle().Faint(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	priorityStyles = map[task.Priority]lipgloss.Style{
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}
)

// statusFilters cycled by the "a" key: all, active only, completed only.
var statusFilters = []string{"", string(task.StatusActive), string(task.StatusCompleted)}

// Run starts the interactive task browser. It requires a TTY on stdout.
func Run(ctx context.Context, svc *ops.Service) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	m := newModel(svc)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

type tasksLoadedMsg []*task.Task

type opErrMsg struct{ err error }

// model is the bubbletea model for the task browser.
type model struct {
	svc       *ops.Service
	tasks     []*task.Task
	cursor    int
	filterIdx int
	errText   string
}

func newModel(svc *ops.Service) *model {
	return &model{svc: svc}
}

// Init triggers the initial load.
func (m *model) Init() tea.Cmd {
	return m.reload()
}

// reload fetches the task list with the current status filter applied.
func (m *model) reload() tea.Cmd {
	status := statusFilters[m.filterIdx]
	return func() tea.Msg {
		tasks, err := m.svc.ListTasks(status, "", "created_at")
		if err != nil {
			return opErrMsg{err: err}
		}
		return tasksLoadedMsg(tasks)
	}
}

// Update handles key presses and operation results.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		m.tasks = msg
		if m.cursor >= len(m.tasks) {
			m.cursor = len(m.tasks) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case opErrMsg:
		m.errText = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "j", "down":
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "c":
			if t := m.selected(); t != nil {
				return m, m.toggle(t)
			}
		case "d":
			if t := m.selected(); t != nil {
				return m, m.delete(t)
			}
		case "a":
			m.filterIdx = (m.filterIdx + 1) % len(statusFilters)
			return m, m.reload()
		case "r":
			return m, m.reload()
		}
	}
	return m, nil
}

func (m *model) selected() *task.Task {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return nil
	}
	return m.tasks[m.cursor]
}

// toggle flips the selected task's status and reloads.
func (m *model) toggle(t *task.Task) tea.Cmd {
	next := task.StatusCompleted
	if t.Status == task.StatusCompleted {
		next = task.StatusActive
	}
	id := t.ID
	return func() tea.Msg {
		if _, err := m.svc.UpdateTaskStatus(id, next); err != nil {
			return opErrMsg{err: err}
		}
		tasks, err := m.svc.ListTasks(statusFilters[m.filterIdx], "", "created_at")
		if err != nil {
			return opErrMsg{err: err}
		}
		return tasksLoadedMsg(tasks)
	}
}

// delete removes the selected task and reloads.
func (m *model) delete(t *task.Task) tea.Cmd {
	id := t.ID
	return func() tea.Msg {
		if err := m.svc.DeleteTask(id); err != nil {
			return opErrMsg{err: err}
		}
		tasks, err := m.svc.ListTasks(statusFilters[m.filterIdx], "", "created_at")
		if err != nil {
			return opErrMsg{err: err}
		}
		return tasksLoadedMsg(tasks)
	}
}

// View renders the task list with the selection highlighted.
func (m *model) View() string {
	s := titleStyle.Render("taskman") + "  " + helpStyle.Render(m.filterLabel()) + "\n\n"

	if len(m.tasks) == 0 {
		s += helpStyle.Render("No tasks.") + "\n"
	}
	for i, t := range m.tasks {
		line := m.renderTask(t)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		s += line + "\n"
	}

	if m.errText != "" {
		s += "\n" + errorStyle.Render("error: "+m.errText) + "\n"
	}
	s += "\n" + helpStyle.Render("j/k move · c toggle · d delete · a filter · r reload · q quit")
	return s
}

func (m *model) renderTask(t *task.Task) string {
	mark := "[ ]"
	if t.Status == task.StatusCompleted {
		mark = "[x]"
	}
	prio := priorityStyles[t.Priority].Render(fmt.Sprintf("%-6s", t.Priority))
	title := t.Title
	if t.Status == task.StatusCompleted {
		title = completedStyle.Render(title)
	}
	due := ""
	if t.DueDate != nil {
		due = helpStyle.Render(" due " + t.DueDate.Format("2006-01-02"))
	}
	return fmt.Sprintf("%s %s %s%s", mark, prio, title, due)
}

func (m *model) filterLabel() string {
	switch statusFilters[m.filterIdx] {
	case string(task.StatusActive):
		return "(active)"
	case string(task.StatusCompleted):
		return "(completed)"
	}
	return "(all)"
}
