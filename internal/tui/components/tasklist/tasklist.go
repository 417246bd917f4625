package tasklist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/taskforge/internal/models"
	"github.com/julianstephens/taskforge/internal/tui/components/theme"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("205")).
	Bold(true)

// Model is a read-only, scrollable list of tasks
type Model struct {
	viewport viewport.Model
	title    string
	tasks    []models.Task
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetTasks(title string, tasks []models.Task) {
	m.title = title
	m.tasks = tasks
	m.viewport.GotoTop()
	m.Render()
}

func (m Model) Len() int {
	return len(m.tasks)
}

func (m *Model) Render() {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n\n")
	for _, task := range m.tasks {
		desc := task.Description
		mark := " "
		if task.IsCompleted {
			desc = theme.Done.Render(desc)
			mark = theme.Success.Render("✓")
		}
		line := fmt.Sprintf("%s %s  %s", mark, desc, theme.CategoryBadge(task.Category))
		if task.HasDeadline() {
			line += "  " + theme.Deadline.Render("Deadline: "+*task.Deadline)
		}
		b.WriteString(line + "\n")
	}
	m.viewport.SetContent(b.String())
}
