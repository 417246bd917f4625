package plan

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/taskforge/internal/models"
	"github.com/julianstephens/taskforge/internal/tui/components/theme"
)

var (
	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	taskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// Model renders an editable plan with a selection cursor
type Model struct {
	plan    *models.Plan
	cursor  int
	pending int
	width   int
}

func New() Model {
	return Model{}
}

func (m *Model) SetPlan(p models.Plan) {
	m.plan = &p
	if m.cursor >= len(p.DailySchedule) {
		m.cursor = max(len(p.DailySchedule)-1, 0)
	}
}

func (m *Model) Clear() {
	m.plan = nil
	m.cursor = 0
	m.pending = 0
}

// SetPending sets the number of unsaved edits shown next to the summary
func (m *Model) SetPending(n int) {
	m.pending = n
}

func (m *Model) SetWidth(width int) {
	m.width = width
}

func (m Model) HasPlan() bool {
	return m.plan != nil
}

func (m Model) Cursor() int {
	return m.cursor
}

// Selected returns the task under the cursor
func (m Model) Selected() (models.Task, bool) {
	if m.plan == nil || !m.plan.InRange(m.cursor) {
		return models.Task{}, false
	}
	return m.plan.DailySchedule[m.cursor], true
}

func (m *Model) Up() {
	if m.cursor > 0 {
		m.cursor--
	}
}

func (m *Model) Down() {
	if m.plan != nil && m.cursor < len(m.plan.DailySchedule)-1 {
		m.cursor++
	}
}

func (m Model) View() string {
	if m.plan == nil {
		return ""
	}

	var b strings.Builder
	if m.plan.Summary != "" {
		b.WriteString(summaryStyle.Width(max(m.width, 20)).Render(m.plan.Summary))
		b.WriteString("\n")
	}
	status := fmt.Sprintf("%d/%d done", m.plan.CompletedCount(), len(m.plan.DailySchedule))
	if m.plan.Date != "" {
		status = m.plan.Date + " · " + status
	}
	if m.pending > 0 {
		status += pendingStyle.Render(fmt.Sprintf(" · saving %d", m.pending))
	}
	b.WriteString(theme.Muted.Render(status) + "\n\n")

	for i, task := range m.plan.DailySchedule {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		check := "[ ]"
		desc := taskStyle.Render(task.Description)
		if task.IsCompleted {
			check = theme.Success.Render("[x]")
			desc = theme.Done.Render(task.Description)
		}
		line := fmt.Sprintf("%s%s %s  %s", cursor, check, desc, theme.CategoryBadge(task.Category))
		if task.HasDeadline() {
			line += "  " + theme.Deadline.Render("due "+*task.Deadline)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
