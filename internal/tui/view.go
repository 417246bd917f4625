package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/taskforge/internal/constants"
	"github.com/julianstephens/taskforge/internal/views"
)

var tabTitles = map[constants.ViewState]string{
	constants.StateDashboard: "Dashboard",
	constants.StatePlan:      "My Plan",
	constants.StateSchedule:  "Schedule",
	constants.StateToday:     "Today",
	constants.StateAnalytics: "Analytics",
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateLogin, constants.StateSignup:
		content = m.viewAuth()
	case constants.StateDashboard:
		content = m.viewDashboard()
	case constants.StatePlan:
		content = m.viewPlan()
	case constants.StateSchedule, constants.StateToday:
		content = m.viewTasks()
	case constants.StateAnalytics:
		content = m.viewAnalytics()
	case constants.StateEditDeadline:
		content = m.form.View()
	case constants.StateConfirmLogout:
		content = m.viewConfirmLogout()
	}

	parts := []string{m.viewHeader()}
	if m.state != constants.StateLogin && m.state != constants.StateSignup {
		parts = append(parts, m.viewTabs())
	}
	parts = append(parts, docStyle.Render(content))
	if m.notice != "" {
		parts = append(parts, warningStyle.Render(m.notice))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewHeader() string {
	left := brandStyle.Render("TaskForge AI")
	right := m.header.Label()
	if m.session.Authenticated() {
		right += " " + avatarStyle.Render(m.header.Initial())
	}
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) viewTabs() string {
	active := m.state
	if active == constants.StateEditDeadline || active == constants.StateConfirmLogout {
		active = m.previousState
	}
	var tabs []string
	for _, state := range mainStates {
		if state == active {
			tabs = append(tabs, activeTabStyle.Render(tabTitles[state]))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tabTitles[state]))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// viewStatus renders loading, empty and failed states. It returns "" when the screen has
// data to show.
func (m Model) viewStatus(hint string) string {
	switch {
	case m.loading:
		label := m.status.Message
		if label == "" {
			label = "Loading..."
		}
		return m.spinner.View() + " " + label
	case m.status.Status == views.StatusEmpty:
		if hint != "" {
			return emptyStyle.Render(m.status.Message + "\n" + hint)
		}
		return emptyStyle.Render(m.status.Message)
	case m.status.Status == views.StatusFailed:
		return dangerStyle.Render(m.status.Message)
	}
	return ""
}

func (m Model) viewAuth() string {
	hint := "esc: create an account"
	if m.state == constants.StateSignup {
		hint = "esc: back to log in"
	}
	body := m.form.View()
	if m.loading {
		body = m.spinner.View() + " Signing in..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, "", inactiveTabStyle.Render(hint))
}

func (m Model) viewDashboard() string {
	parts := []string{"What do you need to get done today?", m.input.View()}
	if status := m.viewStatus(""); status != "" {
		parts = append(parts, "", status)
	}
	if m.planModel.HasPlan() {
		parts = append(parts, "", m.planModel.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewPlan() string {
	if status := m.viewStatus(constants.MsgNoPlanHint); status != "" {
		return status
	}
	return m.planModel.View()
}

func (m Model) viewTasks() string {
	if status := m.viewStatus(""); status != "" {
		return status
	}
	return m.taskList.View()
}

func (m Model) viewAnalytics() string {
	if status := m.viewStatus(""); status != "" {
		return status
	}
	return m.chart.View()
}

func (m Model) viewConfirmLogout() string {
	return lipgloss.Place(m.width, max(m.height-6, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Log out of TaskForge?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
