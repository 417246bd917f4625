package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/taskforge/internal/constants"
	apperrors "github.com/julianstephens/taskforge/internal/errors"
	"github.com/julianstephens/taskforge/internal/logger"
	"github.com/julianstephens/taskforge/internal/models"
	"github.com/julianstephens/taskforge/internal/planner"
	"github.com/julianstephens/taskforge/internal/views"
)

// mainStates are the screens reachable with tab, in order
var mainStates = []constants.ViewState{
	constants.StateDashboard,
	constants.StatePlan,
	constants.StateSchedule,
	constants.StateToday,
	constants.StateAnalytics,
}

var routeStates = map[constants.Route]constants.ViewState{
	constants.RouteLogin:     constants.StateLogin,
	constants.RouteSignup:    constants.StateSignup,
	constants.RouteDashboard: constants.StateDashboard,
	constants.RoutePlan:      constants.StatePlan,
	constants.RouteSchedule:  constants.StateSchedule,
	constants.RouteToday:     constants.StateToday,
	constants.RouteAnalytics: constants.StateAnalytics,
}

func stateForRoute(route constants.Route) constants.ViewState {
	if state, ok := routeStates[route]; ok {
		return state
	}
	return constants.StateDashboard
}

func cycleState(current constants.ViewState, step int) constants.ViewState {
	for i, s := range mainStates {
		if s == current {
			return mainStates[(i+step+len(mainStates))%len(mainStates)]
		}
	}
	return constants.StateDashboard
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.SetWidth(max(msg.Width-6, 20))
		m.planModel.SetWidth(msg.Width - 6)
		m.taskList.SetSize(max(msg.Width-4, 20), max(msg.Height-8, 5))
		m.chart.SetWidth(msg.Width - 4)
		return m, nil

	case sessionExpiredMsg:
		if m.state == constants.StateLogin || m.state == constants.StateSignup {
			return m, nil
		}
		logger.Warn("Session expired, returning to login")
		next, cmd := m.enter(constants.StateLogin)
		next.notice = constants.MsgLoginAgain
		return next, cmd

	case navigateMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		return m.enter(stateForRoute(msg.route))

	case authMsg:
		return m.handleAuth(msg)

	case planMsg:
		return m.handlePlan(msg)

	case tasksMsg:
		return m.handleTasks(msg)

	case analyticsMsg:
		return m.handleAnalytics(msg)

	case mutationMsg:
		return m.handleMutation(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	switch m.state {
	case constants.StateLogin, constants.StateSignup:
		return m.updateAuthForm(msg)
	case constants.StateEditDeadline:
		return m.updateDeadlineForm(msg)
	case constants.StateConfirmLogout:
		return m.updateConfirmLogout(msg)
	case constants.StateDashboard:
		if m.input.Focused() {
			return m.updateInput(msg)
		}
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	if m.state == constants.StateSchedule || m.state == constants.StateToday {
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// enter switches screens. Whatever the previous screen owned is dropped, including its
// plan editor, so late results for it are ignored.
func (m Model) enter(state constants.ViewState) (Model, tea.Cmd) {
	m.seq++
	m.notice = ""
	m.loading = false
	m.status = views.State{}
	if m.editor != nil {
		m.editor.Close()
		m.editor = nil
	}
	m.planModel.Clear()
	m.form = nil
	m.state = state

	switch state {
	case constants.StateLogin, constants.StateSignup:
		m.input.Blur()
		mode := views.ModeLogin
		if state == constants.StateSignup {
			mode = views.ModeSignup
		}
		m.newAuthForm(mode, "")
		return m, m.form.Init()
	case constants.StateDashboard:
		return m, m.input.Focus()
	case constants.StatePlan, constants.StateSchedule, constants.StateToday, constants.StateAnalytics:
		m.input.Blur()
		m.loading = true
		m.status = views.Loading("")
		return m, tea.Batch(m.loadCmd(), m.spinner.Tick)
	}
	return m, nil
}

func (m Model) updateAuthForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyMsg.String() == "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case m.loading:
			return m, nil
		case keyMsg.Type == tea.KeyEsc:
			if m.state == constants.StateLogin {
				return m.enter(constants.StateSignup)
			}
			return m.enter(constants.StateLogin)
		}
	}
	if m.loading || m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		creds := models.Credentials{Username: m.authForm.Username, Password: m.authForm.Password}
		m.loading = true
		m.notice = ""
		return m, tea.Batch(cmd, m.authCmd(m.authMode, creds), m.spinner.Tick)
	}
	return m, cmd
}

func (m Model) handleAuth(msg authMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.seq {
		return m, nil
	}
	m.loading = false
	res := msg.result

	if !res.OK {
		m.notice = res.Message
		m.newAuthForm(msg.mode, m.authForm.Username)
		return m, m.form.Init()
	}

	if msg.mode == views.ModeSignup {
		m.notice = res.Message
		m.newAuthForm(views.ModeSignup, "")
		seq, route := m.seq, res.Next
		redirect := tea.Tick(res.Delay, func(time.Time) tea.Msg {
			return navigateMsg{seq: seq, route: route}
		})
		return m, tea.Batch(m.form.Init(), redirect)
	}

	next, cmd := m.enter(stateForRoute(res.Next))
	next.notice = res.Message
	return next, cmd
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyMsg.String() == "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Blur):
			m.input.Blur()
			return m, nil
		case key.Matches(keyMsg, m.keys.Submit):
			m.input.Blur()
			return m.startGenerate()
		case key.Matches(keyMsg, m.keys.Tab):
			return m.enter(cycleState(m.state, 1))
		case key.Matches(keyMsg, m.keys.ShiftTab):
			return m.enter(cycleState(m.state, -1))
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) startGenerate() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	if m.editor != nil {
		m.editor.Close()
		m.editor = nil
	}
	m.planModel.Clear()
	m.notice = ""
	m.loading = true
	m.status = views.Loading(constants.MsgGenerating)
	return m, tea.Batch(m.generateCmd(m.input.Value()), m.spinner.Tick)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		return m.enter(cycleState(m.state, 1))
	case key.Matches(msg, m.keys.ShiftTab):
		return m.enter(cycleState(m.state, -1))
	case key.Matches(msg, m.keys.Logout):
		m.previousState = m.state
		m.state = constants.StateConfirmLogout
		return m, nil
	}

	if m.state == constants.StateDashboard {
		switch {
		case key.Matches(msg, m.keys.Edit):
			return m, m.input.Focus()
		case key.Matches(msg, m.keys.Generate):
			return m.startGenerate()
		}
	}

	if m.state != constants.StateDashboard && key.Matches(msg, m.keys.Reload) {
		return m.enter(m.state)
	}

	if m.editor != nil && (m.state == constants.StateDashboard || m.state == constants.StatePlan) {
		return m.handlePlanKey(msg)
	}

	if m.state == constants.StateSchedule || m.state == constants.StateToday {
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handlePlanKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.planModel.Up()
	case key.Matches(msg, m.keys.Down):
		m.planModel.Down()
	case key.Matches(msg, m.keys.Toggle):
		mutation, p, err := m.editor.Toggle(m.planModel.Cursor())
		if err != nil {
			m.notice = apperrors.UserMessage(err, "")
			return m, nil
		}
		m.notice = ""
		m.planModel.SetPlan(p)
		m.planModel.SetPending(m.editor.Pending())
		return m, commitCmd(m.editor, mutation)
	case key.Matches(msg, m.keys.Deadline):
		task, ok := m.planModel.Selected()
		if !ok {
			return m, nil
		}
		m.newDeadlineForm(m.planModel.Cursor(), task.DeadlineOrEmpty())
		m.previousState = m.state
		m.state = constants.StateEditDeadline
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) updateDeadlineForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = m.previousState
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = m.previousState
		m.form = nil
		if m.editor == nil {
			return m, cmd
		}
		mutation, p, err := m.editor.SetDeadline(m.deadlineForm.Index, m.deadlineForm.Value)
		if err != nil {
			m.notice = apperrors.UserMessage(err, "")
			return m, cmd
		}
		m.notice = ""
		m.planModel.SetPlan(p)
		m.planModel.SetPending(m.editor.Pending())
		return m, tea.Batch(cmd, commitCmd(m.editor, mutation))
	case huh.StateAborted:
		m.state = m.previousState
		m.form = nil
	}
	return m, cmd
}

func (m Model) updateConfirmLogout(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		err := m.header.Logout()
		next, cmd := m.enter(constants.StateLogin)
		if err != nil {
			next.notice = apperrors.UserMessage(err, constants.MsgGenericError)
		}
		return next, cmd
	case key.Matches(keyMsg, m.keys.Cancel):
		m.state = m.previousState
	}
	return m, nil
}

func (m Model) handlePlan(msg planMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.seq {
		return m, nil
	}
	m.loading = false
	res := msg.result
	if res.State.Aborted() {
		return m, nil
	}
	m.status = res.State
	if res.State.Status == views.StatusReady {
		m.editor = res.Editor
		m.planModel.SetPlan(res.Editor.Plan())
		m.planModel.SetPending(0)
	}
	return m, nil
}

func (m Model) handleTasks(msg tasksMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.seq {
		return m, nil
	}
	m.loading = false
	if msg.result.State.Aborted() {
		return m, nil
	}
	m.status = msg.result.State
	if m.status.Status == views.StatusReady {
		title := "Your Scheduled Tasks"
		if m.state == constants.StateToday {
			title = "Today's Deadlines"
		}
		m.taskList.SetTasks(title, msg.result.Tasks)
	}
	return m, nil
}

func (m Model) handleAnalytics(msg analyticsMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.seq {
		return m, nil
	}
	m.loading = false
	if msg.result.State.Aborted() {
		return m, nil
	}
	m.status = msg.result.State
	if m.status.Status == views.StatusReady {
		m.chart.SetPoints(msg.result.Points, msg.result.Total)
	}
	return m, nil
}

func (m Model) handleMutation(msg mutationMsg) (tea.Model, tea.Cmd) {
	if msg.editor != m.editor {
		return m, nil
	}
	out := msg.outcome
	// out.Plan may predate edits made since the save started; the editor is current
	switch out.Kind {
	case planner.OutcomeConfirmed:
		m.planModel.SetPlan(m.editor.Plan())
		m.planModel.SetPending(m.editor.Pending())
	case planner.OutcomeRolledBack:
		m.planModel.SetPlan(m.editor.Plan())
		m.planModel.SetPending(m.editor.Pending())
		m.notice = out.Notice
	}
	return m, nil
}
