package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/taskforge/internal/api"
	"github.com/julianstephens/taskforge/internal/constants"
	"github.com/julianstephens/taskforge/internal/models"
	"github.com/julianstephens/taskforge/internal/planner"
	"github.com/julianstephens/taskforge/internal/session"
	"github.com/julianstephens/taskforge/internal/tui/components/analytics"
	"github.com/julianstephens/taskforge/internal/tui/components/plan"
	"github.com/julianstephens/taskforge/internal/tui/components/tasklist"
	"github.com/julianstephens/taskforge/internal/views"
)

type AuthFormModel struct {
	Username string
	Password string
}

type DeadlineFormModel struct {
	Index int
	Value string
}

// Messages produced by commands. seq ties a result to the screen that asked for it; results
// for a screen the user has since left are dropped.
type (
	sessionExpiredMsg struct{}

	navigateMsg struct {
		seq   int
		route constants.Route
	}

	authMsg struct {
		seq    int
		mode   views.AuthMode
		result views.AuthResult
	}

	planMsg struct {
		seq    int
		result views.PlanResult
	}

	tasksMsg struct {
		seq    int
		result views.TasksResult
	}

	analyticsMsg struct {
		seq    int
		result views.AnalyticsResult
	}

	mutationMsg struct {
		editor  *planner.Editor
		outcome planner.Outcome
	}
)

type Model struct {
	session   *session.Manager
	auth      *views.Auth
	header    *views.Header
	dashboard *views.Dashboard
	planView  *views.PlanView
	schedule  *views.Schedule
	today     *views.Today
	analytics *views.AnalyticsView

	state         constants.ViewState
	previousState constants.ViewState
	seq           int
	keys          KeyMap
	help          help.Model
	spinner       spinner.Model
	loading       bool

	form         *huh.Form
	authMode     views.AuthMode
	authForm     *AuthFormModel
	deadlineForm *DeadlineFormModel

	input     textarea.Model
	editor    *planner.Editor
	planModel plan.Model
	taskList  tasklist.Model
	chart     analytics.Model

	status   views.State
	notice   string
	quitting bool
	width    int
	height   int
}

// NewModel builds the app. The client's navigator must deliver sessionExpiredMsg; see
// NewNavigator.
func NewModel(sess *session.Manager, client *api.Client) Model {
	input := textarea.New()
	input.Placeholder = "Write down everything you need to do today..."
	input.ShowLineNumbers = false
	input.SetHeight(5)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		session:   sess,
		auth:      views.NewAuth(client, sess),
		header:    views.NewHeader(sess, nil),
		dashboard: views.NewDashboard(client),
		planView:  views.NewPlanView(client),
		schedule:  views.NewSchedule(client),
		today:     views.NewToday(client),
		analytics: views.NewAnalyticsView(client),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		input:     input,
		planModel: plan.New(),
		taskList:  tasklist.New(80, 20),
		chart:     analytics.New(),
	}

	if sess.Authenticated() {
		m.state = constants.StateDashboard
		m.input.Focus()
	} else {
		m.state = constants.StateLogin
		m.newAuthForm(views.ModeLogin, "")
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.form != nil {
		return m.form.Init()
	}
	return textarea.Blink
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateDashboard:
		if m.input.Focused() {
			return []key.Binding{m.keys.Submit, m.keys.Blur}
		}
		keys = append(keys, m.keys.Edit, m.keys.Generate)
		if m.editor != nil {
			keys = append(keys, m.keys.Toggle, m.keys.Deadline)
		}
	case constants.StatePlan:
		keys = append(keys, m.keys.Toggle, m.keys.Deadline, m.keys.Reload)
	case constants.StateSchedule, constants.StateToday, constants.StateAnalytics:
		keys = append(keys, m.keys.Reload)
	case constants.StateConfirmLogout:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.ShortHelp(), {m.keys.Up, m.keys.Down, m.keys.Logout}}
}

func (m *Model) newAuthForm(mode views.AuthMode, username string) {
	m.authMode = mode
	m.authForm = &AuthFormModel{Username: username}
	title := "Log In"
	if mode == views.ModeSignup {
		title = "Sign Up"
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&m.authForm.Username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.authForm.Password),
		).Title(title),
	).WithShowHelp(false)
}

func (m *Model) newDeadlineForm(index int, current string) {
	m.deadlineForm = &DeadlineFormModel{Index: index, Value: current}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Deadline").
				Description("YYYY-MM-DD, leave blank to clear").
				Value(&m.deadlineForm.Value).
				Validate(func(s string) error {
					_, err := planner.ParseDeadline(s)
					return err
				}),
		),
	).WithShowHelp(false)
}

func (m Model) authCmd(mode views.AuthMode, creds models.Credentials) tea.Cmd {
	seq := m.seq
	auth := m.auth
	return func() tea.Msg {
		return authMsg{seq: seq, mode: mode, result: auth.Submit(context.Background(), mode, creds)}
	}
}

func (m Model) generateCmd(text string) tea.Cmd {
	seq := m.seq
	dashboard := m.dashboard
	return func() tea.Msg {
		return planMsg{seq: seq, result: dashboard.Generate(context.Background(), text)}
	}
}

// loadCmd fetches the data behind the current screen
func (m Model) loadCmd() tea.Cmd {
	seq := m.seq
	switch m.state {
	case constants.StatePlan:
		v := m.planView
		return func() tea.Msg { return planMsg{seq: seq, result: v.Load(context.Background())} }
	case constants.StateSchedule:
		v := m.schedule
		return func() tea.Msg { return tasksMsg{seq: seq, result: v.Load(context.Background())} }
	case constants.StateToday:
		v := m.today
		return func() tea.Msg { return tasksMsg{seq: seq, result: v.Load(context.Background())} }
	case constants.StateAnalytics:
		v := m.analytics
		return func() tea.Msg { return analyticsMsg{seq: seq, result: v.Load(context.Background())} }
	}
	return nil
}

func commitCmd(editor *planner.Editor, mutation *planner.Mutation) tea.Cmd {
	return func() tea.Msg {
		return mutationMsg{editor: editor, outcome: editor.Commit(context.Background(), mutation)}
	}
}
