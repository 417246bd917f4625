package tui

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/taskforge/internal/api"
	"github.com/julianstephens/taskforge/internal/constants"
	"github.com/julianstephens/taskforge/internal/planner"
	"github.com/julianstephens/taskforge/internal/session"
	"github.com/julianstephens/taskforge/internal/views"
)

const planJSON = `{"daily_schedule":[
	{"description":"Morning run","category":"Health","is_completed":false,"deadline":null},
	{"description":"Read chapter 3","category":"Study","is_completed":false,"deadline":"2026-10-20"}
],"summary":"A balanced day","date":"2026-10-18"}`

func setupModel(t *testing.T, routes map[string]http.HandlerFunc, loggedIn bool) (Model, *session.Manager) {
	t.Helper()
	gokeyring.MockInit()

	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	sess := session.NewManager(session.NewKeyringBackend())
	if loggedIn {
		if err := sess.Set("tok", "ada"); err != nil {
			t.Fatalf("failed to seed session: %v", err)
		}
	} else if err := sess.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	return NewModel(sess, api.New(server.URL, sess, nil)), sess
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		if body != "" {
			w.Write([]byte(body))
		}
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// openPlan enters the plan screen and delivers its load result
func openPlan(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = m.enter(constants.StatePlan)
	m, _ = update(t, m, m.loadCmd()())
	if m.editor == nil {
		t.Fatalf("expected plan to load, status = %+v", m.status)
	}
	return m
}

func TestNewModelInitialState(t *testing.T) {
	m, _ := setupModel(t, nil, false)
	if m.state != constants.StateLogin || m.form == nil {
		t.Errorf("logged out: state = %v, form = %v", m.state, m.form)
	}

	m, _ = setupModel(t, nil, true)
	if m.state != constants.StateDashboard || !m.input.Focused() {
		t.Errorf("logged in: state = %v, input focused = %v", m.state, m.input.Focused())
	}
}

func TestTabCyclesMainViews(t *testing.T) {
	m, _ := setupModel(t, nil, true)

	want := []constants.ViewState{
		constants.StatePlan,
		constants.StateSchedule,
		constants.StateToday,
		constants.StateAnalytics,
		constants.StateDashboard,
	}
	for _, state := range want {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.state != state {
			t.Fatalf("state = %v, want %v", m.state, state)
		}
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.state != constants.StateAnalytics {
		t.Errorf("state = %v, want analytics", m.state)
	}
}

func TestPlanToggleIsOptimisticAndRollsBack(t *testing.T) {
	m, _ := setupModel(t, map[string]http.HandlerFunc{
		"GET " + constants.EndpointLoad:  respond(http.StatusOK, planJSON),
		"POST " + constants.EndpointSave: respond(http.StatusInternalServerError, `{"detail":"Could not save plan."}`),
	}, true)
	m = openPlan(t, m)

	m, cmd := update(t, m, runes("x"))
	task, _ := m.planModel.Selected()
	if !task.IsCompleted {
		t.Fatal("expected toggle to show before the save resolves")
	}
	if cmd == nil {
		t.Fatal("expected a save command")
	}

	m, _ = update(t, m, cmd())
	task, _ = m.planModel.Selected()
	if task.IsCompleted {
		t.Error("expected toggle to be rolled back")
	}
	if m.notice != constants.MsgSaveTaskFailed {
		t.Errorf("notice = %q, want %q", m.notice, constants.MsgSaveTaskFailed)
	}
}

func TestPlanToggleConfirmed(t *testing.T) {
	m, _ := setupModel(t, map[string]http.HandlerFunc{
		"GET " + constants.EndpointLoad:  respond(http.StatusOK, planJSON),
		"POST " + constants.EndpointSave: respond(http.StatusNoContent, ""),
	}, true)
	m = openPlan(t, m)

	m, _ = update(t, m, runes("j"))
	m, cmd := update(t, m, runes("x"))
	m, _ = update(t, m, cmd())

	task, _ := m.planModel.Selected()
	if task.Description != "Read chapter 3" || !task.IsCompleted {
		t.Errorf("selected = %+v", task)
	}
	if m.notice != "" {
		t.Errorf("unexpected notice %q", m.notice)
	}
	if !m.editor.Confirmed().DailySchedule[1].IsCompleted {
		t.Error("expected confirmed plan to include the toggle")
	}
}

func TestSaveResultKeepsLaterEdits(t *testing.T) {
	m, _ := setupModel(t, map[string]http.HandlerFunc{
		"GET " + constants.EndpointLoad:  respond(http.StatusOK, planJSON),
		"POST " + constants.EndpointSave: respond(http.StatusNoContent, ""),
	}, true)
	m = openPlan(t, m)

	m, first := update(t, m, runes("x"))
	firstResult := first()

	// a second edit lands before the first save's result is delivered
	m, _ = update(t, m, runes("j"))
	m, _ = update(t, m, runes("x"))
	m, _ = update(t, m, firstResult)

	task, _ := m.planModel.Selected()
	if task.Description != "Read chapter 3" || !task.IsCompleted {
		t.Errorf("selected = %+v, want the later toggle still shown", task)
	}
	if !m.editor.Plan().DailySchedule[1].IsCompleted {
		t.Error("expected editor to keep the later toggle")
	}
}

func TestRolledBackSaveKeepsLaterEdits(t *testing.T) {
	var saves atomic.Int32
	m, _ := setupModel(t, map[string]http.HandlerFunc{
		"GET " + constants.EndpointLoad: respond(http.StatusOK, planJSON),
		"POST " + constants.EndpointSave: func(w http.ResponseWriter, r *http.Request) {
			saves.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		},
	}, true)
	m = openPlan(t, m)

	m, first := update(t, m, runes("x"))
	firstResult := first()
	m, _ = update(t, m, runes("j"))
	m, _ = update(t, m, runes("x"))
	m, _ = update(t, m, firstResult)

	if m.notice != constants.MsgSaveTaskFailed {
		t.Errorf("notice = %q, want %q", m.notice, constants.MsgSaveTaskFailed)
	}
	task, _ := m.planModel.Selected()
	if !task.IsCompleted {
		t.Error("expected the pending toggle of the second task to stay visible")
	}
	if n := saves.Load(); n != 1 {
		t.Errorf("saves = %d, want 1", n)
	}
}

func TestResultForLeftScreenIsIgnored(t *testing.T) {
	m, _ := setupModel(t, map[string]http.HandlerFunc{
		"GET " + constants.EndpointLoad: respond(http.StatusOK, planJSON),
	}, true)

	m, _ = m.enter(constants.StatePlan)
	late := m.loadCmd()()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, late)

	if m.state != constants.StateSchedule {
		t.Errorf("state = %v, want schedule", m.state)
	}
	if m.editor != nil || m.planModel.HasPlan() {
		t.Error("expected stale plan result to be dropped")
	}
}

func TestLateMutationForClosedEditorIsIgnored(t *testing.T) {
	m, _ := setupModel(t, map[string]http.HandlerFunc{
		"GET " + constants.EndpointLoad:  respond(http.StatusOK, planJSON),
		"POST " + constants.EndpointSave: respond(http.StatusInternalServerError, ""),
	}, true)
	m = openPlan(t, m)

	m, cmd := update(t, m, runes("x"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, cmd())

	if m.notice != "" {
		t.Errorf("expected no notice on the new screen, got %q", m.notice)
	}
}

func TestSessionExpiredReturnsToLogin(t *testing.T) {
	m, sess := setupModel(t, map[string]http.HandlerFunc{
		"GET " + constants.EndpointLoad: respond(http.StatusOK, planJSON),
	}, true)
	m = openPlan(t, m)
	editor := m.editor

	if err := sess.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	m, _ = update(t, m, sessionExpiredMsg{})

	if m.state != constants.StateLogin {
		t.Errorf("state = %v, want login", m.state)
	}
	if m.notice != constants.MsgLoginAgain {
		t.Errorf("notice = %q", m.notice)
	}
	if _, _, err := editor.Toggle(0); !errors.Is(err, planner.ErrClosed) {
		t.Errorf("expected old editor to be closed, got %v", err)
	}
	if !strings.Contains(m.View(), "Log In") {
		t.Error("expected header to offer Log In")
	}
}

func TestRepeatedSessionExpiryKeepsLoginForm(t *testing.T) {
	m, sess := setupModel(t, map[string]http.HandlerFunc{
		"GET " + constants.EndpointLoad: respond(http.StatusOK, planJSON),
	}, true)
	m = openPlan(t, m)
	if err := sess.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}

	m, _ = update(t, m, sessionExpiredMsg{})
	form, seq := m.form, m.seq
	m, cmd := update(t, m, sessionExpiredMsg{})

	if m.state != constants.StateLogin {
		t.Errorf("state = %v, want login", m.state)
	}
	if m.form != form || m.seq != seq {
		t.Error("expected the login form to be left alone")
	}
	if cmd != nil {
		t.Error("expected no command for a repeated expiry")
	}
}

func TestEmptyPlanShowsHint(t *testing.T) {
	m, _ := setupModel(t, map[string]http.HandlerFunc{
		"GET " + constants.EndpointLoad: respond(http.StatusNoContent, ""),
	}, true)

	m, _ = m.enter(constants.StatePlan)
	m, _ = update(t, m, m.loadCmd()())

	if m.status.Status != views.StatusEmpty {
		t.Fatalf("status = %v, want empty", m.status.Status)
	}
	view := m.View()
	if !strings.Contains(view, constants.MsgNoPlan) || !strings.Contains(view, constants.MsgNoPlanHint) {
		t.Errorf("view missing empty state:\n%s", view)
	}
}

func TestAnalyticsViewKeepsOrder(t *testing.T) {
	m, _ := setupModel(t, map[string]http.HandlerFunc{
		"GET " + constants.EndpointAnalytics: respond(http.StatusOK, `{"data":{"Work":2,"Health":5}}`),
	}, true)

	m, _ = m.enter(constants.StateAnalytics)
	m, _ = update(t, m, m.loadCmd()())

	view := m.View()
	work, health := strings.Index(view, "Work"), strings.Index(view, "Health")
	if work < 0 || health < 0 || work > health {
		t.Errorf("expected Work before Health:\n%s", view)
	}
}

func TestDashboardGenerate(t *testing.T) {
	m, _ := setupModel(t, map[string]http.HandlerFunc{
		"POST " + constants.EndpointPlan: respond(http.StatusOK, planJSON),
	}, true)
	m.input.SetValue("run, read")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.loading || m.input.Focused() {
		t.Fatalf("expected generation to start, loading = %v", m.loading)
	}
	m, _ = update(t, m, m.generateCmd(m.input.Value())())

	if m.editor == nil {
		t.Fatalf("expected generated plan, status = %+v", m.status)
	}
	if !strings.Contains(m.View(), "Morning run") {
		t.Error("expected generated plan on the dashboard")
	}
}

func TestDashboardGenerateRequiresInput(t *testing.T) {
	m, _ := setupModel(t, nil, true)

	m, _ = update(t, m, m.generateCmd("   ")())
	if m.status.Status != views.StatusFailed || m.status.Message != constants.MsgEnterTasks {
		t.Errorf("status = %+v", m.status)
	}
}

func TestLogoutConfirm(t *testing.T) {
	m, sess := setupModel(t, nil, true)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m, _ = update(t, m, runes("L"))
	if m.state != constants.StateConfirmLogout {
		t.Fatalf("state = %v, want confirm logout", m.state)
	}
	m, _ = update(t, m, runes("n"))
	if m.state != constants.StateDashboard || !sess.Authenticated() {
		t.Fatalf("expected cancel to keep the session, state = %v", m.state)
	}

	m, _ = update(t, m, runes("L"))
	m, _ = update(t, m, runes("y"))
	if m.state != constants.StateLogin {
		t.Errorf("state = %v, want login", m.state)
	}
	if sess.Authenticated() {
		t.Error("expected session to be cleared")
	}
}

func TestLoginSuccessNavigatesToDashboard(t *testing.T) {
	m, _ := setupModel(t, nil, false)

	m, _ = update(t, m, authMsg{
		seq:    m.seq,
		mode:   views.ModeLogin,
		result: views.AuthResult{OK: true, Message: constants.MsgLoginSuccess, Next: constants.RouteDashboard},
	})
	if m.state != constants.StateDashboard {
		t.Errorf("state = %v, want dashboard", m.state)
	}
	if m.notice != constants.MsgLoginSuccess {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestSignupRedirectOnlyFromSignupScreen(t *testing.T) {
	m, _ := setupModel(t, nil, false)
	m, _ = m.enter(constants.StateSignup)

	stale := navigateMsg{seq: m.seq - 1, route: constants.RouteLogin}
	m, _ = update(t, m, stale)
	if m.state != constants.StateSignup {
		t.Fatalf("state = %v, want signup", m.state)
	}

	m, _ = update(t, m, navigateMsg{seq: m.seq, route: constants.RouteLogin})
	if m.state != constants.StateLogin {
		t.Errorf("state = %v, want login", m.state)
	}
}

func TestFailedLoginKeepsUsername(t *testing.T) {
	m, _ := setupModel(t, nil, false)
	m.authForm.Username = "ada"

	m, _ = update(t, m, authMsg{
		seq:    m.seq,
		mode:   views.ModeLogin,
		result: views.AuthResult{Message: "Incorrect username or password"},
	})
	if m.state != constants.StateLogin {
		t.Errorf("state = %v, want login", m.state)
	}
	if m.notice != "Incorrect username or password" {
		t.Errorf("notice = %q", m.notice)
	}
	if m.authForm.Username != "ada" || m.authForm.Password != "" {
		t.Errorf("form = %+v", m.authForm)
	}
}
