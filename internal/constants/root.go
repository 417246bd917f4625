package constants

import "time"

// ViewState identifies the screen the client is currently showing
type ViewState int

// Route names a navigation target shared by the CLI and the TUI
type Route string

const (
	AppName = "taskforge"
	Version = "v0.3.0"

	// Session keys. The token and display name are always written and removed together.
	KeyringService  = "taskforge"
	SessionTokenKey = "access-token"
	SessionNameKey  = "username"

	SessionStoreKeyring = "keyring"
	SessionStoreSQLite  = "sqlite"
	SessionDBName       = "session.db"

	DefaultAPIURL   = "http://localhost:8000"
	DefaultDataDir  = "~/.config/taskforge"
	RequestIDHeader = "X-Request-ID"

	// DateFormat is the deadline and plan date format (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// SignupRedirectDelay is how long the signup confirmation stays up before moving to login
	SignupRedirectDelay = 2 * time.Second

	// Backend endpoints
	EndpointSignup    = "/users/signup"
	EndpointLogin     = "/users/login"
	EndpointPlan      = "/tasks/plan"
	EndpointLoad      = "/tasks/load"
	EndpointSave      = "/tasks/save"
	EndpointToday     = "/tasks/today"
	EndpointAnalytics = "/analytics"
	EndpointPing      = "/ping"

	// Routes
	RouteLogin     Route = "login"
	RouteSignup    Route = "signup"
	RouteDashboard Route = "dashboard"
	RoutePlan      Route = "my-plan"
	RouteSchedule  Route = "schedule"
	RouteToday     Route = "today"
	RouteAnalytics Route = "analytics"
)

// View States
const (
	StateLogin ViewState = iota
	StateSignup
	StateDashboard
	StatePlan
	StateSchedule
	StateToday
	StateAnalytics
	StateEditDeadline
	StateConfirmLogout
)
