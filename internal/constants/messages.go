package constants

// User-visible notices. Server-provided details are shown verbatim instead when present.
const (
	MsgEnterTasks          = "Please enter your tasks."
	MsgGenerating          = "Generating plan..."
	MsgGenerateFailed      = "Error: Failed to generate plan. Please try again."
	MsgNoPlan              = "You have no plan yet!"
	MsgNoPlanHint          = "Go to the dashboard to create your first plan."
	MsgNoSchedule          = "No tasks scheduled yet."
	MsgNoTodayTasks        = "No tasks due today."
	MsgNoAnalytics         = "No data for analysis yet."
	MsgLoadFailed          = "Could not load data. Please try again."
	MsgSignupSuccess       = "Signup successful! Please log in."
	MsgLoginSuccess        = "Login successful! Redirecting to dashboard..."
	MsgGenericError        = "An error occurred."
	MsgMissingCredentials  = "Please enter a username and password."
	MsgConnectFailed       = "Failed to connect to the server."
	MsgSessionExpired      = "Session expired. Run 'taskforge login' to sign in again."
	MsgLoginAgain          = "Your session has expired. Please log in again."
	MsgSaveTaskFailed      = "Failed to save task. Please try again."
	MsgSaveTaskOffline     = "Failed to save task. Please check the backend server."
	MsgSaveDeadlineFailed  = "Failed to save deadline. Please try again."
	MsgSaveDeadlineOffline = "Failed to save deadline. Please check the backend server."
)
