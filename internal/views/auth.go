package views

import (
	"context"
	"strings"
	"time"

	"github.com/julianstephens/taskforge/internal/api"
	"github.com/julianstephens/taskforge/internal/constants"
	apperrors "github.com/julianstephens/taskforge/internal/errors"
	"github.com/julianstephens/taskforge/internal/logger"
	"github.com/julianstephens/taskforge/internal/models"
	"github.com/julianstephens/taskforge/internal/session"
)

type AuthMode int

const (
	ModeLogin AuthMode = iota
	ModeSignup
)

func (m AuthMode) String() string {
	if m == ModeSignup {
		return "signup"
	}
	return "login"
}

// AuthResult tells the form what to show and where to go next.
// An empty Next means stay on the form.
type AuthResult struct {
	OK          bool
	Message     string
	Next        constants.Route
	Delay       time.Duration
	ClearFields bool
	Err         error
}

type Auth struct {
	service AuthService
	session *session.Manager
}

func NewAuth(service AuthService, sess *session.Manager) *Auth {
	return &Auth{service: service, session: sess}
}

// Submit runs one signup or login attempt. Signup never stores a session; login stores the
// token together with the username the server returned.
func (a *Auth) Submit(ctx context.Context, mode AuthMode, creds models.Credentials) AuthResult {
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		return AuthResult{Message: constants.MsgMissingCredentials}
	}

	if mode == ModeSignup {
		if err := a.service.Signup(ctx, creds); err != nil {
			return authFailure(mode, err)
		}
		logger.Info("Signed up", "user", creds.Username)
		return AuthResult{
			OK:          true,
			Message:     constants.MsgSignupSuccess,
			Next:        constants.RouteLogin,
			Delay:       constants.SignupRedirectDelay,
			ClearFields: true,
		}
	}

	token, err := a.service.Login(ctx, creds)
	if err != nil {
		return authFailure(mode, err)
	}
	if err := a.session.Set(token.AccessToken, token.Username); err != nil {
		logger.Error("Failed to store session", "error", err)
		return AuthResult{Message: constants.MsgGenericError, Err: err}
	}
	logger.Info("Logged in", "user", token.Username)
	return AuthResult{
		OK:      true,
		Message: constants.MsgLoginSuccess,
		Next:    constants.RouteDashboard,
	}
}

func authFailure(mode AuthMode, err error) AuthResult {
	if api.IsTransport(err) {
		logger.Error("Auth request failed", "mode", mode, "error", err)
	}
	return AuthResult{Message: apperrors.UserMessage(err, constants.MsgGenericError), Err: err}
}

// Header is the account area shown on every screen
type Header struct {
	session *session.Manager
	nav     Navigator
}

func NewHeader(sess *session.Manager, nav Navigator) *Header {
	return &Header{session: sess, nav: nav}
}

// Label is the username, or "Log In" when there is no session
func (h *Header) Label() string {
	if !h.session.Authenticated() {
		return "Log In"
	}
	return h.session.Name()
}

// Initial is the upper-cased first letter of the username
func (h *Header) Initial() string {
	name := h.session.Name()
	if name == "" {
		return "U"
	}
	return strings.ToUpper(string([]rune(name)[:1]))
}

// Logout clears the session and returns to the login screen
func (h *Header) Logout() error {
	err := h.session.Clear()
	if err != nil {
		logger.Error("Failed to clear session", "error", err)
	}
	logger.Info("Logged out")
	if h.nav != nil {
		h.nav.Navigate(constants.RouteLogin)
	}
	return err
}
