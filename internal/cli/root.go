package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/taskforge/internal/api"
	"github.com/julianstephens/taskforge/internal/constants"
	"github.com/julianstephens/taskforge/internal/session"
	"github.com/julianstephens/taskforge/internal/views"
)

// ErrNotLoggedIn is returned by commands that need a session when there is none
var ErrNotLoggedIn = errors.New("not logged in, run 'taskforge login' first")

type Context struct {
	Session *session.Manager
	Client  *api.Client
	// Out receives command output. Nil means stdout.
	Out io.Writer
	// MarkdownStyle is the glamour style used for plan summaries
	MarkdownStyle string
	// SessionStore names the session backend in use
	SessionStore string
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Print(args ...interface{}) {
	fmt.Fprint(c.out(), args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

// RequireSession fails fast instead of sending an unauthenticated request
func (c *Context) RequireSession() error {
	if !c.Session.Authenticated() {
		return ErrNotLoggedIn
	}
	return nil
}

// PromptPassword returns password, asking for it interactively when it is empty
func PromptPassword(password string) (string, error) {
	if password != "" {
		return password, nil
	}
	err := huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&password).
		Run()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// SessionNavigator reports an expired session on w. It is the request client's navigator
// for one-shot commands, where there is no login screen to return to.
func SessionNavigator(w io.Writer) api.Navigator {
	return api.NavigatorFunc(func() {
		fmt.Fprintln(w, constants.MsgSessionExpired)
	})
}

// ParseIndex converts a 1-based task number from the command line to a plan index
func ParseIndex(n int) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("invalid task number %d, numbering starts at 1", n)
	}
	return n - 1, nil
}

// StateError turns a failed or aborted view state into a command error
func StateError(st views.State) error {
	switch st.Status {
	case views.StatusAborted:
		if st.Err != nil {
			return st.Err
		}
		return api.ErrSessionExpired
	case views.StatusFailed:
		return errors.New(st.Message)
	}
	return nil
}
