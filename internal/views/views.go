// Package views holds the screen logic shared by the TUI and the command line. Controllers
// talk to the planning service, map outcomes onto a State and never render anything.
package views

import (
	"context"
	"errors"

	"github.com/julianstephens/taskforge/internal/api"
	"github.com/julianstephens/taskforge/internal/constants"
	apperrors "github.com/julianstephens/taskforge/internal/errors"
	"github.com/julianstephens/taskforge/internal/models"
)

type Status int

const (
	StatusLoading Status = iota
	StatusEmpty
	StatusReady
	StatusFailed
	// StatusAborted means the session expired mid-request; the navigator already moved on
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusEmpty:
		return "empty"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

type State struct {
	Status  Status
	Message string
	Err     error
}

// Aborted reports whether the caller should drop this result without touching the screen
func (s State) Aborted() bool {
	return s.Status == StatusAborted
}

func Loading(message string) State {
	return State{Status: StatusLoading, Message: message}
}

func ready() State {
	return State{Status: StatusReady}
}

func empty(message string) State {
	return State{Status: StatusEmpty, Message: message}
}

// failure maps err onto Failed, or Aborted for an expired session
func failure(err error, fallback string) State {
	if errors.Is(err, api.ErrSessionExpired) {
		return State{Status: StatusAborted, Err: err}
	}
	return State{Status: StatusFailed, Message: apperrors.UserMessage(err, fallback), Err: err}
}

// PlanService is the part of the planning service the plan screens use
type PlanService interface {
	GeneratePlan(ctx context.Context, tasks string) (models.Plan, error)
	LoadPlan(ctx context.Context) (*models.Plan, error)
	SavePlan(ctx context.Context, plan models.Plan) error
	Today(ctx context.Context) ([]models.Task, error)
	Analytics(ctx context.Context) (models.Analytics, error)
}

// AuthService is the part of the planning service the auth forms use
type AuthService interface {
	Signup(ctx context.Context, creds models.Credentials) error
	Login(ctx context.Context, creds models.Credentials) (models.Token, error)
}

// Navigator moves the user to another screen
type Navigator interface {
	Navigate(route constants.Route)
}

type NavigatorFunc func(route constants.Route)

func (f NavigatorFunc) Navigate(route constants.Route) { f(route) }
