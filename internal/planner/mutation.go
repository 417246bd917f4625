package planner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/taskforge/internal/constants"
	"github.com/julianstephens/taskforge/internal/models"
)

var (
	ErrIndexOutOfRange = errors.New("task index out of range")
	ErrInvalidDeadline = errors.New("deadline must be a date in YYYY-MM-DD format")
)

type MutationKind int

const (
	MutationToggle MutationKind = iota
	MutationDeadline
)

func (k MutationKind) String() string {
	switch k {
	case MutationToggle:
		return "toggle"
	case MutationDeadline:
		return "deadline"
	default:
		return "unknown"
	}
}

// Mutation is one pending edit to a single task of the plan
type Mutation struct {
	id       uint64
	Kind     MutationKind
	Index    int
	Deadline *string
}

func (m *Mutation) ID() uint64 {
	return m.id
}

// applyTo edits p in place. p must be a private copy.
func (m *Mutation) applyTo(p *models.Plan) {
	if !p.InRange(m.Index) {
		return
	}
	task := &p.DailySchedule[m.Index]
	switch m.Kind {
	case MutationToggle:
		task.IsCompleted = !task.IsCompleted
	case MutationDeadline:
		if m.Deadline == nil {
			task.Deadline = nil
		} else {
			d := *m.Deadline
			task.Deadline = &d
		}
	}
}

// ParseDeadline normalises a user-entered deadline. Blank input clears the deadline.
func ParseDeadline(value string) (*string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if _, err := time.Parse(constants.DateFormat, value); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDeadline, value)
	}
	return &value, nil
}

func failureNotice(kind MutationKind, transport bool) string {
	switch {
	case kind == MutationDeadline && transport:
		return constants.MsgSaveDeadlineOffline
	case kind == MutationDeadline:
		return constants.MsgSaveDeadlineFailed
	case transport:
		return constants.MsgSaveTaskOffline
	default:
		return constants.MsgSaveTaskFailed
	}
}
