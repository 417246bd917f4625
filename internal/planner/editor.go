package planner

import (
	"context"
	"errors"
	"sync"

	"github.com/julianstephens/taskforge/internal/api"
	"github.com/julianstephens/taskforge/internal/logger"
	"github.com/julianstephens/taskforge/internal/models"
)

// ErrClosed is returned when editing through an editor whose view is gone
var ErrClosed = errors.New("plan editor is closed")

// Saver persists a whole plan
type Saver interface {
	SavePlan(ctx context.Context, plan models.Plan) error
}

type OutcomeKind int

const (
	// OutcomeConfirmed means the server accepted the mutation
	OutcomeConfirmed OutcomeKind = iota
	// OutcomeRolledBack means the save failed and the mutation was removed from the view
	OutcomeRolledBack
	// OutcomeAbandoned means the session expired; a redirect is already underway
	OutcomeAbandoned
	// OutcomeDetached means the view was closed before the result arrived
	OutcomeDetached
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeRolledBack:
		return "rolled-back"
	case OutcomeAbandoned:
		return "abandoned"
	case OutcomeDetached:
		return "detached"
	default:
		return "unknown"
	}
}

type Outcome struct {
	Kind     OutcomeKind
	Mutation *Mutation
	// Plan is what the view should show after this outcome
	Plan models.Plan
	// Notice is the user-visible failure message for OutcomeRolledBack
	Notice string
	Err    error
}

// Editor owns the plan shown by one view.
//
// The visible plan is the last server-confirmed plan with every pending mutation applied
// in the order they were made. Saves run one at a time. Each save sends the confirmed plan
// plus the pending mutations up to and including the one being committed, so a failed save
// only ever removes its own mutation and never discards a later edit.
type Editor struct {
	saver Saver

	writeMu sync.Mutex

	mu        sync.Mutex
	confirmed models.Plan
	pending   []*Mutation
	resolved  map[uint64]OutcomeKind
	nextID    uint64
	closed    bool
	expired   bool
}

func NewEditor(plan models.Plan, saver Saver) *Editor {
	return &Editor{
		saver:     saver,
		confirmed: plan.Clone(),
		resolved:  make(map[uint64]OutcomeKind),
	}
}

// Plan returns the plan as the user should currently see it
func (e *Editor) Plan() models.Plan {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visibleLocked()
}

// Confirmed returns the last plan the server accepted
func (e *Editor) Confirmed() models.Plan {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.confirmed.Clone()
}

// Pending returns the number of unsaved mutations
func (e *Editor) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// Close detaches the editor from its view. Saves already started still complete but
// report OutcomeDetached.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}

func (e *Editor) visibleLocked() models.Plan {
	p := e.confirmed.Clone()
	for _, m := range e.pending {
		m.applyTo(&p)
	}
	return p
}

// Toggle flips completion of the task at index and returns the optimistic plan
func (e *Editor) Toggle(index int) (*Mutation, models.Plan, error) {
	return e.enqueue(&Mutation{Kind: MutationToggle, Index: index})
}

// SetDeadline sets (or with blank value clears) the deadline of the task at index and
// returns the optimistic plan
func (e *Editor) SetDeadline(index int, value string) (*Mutation, models.Plan, error) {
	deadline, err := ParseDeadline(value)
	if err != nil {
		return nil, e.Plan(), err
	}
	return e.enqueue(&Mutation{Kind: MutationDeadline, Index: index, Deadline: deadline})
}

func (e *Editor) enqueue(m *Mutation) (*Mutation, models.Plan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, e.visibleLocked(), ErrClosed
	}
	if !e.confirmed.InRange(m.Index) {
		return nil, e.visibleLocked(), ErrIndexOutOfRange
	}

	e.nextID++
	m.id = e.nextID
	e.pending = append(e.pending, m)
	return m, e.visibleLocked(), nil
}

// Commit saves the plan including m and reports what the view should now show
func (e *Editor) Commit(ctx context.Context, m *Mutation) Outcome {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	e.mu.Lock()
	if kind, ok := e.resolved[m.id]; ok {
		// An earlier save already carried this mutation
		out := Outcome{Kind: kind, Mutation: m, Plan: e.visibleLocked()}
		e.mu.Unlock()
		return out
	}
	if e.expired {
		out := Outcome{Kind: OutcomeAbandoned, Mutation: m, Plan: e.visibleLocked(), Err: api.ErrSessionExpired}
		e.mu.Unlock()
		return out
	}
	pos := e.indexOfLocked(m)
	if pos < 0 {
		plan := e.visibleLocked()
		e.mu.Unlock()
		return Outcome{Kind: OutcomeDetached, Mutation: m, Plan: plan, Err: errors.New("mutation is not pending")}
	}
	payload := e.confirmed.Clone()
	carried := append([]*Mutation(nil), e.pending[:pos+1]...)
	for _, pm := range carried {
		pm.applyTo(&payload)
	}
	e.mu.Unlock()

	logger.Debug("Saving plan", "mutation", m.ID(), "carried", len(carried))
	err := e.saver.SavePlan(ctx, payload)

	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case err == nil:
		e.confirmed = payload
		for _, pm := range carried {
			e.removeLocked(pm)
			if pm != m {
				e.resolved[pm.id] = OutcomeConfirmed
			}
		}
		return e.outcomeLocked(Outcome{Kind: OutcomeConfirmed, Mutation: m})

	case errors.Is(err, api.ErrSessionExpired):
		// The request client already cleared the session and redirected.
		e.expired = true
		e.closed = true
		return Outcome{Kind: OutcomeAbandoned, Mutation: m, Plan: e.visibleLocked(), Err: err}

	default:
		e.removeLocked(m)
		notice := failureNotice(m.Kind, api.IsTransport(err))
		logger.Warn("Plan save failed, rolling back", "mutation", m.ID(), "kind", m.Kind, "index", m.Index, "error", err)
		return e.outcomeLocked(Outcome{Kind: OutcomeRolledBack, Mutation: m, Notice: notice, Err: err})
	}
}

func (e *Editor) outcomeLocked(out Outcome) Outcome {
	out.Plan = e.visibleLocked()
	if e.closed {
		out.Kind = OutcomeDetached
	}
	return out
}

func (e *Editor) indexOfLocked(m *Mutation) int {
	for i, pm := range e.pending {
		if pm == m {
			return i
		}
	}
	return -1
}

func (e *Editor) removeLocked(m *Mutation) {
	if i := e.indexOfLocked(m); i >= 0 {
		e.pending = append(e.pending[:i], e.pending[i+1:]...)
	}
}

// ToggleTask applies a toggle and saves it
func (e *Editor) ToggleTask(ctx context.Context, index int) (Outcome, error) {
	m, _, err := e.Toggle(index)
	if err != nil {
		return Outcome{}, err
	}
	return e.Commit(ctx, m), nil
}

// UpdateDeadline applies a deadline change and saves it
func (e *Editor) UpdateDeadline(ctx context.Context, index int, value string) (Outcome, error) {
	m, _, err := e.SetDeadline(index, value)
	if err != nil {
		return Outcome{}, err
	}
	return e.Commit(ctx, m), nil
}
