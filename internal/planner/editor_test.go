package planner

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/julianstephens/taskforge/internal/api"
	"github.com/julianstephens/taskforge/internal/constants"
	"github.com/julianstephens/taskforge/internal/models"
)

// fakeSaver records every saved plan and fails on demand
type fakeSaver struct {
	mu     sync.Mutex
	saved  []models.Plan
	fail   func(call int, plan models.Plan) error
	gate   chan struct{}
	called chan struct{}
}

func (f *fakeSaver) SavePlan(ctx context.Context, plan models.Plan) error {
	if f.called != nil {
		f.called <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	call := len(f.saved)
	f.saved = append(f.saved, plan.Clone())
	if f.fail != nil {
		return f.fail(call, plan)
	}
	return nil
}

func (f *fakeSaver) last() models.Plan {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved[len(f.saved)-1]
}

func threeTaskPlan() models.Plan {
	return models.Plan{
		Summary: "day",
		DailySchedule: []models.Task{
			{Description: "run", Category: models.CategoryHealth},
			{Description: "read", Category: models.CategoryStudy},
			{Description: "ship", Category: models.CategoryWork},
		},
	}
}

func completed(p models.Plan) []bool {
	out := make([]bool, len(p.DailySchedule))
	for i, t := range p.DailySchedule {
		out[i] = t.IsCompleted
	}
	return out
}

func TestToggleIsVisibleBeforeSaveResolves(t *testing.T) {
	saver := &fakeSaver{gate: make(chan struct{}), called: make(chan struct{}, 1)}
	e := NewEditor(threeTaskPlan(), saver)

	m, plan, err := e.Toggle(1)
	if err != nil {
		t.Fatalf("Toggle() failed: %v", err)
	}
	if !plan.DailySchedule[1].IsCompleted {
		t.Fatal("expected optimistic plan to show task 1 completed")
	}

	done := make(chan Outcome)
	go func() { done <- e.Commit(context.Background(), m) }()
	<-saver.called

	if !e.Plan().DailySchedule[1].IsCompleted {
		t.Error("expected visible plan to stay optimistic while save is in flight")
	}
	if e.Confirmed().DailySchedule[1].IsCompleted {
		t.Error("expected confirmed plan to be unchanged while save is in flight")
	}

	close(saver.gate)
	out := <-done
	if out.Kind != OutcomeConfirmed {
		t.Fatalf("expected confirmed, got %s", out.Kind)
	}
	if !out.Plan.DailySchedule[1].IsCompleted {
		t.Error("expected confirmed plan to keep the toggle")
	}
	if e.Pending() != 0 {
		t.Errorf("expected no pending mutations, got %d", e.Pending())
	}
}

func TestToggleRollsBackOnServerError(t *testing.T) {
	saver := &fakeSaver{fail: func(int, models.Plan) error {
		return &api.APIError{Status: 500, Detail: "boom"}
	}}
	e := NewEditor(threeTaskPlan(), saver)

	out, err := e.ToggleTask(context.Background(), 2)
	if err != nil {
		t.Fatalf("ToggleTask() failed: %v", err)
	}
	if out.Kind != OutcomeRolledBack {
		t.Fatalf("expected rolled-back, got %s", out.Kind)
	}
	if out.Plan.DailySchedule[2].IsCompleted {
		t.Error("expected task 2 to be reverted")
	}
	if out.Notice != constants.MsgSaveTaskFailed {
		t.Errorf("expected notice %q, got %q", constants.MsgSaveTaskFailed, out.Notice)
	}
	if !saver.last().DailySchedule[2].IsCompleted {
		t.Error("expected the failed request to carry the toggled plan")
	}
}

func TestRollbackNoticeForNetworkError(t *testing.T) {
	saver := &fakeSaver{fail: func(int, models.Plan) error {
		return &api.TransportError{Method: "POST", URL: "http://x/tasks/save", Err: errors.New("refused")}
	}}
	e := NewEditor(threeTaskPlan(), saver)

	out, err := e.UpdateDeadline(context.Background(), 0, "2025-03-01")
	if err != nil {
		t.Fatalf("UpdateDeadline() failed: %v", err)
	}
	if out.Kind != OutcomeRolledBack {
		t.Fatalf("expected rolled-back, got %s", out.Kind)
	}
	if out.Notice != constants.MsgSaveDeadlineOffline {
		t.Errorf("expected notice %q, got %q", constants.MsgSaveDeadlineOffline, out.Notice)
	}
}

func TestDeadlineRollbackRestoresPreviousValue(t *testing.T) {
	prev := "2025-01-01"
	plan := threeTaskPlan()
	plan.DailySchedule[0].Deadline = &prev

	saver := &fakeSaver{fail: func(int, models.Plan) error {
		return &api.APIError{Status: 500}
	}}
	e := NewEditor(plan, saver)

	m, optimistic, err := e.SetDeadline(0, "2025-02-02")
	if err != nil {
		t.Fatalf("SetDeadline() failed: %v", err)
	}
	if got := optimistic.DailySchedule[0].DeadlineOrEmpty(); got != "2025-02-02" {
		t.Fatalf("expected optimistic deadline, got %q", got)
	}

	out := e.Commit(context.Background(), m)
	if out.Kind != OutcomeRolledBack {
		t.Fatalf("expected rolled-back, got %s", out.Kind)
	}
	if got := out.Plan.DailySchedule[0].DeadlineOrEmpty(); got != prev {
		t.Errorf("expected deadline restored to %q, got %q", prev, got)
	}
}

func TestBlankDeadlineClears(t *testing.T) {
	prev := "2025-01-01"
	plan := threeTaskPlan()
	plan.DailySchedule[1].Deadline = &prev

	saver := &fakeSaver{}
	e := NewEditor(plan, saver)

	out, err := e.UpdateDeadline(context.Background(), 1, "   ")
	if err != nil {
		t.Fatalf("UpdateDeadline() failed: %v", err)
	}
	if out.Kind != OutcomeConfirmed {
		t.Fatalf("expected confirmed, got %s", out.Kind)
	}
	if saver.last().DailySchedule[1].Deadline != nil {
		t.Error("expected deadline to be sent as null")
	}
}

func TestEditRejectsBadInput(t *testing.T) {
	e := NewEditor(threeTaskPlan(), &fakeSaver{})

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"negative index", func() error { _, _, err := e.Toggle(-1); return err }, ErrIndexOutOfRange},
		{"index past end", func() error { _, _, err := e.Toggle(3); return err }, ErrIndexOutOfRange},
		{"bad date", func() error { _, _, err := e.SetDeadline(0, "03/01/2025"); return err }, ErrInvalidDeadline},
		{"deadline past end", func() error { _, _, err := e.SetDeadline(9, "2025-03-01"); return err }, ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if e.Pending() != 0 {
		t.Errorf("expected rejected edits not to be queued, got %d pending", e.Pending())
	}
}

func TestFailedSaveKeepsLaterEdit(t *testing.T) {
	saver := &fakeSaver{fail: func(call int, _ models.Plan) error {
		if call == 0 {
			return &api.APIError{Status: 500}
		}
		return nil
	}}
	e := NewEditor(threeTaskPlan(), saver)

	first, _, err := e.Toggle(0)
	if err != nil {
		t.Fatalf("Toggle(0) failed: %v", err)
	}
	second, plan, err := e.Toggle(1)
	if err != nil {
		t.Fatalf("Toggle(1) failed: %v", err)
	}
	if want := []bool{true, true, false}; !equalBools(completed(plan), want) {
		t.Fatalf("expected optimistic %v, got %v", want, completed(plan))
	}

	out := e.Commit(context.Background(), first)
	if out.Kind != OutcomeRolledBack {
		t.Fatalf("expected first save to roll back, got %s", out.Kind)
	}
	if want := []bool{false, true, false}; !equalBools(completed(out.Plan), want) {
		t.Errorf("expected rollback to keep the later edit %v, got %v", want, completed(out.Plan))
	}

	out = e.Commit(context.Background(), second)
	if out.Kind != OutcomeConfirmed {
		t.Fatalf("expected second save to confirm, got %s", out.Kind)
	}
	if want := []bool{false, true, false}; !equalBools(completed(saver.last()), want) {
		t.Errorf("expected server to receive %v, got %v", want, completed(saver.last()))
	}
}

func TestOutOfOrderCommitCarriesEarlierEdits(t *testing.T) {
	saver := &fakeSaver{}
	e := NewEditor(threeTaskPlan(), saver)

	first, _, _ := e.Toggle(0)
	second, _, _ := e.Toggle(2)

	out := e.Commit(context.Background(), second)
	if out.Kind != OutcomeConfirmed {
		t.Fatalf("expected confirmed, got %s", out.Kind)
	}
	if want := []bool{true, false, true}; !equalBools(completed(saver.last()), want) {
		t.Errorf("expected save to carry both edits %v, got %v", want, completed(saver.last()))
	}

	out = e.Commit(context.Background(), first)
	if out.Kind != OutcomeConfirmed {
		t.Fatalf("expected earlier edit to report confirmed, got %s", out.Kind)
	}
	if len(saver.saved) != 1 {
		t.Errorf("expected a single request, got %d", len(saver.saved))
	}
}

func TestConcurrentCommitsAreSerialized(t *testing.T) {
	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0
	saver := &fakeSaver{fail: func(int, models.Plan) error { return nil }}
	wrapped := saverFunc(func(ctx context.Context, p models.Plan) error {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()
		err := saver.SavePlan(ctx, p)
		mu.Lock()
		inFlight--
		mu.Unlock()
		return err
	})
	e := NewEditor(threeTaskPlan(), wrapped)

	var muts []*Mutation
	for i := 0; i < 3; i++ {
		m, _, err := e.Toggle(i)
		if err != nil {
			t.Fatalf("Toggle(%d) failed: %v", i, err)
		}
		muts = append(muts, m)
	}

	var wg sync.WaitGroup
	for _, m := range muts {
		wg.Add(1)
		go func(m *Mutation) {
			defer wg.Done()
			if out := e.Commit(context.Background(), m); out.Kind != OutcomeConfirmed {
				t.Errorf("expected confirmed, got %s", out.Kind)
			}
		}(m)
	}
	wg.Wait()

	if maxInFlight != 1 {
		t.Errorf("expected one save in flight at a time, saw %d", maxInFlight)
	}
	if want := []bool{true, true, true}; !equalBools(completed(e.Confirmed()), want) {
		t.Errorf("expected confirmed %v, got %v", want, completed(e.Confirmed()))
	}
}

func TestSessionExpiryAbandonsEditor(t *testing.T) {
	saver := &fakeSaver{fail: func(int, models.Plan) error { return api.ErrSessionExpired }}
	e := NewEditor(threeTaskPlan(), saver)

	first, _, _ := e.Toggle(0)
	second, _, _ := e.Toggle(1)

	out := e.Commit(context.Background(), first)
	if out.Kind != OutcomeAbandoned {
		t.Fatalf("expected abandoned, got %s", out.Kind)
	}
	if !errors.Is(out.Err, api.ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", out.Err)
	}

	out = e.Commit(context.Background(), second)
	if out.Kind != OutcomeAbandoned {
		t.Errorf("expected later commit to be abandoned, got %s", out.Kind)
	}
	if len(saver.saved) != 1 {
		t.Errorf("expected no request after expiry, got %d", len(saver.saved))
	}
	if _, _, err := e.Toggle(2); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestCloseDetachesInFlightSave(t *testing.T) {
	saver := &fakeSaver{gate: make(chan struct{}), called: make(chan struct{}, 1)}
	e := NewEditor(threeTaskPlan(), saver)

	m, _, _ := e.Toggle(0)
	done := make(chan Outcome)
	go func() { done <- e.Commit(context.Background(), m) }()
	<-saver.called

	e.Close()
	close(saver.gate)

	if out := <-done; out.Kind != OutcomeDetached {
		t.Errorf("expected detached, got %s", out.Kind)
	}
	if !e.Confirmed().DailySchedule[0].IsCompleted {
		t.Error("expected the save to still be recorded as confirmed")
	}
}

func TestToggleRoundTrip(t *testing.T) {
	due := "2026-10-20"
	original := models.Plan{
		Summary: "day",
		Date:    "2026-10-18",
		DailySchedule: []models.Task{
			{Description: "run", Category: models.CategoryHealth},
			{Description: "read", Category: models.CategoryStudy, Deadline: &due},
			{Description: "ship", Category: models.CategoryWork, IsCompleted: true},
		},
	}
	saver := &fakeSaver{}
	e := NewEditor(original.Clone(), saver)

	if _, err := e.ToggleTask(context.Background(), 1); err != nil {
		t.Fatalf("ToggleTask() failed: %v", err)
	}
	want := original.Clone()
	want.DailySchedule[1].IsCompleted = true
	if got := saver.last(); !reflect.DeepEqual(got, want) {
		t.Errorf("saved plan = %+v, want %+v", got, want)
	}

	reloaded := NewEditor(saver.last(), saver)
	if !reflect.DeepEqual(reloaded.Plan(), want) {
		t.Errorf("reloaded plan = %+v, want %+v", reloaded.Plan(), want)
	}

	if _, err := reloaded.ToggleTask(context.Background(), 1); err != nil {
		t.Fatalf("ToggleTask() failed: %v", err)
	}
	if got := saver.last(); !reflect.DeepEqual(got, original) {
		t.Errorf("toggling twice gave %+v, want %+v", got, original)
	}
}

func TestMutationIDsIncrease(t *testing.T) {
	e := NewEditor(threeTaskPlan(), &fakeSaver{})

	first, _, err := e.Toggle(0)
	if err != nil {
		t.Fatalf("Toggle() failed: %v", err)
	}
	second, _, err := e.SetDeadline(1, "2026-10-20")
	if err != nil {
		t.Fatalf("SetDeadline() failed: %v", err)
	}
	if first.ID() == 0 || second.ID() <= first.ID() {
		t.Errorf("ids = %d, %d, want increasing non-zero", first.ID(), second.ID())
	}
}

type saverFunc func(ctx context.Context, p models.Plan) error

func (f saverFunc) SavePlan(ctx context.Context, p models.Plan) error { return f(ctx, p) }

func equalBools(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
