package models

// Plan is the daily schedule returned by the planning service. It is always persisted as a
// whole; the position of a task in DailySchedule is its identity within a view.
type Plan struct {
	DailySchedule []Task `json:"daily_schedule"`
	Summary       string `json:"summary"`
	Date          string `json:"date,omitempty"` // YYYY-MM-DD format
}

// Clone returns a deep copy of the plan, deadlines included
func (p Plan) Clone() Plan {
	out := Plan{
		Summary: p.Summary,
		Date:    p.Date,
	}
	if p.DailySchedule != nil {
		out.DailySchedule = make([]Task, len(p.DailySchedule))
		for i, t := range p.DailySchedule {
			if t.Deadline != nil {
				d := *t.Deadline
				t.Deadline = &d
			}
			out.DailySchedule[i] = t
		}
	}
	return out
}

// Empty reports whether the plan has no tasks
func (p Plan) Empty() bool {
	return len(p.DailySchedule) == 0
}

// InRange reports whether index addresses a task in the schedule
func (p Plan) InRange(index int) bool {
	return index >= 0 && index < len(p.DailySchedule)
}

// CompletedCount returns the number of completed tasks
func (p Plan) CompletedCount() int {
	n := 0
	for _, t := range p.DailySchedule {
		if t.IsCompleted {
			n++
		}
	}
	return n
}

// WithDeadlines returns the tasks that carry a deadline, in schedule order
func (p Plan) WithDeadlines() []Task {
	var out []Task
	for _, t := range p.DailySchedule {
		if t.HasDeadline() {
			out = append(out, t)
		}
	}
	return out
}
