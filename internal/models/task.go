package models

// Category is the closed set of task categories assigned by the planning service.
// The client only uses it for grouping and colouring.
type Category string

const (
	CategoryHealth    Category = "Health"
	CategoryStudy     Category = "Study"
	CategoryWork      Category = "Work"
	CategoryPersonal  Category = "Personal"
	CategoryEmotional Category = "Emotional"
)

// Categories lists every known category in display order
var Categories = []Category{
	CategoryHealth,
	CategoryStudy,
	CategoryWork,
	CategoryPersonal,
	CategoryEmotional,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Task struct {
	Description string   `json:"description"`
	Category    Category `json:"category"`
	IsCompleted bool     `json:"is_completed"`
	Deadline    *string  `json:"deadline"` // YYYY-MM-DD format, null when unset
}

// HasDeadline reports whether the task carries a non-empty deadline
func (t Task) HasDeadline() bool {
	return t.Deadline != nil && *t.Deadline != ""
}

// DeadlineOrEmpty returns the deadline string or "" when unset
func (t Task) DeadlineOrEmpty() string {
	if t.Deadline == nil {
		return ""
	}
	return *t.Deadline
}

// TaskInput is the free-text payload sent to the plan generator
type TaskInput struct {
	Tasks string `json:"tasks"`
}
