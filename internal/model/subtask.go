package model

import "time"

// Subtask is a checklist item owned by exactly one task.
// Its lifecycle is bound to the parent task (CASCADE delete).
type Subtask struct {
	ID          string    `json:"id" db:"id"`
	TaskID      string    `json:"task_id" db:"task_id"`
	Title       string    `json:"title" db:"title"`
	IsCompleted bool      `json:"is_completed" db:"is_completed"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// SubtaskPatch is a partial update of a subtask.
type SubtaskPatch struct {
	Title       Optional[string] `json:"title"`
	IsCompleted Optional[bool]   `json:"is_completed"`
}

// Apply copies every set field of p onto s.
func (p SubtaskPatch) Apply(s *Subtask) {
	p.Title.ApplyTo(&s.Title)
	p.IsCompleted.ApplyTo(&s.IsCompleted)
}
