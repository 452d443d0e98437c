package model

import "time"

// View names a fixed task query.
type View string

const (
	ViewAll       View = "all"
	ViewToday     View = "today"
	ViewPlanned   View = "planned"
	ViewImportant View = "important"
	ViewCompleted View = "completed"
)

// Task is a unit of work belonging to a list.
type Task struct {
	// ID is generated by the store and never changes.
	ID string `json:"id" yaml:"id" db:"id"`

	Title   string  `json:"title" yaml:"title" db:"title"`
	Content *string `json:"content,omitempty" yaml:"content,omitempty" db:"content"`

	IsCompleted bool `json:"is_completed" yaml:"is_completed" db:"is_completed"`
	IsImportant bool `json:"is_important" yaml:"is_important" db:"is_important"`

	// Scheduling fields are stored as given; the store only reads the
	// date part of DueDate and StartDate for the today and planned views.
	DueDate    *string `json:"due_date,omitempty" yaml:"due_date,omitempty" db:"due_date"`
	StartDate  *string `json:"start_date,omitempty" yaml:"start_date,omitempty" db:"start_date"`
	RemindTime *string `json:"remind_time,omitempty" yaml:"remind_time,omitempty" db:"remind_time"`
	RepeatRule *string `json:"repeat_rule,omitempty" yaml:"repeat_rule,omitempty" db:"repeat_rule"`

	ListID string `json:"list_id" yaml:"list_id" db:"list_id"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at" db:"updated_at"`
}

// CreateTaskInput carries the fields accepted when creating a task.
type CreateTaskInput struct {
	Title      string  `json:"title"`
	Content    *string `json:"content,omitempty"`
	ListID     string  `json:"list_id"`
	DueDate    *string `json:"due_date,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	RemindTime *string `json:"remind_time,omitempty"`
	RepeatRule *string `json:"repeat_rule,omitempty"`
}

// TaskPatch is a partial update of a task. A nullable field set to JSON
// null clears the stored value.
type TaskPatch struct {
	Title       Optional[string]  `json:"title"`
	Content     Optional[*string] `json:"content"`
	IsCompleted Optional[bool]    `json:"is_completed"`
	IsImportant Optional[bool]    `json:"is_important"`
	DueDate     Optional[*string] `json:"due_date"`
	StartDate   Optional[*string] `json:"start_date"`
	RemindTime  Optional[*string] `json:"remind_time"`
	RepeatRule  Optional[*string] `json:"repeat_rule"`
	ListID      Optional[string]  `json:"list_id"`
}

// Apply copies every set field of p onto t.
func (p TaskPatch) Apply(t *Task) {
	p.Title.ApplyTo(&t.Title)
	p.Content.ApplyTo(&t.Content)
	p.IsCompleted.ApplyTo(&t.IsCompleted)
	p.IsImportant.ApplyTo(&t.IsImportant)
	p.DueDate.ApplyTo(&t.DueDate)
	p.StartDate.ApplyTo(&t.StartDate)
	p.RemindTime.ApplyTo(&t.RemindTime)
	p.RepeatRule.ApplyTo(&t.RepeatRule)
	p.ListID.ApplyTo(&t.ListID)
}
