package store

import (
	"context"

	"github.com/nhle/itodo/internal/model"
)

// TaskFilter selects one of the fixed task views.
type TaskFilter struct {
	View   model.View // defaults to model.ViewAll
	ListID *string    // only honored by ViewAll
	Query  *string    // substring matched against title and content
}

// Store defines the persistence interface for lists, tasks and subtasks.
type Store interface {
	// Init creates the schema and seeds the default list. Safe to call
	// more than once.
	Init(ctx context.Context) error

	// === Lists ===

	GetLists(ctx context.Context) ([]model.List, error)
	GetList(ctx context.Context, id string) (*model.List, error)
	CreateList(ctx context.Context, input model.CreateListInput) (*model.List, error)
	UpdateList(ctx context.Context, id string, patch model.ListPatch) (*model.List, error)
	DeleteList(ctx context.Context, id string) error

	// === Tasks ===

	GetTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	CreateTask(ctx context.Context, input model.CreateTaskInput) (*model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ToggleTaskImportant(ctx context.Context, id string) (*model.Task, error)
	ToggleTaskCompleted(ctx context.Context, id string) (*model.Task, error)

	// === Subtasks ===

	GetSubtasks(ctx context.Context, taskID string) ([]model.Subtask, error)
	GetAllSubtasks(ctx context.Context) ([]model.Subtask, error)
	CreateSubtask(ctx context.Context, taskID, title string) (*model.Subtask, error)
	UpdateSubtask(ctx context.Context, id string, patch model.SubtaskPatch) (*model.Subtask, error)
	DeleteSubtask(ctx context.Context, id string) error
	ToggleSubtaskCompleted(ctx context.Context, id string) (*model.Subtask, error)

	// === Import / Export ===

	Export(ctx context.Context, listID *string) (*model.ExportDocument, error)
	Import(ctx context.Context, doc *model.ExportDocument) ([]model.Task, error)
}
