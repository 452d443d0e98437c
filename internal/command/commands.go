package command

import (
	"context"
	"encoding/json"

	"github.com/nhle/itodo/internal/model"
	"github.com/nhle/itodo/internal/store"
)

// UpdateListInput is the argument of update_list.
type UpdateListInput struct {
	ID string `json:"id"`
	model.ListPatch
}

// UpdateTaskInput is the argument of update_task.
type UpdateTaskInput struct {
	ID string `json:"id"`
	model.TaskPatch
}

// UpdateSubtaskInput is the argument of update_subtask.
type UpdateSubtaskInput struct {
	ID string `json:"id"`
	model.SubtaskPatch
}

type idArgs struct {
	ID string `json:"id"`
}

type listIDArgs struct {
	ListID *string `json:"listId"`
}

type queryArgs struct {
	Query string `json:"query"`
}

type taskIDArgs struct {
	TaskID string `json:"taskId"`
}

type inputArgs[T any] struct {
	Input T `json:"input"`
}

type createSubtaskArgs struct {
	TaskID string `json:"taskId"`
	Title  string `json:"title"`
}

type jsonDataArgs struct {
	JSONData string `json:"jsonData"`
}

type filePathArgs struct {
	FilePath string  `json:"filePath"`
	ListID   *string `json:"listId"`
}

// routes binds every command name to its handler.
func (d *Dispatcher) routes() map[string]handler {
	return map[string]handler{
		// Lists
		"get_lists": func(ctx context.Context, _ json.RawMessage) (any, error) {
			return d.GetLists(ctx)
		},
		"create_list": withArgs(func(ctx context.Context, a inputArgs[model.CreateListInput]) (any, error) {
			return d.CreateList(ctx, a.Input)
		}),
		"update_list": withArgs(func(ctx context.Context, a inputArgs[UpdateListInput]) (any, error) {
			return d.UpdateList(ctx, a.Input)
		}),
		"delete_list": withArgs(func(ctx context.Context, a idArgs) (any, error) {
			return nil, d.DeleteList(ctx, a.ID)
		}),

		// Tasks
		"get_tasks": withArgs(func(ctx context.Context, a listIDArgs) (any, error) {
			return d.GetTasks(ctx, a.ListID)
		}),

		"get_today_tasks":     view(d, model.ViewToday),
		"get_planned_tasks":   view(d, model.ViewPlanned),
		"get_important_tasks": view(d, model.ViewImportant),
		"get_completed_tasks": view(d, model.ViewCompleted),

		"search_tasks": withArgs(func(ctx context.Context, a queryArgs) (any, error) {
			return d.SearchTasks(ctx, a.Query)
		}),
		"create_task": withArgs(func(ctx context.Context, a inputArgs[model.CreateTaskInput]) (any, error) {
			return d.CreateTask(ctx, a.Input)
		}),
		"update_task": withArgs(func(ctx context.Context, a inputArgs[UpdateTaskInput]) (any, error) {
			return d.UpdateTask(ctx, a.Input)
		}),
		"delete_task": withArgs(func(ctx context.Context, a idArgs) (any, error) {
			return nil, d.DeleteTask(ctx, a.ID)
		}),
		"toggle_task_important": withArgs(func(ctx context.Context, a idArgs) (any, error) {
			return d.ToggleTaskImportant(ctx, a.ID)
		}),
		"toggle_task_completed": withArgs(func(ctx context.Context, a idArgs) (any, error) {
			return d.ToggleTaskCompleted(ctx, a.ID)
		}),

		// Subtasks
		"get_subtasks": withArgs(func(ctx context.Context, a taskIDArgs) (any, error) {
			return d.GetSubtasks(ctx, a.TaskID)
		}),
		"get_all_subtasks": func(ctx context.Context, _ json.RawMessage) (any, error) {
			return d.GetAllSubtasks(ctx)
		},
		"create_subtask": withArgs(func(ctx context.Context, a createSubtaskArgs) (any, error) {
			return d.CreateSubtask(ctx, a.TaskID, a.Title)
		}),
		"update_subtask": withArgs(func(ctx context.Context, a inputArgs[UpdateSubtaskInput]) (any, error) {
			return d.UpdateSubtask(ctx, a.Input)
		}),
		"delete_subtask": withArgs(func(ctx context.Context, a idArgs) (any, error) {
			return nil, d.DeleteSubtask(ctx, a.ID)
		}),
		"toggle_subtask_completed": withArgs(func(ctx context.Context, a idArgs) (any, error) {
			return d.ToggleSubtaskCompleted(ctx, a.ID)
		}),

		// Import / export
		"export_tasks": withArgs(func(ctx context.Context, a listIDArgs) (any, error) {
			return d.ExportTasks(ctx, a.ListID)
		}),
		"import_tasks": withArgs(func(ctx context.Context, a jsonDataArgs) (any, error) {
			return d.ImportTasks(ctx, a.JSONData)
		}),
		"export_tasks_to_file": withArgs(func(ctx context.Context, a listIDArgs) (any, error) {
			return d.ExportTasksToFile(ctx, a.ListID)
		}),
		"export_tasks_to_path": withArgs(func(ctx context.Context, a filePathArgs) (any, error) {
			if err := d.ExportTasksToPath(ctx, a.FilePath, a.ListID); err != nil {
				return nil, err
			}
			return true, nil
		}),
		"import_tasks_from_file": withArgs(func(ctx context.Context, a filePathArgs) (any, error) {
			return d.ImportTasksFromFile(ctx, a.FilePath)
		}),
	}
}

func withArgs[T any](fn func(ctx context.Context, args T) (any, error)) handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		args, err := decodeArgs[T](raw)
		if err != nil {
			return nil, err
		}
		return fn(ctx, args)
	}
}

func view(d *Dispatcher, v model.View) handler {
	return func(ctx context.Context, _ json.RawMessage) (any, error) {
		return d.taskView(ctx, store.TaskFilter{View: v})
	}
}

// wrap converts err to a *Error, keeping nil as an untyped nil.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	return FromError(err)
}

// nonNil keeps empty results serialized as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// === Lists ===

// GetLists returns every list in display order.
func (d *Dispatcher) GetLists(ctx context.Context) ([]model.List, error) {
	lists, err := d.store.GetLists(ctx)
	return nonNil(lists), wrap(err)
}

// CreateList adds a list at the end of the display order.
func (d *Dispatcher) CreateList(ctx context.Context, input model.CreateListInput) (*model.List, error) {
	list, err := d.store.CreateList(ctx, input)
	return list, wrap(err)
}

// UpdateList applies the set fields of input to the list input.ID.
func (d *Dispatcher) UpdateList(ctx context.Context, input UpdateListInput) (*model.List, error) {
	if err := required("list id", input.ID); err != nil {
		return nil, wrap(err)
	}
	list, err := d.store.UpdateList(ctx, input.ID, input.ListPatch)
	return list, wrap(err)
}

// DeleteList removes a non-default list with its tasks and subtasks.
func (d *Dispatcher) DeleteList(ctx context.Context, id string) error {
	return wrap(d.store.DeleteList(ctx, id))
}

// === Tasks ===

// GetTasks returns the tasks of listID, or every task when listID is nil.
func (d *Dispatcher) GetTasks(ctx context.Context, listID *string) ([]model.Task, error) {
	return d.taskView(ctx, store.TaskFilter{View: model.ViewAll, ListID: listID})
}

// GetTodayTasks returns the tasks due today.
func (d *Dispatcher) GetTodayTasks(ctx context.Context) ([]model.Task, error) {
	return d.taskView(ctx, store.TaskFilter{View: model.ViewToday})
}

// GetPlannedTasks returns the tasks due or starting after today.
func (d *Dispatcher) GetPlannedTasks(ctx context.Context) ([]model.Task, error) {
	return d.taskView(ctx, store.TaskFilter{View: model.ViewPlanned})
}

// GetImportantTasks returns the starred tasks.
func (d *Dispatcher) GetImportantTasks(ctx context.Context) ([]model.Task, error) {
	return d.taskView(ctx, store.TaskFilter{View: model.ViewImportant})
}

// GetCompletedTasks returns the completed tasks, most recently updated first.
func (d *Dispatcher) GetCompletedTasks(ctx context.Context) ([]model.Task, error) {
	return d.taskView(ctx, store.TaskFilter{View: model.ViewCompleted})
}

// SearchTasks returns the tasks whose title or content contains query.
func (d *Dispatcher) SearchTasks(ctx context.Context, query string) ([]model.Task, error) {
	return d.taskView(ctx, store.TaskFilter{View: model.ViewAll, Query: &query})
}

func (d *Dispatcher) taskView(ctx context.Context, filter store.TaskFilter) ([]model.Task, error) {
	tasks, err := d.store.GetTasks(ctx, filter)
	return nonNil(tasks), wrap(err)
}

// CreateTask adds a task with both flags cleared.
func (d *Dispatcher) CreateTask(ctx context.Context, input model.CreateTaskInput) (*model.Task, error) {
	task, err := d.store.CreateTask(ctx, input)
	return task, wrap(err)
}

// UpdateTask applies the set fields of input to the task input.ID.
func (d *Dispatcher) UpdateTask(ctx context.Context, input UpdateTaskInput) (*model.Task, error) {
	if err := required("task id", input.ID); err != nil {
		return nil, wrap(err)
	}
	task, err := d.store.UpdateTask(ctx, input.ID, input.TaskPatch)
	return task, wrap(err)
}

// DeleteTask removes a task and its subtasks. An unknown id is not an error.
func (d *Dispatcher) DeleteTask(ctx context.Context, id string) error {
	return wrap(d.store.DeleteTask(ctx, id))
}

// ToggleTaskImportant flips the important flag of a task.
func (d *Dispatcher) ToggleTaskImportant(ctx context.Context, id string) (*model.Task, error) {
	task, err := d.store.ToggleTaskImportant(ctx, id)
	return task, wrap(err)
}

// ToggleTaskCompleted flips the completed flag of a task.
func (d *Dispatcher) ToggleTaskCompleted(ctx context.Context, id string) (*model.Task, error) {
	task, err := d.store.ToggleTaskCompleted(ctx, id)
	return task, wrap(err)
}

// === Subtasks ===

// GetSubtasks returns the subtasks of taskID, oldest first.
func (d *Dispatcher) GetSubtasks(ctx context.Context, taskID string) ([]model.Subtask, error) {
	subtasks, err := d.store.GetSubtasks(ctx, taskID)
	return nonNil(subtasks), wrap(err)
}

// GetAllSubtasks returns the subtasks of every task.
func (d *Dispatcher) GetAllSubtasks(ctx context.Context) ([]model.Subtask, error) {
	subtasks, err := d.store.GetAllSubtasks(ctx)
	return nonNil(subtasks), wrap(err)
}

// CreateSubtask adds an open subtask to taskID.
func (d *Dispatcher) CreateSubtask(ctx context.Context, taskID, title string) (*model.Subtask, error) {
	subtask, err := d.store.CreateSubtask(ctx, taskID, title)
	return subtask, wrap(err)
}

// UpdateSubtask applies the set fields of input to the subtask input.ID.
func (d *Dispatcher) UpdateSubtask(ctx context.Context, input UpdateSubtaskInput) (*model.Subtask, error) {
	if err := required("subtask id", input.ID); err != nil {
		return nil, wrap(err)
	}
	subtask, err := d.store.UpdateSubtask(ctx, input.ID, input.SubtaskPatch)
	return subtask, wrap(err)
}

// DeleteSubtask removes a subtask. An unknown id is not an error.
func (d *Dispatcher) DeleteSubtask(ctx context.Context, id string) error {
	return wrap(d.store.DeleteSubtask(ctx, id))
}

// ToggleSubtaskCompleted flips the completed flag of a subtask.
func (d *Dispatcher) ToggleSubtaskCompleted(ctx context.Context, id string) (*model.Subtask, error) {
	subtask, err := d.store.ToggleSubtaskCompleted(ctx, id)
	return subtask, wrap(err)
}

// === Import / Export ===

// ExportTasks builds an export document of listID, or of every task when
// listID is nil. All lists are always included.
func (d *Dispatcher) ExportTasks(ctx context.Context, listID *string) (*model.ExportDocument, error) {
	doc, err := d.store.Export(ctx, listID)
	if err != nil {
		return nil, wrap(err)
	}
	doc.Tasks = nonNil(doc.Tasks)
	doc.Lists = nonNil(doc.Lists)
	return doc, nil
}

// ImportTasks merges a JSON export document and returns the created tasks.
func (d *Dispatcher) ImportTasks(ctx context.Context, jsonData string) ([]model.Task, error) {
	doc, err := store.DecodeExportDocument([]byte(jsonData))
	if err != nil {
		return nil, wrap(err)
	}
	tasks, err := d.store.Import(ctx, doc)
	return nonNil(tasks), wrap(err)
}

// ExportTasksToFile writes a timestamped JSON export into the data
// directory and returns its path.
func (d *Dispatcher) ExportTasksToFile(ctx context.Context, listID *string) (string, error) {
	path, err := d.transfer.ExportToDir(ctx, d.dataDir, listID)
	if err != nil {
		return "", wrap(err)
	}
	d.log.WithField("path", path).Info("exported tasks")
	return path, nil
}

// ExportTasksToPath writes an export to path; a .yaml or .yml extension
// selects YAML.
func (d *Dispatcher) ExportTasksToPath(ctx context.Context, path string, listID *string) error {
	if path == "" {
		return wrap(required("file path", path))
	}
	if err := d.transfer.ExportToPath(ctx, path, listID); err != nil {
		return wrap(err)
	}
	d.log.WithField("path", path).Info("exported tasks")
	return nil
}

// ImportTasksFromFile merges a JSON or YAML export file and returns the created tasks.
func (d *Dispatcher) ImportTasksFromFile(ctx context.Context, path string) ([]model.Task, error) {
	if path == "" {
		return nil, wrap(required("file path", path))
	}
	tasks, err := d.transfer.ImportFile(ctx, path)
	return nonNil(tasks), wrap(err)
}
