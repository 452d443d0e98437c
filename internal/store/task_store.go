package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/itodo/internal/model"
)

const taskColumns = "id, title, content, is_completed, is_important, " +
	"due_date, start_date, remind_time, repeat_rule, list_id, created_at, updated_at"

// GetTasks returns the tasks of the view selected by filter.
func (s *SQLiteStore) GetTasks(
	ctx context.Context,
	filter TaskFilter,
) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selectTasks(ctx, s.db, filter)
}

// GetTask retrieves a single task by ID.
func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return getTask(ctx, s.db, id)
}

// CreateTask inserts a new task. Both flags start false.
func (s *SQLiteStore) CreateTask(
	ctx context.Context,
	input model.CreateTaskInput,
) (*model.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("task title must not be empty: %w", ErrInvalidOperation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timestamp()
	task := model.Task{
		ID:         uuid.New().String(),
		Title:      input.Title,
		Content:    input.Content,
		DueDate:    input.DueDate,
		StartDate:  input.StartDate,
		RemindTime: input.RemindTime,
		RepeatRule: input.RepeatRule,
		ListID:     input.ListID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := insertTask(ctx, s.db, task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies the set fields of patch and refreshes updated_at.
func (s *SQLiteStore) UpdateTask(
	ctx context.Context,
	id string,
	patch model.TaskPatch,
) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var task *model.Task
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		task, err = getTask(ctx, tx, id)
		if err != nil {
			return err
		}

		patch.Apply(task)
		if strings.TrimSpace(task.Title) == "" {
			return fmt.Errorf("task title must not be empty: %w", ErrInvalidOperation)
		}
		task.UpdatedAt = s.timestamp()

		_, err = tx.ExecContext(ctx, `
			UPDATE tasks SET
				title = ?, content = ?, is_completed = ?, is_important = ?,
				due_date = ?, start_date = ?, remind_time = ?, repeat_rule = ?,
				list_id = ?, updated_at = ?
			WHERE id = ?`,
			task.Title, task.Content,
			boolToInt(task.IsCompleted), boolToInt(task.IsImportant),
			task.DueDate, task.StartDate, task.RemindTime, task.RepeatRule,
			task.ListID, task.UpdatedAt,
			task.ID,
		)
		if err != nil {
			return dbErr(fmt.Sprintf("updating task %s", id), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// DeleteTask removes a task by ID. Cascades to subtasks. Deleting a task
// that does not exist is not an error.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
		return dbErr(fmt.Sprintf("deleting task %s", id), err)
	}
	return nil
}

// ToggleTaskImportant flips the important flag.
func (s *SQLiteStore) ToggleTaskImportant(ctx context.Context, id string) (*model.Task, error) {
	return s.toggleTask(ctx, id, "is_important")
}

// ToggleTaskCompleted flips the completed flag.
func (s *SQLiteStore) ToggleTaskCompleted(ctx context.Context, id string) (*model.Task, error) {
	return s.toggleTask(ctx, id, "is_completed")
}

// toggleTask flips a boolean column, which must be a fixed column name.
func (s *SQLiteStore) toggleTask(ctx context.Context, id, column string) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var task *model.Task
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			fmt.Sprintf("UPDATE tasks SET %[1]s = CASE WHEN %[1]s = 0 THEN 1 ELSE 0 END, updated_at = ? WHERE id = ?", column),
			s.timestamp(), id,
		)
		if err != nil {
			return dbErr(fmt.Sprintf("toggling %s on task %s", column, id), err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("task %s: %w", id, ErrNotFound)
		}

		task, err = getTask(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// selectTasks runs the view query for filter through q.
func (s *SQLiteStore) selectTasks(
	ctx context.Context,
	q sqlx.QueryerContext,
	filter TaskFilter,
) ([]model.Task, error) {
	query, args := buildTaskQuery(filter, s.today())

	s.log.WithField("view", filter.View).Debug(query)

	tasks := []model.Task{}
	if err := sqlx.SelectContext(ctx, q, &tasks, query, args...); err != nil {
		return nil, dbErr("querying tasks", err)
	}
	return tasks, nil
}

// buildTaskQuery constructs the SQL query and args for a TaskFilter.
// today is a YYYY-MM-DD date compared against the date part of due_date
// and start_date.
func buildTaskQuery(filter TaskFilter, today string) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	orderBy := "is_completed ASC, created_at DESC"

	switch filter.View {
	case model.ViewToday:
		conditions = append(conditions, "date(due_date) = date(?)")
		args = append(args, today)
	case model.ViewPlanned:
		conditions = append(conditions,
			"(date(due_date) > date(?) OR date(start_date) > date(?))")
		args = append(args, today, today)
		orderBy = "due_date ASC, created_at DESC"
	case model.ViewImportant:
		conditions = append(conditions, "is_important = 1")
	case model.ViewCompleted:
		conditions = append(conditions, "is_completed = 1")
		orderBy = "updated_at DESC"
	default:
		if filter.ListID != nil {
			conditions = append(conditions, "list_id = ?")
			args = append(args, *filter.ListID)
		}
	}

	if filter.Query != nil {
		conditions = append(conditions, "(title LIKE ? OR content LIKE ?)")
		q := "%" + *filter.Query + "%"
		args = append(args, q, q)
	}

	query := "SELECT " + taskColumns + " FROM tasks"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY " + orderBy

	return query, args
}

// getTask loads one task through q, mapping a missing row to ErrNotFound.
func getTask(ctx context.Context, q sqlx.QueryerContext, id string) (*model.Task, error) {
	var task model.Task
	err := sqlx.GetContext(ctx, q, &task,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, dbErr(fmt.Sprintf("getting task %s", id), err)
	}
	return &task, nil
}

// insertTask writes task as given, with its timestamps in UTC.
func insertTask(ctx context.Context, e sqlx.ExecerContext, task model.Task) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO tasks (
			id, title, content, is_completed, is_important,
			due_date, start_date, remind_time, repeat_rule,
			list_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Content,
		boolToInt(task.IsCompleted), boolToInt(task.IsImportant),
		task.DueDate, task.StartDate, task.RemindTime, task.RepeatRule,
		task.ListID, task.CreatedAt.UTC(), task.UpdatedAt.UTC(),
	)
	if err != nil {
		return dbErr(fmt.Sprintf("creating task %s", task.ID), err)
	}
	return nil
}
