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

const subtaskColumns = "id, task_id, title, is_completed, created_at, updated_at"

// GetSubtasks returns the subtasks of a task in creation order.
func (s *SQLiteStore) GetSubtasks(ctx context.Context, taskID string) ([]model.Subtask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subtasks := []model.Subtask{}
	err := s.db.SelectContext(ctx, &subtasks,
		"SELECT "+subtaskColumns+" FROM subtasks WHERE task_id = ? ORDER BY created_at ASC",
		taskID)
	if err != nil {
		return nil, dbErr(fmt.Sprintf("querying subtasks of task %s", taskID), err)
	}
	return subtasks, nil
}

// GetAllSubtasks returns every subtask grouped by task, in creation order.
func (s *SQLiteStore) GetAllSubtasks(ctx context.Context) ([]model.Subtask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subtasks := []model.Subtask{}
	err := s.db.SelectContext(ctx, &subtasks,
		"SELECT "+subtaskColumns+" FROM subtasks ORDER BY task_id, created_at ASC")
	if err != nil {
		return nil, dbErr("querying subtasks", err)
	}
	return subtasks, nil
}

// CreateSubtask adds a subtask to a task. A missing parent surfaces as a
// foreign key failure.
func (s *SQLiteStore) CreateSubtask(
	ctx context.Context,
	taskID, title string,
) (*model.Subtask, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("subtask title must not be empty: %w", ErrInvalidOperation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timestamp()
	subtask := model.Subtask{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subtasks (id, task_id, title, is_completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		subtask.ID, subtask.TaskID, subtask.Title,
		boolToInt(subtask.IsCompleted), subtask.CreatedAt, subtask.UpdatedAt,
	)
	if err != nil {
		return nil, dbErr("creating subtask", err)
	}
	return &subtask, nil
}

// UpdateSubtask applies the set fields of patch and refreshes updated_at.
func (s *SQLiteStore) UpdateSubtask(
	ctx context.Context,
	id string,
	patch model.SubtaskPatch,
) (*model.Subtask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var subtask *model.Subtask
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		subtask, err = getSubtask(ctx, tx, id)
		if err != nil {
			return err
		}

		patch.Apply(subtask)
		if strings.TrimSpace(subtask.Title) == "" {
			return fmt.Errorf("subtask title must not be empty: %w", ErrInvalidOperation)
		}
		subtask.UpdatedAt = s.timestamp()

		_, err = tx.ExecContext(ctx,
			"UPDATE subtasks SET title = ?, is_completed = ?, updated_at = ? WHERE id = ?",
			subtask.Title, boolToInt(subtask.IsCompleted), subtask.UpdatedAt, subtask.ID,
		)
		if err != nil {
			return dbErr(fmt.Sprintf("updating subtask %s", id), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return subtask, nil
}

// DeleteSubtask removes a subtask by ID. Deleting a missing subtask is not
// an error.
func (s *SQLiteStore) DeleteSubtask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM subtasks WHERE id = ?", id); err != nil {
		return dbErr(fmt.Sprintf("deleting subtask %s", id), err)
	}
	return nil
}

// ToggleSubtaskCompleted flips the completed flag of a subtask.
func (s *SQLiteStore) ToggleSubtaskCompleted(ctx context.Context, id string) (*model.Subtask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var subtask *model.Subtask
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			"UPDATE subtasks SET is_completed = CASE WHEN is_completed = 0 THEN 1 ELSE 0 END, updated_at = ? WHERE id = ?",
			s.timestamp(), id)
		if err != nil {
			return dbErr(fmt.Sprintf("toggling subtask %s", id), err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("subtask %s: %w", id, ErrNotFound)
		}

		subtask, err = getSubtask(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return subtask, nil
}

func getSubtask(ctx context.Context, q sqlx.QueryerContext, id string) (*model.Subtask, error) {
	var subtask model.Subtask
	err := sqlx.GetContext(ctx, q, &subtask,
		"SELECT "+subtaskColumns+" FROM subtasks WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("subtask %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, dbErr(fmt.Sprintf("getting subtask %s", id), err)
	}
	return &subtask, nil
}
