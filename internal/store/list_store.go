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

const listColumns = "id, name, color, icon, is_default, created_at, order_index"

// GetLists returns all lists ordered by their display order.
func (s *SQLiteStore) GetLists(ctx context.Context) ([]model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return selectLists(ctx, s.db)
}

// GetList retrieves a single list by ID.
func (s *SQLiteStore) GetList(ctx context.Context, id string) (*model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return getList(ctx, s.db, id)
}

// CreateList inserts a new non-default list at the end of the display order.
func (s *SQLiteStore) CreateList(
	ctx context.Context,
	input model.CreateListInput,
) (*model.List, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("list name must not be empty: %w", ErrInvalidOperation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := model.List{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Color:     input.Color,
		Icon:      input.Icon,
		CreatedAt: s.timestamp(),
	}

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &list.Order,
			"SELECT COALESCE(MAX(order_index) + 1, 0) FROM lists")
		if err != nil {
			return dbErr("getting max list order", err)
		}
		return insertList(ctx, tx, list)
	})
	if err != nil {
		return nil, err
	}

	return &list, nil
}

// UpdateList applies the set fields of patch to an existing list.
func (s *SQLiteStore) UpdateList(
	ctx context.Context,
	id string,
	patch model.ListPatch,
) (*model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var list *model.List
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		list, err = getList(ctx, tx, id)
		if err != nil {
			return err
		}

		patch.Apply(list)
		if strings.TrimSpace(list.Name) == "" {
			return fmt.Errorf("list name must not be empty: %w", ErrInvalidOperation)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE lists SET name = ?, color = ?, icon = ?, order_index = ?
			WHERE id = ?`,
			list.Name, list.Color, list.Icon, list.Order, list.ID,
		)
		if err != nil {
			return dbErr(fmt.Sprintf("updating list %s", id), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return list, nil
}

// DeleteList removes a non-default list together with its tasks. Subtasks
// of those tasks go through the foreign key cascade.
func (s *SQLiteStore) DeleteList(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var isDefault bool
		err := tx.GetContext(ctx, &isDefault,
			"SELECT is_default FROM lists WHERE id = ?", id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("list %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return dbErr(fmt.Sprintf("getting list %s", id), err)
		}
		if isDefault {
			return fmt.Errorf("cannot delete default list: %w", ErrInvalidOperation)
		}

		result, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE list_id = ?", id)
		if err != nil {
			return dbErr(fmt.Sprintf("deleting tasks of list %s", id), err)
		}
		removed, _ = result.RowsAffected()

		if _, err := tx.ExecContext(ctx, "DELETE FROM lists WHERE id = ?", id); err != nil {
			return dbErr(fmt.Sprintf("deleting list %s", id), err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithField("list_id", id).WithField("tasks", removed).Info("deleted list")
	return nil
}

// getList loads one list through q, mapping a missing row to ErrNotFound.
func getList(ctx context.Context, q sqlx.QueryerContext, id string) (*model.List, error) {
	var list model.List
	err := sqlx.GetContext(ctx, q, &list,
		"SELECT "+listColumns+" FROM lists WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, dbErr(fmt.Sprintf("getting list %s", id), err)
	}
	return &list, nil
}

func selectLists(ctx context.Context, q sqlx.QueryerContext) ([]model.List, error) {
	lists := []model.List{}
	err := sqlx.SelectContext(ctx, q, &lists,
		"SELECT "+listColumns+" FROM lists ORDER BY order_index ASC")
	if err != nil {
		return nil, dbErr("querying lists", err)
	}
	return lists, nil
}

// insertList writes list as given. Timestamps are stored in UTC; the driver
// cannot read back the text it writes for other offsets.
func insertList(ctx context.Context, e sqlx.ExecerContext, list model.List) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO lists (id, name, color, icon, is_default, created_at, order_index)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		list.ID, list.Name, list.Color, list.Icon,
		boolToInt(list.IsDefault), list.CreatedAt.UTC(), list.Order,
	)
	if err != nil {
		return dbErr(fmt.Sprintf("inserting list %s", list.ID), err)
	}
	return nil
}
