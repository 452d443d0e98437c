package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/itodo/internal/model"
)

// Export snapshots all lists and the tasks of listID (or every task when
// listID is nil).
func (s *SQLiteStore) Export(ctx context.Context, listID *string) (*model.ExportDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := &model.ExportDocument{
		Version:    model.ExportVersion,
		ExportDate: s.timestamp(),
	}

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		doc.Tasks, err = s.selectTasks(ctx, tx, TaskFilter{View: model.ViewAll, ListID: listID})
		if err != nil {
			return err
		}
		doc.Lists, err = selectLists(ctx, tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("exporting tasks: %w", err)
	}

	s.log.WithField("tasks", len(doc.Tasks)).WithField("lists", len(doc.Lists)).Info("exported tasks")
	return doc, nil
}

// Import merges doc into the database in one transaction. Lists are
// inserted only when their id is absent and never as a second default.
// Every task is inserted under a new id with fresh timestamps and its
// original list_id, so importing the same document twice duplicates tasks.
// The returned tasks carry the new ids.
func (s *SQLiteStore) Import(ctx context.Context, doc *model.ExportDocument) ([]model.Task, error) {
	if doc == nil {
		return nil, fmt.Errorf("import document is empty: %w", ErrSerialization)
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	imported := make([]model.Task, 0, len(doc.Tasks))
	var newLists int

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, list := range doc.Lists {
			var count int
			err := tx.GetContext(ctx, &count,
				"SELECT COUNT(*) FROM lists WHERE id = ?", list.ID)
			if err != nil {
				return dbErr(fmt.Sprintf("checking list %s", list.ID), err)
			}
			if count > 0 {
				continue
			}

			list.IsDefault = false
			if err := insertList(ctx, tx, list); err != nil {
				return err
			}
			newLists++
		}

		now := s.timestamp()
		for _, task := range doc.Tasks {
			task.ID = uuid.New().String()
			task.CreatedAt = now
			task.UpdatedAt = now
			if err := insertTask(ctx, tx, task); err != nil {
				return err
			}
			imported = append(imported, task)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("importing tasks: %w", err)
	}

	s.log.WithField("tasks", len(imported)).WithField("lists", newLists).Info("imported tasks")
	return imported, nil
}

// DecodeExportDocument parses and validates a JSON export document.
func DecodeExportDocument(data []byte) (*model.ExportDocument, error) {
	var doc model.ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing import data: %w: %w", ErrSerialization, err)
	}
	if err := validateDocument(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// validateDocument checks the version and the fields the schema requires.
func validateDocument(doc *model.ExportDocument) error {
	major, _, _ := strings.Cut(doc.Version, ".")
	wantMajor, _, _ := strings.Cut(model.ExportVersion, ".")
	if doc.Version == "" || major != wantMajor {
		return fmt.Errorf("unsupported export version %q: %w", doc.Version, ErrSerialization)
	}

	for i, list := range doc.Lists {
		if list.ID == "" || strings.TrimSpace(list.Name) == "" {
			return fmt.Errorf("list %d is missing id or name: %w", i, ErrSerialization)
		}
	}
	for i, task := range doc.Tasks {
		if strings.TrimSpace(task.Title) == "" || task.ListID == "" {
			return fmt.Errorf("task %d is missing title or list_id: %w", i, ErrSerialization)
		}
	}
	return nil
}
