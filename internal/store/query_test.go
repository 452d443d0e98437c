package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/itodo/internal/model"
)

func TestBuildTaskQuery(t *testing.T) {
	listID := "list-1"
	q := "milk"

	tests := []struct {
		name      string
		filter    TaskFilter
		wantWhere string
		wantOrder string
		wantArgs  []interface{}
	}{
		{
			name:      "all",
			filter:    TaskFilter{},
			wantOrder: "ORDER BY is_completed ASC, created_at DESC",
		},
		{
			name:      "list",
			filter:    TaskFilter{ListID: &listID},
			wantWhere: "WHERE list_id = ?",
			wantOrder: "ORDER BY is_completed ASC, created_at DESC",
			wantArgs:  []interface{}{"list-1"},
		},
		{
			name:      "today",
			filter:    TaskFilter{View: model.ViewToday},
			wantWhere: "WHERE date(due_date) = date(?)",
			wantOrder: "ORDER BY is_completed ASC, created_at DESC",
			wantArgs:  []interface{}{"2024-06-01"},
		},
		{
			name:      "planned",
			filter:    TaskFilter{View: model.ViewPlanned},
			wantWhere: "WHERE (date(due_date) > date(?) OR date(start_date) > date(?))",
			wantOrder: "ORDER BY due_date ASC, created_at DESC",
			wantArgs:  []interface{}{"2024-06-01", "2024-06-01"},
		},
		{
			name:      "completed ignores list",
			filter:    TaskFilter{View: model.ViewCompleted, ListID: &listID},
			wantWhere: "WHERE is_completed = 1",
			wantOrder: "ORDER BY updated_at DESC",
		},
		{
			name:      "search",
			filter:    TaskFilter{Query: &q},
			wantWhere: "WHERE (title LIKE ? OR content LIKE ?)",
			wantOrder: "ORDER BY is_completed ASC, created_at DESC",
			wantArgs:  []interface{}{"%milk%", "%milk%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildTaskQuery(tt.filter, "2024-06-01")

			assert.True(t, strings.HasPrefix(query, "SELECT "+taskColumns+" FROM tasks"))
			if tt.wantWhere == "" {
				assert.NotContains(t, query, "WHERE")
			} else {
				assert.Contains(t, query, tt.wantWhere)
			}
			assert.True(t, strings.HasSuffix(query, tt.wantOrder), query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
