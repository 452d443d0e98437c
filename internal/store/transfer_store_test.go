package store_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/itodo/internal/model"
	"github.com/nhle/itodo/internal/store"
	"github.com/nhle/itodo/tests/testutil"
)

func TestExportScopesTasksButKeepsAllLists(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewClockedStore(t, "2024-06-01T09:00:00Z")
	def := defaultList(t, s)
	work, err := s.CreateList(ctx, model.CreateListInput{Name: "Work"})
	require.NoError(t, err)

	_, err = s.CreateTask(ctx, model.CreateTaskInput{Title: "home", ListID: def.ID})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, model.CreateTaskInput{Title: "office", ListID: work.ID})
	require.NoError(t, err)

	doc, err := s.Export(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, model.ExportVersion, doc.Version)
	assert.False(t, doc.ExportDate.IsZero())
	assert.Len(t, doc.Tasks, 2)
	assert.Len(t, doc.Lists, 2)

	scoped, err := s.Export(ctx, &work.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"office"}, titles(scoped.Tasks))
	assert.Len(t, scoped.Lists, 2)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _ := testutil.NewClockedStore(t, "2024-06-01T09:00:00Z")
	work, err := src.CreateList(ctx, model.CreateListInput{Name: "Work", Icon: strPtr("briefcase")})
	require.NoError(t, err)

	original, err := src.CreateTask(ctx, model.CreateTaskInput{
		Title:      "Quarterly report",
		Content:    strPtr("numbers"),
		ListID:     work.ID,
		DueDate:    strPtr("2024-06-30"),
		StartDate:  strPtr("2024-06-15"),
		RemindTime: strPtr("09:00"),
		RepeatRule: strPtr("FREQ=QUARTERLY"),
	})
	require.NoError(t, err)
	original, err = src.ToggleTaskImportant(ctx, original.ID)
	require.NoError(t, err)

	doc, err := src.Export(ctx, nil)
	require.NoError(t, err)

	// Through JSON, as a file would carry it.
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	decoded, err := store.DecodeExportDocument(data)
	require.NoError(t, err)

	dst, _ := testutil.NewClockedStore(t, "2024-07-01T09:00:00Z")
	imported, err := dst.Import(ctx, decoded)
	require.NoError(t, err)
	require.Len(t, imported, 1)

	got := imported[0]
	assert.NotEqual(t, original.ID, got.ID)
	assert.Equal(t, original.Title, got.Title)
	assert.Equal(t, original.Content, got.Content)
	assert.Equal(t, original.IsImportant, got.IsImportant)
	assert.Equal(t, original.IsCompleted, got.IsCompleted)
	assert.Equal(t, original.DueDate, got.DueDate)
	assert.Equal(t, original.StartDate, got.StartDate)
	assert.Equal(t, original.RemindTime, got.RemindTime)
	assert.Equal(t, original.RepeatRule, got.RepeatRule)
	assert.Equal(t, work.ID, got.ListID)
	assert.True(t, got.CreatedAt.After(original.CreatedAt))

	stored, err := dst.GetTask(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly report", stored.Title)

	lists, err := dst.GetLists(ctx)
	require.NoError(t, err)
	defaults := 0
	for _, l := range lists {
		if l.IsDefault {
			defaults++
		}
	}
	// dst's own default plus src's lists, of which none may become default.
	assert.Len(t, lists, 3)
	assert.Equal(t, 1, defaults)
}

func TestReimportDuplicatesTasksNotLists(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewClockedStore(t, "2024-06-01T09:00:00Z")
	work, err := s.CreateList(ctx, model.CreateListInput{Name: "Work"})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, model.CreateTaskInput{Title: "standup", ListID: work.ID})
	require.NoError(t, err)

	doc, err := s.Export(ctx, nil)
	require.NoError(t, err)

	first, err := s.Import(ctx, doc)
	require.NoError(t, err)
	second, err := s.Import(ctx, doc)
	require.NoError(t, err)
	assert.NotEqual(t, first[0].ID, second[0].ID)

	lists, err := s.GetLists(ctx)
	require.NoError(t, err)
	assert.Len(t, lists, 2)

	tasks, err := s.GetTasks(ctx, store.TaskFilter{ListID: &work.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"standup", "standup", "standup"}, titles(tasks))
}

func TestImportLeavesExistingListUntouched(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	work, err := s.CreateList(ctx, model.CreateListInput{Name: "Work"})
	require.NoError(t, err)

	renamed := *work
	renamed.Name = "Renamed elsewhere"
	_, err = s.Import(ctx, &model.ExportDocument{
		Version: model.ExportVersion,
		Lists:   []model.List{renamed},
	})
	require.NoError(t, err)

	got, err := s.GetList(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, "Work", got.Name)
}

func TestImportDanglingListIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	def := defaultList(t, s)

	doc := &model.ExportDocument{
		Version: model.ExportVersion,
		Tasks: []model.Task{
			{Title: "fine", ListID: def.ID},
			{Title: "dangling", ListID: "gone"},
		},
	}

	_, err := s.Import(ctx, doc)
	assert.ErrorIs(t, err, store.ErrStorage)

	tasks, err := s.GetTasks(ctx, store.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDecodeExportDocumentRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"not json":        `{"version": `,
		"missing version": `{"tasks": [], "lists": []}`,
		"future version":  `{"version": "2.0", "tasks": [], "lists": []}`,
		"untitled task":   `{"version": "1.0", "tasks": [{"list_id": "x"}], "lists": []}`,
		"nameless list":   `{"version": "1.0", "tasks": [], "lists": [{"id": "x"}]}`,
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := store.DecodeExportDocument([]byte(input))
			assert.ErrorIs(t, err, store.ErrSerialization)
		})
	}
}

func TestImportNormalizesOffsetTimestamps(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	doc, err := store.DecodeExportDocument([]byte(`{
		"version": "1.0",
		"export_date": "2024-05-01T10:00:00+08:00",
		"lists": [
			{"id": "L1", "name": "Work", "is_default": false, "order": 1, "created_at": "2024-05-01T10:00:00+08:00"},
			{"id": "L2", "name": "Home", "is_default": false, "order": 2, "created_at": "2024-05-01T10:00:00-05:00"}
		],
		"tasks": [
			{"id": "T1", "title": "report", "list_id": "L1", "is_completed": false, "is_important": false,
			 "created_at": "2024-05-01T10:00:00+08:00", "updated_at": "2024-05-01T10:00:00-05:00"}
		]
	}`))
	require.NoError(t, err)

	_, err = s.Import(ctx, doc)
	require.NoError(t, err)

	lists, err := s.GetLists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 3)

	created := map[string]time.Time{}
	for _, l := range lists {
		created[l.ID] = l.CreatedAt
	}
	assert.True(t, created["L1"].Equal(time.Date(2024, 5, 1, 2, 0, 0, 0, time.UTC)))
	assert.True(t, created["L2"].Equal(time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)))

	exported, err := s.Export(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, exported.Lists, 3)
	assert.Equal(t, []string{"report"}, titles(exported.Tasks))
}
