package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/itodo/internal/model"
	"github.com/nhle/itodo/internal/store"
	"github.com/nhle/itodo/tests/testutil"
)

func titles(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestCreateTaskDefaults(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewClockedStore(t, "2024-06-01T09:00:00Z")
	def := defaultList(t, s)

	task, err := s.CreateTask(ctx, model.CreateTaskInput{
		Title:      "Pay rent",
		Content:    strPtr("before the 5th"),
		ListID:     def.ID,
		DueDate:    strPtr("2024-06-05"),
		RepeatRule: strPtr("FREQ=MONTHLY"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.False(t, task.IsCompleted)
	assert.False(t, task.IsImportant)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pay rent", got.Title)
	require.NotNil(t, got.Content)
	assert.Equal(t, "before the 5th", *got.Content)
	require.NotNil(t, got.RepeatRule)
	assert.Equal(t, "FREQ=MONTHLY", *got.RepeatRule)
	assert.Nil(t, got.StartDate)
	assert.Nil(t, got.RemindTime)
	assert.True(t, task.CreatedAt.Equal(got.CreatedAt))
}

func TestCreateTaskValidation(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	_, err := s.CreateTask(ctx, model.CreateTaskInput{Title: "", ListID: defaultList(t, s).ID})
	assert.ErrorIs(t, err, store.ErrInvalidOperation)

	_, err = s.CreateTask(ctx, model.CreateTaskInput{Title: "orphan", ListID: "no-such-list"})
	assert.ErrorIs(t, err, store.ErrStorage)
}

func TestUpdateTaskPartial(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewClockedStore(t, "2024-06-01T09:00:00Z")
	def := defaultList(t, s)

	task, err := s.CreateTask(ctx, model.CreateTaskInput{
		Title:   "Write report",
		Content: strPtr("quarterly numbers"),
		ListID:  def.ID,
		DueDate: strPtr("2024-06-10"),
	})
	require.NoError(t, err)

	updated, err := s.UpdateTask(ctx, task.ID, model.TaskPatch{
		IsCompleted: model.Some(true),
	})
	require.NoError(t, err)

	assert.True(t, updated.IsCompleted)
	assert.Equal(t, "Write report", updated.Title)
	require.NotNil(t, updated.Content)
	assert.Equal(t, "quarterly numbers", *updated.Content)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, "2024-06-10", *updated.DueDate)
	assert.False(t, updated.IsImportant)
	assert.True(t, updated.UpdatedAt.After(task.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(task.CreatedAt))

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	assert.True(t, got.UpdatedAt.Equal(updated.UpdatedAt))
}

func TestUpdateTaskClearsNullableField(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	task, err := s.CreateTask(ctx, model.CreateTaskInput{
		Title:   "Dentist",
		ListID:  defaultList(t, s).ID,
		DueDate: strPtr("2024-06-10"),
	})
	require.NoError(t, err)

	updated, err := s.UpdateTask(ctx, task.ID, model.TaskPatch{
		DueDate: model.Some[*string](nil),
		Title:   model.Some("Dentist appointment"),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
	assert.Equal(t, "Dentist appointment", updated.Title)
}

func TestUpdateTaskErrors(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	_, err := s.UpdateTask(ctx, "missing", model.TaskPatch{Title: model.Some("x")})
	assert.ErrorIs(t, err, store.ErrNotFound)

	task, err := s.CreateTask(ctx, model.CreateTaskInput{Title: "t", ListID: defaultList(t, s).ID})
	require.NoError(t, err)

	_, err = s.UpdateTask(ctx, task.ID, model.TaskPatch{Title: model.Some(" ")})
	assert.ErrorIs(t, err, store.ErrInvalidOperation)

	_, err = s.UpdateTask(ctx, task.ID, model.TaskPatch{ListID: model.Some("no-such-list")})
	assert.ErrorIs(t, err, store.ErrStorage)
}

func TestToggleImportantTwice(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewClockedStore(t, "2024-06-01T09:00:00Z")

	task, err := s.CreateTask(ctx, model.CreateTaskInput{Title: "Call mom", ListID: defaultList(t, s).ID})
	require.NoError(t, err)

	first, err := s.ToggleTaskImportant(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, first.IsImportant)
	assert.True(t, first.UpdatedAt.After(task.UpdatedAt))

	second, err := s.ToggleTaskImportant(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, second.IsImportant)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestToggleCompleted(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	task, err := s.CreateTask(ctx, model.CreateTaskInput{Title: "Laundry", ListID: defaultList(t, s).ID})
	require.NoError(t, err)

	toggled, err := s.ToggleTaskCompleted(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsCompleted)
	assert.False(t, toggled.IsImportant)

	_, err = s.ToggleTaskCompleted(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.ToggleTaskImportant(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteTaskCascadesSubtasks(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	task, err := s.CreateTask(ctx, model.CreateTaskInput{Title: "Trip", ListID: defaultList(t, s).ID})
	require.NoError(t, err)
	_, err = s.CreateSubtask(ctx, task.ID, "passport")
	require.NoError(t, err)

	require.NoError(t, s.DeleteTask(ctx, task.ID))
	require.NoError(t, s.DeleteTask(ctx, task.ID), "deleting twice is not an error")

	_, err = s.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	subtasks, err := s.GetSubtasks(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, subtasks)
}

func TestGetTasksOrderingAndListFilter(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewClockedStore(t, "2024-06-01T09:00:00Z")
	def := defaultList(t, s)
	work, err := s.CreateList(ctx, model.CreateListInput{Name: "Work"})
	require.NoError(t, err)

	older, err := s.CreateTask(ctx, model.CreateTaskInput{Title: "older", ListID: def.ID})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, model.CreateTaskInput{Title: "newer", ListID: def.ID})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, model.CreateTaskInput{Title: "work", ListID: work.ID})
	require.NoError(t, err)

	_, err = s.ToggleTaskCompleted(ctx, older.ID)
	require.NoError(t, err)

	all, err := s.GetTasks(ctx, store.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"work", "newer", "older"}, titles(all))

	inDefault, err := s.GetTasks(ctx, store.TaskFilter{ListID: &def.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"newer", "older"}, titles(inDefault))
}

func TestImportantAndCompletedViews(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewClockedStore(t, "2024-06-01T09:00:00Z")
	listID := defaultList(t, s).ID

	a, err := s.CreateTask(ctx, model.CreateTaskInput{Title: "a", ListID: listID})
	require.NoError(t, err)
	b, err := s.CreateTask(ctx, model.CreateTaskInput{Title: "b", ListID: listID})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, model.CreateTaskInput{Title: "c", ListID: listID})
	require.NoError(t, err)

	_, err = s.ToggleTaskImportant(ctx, a.ID)
	require.NoError(t, err)

	// b completes before a, so a has the newer updated_at.
	_, err = s.ToggleTaskCompleted(ctx, b.ID)
	require.NoError(t, err)
	_, err = s.ToggleTaskCompleted(ctx, a.ID)
	require.NoError(t, err)

	important, err := s.GetTasks(ctx, store.TaskFilter{View: model.ViewImportant})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, titles(important))

	completed, err := s.GetTasks(ctx, store.TaskFilter{View: model.ViewCompleted})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, titles(completed))
}

func TestTodayView(t *testing.T) {
	ctx := context.Background()
	s, clock := testutil.NewClockedStore(t, "2024-06-01T00:30:00Z")
	listID := defaultList(t, s).ID

	create := func(title, due string) {
		_, err := s.CreateTask(ctx, model.CreateTaskInput{Title: title, ListID: listID, DueDate: strPtr(due)})
		require.NoError(t, err)
	}
	create("date only", "2024-06-01")
	create("late evening", "2024-06-01T23:59:00")
	create("tomorrow", "2024-06-02")
	create("yesterday", "2024-05-31")
	_, err := s.CreateTask(ctx, model.CreateTaskInput{Title: "no date", ListID: listID})
	require.NoError(t, err)

	today, err := s.GetTasks(ctx, store.TaskFilter{View: model.ViewToday})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"date only", "late evening"}, titles(today))

	clock.Set(time.Date(2024, 6, 2, 18, 0, 0, 0, time.UTC))
	today, err = s.GetTasks(ctx, store.TaskFilter{View: model.ViewToday})
	require.NoError(t, err)
	assert.Equal(t, []string{"tomorrow"}, titles(today))
}

func TestTodayViewUsesConfiguredLocation(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(t, "2024-06-01T22:00:00Z")
	s := testutil.NewTestStore(t,
		store.WithClock(clock.Now),
		store.WithLocation(time.FixedZone("UTC+5", 5*60*60)),
	)

	_, err := s.CreateTask(ctx, model.CreateTaskInput{
		Title: "next day locally", ListID: defaultList(t, s).ID, DueDate: strPtr("2024-06-02"),
	})
	require.NoError(t, err)

	today, err := s.GetTasks(ctx, store.TaskFilter{View: model.ViewToday})
	require.NoError(t, err)
	assert.Equal(t, []string{"next day locally"}, titles(today))
}

func TestPlannedView(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewClockedStore(t, "2024-06-01T12:00:00Z")
	listID := defaultList(t, s).ID

	create := func(title string, due, start *string) {
		_, err := s.CreateTask(ctx, model.CreateTaskInput{
			Title: title, ListID: listID, DueDate: due, StartDate: start,
		})
		require.NoError(t, err)
	}
	create("due today", strPtr("2024-06-01T08:00:00"), nil)
	create("due later", strPtr("2024-06-20"), nil)
	create("due soon", strPtr("2024-06-03"), nil)
	create("starts tomorrow", nil, strPtr("2024-06-02"))
	create("overdue", strPtr("2024-05-01"), nil)
	create("unscheduled", nil, nil)

	planned, err := s.GetTasks(ctx, store.TaskFilter{View: model.ViewPlanned})
	require.NoError(t, err)
	// NULL due dates sort first in ascending order.
	assert.Equal(t, []string{"starts tomorrow", "due soon", "due later"}, titles(planned))
}

func TestSearchMatchesTitleOrContent(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	listID := defaultList(t, s).ID

	_, err := s.CreateTask(ctx, model.CreateTaskInput{Title: "buy food", ListID: listID})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, model.CreateTaskInput{Title: "notes", Content: strPtr("remember the foobar"), ListID: listID})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, model.CreateTaskInput{Title: "unrelated", ListID: listID})
	require.NoError(t, err)

	q := "foo"
	found, err := s.GetTasks(ctx, store.TaskFilter{Query: &q})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"buy food", "notes"}, titles(found))
}
