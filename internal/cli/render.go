package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/itodo/internal/model"
)

const (
	markOpen      = "○"
	markDone      = "✓"
	markImportant = "★"
)

// emit prints v as indented JSON when --json is set, otherwise calls
// render.
func (a *app) emit(w io.Writer, v any, render func() string) error {
	if a.jsonOut {
		return writeJSON(w, v)
	}
	_, err := fmt.Fprintln(w, render())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// done prints a one-line confirmation, or v as JSON.
func (a *app) done(w io.Writer, v any, format string, args ...any) error {
	return a.emit(w, v, func() string {
		return a.theme.Success.Render(markDone) + " " + fmt.Sprintf(format, args...)
	})
}

func (a *app) newTable(headers ...string) *table.Table {
	th := a.theme
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(th.Border).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return th.Header
			}
			return th.Renderer().NewStyle().Padding(0, 1)
		})
}

func (a *app) renderLists(lists []model.List) string {
	if len(lists) == 0 {
		return a.theme.Help.Render("No lists.")
	}

	t := a.newTable("ID", "NAME", "ICON", "ORDER", "")
	for _, l := range lists {
		badge := ""
		if l.IsDefault {
			badge = a.theme.DefaultBadge.Render("default")
		}
		t.Row(
			l.ID,
			a.theme.ListColor(l.Color).Render(l.Name),
			deref(l.Icon),
			strconv.Itoa(l.Order),
			badge,
		)
	}
	return t.String()
}

func (a *app) renderTasks(tasks []model.Task, lists []model.List) string {
	if len(tasks) == 0 {
		return a.theme.Help.Render("No tasks.")
	}

	names := make(map[string]string, len(lists))
	for _, l := range lists {
		names[l.ID] = l.Name
	}

	today := a.today()
	t := a.newTable("", "", "TITLE", "DUE", "LIST", "ID")
	for _, task := range tasks {
		mark := markOpen
		title := task.Title
		if task.IsCompleted {
			mark = a.theme.Done.Render(markDone)
			title = a.theme.Dimmed.Render(title)
		}

		star := ""
		if task.IsImportant {
			star = a.theme.Important.Render(markImportant)
		}

		due := ""
		if task.DueDate != nil {
			date := datePart(*task.DueDate)
			due = a.theme.DueStyle(date, today).Render(date)
		}

		t.Row(mark, star, title, due, names[task.ListID], task.ID)
	}
	return t.String()
}

func (a *app) renderTask(task *model.Task) string {
	var b strings.Builder
	b.WriteString(a.theme.Header.Render(task.Title))
	b.WriteString("\n")

	field := func(name, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%-10s %s\n", name+":", value)
	}
	field("id", task.ID)
	field("list", task.ListID)
	field("completed", strconv.FormatBool(task.IsCompleted))
	field("important", strconv.FormatBool(task.IsImportant))
	field("due", deref(task.DueDate))
	field("start", deref(task.StartDate))
	field("remind", deref(task.RemindTime))
	field("repeat", deref(task.RepeatRule))
	field("notes", deref(task.Content))

	return strings.TrimRight(b.String(), "\n")
}

func (a *app) renderSubtasks(subtasks []model.Subtask) string {
	if len(subtasks) == 0 {
		return a.theme.Help.Render("No subtasks.")
	}

	t := a.newTable("", "TITLE", "ID")
	for _, s := range subtasks {
		mark, title := markOpen, s.Title
		if s.IsCompleted {
			mark = a.theme.Done.Render(markDone)
			title = a.theme.Dimmed.Render(title)
		}
		t.Row(mark, title, s.ID)
	}
	return t.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// datePart trims a date-time to its YYYY-MM-DD prefix.
func datePart(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
