package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/itodo/internal/command"
	"github.com/nhle/itodo/internal/model"
)

func (a *app) taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks", "t"},
		Short:   "Manage tasks",
	}

	cmd.AddCommand(a.taskLsCmd())
	cmd.AddCommand(a.taskShowCmd())
	cmd.AddCommand(a.taskAddCmd())
	cmd.AddCommand(a.taskEditCmd())
	cmd.AddCommand(a.taskRmCmd())
	cmd.AddCommand(a.taskToggleCmd("star", "Toggle a task's important flag", a.toggleImportant))
	cmd.AddCommand(a.taskToggleCmd("done", "Toggle a task's completed flag", a.toggleCompleted))
	cmd.AddCommand(a.taskSearchCmd())
	return cmd
}

func (a *app) taskLsCmd() *cobra.Command {
	var (
		listID string
		view   string
	)

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "Show tasks of a list or of a smart view",
		Long: `Show tasks of a list or of a smart view.

Views: all (default), today, planned, important, completed. --list only
applies to the all view.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				tasks []model.Task
				err   error
			)
			switch model.View(view) {
			case model.ViewAll, "":
				var list *string
				if listID != "" {
					list = &listID
				}
				tasks, err = a.disp.GetTasks(ctx, list)
			case model.ViewToday:
				tasks, err = a.disp.GetTodayTasks(ctx)
			case model.ViewPlanned:
				tasks, err = a.disp.GetPlannedTasks(ctx)
			case model.ViewImportant:
				tasks, err = a.disp.GetImportantTasks(ctx)
			case model.ViewCompleted:
				tasks, err = a.disp.GetCompletedTasks(ctx)
			default:
				return &command.Error{
					Kind:    command.KindInvalidOperation,
					Message: fmt.Sprintf("unknown view %q", view),
				}
			}
			if err != nil {
				return err
			}
			return a.emitTasks(ctx, cmd, tasks)
		},
	}

	cmd.Flags().StringVarP(&listID, "list", "l", "", "list id")
	cmd.Flags().StringVar(&view, "view", string(model.ViewAll), "all, today, planned, important or completed")
	return cmd
}

func (a *app) taskShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show every field of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.store.GetTask(cmd.Context(), args[0])
			if err != nil {
				return command.FromError(err)
			}
			return a.emit(cmd.OutOrStdout(), task, func() string {
				return a.renderTask(task)
			})
		},
	}
}

func (a *app) taskAddCmd() *cobra.Command {
	var (
		listID              string
		content, due, start string
		remind, repeat      string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task (in the default list unless --list is given)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if listID == "" {
				def, err := a.defaultListID(ctx)
				if err != nil {
					return err
				}
				listID = def
			}

			task, err := a.disp.CreateTask(ctx, model.CreateTaskInput{
				Title:      args[0],
				ListID:     listID,
				Content:    nullable(content),
				DueDate:    nullable(due),
				StartDate:  nullable(start),
				RemindTime: nullable(remind),
				RepeatRule: nullable(repeat),
			})
			if err != nil {
				return err
			}
			return a.done(cmd.OutOrStdout(), task, "Created task %q (%s)", task.Title, task.ID)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&listID, "list", "l", "", "list id")
	flags.StringVar(&content, "content", "", "notes")
	flags.StringVar(&due, "due", "", "due date, YYYY-MM-DD")
	flags.StringVar(&start, "start", "", "start date, YYYY-MM-DD")
	flags.StringVar(&remind, "remind", "", "reminder time")
	flags.StringVar(&repeat, "repeat", "", "repeat rule")
	return cmd
}

func (a *app) taskEditCmd() *cobra.Command {
	var (
		title, listID       string
		content, due, start string
		remind, repeat      string
		completed           bool
		important           bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Long: `Change fields of a task.

Only the flags given are changed. An empty --content, --due, --start,
--remind or --repeat clears the field.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := command.UpdateTaskInput{ID: args[0]}
			flags := cmd.Flags()

			if flags.Changed("title") {
				input.Title = model.Some(title)
			}
			if flags.Changed("list") {
				input.ListID = model.Some(listID)
			}
			if flags.Changed("completed") {
				input.IsCompleted = model.Some(completed)
			}
			if flags.Changed("important") {
				input.IsImportant = model.Some(important)
			}
			for name, field := range map[string]struct {
				dst *model.Optional[*string]
				val string
			}{
				"content": {&input.Content, content},
				"due":     {&input.DueDate, due},
				"start":   {&input.StartDate, start},
				"remind":  {&input.RemindTime, remind},
				"repeat":  {&input.RepeatRule, repeat},
			} {
				if flags.Changed(name) {
					*field.dst = model.Some(nullable(field.val))
				}
			}

			task, err := a.disp.UpdateTask(cmd.Context(), input)
			if err != nil {
				return err
			}
			return a.done(cmd.OutOrStdout(), task, "Updated task %q", task.Title)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&title, "title", "", "new title")
	flags.StringVarP(&listID, "list", "l", "", "move to list id")
	flags.StringVar(&content, "content", "", "notes (empty clears)")
	flags.StringVar(&due, "due", "", "due date (empty clears)")
	flags.StringVar(&start, "start", "", "start date (empty clears)")
	flags.StringVar(&remind, "remind", "", "reminder time (empty clears)")
	flags.StringVar(&repeat, "repeat", "", "repeat rule (empty clears)")
	flags.BoolVar(&completed, "completed", false, "set the completed flag")
	flags.BoolVar(&important, "important", false, "set the important flag")
	return cmd
}

func (a *app) taskRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task and its subtasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			task, err := a.store.GetTask(ctx, id)
			if err != nil {
				return command.FromError(err)
			}

			ok, err := a.confirmDestructive(fmt.Sprintf("Delete task %q?", task.Title), "Its subtasks are deleted too.")
			if err != nil || !ok {
				return err
			}

			if err := a.disp.DeleteTask(ctx, id); err != nil {
				return err
			}
			return a.done(cmd.OutOrStdout(), map[string]string{"deleted": id}, "Deleted task %q", task.Title)
		},
	}
	a.addYesFlag(cmd)
	return cmd
}

type toggleFunc func(ctx context.Context, id string) (*model.Task, error)

func (a *app) toggleImportant(ctx context.Context, id string) (*model.Task, error) {
	return a.disp.ToggleTaskImportant(ctx, id)
}

func (a *app) toggleCompleted(ctx context.Context, id string) (*model.Task, error) {
	return a.disp.ToggleTaskCompleted(ctx, id)
}

func (a *app) taskToggleCmd(use, short string, toggle toggleFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := toggle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.done(cmd.OutOrStdout(), task, "%q: important=%t completed=%t",
				task.Title, task.IsImportant, task.IsCompleted)
		},
	}
}

func (a *app) taskSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find tasks whose title or notes contain the query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := a.disp.SearchTasks(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.emitTasks(cmd.Context(), cmd, tasks)
		},
	}
}

func (a *app) emitTasks(ctx context.Context, cmd *cobra.Command, tasks []model.Task) error {
	if a.jsonOut {
		return writeJSON(cmd.OutOrStdout(), tasks)
	}

	lists, err := a.disp.GetLists(ctx)
	if err != nil {
		return err
	}
	return a.emit(cmd.OutOrStdout(), tasks, func() string {
		return a.renderTasks(tasks, lists)
	})
}

func (a *app) defaultListID(ctx context.Context) (string, error) {
	lists, err := a.disp.GetLists(ctx)
	if err != nil {
		return "", err
	}
	for _, l := range lists {
		if l.IsDefault {
			return l.ID, nil
		}
	}
	return "", &command.Error{Kind: command.KindNotFound, Message: "no default list"}
}
