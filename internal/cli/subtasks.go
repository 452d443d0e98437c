package cli

import (
	"github.com/spf13/cobra"

	"github.com/nhle/itodo/internal/command"
	"github.com/nhle/itodo/internal/model"
)

func (a *app) subtaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subtask",
		Aliases: []string{"subtasks", "st"},
		Short:   "Manage the checklist of a task",
	}

	cmd.AddCommand(a.subtaskLsCmd())
	cmd.AddCommand(a.subtaskAddCmd())
	cmd.AddCommand(a.subtaskEditCmd())
	cmd.AddCommand(a.subtaskRmCmd())
	cmd.AddCommand(a.subtaskDoneCmd())
	return cmd
}

func (a *app) subtaskLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [task-id]",
		Short: "Show the subtasks of a task, or of every task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				subtasks []model.Subtask
				err      error
			)
			if len(args) == 0 {
				subtasks, err = a.disp.GetAllSubtasks(cmd.Context())
			} else {
				subtasks, err = a.disp.GetSubtasks(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), subtasks, func() string {
				return a.renderSubtasks(subtasks)
			})
		},
	}
}

func (a *app) subtaskAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <task-id> <title>",
		Short: "Add a subtask to a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := a.disp.CreateSubtask(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.done(cmd.OutOrStdout(), sub, "Added subtask %q (%s)", sub.Title, sub.ID)
		},
	}
}

func (a *app) subtaskEditCmd() *cobra.Command {
	var (
		title     string
		completed bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename a subtask or set its completed flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := command.UpdateSubtaskInput{ID: args[0]}
			if cmd.Flags().Changed("title") {
				input.Title = model.Some(title)
			}
			if cmd.Flags().Changed("completed") {
				input.IsCompleted = model.Some(completed)
			}

			sub, err := a.disp.UpdateSubtask(cmd.Context(), input)
			if err != nil {
				return err
			}
			return a.done(cmd.OutOrStdout(), sub, "Updated subtask %q", sub.Title)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().BoolVar(&completed, "completed", false, "set the completed flag")
	return cmd
}

func (a *app) subtaskRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a subtask",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			ok, err := a.confirmDestructive("Delete subtask?", id)
			if err != nil || !ok {
				return err
			}

			if err := a.disp.DeleteSubtask(cmd.Context(), id); err != nil {
				return err
			}
			return a.done(cmd.OutOrStdout(), map[string]string{"deleted": id}, "Deleted subtask %s", id)
		},
	}
	a.addYesFlag(cmd)
	return cmd
}

func (a *app) subtaskDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a subtask's completed flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := a.disp.ToggleSubtaskCompleted(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.done(cmd.OutOrStdout(), sub, "%q: completed=%t", sub.Title, sub.IsCompleted)
		},
	}
}
