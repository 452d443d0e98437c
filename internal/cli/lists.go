package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/itodo/internal/command"
	"github.com/nhle/itodo/internal/model"
)

func (a *app) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"lists"},
		Short:   "Manage task lists",
	}

	cmd.AddCommand(a.listLsCmd())
	cmd.AddCommand(a.listAddCmd())
	cmd.AddCommand(a.listEditCmd())
	cmd.AddCommand(a.listRmCmd())
	return cmd
}

func (a *app) listLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "Show all lists in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lists, err := a.disp.GetLists(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), lists, func() string {
				return a.renderLists(lists)
			})
		},
	}
}

func (a *app) listAddCmd() *cobra.Command {
	var color, icon string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a list at the end of the display order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := model.CreateListInput{Name: args[0]}
			if cmd.Flags().Changed("color") {
				input.Color = &color
			}
			if cmd.Flags().Changed("icon") {
				input.Icon = &icon
			}

			list, err := a.disp.CreateList(cmd.Context(), input)
			if err != nil {
				return err
			}
			return a.done(cmd.OutOrStdout(), list, "Created list %q (%s)", list.Name, list.ID)
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "list color, e.g. #0078D4")
	cmd.Flags().StringVar(&icon, "icon", "", "list icon name")
	return cmd
}

func (a *app) listEditCmd() *cobra.Command {
	var (
		name, color, icon string
		order             int
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a list's name, color, icon or position",
		Long: `Change a list's name, color, icon or position.

Only the flags given are changed. An empty --color or --icon clears it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := command.UpdateListInput{ID: args[0]}
			flags := cmd.Flags()
			if flags.Changed("name") {
				input.Name = model.Some(name)
			}
			if flags.Changed("color") {
				input.Color = model.Some(nullable(color))
			}
			if flags.Changed("icon") {
				input.Icon = model.Some(nullable(icon))
			}
			if flags.Changed("order") {
				input.Order = model.Some(order)
			}

			list, err := a.disp.UpdateList(cmd.Context(), input)
			if err != nil {
				return err
			}
			return a.done(cmd.OutOrStdout(), list, "Updated list %q", list.Name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&color, "color", "", "new color (empty clears)")
	cmd.Flags().StringVar(&icon, "icon", "", "new icon (empty clears)")
	cmd.Flags().IntVar(&order, "order", 0, "new display position")
	return cmd
}

func (a *app) listRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a list with all of its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			list, err := a.store.GetList(ctx, id)
			if err != nil {
				return command.FromError(err)
			}

			ok, err := a.confirmDestructive(
				fmt.Sprintf("Delete list %q?", list.Name),
				"All tasks and subtasks in the list are deleted too.",
			)
			if err != nil || !ok {
				return err
			}

			if err := a.disp.DeleteList(ctx, id); err != nil {
				return err
			}
			return a.done(cmd.OutOrStdout(), map[string]string{"deleted": id}, "Deleted list %q", list.Name)
		},
	}
	a.addYesFlag(cmd)
	return cmd
}

// nullable maps an empty flag value to nil.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
