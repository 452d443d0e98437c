package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) exportCmd() *cobra.Command {
	var listID, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write lists and tasks to an export file",
		Long: `Write lists and tasks to an export file.

Without --out the file is written into the data directory under a
timestamped name. A .yaml or .yml --out path writes YAML; "-" prints the
JSON document to stdout. --list limits the tasks to one list; every list is
always included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			var list *string
			if listID != "" {
				list = &listID
			}

			switch out {
			case "-":
				doc, err := a.disp.ExportTasks(ctx, list)
				if err != nil {
					return err
				}
				return writeJSON(w, doc)
			case "":
				path, err := a.disp.ExportTasksToFile(ctx, list)
				if err != nil {
					return err
				}
				return a.done(w, map[string]string{"path": path}, "Exported to %s", path)
			default:
				if err := a.disp.ExportTasksToPath(ctx, out, list); err != nil {
					return err
				}
				return a.done(w, map[string]string{"path": out}, "Exported to %s", out)
			}
		},
	}

	cmd.Flags().StringVarP(&listID, "list", "l", "", "only export tasks of this list")
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file ("-" for stdout)`)
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge an export file into the database",
		Long: `Merge an export file into the database.

Lists are added only when their id is not already present. Every task is
added under a new id, so importing the same file twice duplicates tasks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := a.disp.ImportTasksFromFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.done(cmd.OutOrStdout(), tasks, "Imported %d tasks from %s", len(tasks), args[0])
		},
	}
}
