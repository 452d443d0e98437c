// Package cli is the itodo terminal front end, a cobra command tree over
// the command surface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nhle/itodo/internal/command"
	"github.com/nhle/itodo/internal/logging"
	"github.com/nhle/itodo/internal/model"
	"github.com/nhle/itodo/internal/store"
	"github.com/nhle/itodo/internal/theme"
	"github.com/nhle/itodo/internal/transfer"
)

// skipStoreAnnotation marks commands that run without opening the database.
const skipStoreAnnotation = "itodo/skip-store"

// app carries global flags and the per-invocation dependencies.
type app struct {
	configPath string
	dbPath     string
	logLevel   string
	jsonOut    bool
	yes        bool

	cfg   *model.AppConfig
	loc   *time.Location
	log   *logrus.Logger
	store *store.SQLiteStore
	disp  *command.Dispatcher
	theme *theme.Theme

	// confirm asks before destructive commands; replaced in tests.
	confirm func(title, description string) (bool, error)
}

// Execute runs the root command.
func Execute(version string) error {
	a := &app{confirm: confirmPrompt}
	defer a.teardown()

	if err := a.rootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (a *app) rootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "itodo",
		Short: "iToDo - lists, tasks and subtasks in a local database",
		Long: `itodo manages task lists stored in a local SQLite database.

Every operation is also reachable as a named command through "itodo invoke",
which takes and prints JSON.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	// Global flags
	root.PersistentFlags().StringVar(&a.configPath, "config", model.DefaultConfigPath(), "config file")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "database file (overrides storage settings)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print results as JSON")

	root.AddCommand(a.listCmd())
	root.AddCommand(a.taskCmd())
	root.AddCommand(a.subtaskCmd())
	root.AddCommand(a.exportCmd())
	root.AddCommand(a.importCmd())
	root.AddCommand(a.invokeCmd())
	root.AddCommand(a.configCmd())

	return root
}

// setup loads configuration and, unless the command opts out, opens the
// store and builds the dispatcher.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := model.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.log = logging.Setup(level, cfg.Log.Format, cmd.ErrOrStderr())
	a.theme = theme.New(cmd.OutOrStdout(), cfg.Display.Theme)

	if skipsStore(cmd) {
		return nil
	}

	a.loc, err = cfg.Location()
	if err != nil {
		return err
	}

	dbPath, dataDir := cfg.DBPath(), cfg.Storage.DataDir
	if a.dbPath != "" {
		dbPath, dataDir = a.dbPath, filepath.Dir(a.dbPath)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	a.log.WithField("db", dbPath).Debug("opening store")
	s, err := store.NewSQLiteStore(dbPath,
		store.WithLocation(a.loc),
		store.WithLogger(a.log),
	)
	if err != nil {
		return err
	}
	a.store = s
	a.disp = command.New(s,
		command.WithTransfer(transfer.New(s)),
		command.WithDataDir(dataDir),
		command.WithLogger(a.log),
	)
	return nil
}

func (a *app) teardown() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

func skipsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipStoreAnnotation] == "true" {
			return true
		}
	}
	return false
}

// today is the current date in the configured timezone.
func (a *app) today() string {
	loc := a.loc
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc).Format("2006-01-02")
}

// confirmDestructive asks before deleting unless --yes was given.
func (a *app) confirmDestructive(title, description string) (bool, error) {
	if a.yes {
		return true, nil
	}
	return a.confirm(title, description)
}

func confirmPrompt(title, description string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&ok),
		),
	).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// addYesFlag registers --yes on a destructive command.
func (a *app) addYesFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&a.yes, "yes", "y", false, "skip the confirmation prompt")
}
