package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/lifeplan/internal/cli"
	"github.com/julianstephens/lifeplan/internal/cli/backups"
	"github.com/julianstephens/lifeplan/internal/cli/journal"
	"github.com/julianstephens/lifeplan/internal/cli/priorities"
	"github.com/julianstephens/lifeplan/internal/cli/system"
	"github.com/julianstephens/lifeplan/internal/cli/tasks"
	"github.com/julianstephens/lifeplan/internal/cli/vision"
	"github.com/julianstephens/lifeplan/internal/cli/weekly"
	"github.com/julianstephens/lifeplan/internal/config"
	"github.com/julianstephens/lifeplan/internal/constants"
	apperrors "github.com/julianstephens/lifeplan/internal/errors"
	"github.com/julianstephens/lifeplan/internal/logger"
)

// App is the command tree and its global flags
type App struct {
	Version       kong.VersionFlag
	DB            string        `name:"db" help:"SQLite database path." placeholder:"PATH"`
	DBConnection  string        `name:"db-connection" help:"PostgreSQL connection URL. Passwords must NOT be embedded; store the full string with 'keyring set' instead." placeholder:"URL"`
	Debug         bool          `help:"Enable debug logging to stderr."`
	AutosaveDelay time.Duration `help:"Quiet period before the TUI autosaves a field." placeholder:"2s"`
	NoBackup      bool          `help:"Skip the automatic backup when the TUI starts."`
	MaxBackups    int           `help:"Number of automatic backups to keep." placeholder:"14"`

	Init     system.InitCmd     `cmd:"" help:"Initialize lifeplan storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check stored data for conflicts."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	DebugCmd system.DebugCmd    `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Priority struct {
		Set  priorities.PrioritySetCmd  `cmd:"" help:"Set the goal for a life category."`
		List priorities.PriorityListCmd `cmd:"" help:"List priorities." default:"1"`
	} `cmd:"" help:"Manage life priorities."`
	Affirmation struct {
		Set  priorities.AffirmationSetCmd  `cmd:"" help:"Replace the affirmation."`
		Show priorities.AffirmationShowCmd `cmd:"" help:"Show the affirmation." default:"1"`
	} `cmd:"" help:"Manage the affirmation."`
	Task struct {
		Add    tasks.TaskAddCmd    `cmd:"" help:"Add a new task."`
		List   tasks.TaskListCmd   `cmd:"" help:"List tasks."`
		Toggle tasks.TaskToggleCmd `cmd:"" help:"Toggle a task between pending and completed."`
		Today  tasks.TaskTodayCmd  `cmd:"" help:"Move a backlog task to today."`
		Edit   tasks.TaskEditCmd   `cmd:"" help:"Change a task description."`
		Delete tasks.TaskDeleteCmd `cmd:"" help:"Delete a task."`
	} `cmd:"" help:"Manage tasks."`
	Week struct {
		Show       weekly.WeekShowCmd       `cmd:"" help:"Show a weekly plan." default:"1"`
		Set        weekly.WeekSetCmd        `cmd:"" help:"Set the plan for one day of the week."`
		Intentions weekly.WeekIntentionsCmd `cmd:"" help:"Set the intentions for a week."`
	} `cmd:"" help:"Manage weekly plans."`
	Journal struct {
		Submit   journal.JournalSubmitCmd   `cmd:"" help:"Submit a reflection and get feedback."`
		Draft    journal.JournalDraftCmd    `cmd:"" help:"Save a reflection draft without feedback."`
		History  journal.JournalHistoryCmd  `cmd:"" help:"Show the entries of a day." default:"1"`
		Prev     journal.JournalPrevCmd     `cmd:"" help:"Show the previous day with entries."`
		Next     journal.JournalNextCmd     `cmd:"" help:"Show the next day with entries."`
		Feedback journal.JournalFeedbackCmd `cmd:"" help:"Preview feedback for a text."`
		Export   journal.JournalExportCmd   `cmd:"" help:"Export the journal as markdown, JSON or CSV."`
	} `cmd:"" help:"Write and review journal entries."`
	Vision struct {
		Add    vision.VisionAddCmd    `cmd:"" help:"Add an image to the vision board."`
		List   vision.VisionListCmd   `cmd:"" help:"List vision board images." default:"1"`
		Delete vision.VisionDeleteCmd `cmd:"" help:"Remove an image from the vision board."`
	} `cmd:"" help:"Manage the vision board."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show keyring availability." default:"1"`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

// noLoad commands open the store themselves, or never touch it
var noLoad = map[string]bool{
	"init":    true,
	"doctor":  true,
	"keyring": true,
}

// reportsMigrations commands need the schema as found, before any pending migration runs
var reportsMigrations = map[string]bool{
	"migrate": true,
}

// readOnly commands run without the single-writer lock
var readOnly = map[string]bool{
	"doctor":           true,
	"keyring":          true,
	"debug":            true,
	"priority list":    true,
	"affirmation show": true,
	"task list":        true,
	"week show":        true,
	"journal history":  true,
	"journal prev":     true,
	"journal next":     true,
	"journal feedback": true,
	"journal export":   true,
	"vision list":      true,
	"backup list":      true,
}

// commandPath drops positional placeholders from kong's command string
func commandPath(command string) (root, full string) {
	var words []string
	for _, w := range strings.Fields(command) {
		if strings.HasPrefix(w, "<") {
			break
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return "", ""
	}
	if len(words) > 2 {
		words = words[:2]
	}
	return words[0], strings.Join(words, " ")
}

func main() {
	os.Exit(execute(os.Args[1:]))
}

func newParser(app *App, opts ...kong.Option) (*kong.Kong, error) {
	return kong.New(app, append([]kong.Option{
		kong.Name(constants.AppName),
		kong.Description("Personal life-planning companion: priorities, tasks, weekly plans and a reflective journal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	}, opts...)...)
}

// execute parses args, runs the selected command and returns the process exit code
func execute(args []string, opts ...kong.Option) int {
	var app App
	parser, err := newParser(&app, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		return 1
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		parser.FatalIfErrorf(err)
		return 80
	}

	cfg, err := config.Load(&config.Config{
		DBPath:        app.DB,
		DBConnection:  app.DBConnection,
		Debug:         app.Debug,
		AutosaveDelay: app.AutosaveDelay,
		NoBackup:      app.NoBackup,
		MaxBackups:    app.MaxBackups,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		return 1
	}

	root, full := commandPath(kctx.Command())

	dir, err := cfg.ConfigDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		return 1
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: dir}); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Formatf("failed to initialize logger: %v", err))
		return 1
	}
	defer func() { _ = logger.Close() }()
	logger.Debug("Starting command", "command", full)

	store, err := cli.OpenStore(cfg)
	if err != nil {
		apperrors.Report("Failed to open storage", err)
		return 1
	}
	appCtx := cli.NewContext(cfg, store)

	code := run(kctx, appCtx, root, full)
	if err := appCtx.Close(); err != nil {
		logger.Warn("Shutdown failed", "error", err)
	}
	return code
}

func run(kctx *kong.Context, appCtx *cli.Context, root, full string) int {
	writes := !readOnly[root] && !readOnly[full]
	if writes {
		if err := appCtx.AcquireLock(); err != nil {
			apperrors.Report("Failed to acquire lock", err)
			return 1
		}
	}

	if !noLoad[root] {
		if err := openStore(appCtx, writes && !reportsMigrations[root]); err != nil {
			apperrors.Report("Failed to load storage", err)
			return 1
		}
	}

	if err := kctx.Run(appCtx); err != nil {
		apperrors.Report("Command execution failed: "+full, err)
		return 1
	}
	return 0
}

// openStore readies the store for a command. Writing commands, the TUI included, create the
// database on first run and apply pending migrations; readers only open what already exists.
func openStore(appCtx *cli.Context, create bool) error {
	if create {
		return appCtx.Store.Init()
	}
	return appCtx.Store.Load()
}
