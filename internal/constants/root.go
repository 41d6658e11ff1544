package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "lifeplan"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/lifeplan/lifeplan.db"
	Version            = "v0.3.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "lifeplan-"
	BackupFileSuffix = ".db"

	// Instance lock constants
	LockfileName = "lifeplan.lock"

	// Autosave constants
	DefaultAutosaveDelay = 2 * time.Second

	// Task defaults carried over from the legacy schema
	DefaultTaskCategory = "general"
	DefaultTaskPriority = 1

	// Affirmation rows are a singleton keyed by this id
	AffirmationID = 1
)

// Session States
const (
	StateDashboard SessionState = iota
	StateTasks
	StateWeekly
	StateJournal
	StateAddTask
	StateEditTask
	StateConfirmDelete
)

// MainViews lists the tabbed views in display order.
var MainViews = []SessionState{StateDashboard, StateTasks, StateWeekly, StateJournal}
