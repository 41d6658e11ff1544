package storage

import (
	"time"

	"github.com/julianstephens/lifeplan/internal/migration"
	"github.com/julianstephens/lifeplan/internal/models"
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	GetConfigPath() string
	// Migrate applies pending schema migrations and returns how many ran
	Migrate(logFn func(string)) (int, error)
	SchemaStatus() (migration.Status, error)

	// Priorities
	SavePriority(models.Priority) error
	// GetPriorities returns every stored priority in category order
	GetPriorities() ([]models.Priority, error)
	// GetPriorityContext returns only the priorities with a non-empty description
	GetPriorityContext() ([]models.Priority, error)

	// Affirmation
	SaveAffirmation(models.Affirmation) error
	GetAffirmation() (models.Affirmation, error)

	// Tasks
	AddTask(models.Task) error
	GetTask(id string) (models.Task, error)
	UpdateTask(models.Task) error
	DeleteTask(id string) error
	// ListTasks returns the tasks with the given is_daily flag, oldest first
	ListTasks(isDaily bool) ([]models.Task, error)
	GetAllTasks() ([]models.Task, error)

	// Weekly planning
	SaveWeek(models.WeeklyPlan) error
	// GetWeek returns the stored week, with blank days for missing rows
	GetWeek(weekStart string) (models.WeeklyPlan, error)
	GetAllWeeks() ([]models.WeeklyPlan, error)

	// Journal
	SaveJournalEntry(models.JournalEntry) error
	// SaveJournalDraft upserts the content only; existing feedback is kept
	SaveJournalDraft(at time.Time, content string) error
	GetJournalEntry(at time.Time) (models.JournalEntry, error)
	// GetJournalEntriesForDate returns the entries of one day, newest first
	GetJournalEntriesForDate(date string) ([]models.JournalEntry, error)
	// GetJournalDates returns the distinct dates with at least one entry, newest first
	GetJournalDates() ([]string, error)
	GetAllJournalEntries() ([]models.JournalEntry, error)

	// Vision board
	AddVisionImage(models.VisionImage) error
	GetVisionImages() ([]models.VisionImage, error)
	DeleteVisionImage(id string) error
}
