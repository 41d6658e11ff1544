// Package legacy copies personal data between stores. It reads databases written by the
// legacy desktop planner as well as other lifeplan stores, and writes them into a fresh store.
package legacy

import (
	"errors"
	"fmt"

	"github.com/julianstephens/lifeplan/internal/config"
	"github.com/julianstephens/lifeplan/internal/logger"
	"github.com/julianstephens/lifeplan/internal/models"
	"github.com/julianstephens/lifeplan/internal/storage"
	"github.com/julianstephens/lifeplan/internal/storage/postgres"
	"github.com/julianstephens/lifeplan/internal/storage/sqlite"
)

// Snapshot is everything one store holds
type Snapshot struct {
	Priorities   []models.Priority
	Affirmation  *models.Affirmation
	VisionImages []models.VisionImage
	Tasks        []models.Task
	Weeks        []models.WeeklyPlan
	Journal      []models.JournalEntry

	// Skipped counts source rows that could not be converted
	Skipped int
}

// Open reads the data at source, which is a PostgreSQL connection string, a lifeplan
// SQLite file, or a database written by the legacy desktop planner.
func Open(source string) (Snapshot, error) {
	if config.IsPostgresURL(source) {
		if valid, err := postgres.ValidateConnString(source); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return Snapshot{}, fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return Snapshot{}, err
		}
		return fromStore(postgres.New(source))
	}

	store := sqlite.NewStore(source)
	err := store.Load()
	if errors.Is(err, storage.ErrLegacyDatabase) {
		return Read(source)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load source database: %w", err)
	}
	defer store.Close()
	return FromProvider(store)
}

func fromStore(p storage.Provider) (Snapshot, error) {
	if err := p.Load(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to load source database: %w", err)
	}
	defer p.Close()
	return FromProvider(p)
}

// FromProvider reads every row of an initialized lifeplan store
func FromProvider(p storage.Provider) (Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.Priorities, err = p.GetPriorities(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to get priorities from source: %w", err)
	}

	a, err := p.GetAffirmation()
	switch {
	case err == nil:
		snap.Affirmation = &a
	case !errors.Is(err, storage.ErrNotFound):
		return Snapshot{}, fmt.Errorf("failed to get affirmation from source: %w", err)
	}

	if snap.VisionImages, err = p.GetVisionImages(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to get vision images from source: %w", err)
	}
	if snap.Tasks, err = p.GetAllTasks(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to get tasks from source: %w", err)
	}
	if snap.Weeks, err = p.GetAllWeeks(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to get weeks from source: %w", err)
	}
	if snap.Journal, err = p.GetAllJournalEntries(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to get journal entries from source: %w", err)
	}
	return snap, nil
}

// Import writes every row of snap into dst. Journal entries sharing a key collapse to the
// last one in the snapshot.
func Import(dst storage.Provider, snap Snapshot) error {
	for _, p := range snap.Priorities {
		if err := dst.SavePriority(p); err != nil {
			return fmt.Errorf("failed to save priority %s: %w", p.Category, err)
		}
	}
	logger.Info("Imported priorities", "count", len(snap.Priorities))

	if snap.Affirmation != nil {
		if err := dst.SaveAffirmation(*snap.Affirmation); err != nil {
			return fmt.Errorf("failed to save affirmation: %w", err)
		}
	}

	for _, img := range snap.VisionImages {
		if err := dst.AddVisionImage(img); err != nil {
			return fmt.Errorf("failed to add vision image %s: %w", img.ID, err)
		}
	}
	logger.Info("Imported vision images", "count", len(snap.VisionImages))

	for _, task := range snap.Tasks {
		if err := dst.AddTask(task); err != nil {
			return fmt.Errorf("failed to add task %s: %w", task.ID, err)
		}
	}
	logger.Info("Imported tasks", "count", len(snap.Tasks))

	for _, week := range snap.Weeks {
		if err := dst.SaveWeek(week); err != nil {
			return fmt.Errorf("failed to save week %s: %w", week.WeekStart, err)
		}
	}
	logger.Info("Imported weeks", "count", len(snap.Weeks))

	for _, entry := range snap.Journal {
		if err := dst.SaveJournalEntry(entry); err != nil {
			return fmt.Errorf("failed to save journal entry %s: %w", entry.Key(), err)
		}
	}
	logger.Info("Imported journal entries", "count", len(snap.Journal), "skipped", snap.Skipped)

	return nil
}
