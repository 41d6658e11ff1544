package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/lifeplan/internal/cli"
	"github.com/julianstephens/lifeplan/internal/config"
	"github.com/julianstephens/lifeplan/internal/constants"
	"github.com/julianstephens/lifeplan/internal/legacy"
	"github.com/julianstephens/lifeplan/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to import data from. Accepts a lifeplan database or one written by the legacy desktop planner."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Source != "" && samePath(c.Source, ctx.Store.GetConfigPath()) {
		return fmt.Errorf("source and destination are the same: %s", ctx.Store.GetConfigPath())
	}

	if c.Force && ctx.IsSQLite() {
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		if errors.Is(err, storage.ErrLegacyDatabase) {
			return fmt.Errorf("%w; import it into a new file with '%s --db <new path> init --source %s'",
				err, constants.AppName, ctx.Store.GetConfigPath())
		}
		return err
	}
	fmt.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())

	if c.Source == "" {
		return nil
	}

	fmt.Println("Importing data...")
	snap, err := legacy.Open(c.Source)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	if err := legacy.Import(ctx.Store, snap); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("  Priorities:     %d\n", len(snap.Priorities))
	fmt.Printf("  Tasks:          %d\n", len(snap.Tasks))
	fmt.Printf("  Weeks:          %d\n", len(snap.Weeks))
	fmt.Printf("  Journal:        %d\n", len(snap.Journal))
	fmt.Printf("  Vision images:  %d\n", len(snap.VisionImages))
	if snap.Skipped > 0 {
		fmt.Printf("  Skipped rows:   %d (see log for details)\n", snap.Skipped)
	}
	fmt.Println("Import completed successfully!")
	return nil
}

// samePath compares two SQLite locations after making them absolute
func samePath(a, b string) bool {
	if config.IsPostgresURL(a) || config.IsPostgresURL(b) {
		return a == b
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
