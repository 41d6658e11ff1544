package system

import (
	"fmt"

	"github.com/julianstephens/lifeplan/internal/cli"
)

type MigrateCmd struct {
	Status bool `help:"Show the schema version without applying migrations."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if c.Status {
		status, err := ctx.Store.SchemaStatus()
		if err != nil {
			return fmt.Errorf("failed to read schema status: %w", err)
		}
		fmt.Printf("Schema version: %d (latest %d)\n", status.Current, status.Latest)
		for _, m := range status.Pending {
			fmt.Printf("  pending: %03d %s\n", m.Version, m.Name)
		}
		return nil
	}

	count, err := ctx.Store.Migrate(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
