package system

import (
	"fmt"

	"github.com/julianstephens/lifeplan/internal/cli"
	"github.com/julianstephens/lifeplan/internal/legacy"
	"github.com/julianstephens/lifeplan/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Remove duplicate pending tasks, keeping the oldest of each group."`
}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	fmt.Println("Validating stored data...")
	snap, err := legacy.FromProvider(ctx.Store)
	if err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}

	result := validation.New().ValidateSnapshot(snap)
	fmt.Println()
	fmt.Println(result.FormatReport())

	if !cmd.Fix || !result.HasConflicts() {
		return nil
	}

	actions := validation.AutoFixDuplicateTasks(result.Conflicts, snap.Tasks, ctx.Store.DeleteTask)
	if len(actions) == 0 {
		fmt.Println("Nothing to fix automatically.")
		return nil
	}
	fmt.Println("Fixes applied:")
	for _, a := range actions {
		fmt.Printf("- %s\n", a.Action)
	}
	return nil
}
