package tasks

import (
	"fmt"

	"github.com/julianstephens/lifeplan/internal/cli"
)

type TaskDeleteCmd struct {
	ID  string `arg:"" help:"Task ID or unique prefix."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Planner.FindTask(c.ID)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := cli.Confirm(fmt.Sprintf("Delete task %q?", task.Description))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Planner.DeleteTask(task.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted task: %s (ID: %s)\n", task.Description, cli.ShortID(task.ID))
	return nil
}
