package tasks

import (
	"fmt"

	"github.com/julianstephens/lifeplan/internal/cli"
)

type TaskEditCmd struct {
	ID          string `arg:"" help:"Task ID or unique prefix."`
	Description string `arg:"" help:"New task description."`
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Planner.FindTask(c.ID)
	if err != nil {
		return err
	}
	task, err = ctx.Planner.EditTask(task.ID, c.Description)
	if err != nil {
		return err
	}
	fmt.Printf("Updated task: %s (ID: %s)\n", task.Description, cli.ShortID(task.ID))
	return nil
}
