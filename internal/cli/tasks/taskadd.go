package tasks

import (
	"fmt"

	"github.com/julianstephens/lifeplan/internal/cli"
)

type TaskAddCmd struct {
	Description string `arg:"" help:"Task description."`
	Backlog     bool   `short:"b" help:"Add to the backlog instead of today's list."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Planner.AddTask(c.Description, !c.Backlog)
	if err != nil {
		return err
	}

	list := "today"
	if c.Backlog {
		list = "backlog"
	}
	fmt.Printf("Added task to %s: %s (ID: %s)\n", list, task.Description, cli.ShortID(task.ID))
	return nil
}
