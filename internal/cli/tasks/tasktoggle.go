package tasks

import (
	"fmt"

	"github.com/julianstephens/lifeplan/internal/cli"
)

type TaskToggleCmd struct {
	ID string `arg:"" help:"Task ID or unique prefix."`
}

func (c *TaskToggleCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Planner.FindTask(c.ID)
	if err != nil {
		return err
	}
	task, err = ctx.Planner.ToggleTask(task.ID)
	if err != nil {
		return err
	}

	state := "pending"
	if task.Done() {
		state = "completed"
	}
	fmt.Printf("%s %s marked %s\n", task.Mark(), task.Description, state)
	return nil
}

type TaskTodayCmd struct {
	ID string `arg:"" help:"Backlog task ID or unique prefix."`
}

func (c *TaskTodayCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Planner.FindTask(c.ID)
	if err != nil {
		return err
	}
	if task.IsDaily {
		fmt.Printf("%s is already on today's list\n", task.Description)
		return nil
	}
	if _, err := ctx.Planner.MoveTaskToDaily(task.ID); err != nil {
		return err
	}
	fmt.Printf("Moved to today: %s\n", task.Description)
	return nil
}
