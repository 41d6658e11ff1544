package tasks

import (
	"fmt"

	"github.com/julianstephens/lifeplan/internal/cli"
	"github.com/julianstephens/lifeplan/internal/models"
)

type TaskListCmd struct {
	Today   bool `help:"Show only today's tasks."`
	Backlog bool `help:"Show only the backlog."`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	showToday := c.Today || !c.Backlog
	showBacklog := c.Backlog || !c.Today

	if showToday {
		tasks, err := ctx.Planner.ListTasks(true)
		if err != nil {
			return err
		}
		printList("Today", tasks)
	}
	if showToday && showBacklog {
		fmt.Println()
	}
	if showBacklog {
		tasks, err := ctx.Planner.ListTasks(false)
		if err != nil {
			return err
		}
		printList("Backlog", tasks)
	}
	return nil
}

func printList(title string, tasks []models.Task) {
	done := 0
	for _, t := range tasks {
		if t.Done() {
			done++
		}
	}
	fmt.Printf("%s (%d/%d done):\n", title, done, len(tasks))
	if len(tasks) == 0 {
		fmt.Println("  (empty)")
		return
	}
	for _, t := range tasks {
		fmt.Printf("  %s\n", cli.FormatTask(t))
	}
}
