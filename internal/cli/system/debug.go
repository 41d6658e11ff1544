package system

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianstephens/lifeplan/internal/cli"
	"github.com/julianstephens/lifeplan/internal/logger"
)

type DebugCmd struct {
	DBPath         *DebugDBPathCmd         `cmd:"" help:"Show database and log paths."`
	DumpTasks      *DebugDumpTasksCmd      `cmd:"" help:"Dump all tasks as JSON."`
	DumpPriorities *DebugDumpPrioritiesCmd `cmd:"" help:"Dump priorities and the affirmation as JSON."`
	DumpWeek       *DebugDumpWeekCmd       `cmd:"" help:"Dump one weekly plan as JSON."`
	DumpJournal    *DebugDumpJournalCmd    `cmd:"" help:"Dump the journal entries of one day as JSON."`
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{
		"path": ctx.Store.GetConfigPath(),
		"log":  logger.Path(),
	})
}

type DebugDumpTasksCmd struct{}

func (cmd *DebugDumpTasksCmd) Run(ctx *cli.Context) error {
	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}
	return printJSON(tasks)
}

type DebugDumpPrioritiesCmd struct{}

func (cmd *DebugDumpPrioritiesCmd) Run(ctx *cli.Context) error {
	priorities, err := ctx.Store.GetPriorities()
	if err != nil {
		return fmt.Errorf("failed to get priorities: %w", err)
	}
	affirmation, err := ctx.Planner.Affirmation()
	if err != nil {
		return fmt.Errorf("failed to get affirmation: %w", err)
	}
	return printJSON(map[string]any{
		"priorities":  priorities,
		"affirmation": affirmation,
	})
}

type DebugDumpWeekCmd struct {
	Date string `arg:"" help:"Any date in the week (YYYY-MM-DD or 'today')."`
}

func (cmd *DebugDumpWeekCmd) Run(ctx *cli.Context) error {
	date := strings.TrimSpace(cmd.Date)
	if date == "today" {
		date = ctx.Planner.Today()
	}
	weekStart, err := ctx.Planner.NormalizeWeekStart(date)
	if err != nil {
		return err
	}
	week, err := ctx.Planner.LoadWeek(weekStart)
	if err != nil {
		return fmt.Errorf("failed to get week: %w", err)
	}
	return printJSON(week)
}

type DebugDumpJournalCmd struct {
	Date string `arg:"" help:"Date of the entries (YYYY-MM-DD or 'today')."`
}

func (cmd *DebugDumpJournalCmd) Run(ctx *cli.Context) error {
	date := strings.TrimSpace(cmd.Date)
	if date == "today" {
		date = ctx.Planner.Today()
	}
	entries, err := ctx.Planner.JournalHistory(date)
	if err != nil {
		return fmt.Errorf("failed to get journal: %w", err)
	}
	return printJSON(entries)
}
