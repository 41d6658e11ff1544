package weekly

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/lifeplan/internal/cli"
	"github.com/julianstephens/lifeplan/internal/models"
)

// WeekFlag is shared by every week command
type WeekFlag struct {
	Week string `short:"w" help:"Any date (YYYY-MM-DD) in the week. Defaults to the current week."`
}

func (f WeekFlag) resolve(ctx *cli.Context) (string, error) {
	if strings.TrimSpace(f.Week) == "" {
		return ctx.Planner.CurrentWeekStart(), nil
	}
	return ctx.Planner.NormalizeWeekStart(f.Week)
}

type WeekShowCmd struct {
	WeekFlag `embed:""`
}

func (c *WeekShowCmd) Run(ctx *cli.Context) error {
	monday, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	plan, err := ctx.Planner.LoadWeek(monday)
	if err != nil {
		return err
	}
	dates, err := ctx.Planner.WeekDates(monday)
	if err != nil {
		return err
	}

	fmt.Printf("Week of %s\n\n", plan.WeekStart)
	for i, d := range dates {
		content := plan.Days[i]
		if content == "" {
			content = "-"
		}
		fmt.Printf("  %s %s  %s\n", d.Format("Mon"), d.Format("01/02"), content)
	}
	fmt.Println()
	intentions := plan.Intentions
	if intentions == "" {
		intentions = "(none)"
	}
	fmt.Printf("Intentions: %s\n", intentions)
	return nil
}

type WeekSetCmd struct {
	WeekFlag `embed:""`
	Day     string `arg:"" help:"Day of the week (mon..sun or 0-6, 0 = Monday)."`
	Content string `arg:"" optional:"" help:"Plan for the day. Omit to clear it."`
}

func (c *WeekSetCmd) Run(ctx *cli.Context) error {
	idx, err := ParseDayIndex(c.Day)
	if err != nil {
		return err
	}
	monday, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	if _, err := ctx.Planner.SaveWeekDay(monday, idx, c.Content); err != nil {
		return err
	}
	dates, err := ctx.Planner.WeekDates(monday)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Saved plan for %s\n", dates[idx].Format("Monday 2006-01-02"))
	return nil
}

type WeekIntentionsCmd struct {
	WeekFlag `embed:""`
	Content string `arg:"" optional:"" help:"Intentions for the week. Omit to clear them."`
}

func (c *WeekIntentionsCmd) Run(ctx *cli.Context) error {
	monday, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	if _, err := ctx.Planner.SaveIntentions(monday, c.Content); err != nil {
		return err
	}
	fmt.Printf("✓ Saved intentions for the week of %s\n", monday)
	return nil
}

// ParseDayIndex converts a weekday name or number to a day index where 0 is Monday
func ParseDayIndex(s string) (int, error) {
	dayMap := map[string]int{
		"mon": 0, "monday": 0,
		"tue": 1, "tuesday": 1,
		"wed": 2, "wednesday": 2,
		"thu": 3, "thursday": 3,
		"fri": 4, "friday": 4,
		"sat": 5, "saturday": 5,
		"sun": 6, "sunday": 6,
	}

	part := strings.TrimSpace(strings.ToLower(s))
	if idx, ok := dayMap[part]; ok {
		return idx, nil
	}
	num, err := strconv.Atoi(part)
	if err == nil && num >= 0 && num < models.DaysPerWeek {
		return num, nil
	}
	return 0, fmt.Errorf("invalid day: %s", s)
}
