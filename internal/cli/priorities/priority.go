package priorities

import (
	"fmt"
	"strings"

	"github.com/julianstephens/lifeplan/internal/cli"
)

type PrioritySetCmd struct {
	Category    string `arg:"" help:"One of career, health, finances, religion, relationships, hobbies."`
	Description string `arg:"" optional:"" help:"What matters in this area. Omit to clear it."`
}

func (c *PrioritySetCmd) Run(ctx *cli.Context) error {
	if err := ctx.Planner.SavePriority(c.Category, c.Description); err != nil {
		return err
	}
	if strings.TrimSpace(c.Description) == "" {
		fmt.Printf("✓ Cleared %s priority\n", strings.ToLower(c.Category))
		return nil
	}
	fmt.Printf("✓ Saved %s priority\n", strings.ToLower(c.Category))
	return nil
}

type PriorityListCmd struct{}

func (c *PriorityListCmd) Run(ctx *cli.Context) error {
	priorities, err := ctx.Planner.Priorities()
	if err != nil {
		return err
	}

	fmt.Println("Life priorities:")
	for _, p := range priorities {
		desc := p.Description
		if desc == "" {
			desc = "(not set)"
		}
		fmt.Printf("  %-14s %s\n", p.Category.Title(), desc)
	}
	return nil
}

type AffirmationSetCmd struct {
	Content string `arg:"" help:"Affirmation text."`
}

func (c *AffirmationSetCmd) Run(ctx *cli.Context) error {
	if err := ctx.Planner.SaveAffirmation(c.Content); err != nil {
		return err
	}
	fmt.Println("✓ Affirmation saved")
	return nil
}

type AffirmationShowCmd struct{}

func (c *AffirmationShowCmd) Run(ctx *cli.Context) error {
	content, err := ctx.Planner.Affirmation()
	if err != nil {
		return err
	}
	if content == "" {
		fmt.Println("No affirmation set.")
		return nil
	}
	fmt.Println(content)
	return nil
}
