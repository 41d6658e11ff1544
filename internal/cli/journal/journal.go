package journal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/julianstephens/lifeplan/internal/cli"
	"github.com/julianstephens/lifeplan/internal/planner"
)

// EntryFlags addresses one journal entry
type EntryFlags struct {
	Date string `short:"d" help:"Entry date (YYYY-MM-DD). Defaults to today."`
	Time string `short:"t" help:"Entry time (HH:MMAM or HH:MMPM). Defaults to now."`
}

func (f EntryFlags) date(ctx *cli.Context) string {
	if strings.TrimSpace(f.Date) == "" {
		return ctx.Planner.Today()
	}
	return strings.TrimSpace(f.Date)
}

// readContent returns the argument, or stdin when it is "-"
func readContent(arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

type JournalSubmitCmd struct {
	EntryFlags `embed:""`
	Content    string `arg:"" help:"Reflection text, or - to read stdin."`
	Copy       bool   `help:"Copy the feedback to the clipboard."`
}

func (c *JournalSubmitCmd) Run(ctx *cli.Context) error {
	content, err := readContent(c.Content)
	if err != nil {
		return err
	}
	entry, err := ctx.Planner.SubmitJournal(c.date(ctx), c.Time, content)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Journal entry saved for %s %s\n\n", entry.Date(), entry.Clock())
	if entry.Feedback != nil {
		fmt.Println(*entry.Feedback)
		if c.Copy {
			return copyFeedback(*entry.Feedback)
		}
	}
	return nil
}

type JournalDraftCmd struct {
	EntryFlags `embed:""`
	Content    string `arg:"" help:"Draft text, or - to read stdin."`
}

func (c *JournalDraftCmd) Run(ctx *cli.Context) error {
	content, err := readContent(c.Content)
	if err != nil {
		return err
	}
	at, err := ctx.Planner.AutoSaveJournal(c.date(ctx), c.Time, content)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Draft saved for %s\n", at.Format("2006-01-02 03:04PM"))
	return nil
}

type JournalHistoryCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD). Defaults to today."`
}

func (c *JournalHistoryCmd) Run(ctx *cli.Context) error {
	date := strings.TrimSpace(c.Date)
	if date == "" {
		date = ctx.Planner.Today()
	}
	return printHistory(ctx, date)
}

type JournalPrevCmd struct {
	Date string `arg:"" optional:"" help:"Date to move from (YYYY-MM-DD). Defaults to today."`
}

func (c *JournalPrevCmd) Run(ctx *cli.Context) error {
	return step(ctx, c.Date, planner.Earlier)
}

type JournalNextCmd struct {
	Date string `arg:"" optional:"" help:"Date to move from (YYYY-MM-DD). Defaults to today."`
}

func (c *JournalNextCmd) Run(ctx *cli.Context) error {
	return step(ctx, c.Date, planner.Later)
}

func step(ctx *cli.Context, from string, dir planner.Direction) error {
	if strings.TrimSpace(from) == "" {
		from = ctx.Planner.Today()
	}
	date, ok, err := ctx.Planner.AdjacentJournalDate(from, dir)
	if err != nil {
		return err
	}
	if !ok {
		if dir == planner.Earlier {
			fmt.Println("No earlier journal entries.")
		} else {
			fmt.Println("No later journal entries.")
		}
		return nil
	}
	return printHistory(ctx, date)
}

func printHistory(ctx *cli.Context, date string) error {
	entries, err := ctx.Planner.JournalHistory(date)
	if err != nil {
		return err
	}
	fmt.Printf("Journal for %s\n", date)
	if len(entries) == 0 {
		fmt.Println("\n  No entries.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("\n[%s]\n%s\n", e.Clock(), e.Content)
	}
	return nil
}

type JournalFeedbackCmd struct {
	Content string `arg:"" optional:"" help:"Text to analyse, or - to read stdin. Defaults to the latest entry of today."`
	Copy    bool   `help:"Copy the feedback to the clipboard."`
}

func (c *JournalFeedbackCmd) Run(ctx *cli.Context) error {
	content, err := readContent(c.Content)
	if err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		entries, err := ctx.Planner.JournalHistory(ctx.Planner.Today())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("no journal entry today; pass the text to analyse")
		}
		content = entries[0].Content
	}

	text, err := ctx.Planner.PreviewFeedback(content)
	if err != nil {
		return err
	}
	fmt.Println(text)
	if c.Copy {
		return copyFeedback(text)
	}
	return nil
}

func copyFeedback(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy feedback to clipboard: %w", err)
	}
	fmt.Println("\n✓ Feedback copied to clipboard")
	return nil
}
