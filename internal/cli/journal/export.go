package journal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/lifeplan/internal/cli"
	"github.com/julianstephens/lifeplan/internal/constants"
	"github.com/julianstephens/lifeplan/internal/models"
	"github.com/julianstephens/lifeplan/internal/utils"
)

const (
	FormatMarkdown = "md"
	FormatJSON     = "json"
	FormatCSV      = "csv"
)

type JournalExportCmd struct {
	Format string `short:"f" default:"md" enum:"md,json,csv" help:"Output format (md, json, csv)."`
	From   string `help:"First date to include (YYYY-MM-DD)."`
	To     string `help:"Last date to include (YYYY-MM-DD)."`
	Output string `short:"o" type:"path" help:"Write to a file instead of stdout."`
}

func (c *JournalExportCmd) Run(ctx *cli.Context) error {
	entries, err := ctx.Store.GetAllJournalEntries()
	if err != nil {
		return fmt.Errorf("failed to load journal: %w", err)
	}
	entries, err = filterRange(entries, c.From, c.To)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.Output, err)
		}
		defer f.Close()
		w = f
	}

	if err := Export(w, entries, c.Format); err != nil {
		return err
	}
	if c.Output != "" {
		fmt.Printf("✓ Exported %d entries to %s\n", len(entries), c.Output)
	}
	return nil
}

// filterRange keeps entries whose date lies within [from, to]; blank bounds are open
func filterRange(entries []models.JournalEntry, from, to string) ([]models.JournalEntry, error) {
	for _, bound := range []string{from, to} {
		if bound == "" {
			continue
		}
		if _, err := utils.ParseDate(bound); err != nil {
			return nil, err
		}
	}
	if from != "" && to != "" && from > to {
		return nil, fmt.Errorf("--from %s is after --to %s", from, to)
	}

	out := make([]models.JournalEntry, 0, len(entries))
	for _, e := range entries {
		d := e.Date()
		if from != "" && d < from {
			continue
		}
		if to != "" && d > to {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Export writes the entries to w in the given format
func Export(w io.Writer, entries []models.JournalEntry, format string) error {
	switch format {
	case FormatMarkdown, "":
		return writeMarkdown(w, entries)
	case FormatJSON:
		return writeJSON(w, entries)
	case FormatCSV:
		return writeCSV(w, entries)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func writeMarkdown(w io.Writer, entries []models.JournalEntry) error {
	var b strings.Builder
	b.WriteString("# Journal\n")
	current := ""
	for _, e := range entries {
		if d := e.Date(); d != current {
			current = d
			fmt.Fprintf(&b, "\n## %s\n", d)
		}
		fmt.Fprintf(&b, "\n### %s\n\n%s\n", e.Clock(), strings.TrimSpace(e.Content))
		if e.HasFeedback() {
			for _, line := range strings.Split(*e.Feedback, "\n") {
				fmt.Fprintf(&b, "\n> %s", line)
			}
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type exportEntry struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Content  string `json:"content"`
	Feedback string `json:"feedback,omitempty"`
}

func writeJSON(w io.Writer, entries []models.JournalEntry) error {
	out := make([]exportEntry, 0, len(entries))
	for _, e := range entries {
		item := exportEntry{Date: e.Date(), Time: e.Clock(), Content: e.Content}
		if e.Feedback != nil {
			item.Feedback = *e.Feedback
		}
		out = append(out, item)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeCSV(w io.Writer, entries []models.JournalEntry) error {
	if _, err := fmt.Fprintln(w, "date,time,content,feedback"); err != nil {
		return err
	}
	for _, e := range entries {
		feedback := ""
		if e.Feedback != nil {
			feedback = *e.Feedback
		}
		if _, err := fmt.Fprintf(w, "%s,%s,%s,%s\n",
			e.Date(),
			e.At.Format(constants.ClockFormat),
			csvEscape(e.Content),
			csvEscape(feedback),
		); err != nil {
			return err
		}
	}
	return nil
}

func csvEscape(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
	}
	return s
}
