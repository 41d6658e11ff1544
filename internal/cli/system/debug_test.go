package system

import (
	"testing"
)

func TestDebugCommands(t *testing.T) {
	ctx, _ := setupTestDoctorDB(t)

	if _, err := ctx.Planner.AddTask("Buy milk", true); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if _, err := ctx.Planner.SubmitJournal("2024-01-15", "09:30AM", "good day"); err != nil {
		t.Fatalf("SubmitJournal failed: %v", err)
	}

	tests := []struct {
		name string
		run  func() error
	}{
		{"db-path", func() error { return (&DebugDBPathCmd{}).Run(ctx) }},
		{"dump-tasks", func() error { return (&DebugDumpTasksCmd{}).Run(ctx) }},
		{"dump-priorities", func() error { return (&DebugDumpPrioritiesCmd{}).Run(ctx) }},
		{"dump-week today", func() error { return (&DebugDumpWeekCmd{Date: "today"}).Run(ctx) }},
		{"dump-week date", func() error { return (&DebugDumpWeekCmd{Date: "2024-01-17"}).Run(ctx) }},
		{"dump-journal", func() error { return (&DebugDumpJournalCmd{Date: "2024-01-15"}).Run(ctx) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); err != nil {
				t.Errorf("%s failed: %v", tt.name, err)
			}
		})
	}
}

func TestDebugDumpWeekCmd_InvalidDate(t *testing.T) {
	ctx, _ := setupTestDoctorDB(t)
	if err := (&DebugDumpWeekCmd{Date: "not-a-date"}).Run(ctx); err == nil {
		t.Error("expected error for invalid date")
	}
}
