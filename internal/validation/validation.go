package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/lifeplan/internal/legacy"
	"github.com/julianstephens/lifeplan/internal/models"
	"github.com/julianstephens/lifeplan/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateTask      ConflictType = "duplicate_task"
	ConflictInvalidTaskState   ConflictType = "invalid_task_state"
	ConflictInvalidDateTime    ConflictType = "invalid_datetime"
	ConflictUnknownCategory    ConflictType = "unknown_category"
	ConflictWeekStartNotMonday ConflictType = "week_start_not_monday"
	ConflictEmptyJournalEntry  ConflictType = "empty_journal_entry"
)

// Conflict represents a problem found in stored data
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Descriptions, categories or keys involved
	TaskIDs     []string // IDs of tasks involved (for auto-fixing)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string   // Human-readable description of the action
	SourceConflict Conflict // The conflict that triggered this fix action
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Merge appends the conflicts of other
func (vr *ValidationResult) Merge(other ValidationResult) {
	vr.Conflicts = append(vr.Conflicts, other.Conflicts...)
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks stored personal data for rows the application would never write
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateSnapshot runs every check over a full copy of a store
func (v *Validator) ValidateSnapshot(snap legacy.Snapshot) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	result.Merge(v.ValidateTasks(snap.Tasks))
	result.Merge(v.ValidatePriorities(snap.Priorities))
	result.Merge(v.ValidateWeeks(snap.Weeks))
	result.Merge(v.ValidateJournal(snap.Journal))
	return result
}

// ValidateTasks reports pending duplicates within one list and tasks whose status and
// completion time disagree.
func (v *Validator) ValidateTasks(tasks []models.Task) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	type listKey struct {
		daily       bool
		description string
	}
	groups := make(map[listKey][]models.Task)
	var order []listKey
	for _, task := range tasks {
		if task.Done() {
			continue
		}
		// Skip empty descriptions to avoid false positives
		desc := strings.ToLower(strings.TrimSpace(task.Description))
		if desc == "" {
			continue
		}
		k := listKey{daily: task.IsDaily, description: desc}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], task)
	}

	for _, k := range order {
		group := groups[k]
		if len(group) < 2 {
			continue
		}
		sortByCreation(group)
		ids := make([]string, len(group))
		for i, task := range group {
			ids[i] = task.ID
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateTask,
			Description: fmt.Sprintf("Duplicate %s task: \"%s\" (IDs: %v)", listName(k.daily), group[0].Description, ids),
			Items:       []string{group[0].Description},
			TaskIDs:     ids,
		})
	}

	for _, task := range tasks {
		if err := task.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidTaskState,
				Description: fmt.Sprintf("Task \"%s\": %v", task.Description, err),
				Items:       []string{task.Description},
				TaskIDs:     []string{task.ID},
			})
			continue
		}
		if task.CompletedAt != nil && task.CompletedAt.Before(task.CreatedAt) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type: ConflictInvalidDateTime,
				Description: fmt.Sprintf("Task \"%s\" was completed (%s) before it was created (%s)",
					task.Description, utils.FormatTimestamp(*task.CompletedAt), utils.FormatTimestamp(task.CreatedAt)),
				Date:    utils.FormatDate(task.CreatedAt),
				Items:   []string{task.Description},
				TaskIDs: []string{task.ID},
			})
		}
	}

	return result
}

// ValidatePriorities reports rows outside the six known categories
func (v *Validator) ValidatePriorities(priorities []models.Priority) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	for _, p := range priorities {
		if !p.Category.Valid() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownCategory,
				Description: fmt.Sprintf("Priority has unknown category \"%s\"", p.Category),
				Items:       []string{string(p.Category)},
			})
		}
	}
	return result
}

// ValidateWeeks reports weeks keyed by a date that is not a Monday
func (v *Validator) ValidateWeeks(weeks []models.WeeklyPlan) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	for _, w := range weeks {
		d, err := utils.ParseDate(w.WeekStart)
		if err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Week has invalid start date \"%s\"", w.WeekStart),
				Items:       []string{w.WeekStart},
			})
			continue
		}
		if d.Weekday() != time.Monday {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictWeekStartNotMonday,
				Description: fmt.Sprintf("Week %s starts on %s, not Monday", w.WeekStart, d.Weekday()),
				Date:        w.WeekStart,
				Items:       []string{w.WeekStart},
			})
		}
	}
	return result
}

// ValidateJournal reports entries with no reflection text
func (v *Validator) ValidateJournal(entries []models.JournalEntry) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	for _, e := range entries {
		if strings.TrimSpace(e.Content) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyJournalEntry,
				Description: fmt.Sprintf("Journal entry %s has no content", e.Key()),
				Date:        e.Date(),
				Items:       []string{e.Key()},
			})
		}
	}
	return result
}

func listName(daily bool) string {
	if daily {
		return "daily"
	}
	return "backlog"
}

// sortByCreation orders tasks oldest first, falling back to ID for identical timestamps
func sortByCreation(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
}

// AutoFixDuplicateTasks keeps the oldest task of each duplicate group and deletes the rest.
// Returns a slice of FixActions describing what was fixed.
func AutoFixDuplicateTasks(conflicts []Conflict, tasks []models.Task, deleteFunc func(id string) error) []FixAction {
	actions := []FixAction{}

	taskMap := make(map[string]models.Task)
	for _, task := range tasks {
		taskMap[task.ID] = task
	}

	for _, conflict := range conflicts {
		if conflict.Type != ConflictDuplicateTask {
			continue
		}

		var group []models.Task
		for _, id := range conflict.TaskIDs {
			if task, ok := taskMap[id]; ok {
				group = append(group, task)
			}
		}
		if len(group) <= 1 {
			continue // Nothing to fix
		}
		sortByCreation(group)

		keepTask := group[0]
		var deletedIDs, failedIDs []string
		for _, task := range group[1:] {
			if err := deleteFunc(task.ID); err == nil {
				deletedIDs = append(deletedIDs, task.ID)
			} else {
				failedIDs = append(failedIDs, task.ID)
			}
		}

		if len(deletedIDs) > 0 {
			actionMsg := fmt.Sprintf("Removed %d duplicate task(s) \"%s\" (kept ID: %s, removed: %v)", len(deletedIDs), keepTask.Description, keepTask.ID, deletedIDs)
			if len(failedIDs) > 0 {
				actionMsg += fmt.Sprintf(" (failed to remove: %v)", failedIDs)
			}
			actions = append(actions, FixAction{Action: actionMsg, SourceConflict: conflict})
		} else if len(failedIDs) > 0 {
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Failed to remove duplicates for \"%s\": %v", keepTask.Description, failedIDs),
				SourceConflict: conflict,
			})
		}
	}

	return actions
}
