package legacy

import (
	"database/sql"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/julianstephens/lifeplan/internal/constants"
	"github.com/julianstephens/lifeplan/internal/logger"
	"github.com/julianstephens/lifeplan/internal/models"
	"github.com/julianstephens/lifeplan/internal/storage/sqlite"
	"github.com/julianstephens/lifeplan/internal/utils"
)

// entryLayout is how the legacy desktop planner joined entry_date and entry_time. The hour
// may have one or two digits.
const entryLayout = "2006-01-02 3:04PM"

type reader struct {
	db   *sql.DB
	snap Snapshot
}

// Read opens a database written by the legacy desktop planner. Rows that cannot be converted
// are skipped and counted in Snapshot.Skipped. The file is never written.
func Read(path string) (Snapshot, error) {
	if _, err := os.Stat(path); err != nil {
		return Snapshot{}, fmt.Errorf("failed to open source database: %w", err)
	}

	db, err := sqlite.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer db.Close()

	r := &reader{db: db}
	steps := []struct {
		table string
		read  func() error
	}{
		{"priorities", r.readPriorities},
		{"affirmations", r.readAffirmation},
		{"vision_images", r.readVisionImages},
		{"tasks", r.readTasks},
		{"weekly_planning", r.readWeeks},
		{"journal_entries", r.readJournal},
	}
	for _, step := range steps {
		exists, err := sqlite.TableExists(db, step.table)
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to inspect %s: %w", step.table, err)
		}
		if !exists {
			logger.Debug("Legacy table missing", "table", step.table)
			continue
		}
		if err := step.read(); err != nil {
			return Snapshot{}, fmt.Errorf("failed to read %s: %w", step.table, err)
		}
	}

	return r.snap, nil
}

// columns lists the column names of a table
func (r *reader) columns(table string) (map[string]bool, error) {
	rows, err := r.db.Query("SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[strings.ToLower(name)] = true
	}
	return cols, rows.Err()
}

func (r *reader) skip(table, reason string, args ...any) {
	r.snap.Skipped++
	logger.Warn("Skipping legacy row", append([]any{"table", table, "reason", reason}, args...)...)
}

func (r *reader) readPriorities() error {
	rows, err := sq.Select("category", "description").From("priorities").RunWith(r.db).Query()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var category, description sql.NullString
		if err := rows.Scan(&category, &description); err != nil {
			return err
		}
		c, err := models.ParseCategory(category.String)
		if err != nil {
			r.skip("priorities", "unknown category", "category", category.String)
			continue
		}
		r.snap.Priorities = append(r.snap.Priorities, models.Priority{Category: c, Description: description.String})
	}
	return rows.Err()
}

func (r *reader) readAffirmation() error {
	var content, updated sql.NullString
	err := sq.Select("content", "date_updated").
		From("affirmations").
		OrderBy("date_updated DESC").
		Limit(1).
		RunWith(r.db).
		QueryRow().
		Scan(&content, &updated)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	at, err := utils.ParseTimestamp(updated.String)
	if err != nil {
		r.skip("affirmations", "bad timestamp", "date_updated", updated.String)
		return nil
	}
	r.snap.Affirmation = &models.Affirmation{
		ID:          constants.AffirmationID,
		Content:     content.String,
		DateUpdated: at,
	}
	return nil
}

func (r *reader) readVisionImages() error {
	rows, err := sq.Select("id", "name", "image_data").From("vision_images").RunWith(r.db).Query()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, name, data sql.NullString
		if err := rows.Scan(&id, &name, &data); err != nil {
			return err
		}
		if id.String == "" {
			r.skip("vision_images", "missing id")
			continue
		}
		r.snap.VisionImages = append(r.snap.VisionImages, models.VisionImage{
			ID:        id.String,
			Name:      name.String,
			ImageData: data.String,
		})
	}
	return rows.Err()
}

func (r *reader) readTasks() error {
	rows, err := sq.Select("id", "description", "category", "priority", "status", "is_daily", "created_at", "completed_at").
		From("tasks").
		OrderBy("created_at").
		RunWith(r.db).
		Query()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, description, category, status, createdAt, completedAt sql.NullString
			priority                                                  sql.NullInt64
			isDaily                                                   sql.NullBool
		)
		if err := rows.Scan(&id, &description, &category, &priority, &status, &isDaily, &createdAt, &completedAt); err != nil {
			return err
		}

		task := models.Task{
			ID:          id.String,
			Description: strings.TrimSpace(description.String),
			Category:    category.String,
			Priority:    int(priority.Int64),
			Status:      models.TaskPending,
			IsDaily:     isDaily.Bool,
		}
		if !category.Valid || task.Category == "" {
			task.Category = constants.DefaultTaskCategory
		}
		if !priority.Valid {
			task.Priority = constants.DefaultTaskPriority
		}

		// isoformat() writes microseconds only when they are non-zero
		created, err := utils.ParseTimestamp(createdAt.String)
		if err != nil {
			r.skip("tasks", "bad created_at", "id", id.String, "created_at", createdAt.String)
			continue
		}
		task.CreatedAt = created

		if status.String == string(models.TaskCompleted) {
			done, err := utils.ParseTimestamp(completedAt.String)
			if err != nil {
				r.skip("tasks", "bad completed_at", "id", id.String, "completed_at", completedAt.String)
				continue
			}
			task.Status = models.TaskCompleted
			task.CompletedAt = &done
		}

		if err := task.Validate(); err != nil {
			r.skip("tasks", err.Error(), "id", id.String)
			continue
		}
		r.snap.Tasks = append(r.snap.Tasks, task)
	}
	return rows.Err()
}

// readWeeks groups day rows by Monday. Older files repeat the week's intentions on every
// day row; the first non-empty value wins.
func (r *reader) readWeeks() error {
	cols, err := r.columns("weekly_planning")
	if err != nil {
		return err
	}
	selected := []string{"week_start", "day_index", "content"}
	if cols["weekly_intentions"] {
		selected = append(selected, "weekly_intentions")
	}

	rows, err := sq.Select(selected...).
		From("weekly_planning").
		OrderBy("week_start", "day_index").
		RunWith(r.db).
		Query()
	if err != nil {
		return err
	}
	defer rows.Close()

	weeks := make(map[string]*models.WeeklyPlan)
	for rows.Next() {
		var weekStart, content, intentions sql.NullString
		var dayIndex sql.NullInt64
		dest := []any{&weekStart, &dayIndex, &content}
		if len(selected) == 4 {
			dest = append(dest, &intentions)
		}
		if err := rows.Scan(dest...); err != nil {
			return err
		}

		monday, err := utils.NormalizeWeekStart(weekStart.String)
		if err != nil {
			r.skip("weekly_planning", "bad week_start", "week_start", weekStart.String)
			continue
		}
		if !dayIndex.Valid || dayIndex.Int64 < 0 || dayIndex.Int64 >= models.DaysPerWeek {
			r.skip("weekly_planning", "bad day_index", "week_start", weekStart.String)
			continue
		}

		week, ok := weeks[monday]
		if !ok {
			week = &models.WeeklyPlan{WeekStart: monday}
			weeks[monday] = week
		}
		week.Days[dayIndex.Int64] = content.String
		if week.Intentions == "" && strings.TrimSpace(intentions.String) != "" {
			week.Intentions = intentions.String
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, week := range weeks {
		r.snap.Weeks = append(r.snap.Weeks, *week)
	}
	sort.Slice(r.snap.Weeks, func(i, j int) bool {
		return r.snap.Weeks[i].WeekStart < r.snap.Weeks[j].WeekStart
	})
	return nil
}

// readJournal accepts three shapes of journal_entries: an entry_datetime column, separate
// entry_date and entry_time columns, or a date-only entry_date. Date-only rows get
// constants.DefaultEntryClock.
func (r *reader) readJournal() error {
	cols, err := r.columns("journal_entries")
	if err != nil {
		return err
	}

	var selected, exprs []string
	for _, c := range []string{"entry_datetime", "entry_date", "entry_time"} {
		if cols[c] {
			selected = append(selected, c)
			// DATETIME columns would otherwise be decoded as UTC time.Time values
			exprs = append(exprs, fmt.Sprintf("CAST(%s AS TEXT)", c))
		}
	}
	if len(selected) == 0 {
		return fmt.Errorf("journal_entries has no date column")
	}
	selected = append(selected, "content")
	exprs = append(exprs, "content")
	hasFeedback := cols["feedback"]
	if hasFeedback {
		selected = append(selected, "feedback")
		exprs = append(exprs, "feedback")
	}

	rows, err := sq.Select(exprs...).From("journal_entries").RunWith(r.db).Query()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		values := make(map[string]*sql.NullString, len(selected))
		dest := make([]any, len(selected))
		for i, c := range selected {
			v := new(sql.NullString)
			values[c] = v
			dest[i] = v
		}
		if err := rows.Scan(dest...); err != nil {
			return err
		}

		at, err := entryTime(values)
		if err != nil {
			r.skip("journal_entries", err.Error())
			continue
		}

		entry := models.JournalEntry{At: at, Content: values["content"].String}
		if hasFeedback && values["feedback"].Valid && values["feedback"].String != "" {
			feedback := values["feedback"].String
			entry.Feedback = &feedback
		}
		r.snap.Journal = append(r.snap.Journal, entry)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	sort.SliceStable(r.snap.Journal, func(i, j int) bool {
		return r.snap.Journal[i].At.Before(r.snap.Journal[j].At)
	})
	return nil
}

func entryTime(values map[string]*sql.NullString) (time.Time, error) {
	if v, ok := values["entry_datetime"]; ok && strings.TrimSpace(v.String) != "" {
		at, err := utils.ParseEntryKey(v.String)
		if err != nil {
			return time.Time{}, fmt.Errorf("bad entry_datetime %q", v.String)
		}
		return at.Truncate(time.Second), nil
	}

	date, ok := values["entry_date"]
	if !ok || strings.TrimSpace(date.String) == "" {
		return time.Time{}, fmt.Errorf("entry has no date")
	}

	clock := constants.DefaultEntryClock
	if v, ok := values["entry_time"]; ok && strings.TrimSpace(v.String) != "" {
		clock = strings.ToUpper(strings.TrimSpace(v.String))
	}

	at, err := time.ParseInLocation(entryLayout, strings.TrimSpace(date.String)+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad entry_date/entry_time %q %q", date.String, clock)
	}
	return at, nil
}
