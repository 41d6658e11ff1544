package sqlstore

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lifeplan/internal/migration"
	"github.com/julianstephens/lifeplan/internal/models"
	"github.com/julianstephens/lifeplan/internal/storage"
)

func newMockStore(t *testing.T, dialect migration.Dialect) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := New(dialect)
	s.Bind(db)
	return &s, mock
}

func TestSavePriority_PostgresPlaceholders(t *testing.T) {
	s, mock := newMockStore(t, migration.DialectPostgres)

	mock.ExpectExec(`INSERT INTO priorities \(category,description\) VALUES \(\$1,\$2\) ON CONFLICT \(category\) DO UPDATE SET description = excluded\.description`).
		WithArgs("career", "Ship v1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.SavePriority(models.Priority{Category: models.CategoryCareer, Description: "Ship v1"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavePriority_SQLitePlaceholders(t *testing.T) {
	s, mock := newMockStore(t, migration.DialectSQLite)

	mock.ExpectExec(`INSERT INTO priorities \(category,description\) VALUES \(\?,\?\)`).
		WithArgs("health", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.SavePriority(models.Priority{Category: models.CategoryHealth})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPriorities_SortsByCategoryOrder(t *testing.T) {
	s, mock := newMockStore(t, migration.DialectPostgres)

	rows := sqlmock.NewRows([]string{"category", "description"}).
		AddRow("hobbies", "Guitar").
		AddRow("career", "Ship v1").
		AddRow("finances", "Save")
	mock.ExpectQuery(`SELECT category, description FROM priorities`).WillReturnRows(rows)

	got, err := s.GetPriorities()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, models.CategoryCareer, got[0].Category)
	assert.Equal(t, models.CategoryFinances, got[1].Category)
	assert.Equal(t, models.CategoryHobbies, got[2].Category)
}

func TestGetPriorityContext_FiltersBlank(t *testing.T) {
	s, mock := newMockStore(t, migration.DialectPostgres)

	mock.ExpectQuery(`SELECT category, description FROM priorities WHERE description <> \$1`).
		WithArgs("").
		WillReturnRows(sqlmock.NewRows([]string{"category", "description"}).AddRow("career", "Ship v1"))

	got, err := s.GetPriorityContext()
	require.NoError(t, err)
	assert.Equal(t, []models.Priority{{Category: models.CategoryCareer, Description: "Ship v1"}}, got)
}

func TestGetAffirmation_NotFound(t *testing.T) {
	s, mock := newMockStore(t, migration.DialectSQLite)

	mock.ExpectQuery(`SELECT id, content, date_updated FROM affirmations ORDER BY date_updated DESC LIMIT 1`).
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetAffirmation()
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSaveAffirmation_DefaultsSingletonID(t *testing.T) {
	s, mock := newMockStore(t, migration.DialectSQLite)
	at := time.Date(2024, 1, 15, 9, 30, 0, 0, time.Local)

	mock.ExpectExec(`INSERT INTO affirmations .* ON CONFLICT \(id\) DO UPDATE SET content = excluded\.content, date_updated = excluded\.date_updated`).
		WithArgs(1, "I am enough", "2024-01-15T09:30:00.000000").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.SaveAffirmation(models.Affirmation{Content: "I am enough", DateUpdated: at}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTask_MissingRow(t *testing.T) {
	s, mock := newMockStore(t, migration.DialectPostgres)

	mock.ExpectExec(`UPDATE tasks SET description = \$1, category = \$2, priority = \$3, status = \$4, is_daily = \$5, completed_at = \$6 WHERE id = \$7`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateTask(models.Task{
		ID:          "missing",
		Description: "Buy milk",
		Category:    "general",
		Priority:    1,
		Status:      models.TaskPending,
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddTask_RejectsInconsistentCompletion(t *testing.T) {
	s, mock := newMockStore(t, migration.DialectSQLite)

	err := s.AddTask(models.Task{
		ID:          "t1",
		Description: "Buy milk",
		Status:      models.TaskCompleted,
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTask_NotFound(t *testing.T) {
	s, mock := newMockStore(t, migration.DialectSQLite)

	mock.ExpectExec(`DELETE FROM tasks WHERE id = \?`).
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.DeleteTask("nope"), storage.ErrNotFound)
}

func TestListTasks_ParsesRows(t *testing.T) {
	s, mock := newMockStore(t, migration.DialectPostgres)

	rows := sqlmock.NewRows(taskColumns).
		AddRow("a", "Buy milk", "general", 1, "pending", true, "2024-01-15T08:00:00.000000", nil).
		AddRow("b", "Call mom", "general", 1, "completed", true, "2024-01-15T09:00:00.000000", "2024-01-15T10:00:00.000000")
	mock.ExpectQuery(`SELECT .* FROM tasks WHERE is_daily = \$1 ORDER BY created_at ASC, id ASC`).
		WithArgs(true).
		WillReturnRows(rows)

	tasks, err := s.ListTasks(true)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Nil(t, tasks[0].CompletedAt)
	require.NotNil(t, tasks[1].CompletedAt)
	assert.Equal(t, 10, tasks[1].CompletedAt.Hour())
	assert.Equal(t, models.TaskCompleted, tasks[1].Status)
}

func TestSaveWeek_RollsBackOnFailure(t *testing.T) {
	s, mock := newMockStore(t, migration.DialectPostgres)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO weekly_planning`).
		WithArgs("2024-01-15", 0, "Plan").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO weekly_planning`).
		WithArgs("2024-01-15", 1, "").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	plan := models.WeeklyPlan{WeekStart: "2024-01-15"}
	plan.Days[0] = "Plan"

	err := s.SaveWeek(plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "day 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveWeek_WritesIntentionsOnce(t *testing.T) {
	s, mock := newMockStore(t, migration.DialectSQLite)

	mock.ExpectBegin()
	for i := 0; i < models.DaysPerWeek; i++ {
		mock.ExpectExec(`INSERT INTO weekly_planning .* ON CONFLICT \(week_start, day_index\) DO UPDATE SET content = excluded\.content`).
			WithArgs("2024-01-15", i, "").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec(`INSERT INTO weekly_intentions .* ON CONFLICT \(week_start\) DO UPDATE SET content = excluded\.content`).
		WithArgs("2024-01-15", "Rest more").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.SaveWeek(models.WeeklyPlan{WeekStart: "2024-01-15", Intentions: "Rest more"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveJournalDraft_KeepsFeedback(t *testing.T) {
	s, mock := newMockStore(t, migration.DialectPostgres)
	at := time.Date(2024, 1, 15, 9, 30, 0, 0, time.Local)

	mock.ExpectExec(`INSERT INTO journal_entries \(entry_at,content,feedback\) VALUES \(\$1,\$2,\$3\) ON CONFLICT \(entry_at\) DO UPDATE SET content = excluded\.content$`).
		WithArgs("2024-01-15 09:30:00", "draft", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.SaveJournalDraft(at, "draft"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetJournalEntriesForDate_FiltersByDatePart(t *testing.T) {
	s, mock := newMockStore(t, migration.DialectPostgres)

	rows := sqlmock.NewRows([]string{"entry_at", "content", "feedback"}).
		AddRow("2024-01-15 21:00:00", "evening", nil).
		AddRow("2024-01-15 09:30:00", "morning", "**Reflection Analysis:**")
	mock.ExpectQuery(`SELECT entry_at, content, feedback FROM journal_entries WHERE substr\(entry_at, 1, 10\) = \$1 ORDER BY entry_at DESC`).
		WithArgs("2024-01-15").
		WillReturnRows(rows)

	entries, err := s.GetJournalEntriesForDate("2024-01-15")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "09:00PM", entries[0].Clock())
	assert.False(t, entries[0].HasFeedback())
	assert.True(t, entries[1].HasFeedback())
}

func TestGetJournalDates(t *testing.T) {
	s, mock := newMockStore(t, migration.DialectSQLite)

	mock.ExpectQuery(`SELECT DISTINCT substr\(entry_at, 1, 10\) AS entry_date FROM journal_entries ORDER BY entry_date DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"entry_date"}).AddRow("2024-01-15").AddRow("2024-01-12"))

	dates, err := s.GetJournalDates()
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-15", "2024-01-12"}, dates)
}

func TestDeleteVisionImage_NotFound(t *testing.T) {
	s, mock := newMockStore(t, migration.DialectPostgres)

	mock.ExpectExec(`DELETE FROM vision_images WHERE id = \$1`).
		WithArgs("img").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.DeleteVisionImage("img"), storage.ErrNotFound)
}

func TestMigrate_RequiresOpenConnection(t *testing.T) {
	s := New(migration.DialectSQLite)

	_, err := s.Migrate(nil)
	assert.ErrorIs(t, err, storage.ErrNotOpen)
	assert.ErrorIs(t, s.ValidateSchema(), storage.ErrNotOpen)
}
