package legacy

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lifeplan/internal/models"
	"github.com/julianstephens/lifeplan/internal/storage"
	"github.com/julianstephens/lifeplan/internal/storage/sqlite"
)

const legacySchema = `
CREATE TABLE priorities (category TEXT PRIMARY KEY, description TEXT);
CREATE TABLE affirmations (id INTEGER PRIMARY KEY, content TEXT, date_updated TEXT);
CREATE TABLE vision_images (id TEXT PRIMARY KEY, name TEXT, image_data TEXT);
CREATE TABLE tasks (
	id TEXT PRIMARY KEY, description TEXT, category TEXT, priority INTEGER,
	status TEXT, is_daily BOOLEAN, created_at TEXT, completed_at TEXT
);
CREATE TABLE weekly_planning (
	week_start TEXT, day_index INTEGER, content TEXT, weekly_intentions TEXT,
	PRIMARY KEY (week_start, day_index)
);
`

func writeLegacyDB(t *testing.T, journalDDL string, stmts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "life_management.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(legacySchema)
	require.NoError(t, err)
	_, err = db.Exec(journalDDL)
	require.NoError(t, err)
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return path
}

func local(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.Local)
}

func TestRead_EntryDatetimeShape(t *testing.T) {
	path := writeLegacyDB(t,
		`CREATE TABLE journal_entries (id INTEGER PRIMARY KEY AUTOINCREMENT, entry_datetime DATETIME, content TEXT, feedback TEXT)`,
		`INSERT INTO journal_entries (entry_datetime, content, feedback) VALUES ('2024-01-15 09:30:00', 'grateful', 'nice work')`,
		`INSERT INTO journal_entries (entry_datetime, content, feedback) VALUES ('2024-01-16T21:05:00', 'tired', NULL)`,
		`INSERT INTO journal_entries (entry_datetime, content, feedback) VALUES ('not a date', 'lost', NULL)`,
	)

	snap, err := Read(path)
	require.NoError(t, err)
	require.Len(t, snap.Journal, 2)
	assert.Equal(t, 1, snap.Skipped)

	assert.True(t, snap.Journal[0].At.Equal(local(2024, 1, 15, 9, 30)))
	assert.Equal(t, "grateful", snap.Journal[0].Content)
	require.NotNil(t, snap.Journal[0].Feedback)
	assert.Equal(t, "nice work", *snap.Journal[0].Feedback)

	assert.True(t, snap.Journal[1].At.Equal(local(2024, 1, 16, 21, 5)))
	assert.Nil(t, snap.Journal[1].Feedback)
}

func TestRead_DateAndTimeShape(t *testing.T) {
	path := writeLegacyDB(t,
		`CREATE TABLE journal_entries (entry_date TEXT, entry_time TEXT, content TEXT, feedback TEXT)`,
		`INSERT INTO journal_entries VALUES ('2024-01-15', '09:30AM', 'morning', NULL)`,
		`INSERT INTO journal_entries VALUES ('2024-01-15', '9:45pm', 'evening', NULL)`,
		`INSERT INTO journal_entries VALUES ('2024-01-15', '25:00PM', 'broken', NULL)`,
	)

	snap, err := Read(path)
	require.NoError(t, err)
	require.Len(t, snap.Journal, 2)
	assert.Equal(t, 1, snap.Skipped)
	assert.True(t, snap.Journal[0].At.Equal(local(2024, 1, 15, 9, 30)))
	assert.True(t, snap.Journal[1].At.Equal(local(2024, 1, 15, 21, 45)))
}

func TestRead_DateOnlyShapeBackfillsMidnight(t *testing.T) {
	path := writeLegacyDB(t,
		`CREATE TABLE journal_entries (entry_date TEXT PRIMARY KEY, content TEXT, feedback TEXT)`,
		`INSERT INTO journal_entries VALUES ('2024-01-10', 'old entry', 'old feedback')`,
	)

	snap, err := Read(path)
	require.NoError(t, err)
	require.Len(t, snap.Journal, 1)
	assert.Equal(t, "2024-01-10 00:00:00", snap.Journal[0].Key())
	assert.Equal(t, "12:00AM", snap.Journal[0].Clock())
}

func TestRead_PartiallyBackfilledDatetime(t *testing.T) {
	path := writeLegacyDB(t,
		`CREATE TABLE journal_entries (entry_date TEXT, entry_time TEXT, content TEXT, feedback TEXT, entry_datetime DATETIME)`,
		`INSERT INTO journal_entries VALUES ('2024-01-15', '07:00AM', 'backfilled', NULL, '2024-01-15 07:00:00')`,
		`INSERT INTO journal_entries VALUES ('2024-01-16', '08:15PM', 'not yet', NULL, NULL)`,
	)

	snap, err := Read(path)
	require.NoError(t, err)
	require.Len(t, snap.Journal, 2)
	assert.Equal(t, "2024-01-15 07:00:00", snap.Journal[0].Key())
	assert.Equal(t, "2024-01-16 20:15:00", snap.Journal[1].Key())
}

func TestRead_TasksPrioritiesAndWeeks(t *testing.T) {
	path := writeLegacyDB(t,
		`CREATE TABLE journal_entries (id INTEGER PRIMARY KEY AUTOINCREMENT, entry_datetime DATETIME, content TEXT, feedback TEXT)`,
		`INSERT INTO priorities VALUES ('career', 'Ship it'), ('Health', 'Run'), ('chores', 'Dishes')`,
		`INSERT INTO affirmations VALUES (1, 'I am enough', '2024-01-14T08:00:00.123456')`,
		`INSERT INTO vision_images VALUES ('img-1', 'beach.png', 'aGVsbG8=')`,
		`INSERT INTO tasks VALUES ('t1', 'Buy milk', 'general', 1, 'pending', 1, '2024-01-15T09:00:00', NULL)`,
		`INSERT INTO tasks VALUES ('t2', 'Call mom', NULL, NULL, 'completed', 0, '2024-01-15T09:00:00.250000', '2024-01-15T18:00:00')`,
		`INSERT INTO tasks VALUES ('t3', 'Broken', 'general', 1, 'completed', 0, '2024-01-15T09:00:00', NULL)`,
		`INSERT INTO weekly_planning VALUES ('2024-01-15', 0, 'Gym', '')`,
		`INSERT INTO weekly_planning VALUES ('2024-01-15', 1, 'Dentist', 'Rest more')`,
		`INSERT INTO weekly_planning VALUES ('2024-01-15', 2, '', 'Other intentions')`,
		`INSERT INTO weekly_planning VALUES ('2024-01-17', 6, 'Brunch', '')`,
	)

	snap, err := Read(path)
	require.NoError(t, err)

	// unknown category and completed task without completed_at
	assert.Equal(t, 2, snap.Skipped)

	require.Len(t, snap.Priorities, 2)

	require.NotNil(t, snap.Affirmation)
	assert.Equal(t, "I am enough", snap.Affirmation.Content)

	require.Len(t, snap.VisionImages, 1)
	assert.Equal(t, "beach.png", snap.VisionImages[0].Name)

	require.Len(t, snap.Tasks, 2)
	assert.Equal(t, "t1", snap.Tasks[0].ID)
	assert.True(t, snap.Tasks[0].IsDaily)
	assert.Equal(t, models.TaskPending, snap.Tasks[0].Status)
	assert.Nil(t, snap.Tasks[0].CompletedAt)

	call := snap.Tasks[1]
	assert.Equal(t, "general", call.Category)
	assert.Equal(t, 1, call.Priority)
	assert.False(t, call.IsDaily)
	assert.Equal(t, models.TaskCompleted, call.Status)
	require.NotNil(t, call.CompletedAt)
	assert.True(t, call.CompletedAt.Equal(local(2024, 1, 15, 18, 0)))
	assert.Equal(t, 250*time.Millisecond, time.Duration(call.CreatedAt.Nanosecond()))

	// 2024-01-17 normalizes to the Monday 2024-01-15 and merges into that week
	require.Len(t, snap.Weeks, 1)
	week := snap.Weeks[0]
	assert.Equal(t, "2024-01-15", week.WeekStart)
	assert.Equal(t, "Gym", week.Days[0])
	assert.Equal(t, "Dentist", week.Days[1])
	assert.Equal(t, "Brunch", week.Days[6])
	assert.Equal(t, "Rest more", week.Intentions)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.db"))
	assert.Error(t, err)
}

func TestImportRoundTrip(t *testing.T) {
	path := writeLegacyDB(t,
		`CREATE TABLE journal_entries (entry_date TEXT, entry_time TEXT, content TEXT, feedback TEXT)`,
		`INSERT INTO priorities VALUES ('hobbies', 'Guitar')`,
		`INSERT INTO tasks VALUES ('t1', 'Buy milk', 'general', 1, 'pending', 1, '2024-01-15T09:00:00', NULL)`,
		`INSERT INTO weekly_planning VALUES ('2024-01-15', 3, 'Swim', 'Be kind')`,
		`INSERT INTO journal_entries VALUES ('2024-01-15', '09:30AM', 'grateful', 'feedback text')`,
	)

	dst := sqlite.NewStore(filepath.Join(t.TempDir(), "lifeplan.db"))
	require.NoError(t, dst.Init())
	defer dst.Close()

	snap, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, Import(dst, snap))

	copied, err := FromProvider(dst)
	require.NoError(t, err)

	require.Len(t, copied.Priorities, 1)
	assert.Equal(t, models.CategoryHobbies, copied.Priorities[0].Category)
	assert.Nil(t, copied.Affirmation)

	require.Len(t, copied.Tasks, 1)
	assert.Equal(t, "Buy milk", copied.Tasks[0].Description)

	require.Len(t, copied.Weeks, 1)
	assert.Equal(t, "Swim", copied.Weeks[0].Days[3])
	assert.Equal(t, "Be kind", copied.Weeks[0].Intentions)

	require.Len(t, copied.Journal, 1)
	assert.Equal(t, "2024-01-15 09:30:00", copied.Journal[0].Key())
	require.NotNil(t, copied.Journal[0].Feedback)
	assert.Equal(t, "feedback text", *copied.Journal[0].Feedback)
}

func TestOpen_LifeplanStore(t *testing.T) {
	srcPath := filepath.Join(t.TempDir(), "src.db")
	src := sqlite.NewStore(srcPath)
	require.NoError(t, src.Init())
	require.NoError(t, src.SavePriority(models.Priority{Category: models.CategoryCareer, Description: "Lead"}))
	require.NoError(t, src.Close())

	snap, err := Open(srcPath)
	require.NoError(t, err)
	require.Len(t, snap.Priorities, 1)
	assert.Equal(t, "Lead", snap.Priorities[0].Description)
	assert.Zero(t, snap.Skipped)
}

func TestOpen_UninitializedSource(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nothing.db"))
	assert.ErrorIs(t, err, storage.ErrNotInitialized)
}
