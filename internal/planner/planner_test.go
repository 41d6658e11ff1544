package planner

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/julianstephens/lifeplan/internal/errors"
	"github.com/julianstephens/lifeplan/internal/models"
	"github.com/julianstephens/lifeplan/internal/storage"
	"github.com/julianstephens/lifeplan/internal/storage/sqlite"
)

// fakeClock advances by one second on every read so created_at values are distinct
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(time.Second)
	return now
}

func newTestService(t *testing.T) (*Service, *fakeClock) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "lifeplan.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })

	clock := &fakeClock{t: time.Date(2024, 1, 17, 14, 5, 0, 0, time.Local)}
	return New(store, WithClock(clock.Now)), clock
}

func TestPriorities(t *testing.T) {
	svc, _ := newTestService(t)

	priorities, err := svc.Priorities()
	require.NoError(t, err)
	require.Len(t, priorities, len(models.Categories))
	for i, p := range priorities {
		assert.Equal(t, models.Categories[i], p.Category)
		assert.Empty(t, p.Description)
	}

	require.NoError(t, svc.SavePriority("Career", "  Ship v1  "))
	require.NoError(t, svc.SavePriority("career", "Ship v2"))

	priorities, err = svc.Priorities()
	require.NoError(t, err)
	assert.Equal(t, "Ship v2", priorities[0].Description)

	// Blank saves overwrite
	require.NoError(t, svc.SavePriority("career", "   "))
	priorities, err = svc.Priorities()
	require.NoError(t, err)
	assert.Empty(t, priorities[0].Description)

	assert.ErrorIs(t, svc.SavePriority("chores", "dishes"), apperrors.ErrUnknownCategory)
}

func TestSavePriorities(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.SavePriorities(map[models.Category]string{
		models.CategoryHealth: "Run",
		"chores":              "Dishes",
	})
	require.ErrorIs(t, err, apperrors.ErrUnknownCategory)

	priorities, err := svc.Priorities()
	require.NoError(t, err)
	assert.Empty(t, priorities[1].Description, "nothing is written when a key is unknown")

	require.NoError(t, svc.SavePriorities(map[models.Category]string{
		models.CategoryHealth:  "Run",
		models.CategoryHobbies: "Guitar",
	}))
	priorities, err = svc.Priorities()
	require.NoError(t, err)
	assert.Equal(t, "Run", priorities[1].Description)
	assert.Equal(t, "Guitar", priorities[5].Description)
}

func TestAffirmation(t *testing.T) {
	svc, _ := newTestService(t)

	got, err := svc.Affirmation()
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, svc.SaveAffirmation("I am enough"))
	require.NoError(t, svc.SaveAffirmation("I am capable"))

	got, err = svc.Affirmation()
	require.NoError(t, err)
	assert.Equal(t, "I am capable", got)
}

func TestTaskToggleScenario(t *testing.T) {
	svc, _ := newTestService(t)

	task, err := svc.AddTask("Buy milk", true)
	require.NoError(t, err)
	assert.Equal(t, models.TaskPending, task.Status)
	assert.Equal(t, "general", task.Category)
	assert.Equal(t, 1, task.Priority)

	daily, err := svc.ListTasks(true)
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, "Buy milk", daily[0].Description)
	assert.Equal(t, models.TaskPending, daily[0].Status)

	toggled, err := svc.ToggleTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, toggled.Status)
	assert.NotNil(t, toggled.CompletedAt)

	stored, err := svc.Store().GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, stored.Status)
	assert.NotNil(t, stored.CompletedAt)

	toggled, err = svc.ToggleTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskPending, toggled.Status)
	assert.Nil(t, toggled.CompletedAt)

	stored, err = svc.Store().GetTask(task.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CompletedAt)
}

func TestAddTask_BlankDescription(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddTask("   ", false)
	assert.ErrorIs(t, err, apperrors.ErrEmptyDescription)

	all, err := svc.Store().GetAllTasks()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListTasks_CreationOrder(t *testing.T) {
	svc, _ := newTestService(t)

	for _, d := range []string{"first", "second", "third"} {
		_, err := svc.AddTask(d, false)
		require.NoError(t, err)
	}

	backlog, err := svc.ListTasks(false)
	require.NoError(t, err)
	require.Len(t, backlog, 3)
	assert.Equal(t, "first", backlog[0].Description)
	assert.Equal(t, "third", backlog[2].Description)
}

func TestMoveTaskToDaily(t *testing.T) {
	svc, _ := newTestService(t)

	task, err := svc.AddTask("Renew passport", false)
	require.NoError(t, err)
	task, err = svc.ToggleTask(task.ID)
	require.NoError(t, err)

	moved, err := svc.MoveTaskToDaily(task.ID)
	require.NoError(t, err)
	assert.True(t, moved.IsDaily)
	assert.Equal(t, task.Status, moved.Status)
	assert.True(t, task.CreatedAt.Equal(moved.CreatedAt))
	require.NotNil(t, moved.CompletedAt)
	assert.True(t, task.CompletedAt.Equal(*moved.CompletedAt))

	backlog, err := svc.ListTasks(false)
	require.NoError(t, err)
	assert.Empty(t, backlog)
}

func TestEditAndDeleteTask(t *testing.T) {
	svc, _ := newTestService(t)

	task, err := svc.AddTask("Call mom", true)
	require.NoError(t, err)

	_, err = svc.EditTask(task.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrEmptyDescription)

	edited, err := svc.EditTask(task.ID, " Call mom and dad ")
	require.NoError(t, err)
	assert.Equal(t, "Call mom and dad", edited.Description)

	require.NoError(t, svc.DeleteTask(task.ID))
	assert.ErrorIs(t, svc.DeleteTask(task.ID), storage.ErrNotFound)
}

func TestMissingSelection(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ToggleTask("")
	assert.ErrorIs(t, err, apperrors.ErrNoSelection)
	_, err = svc.MoveTaskToDaily(" ")
	assert.ErrorIs(t, err, apperrors.ErrNoSelection)
	assert.ErrorIs(t, svc.DeleteTask(""), apperrors.ErrNoSelection)
}

func TestFindTask(t *testing.T) {
	svc, _ := newTestService(t)

	task, err := svc.AddTask("Water plants", false)
	require.NoError(t, err)

	found, err := svc.FindTask(task.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, task.ID, found.ID)

	_, err = svc.FindTask("zzzzzzzz")
	assert.Error(t, err)
}

func TestWeekScenario(t *testing.T) {
	svc, _ := newTestService(t)

	monday, err := svc.NormalizeWeekStart("2024-01-17")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", monday)

	dates, err := svc.WeekDates(monday)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", dates[0].Format("2006-01-02"))
	assert.Equal(t, "2024-01-21", dates[6].Format("2006-01-02"))

	var days [models.DaysPerWeek]string
	days[0] = "  Gym "
	plan, err := svc.SaveWeek("2024-01-17", days, " Rest more ")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", plan.WeekStart)
	assert.Equal(t, "Gym", plan.Days[0])
	assert.Equal(t, "Rest more", plan.Intentions)

	loaded, err := svc.LoadWeek("2024-01-21")
	require.NoError(t, err)
	assert.Equal(t, plan, loaded)

	_, err = svc.SaveWeek("01/17/2024", days, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
}

func TestSaveWeekDayAndIntentions(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SaveIntentions("2024-01-15", "Sleep early")
	require.NoError(t, err)
	_, err = svc.SaveWeekDay("2024-01-15", 2, "Dentist")
	require.NoError(t, err)

	plan, err := svc.LoadWeek("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, "Dentist", plan.Days[2])
	assert.Equal(t, "Sleep early", plan.Intentions)

	_, err = svc.SaveWeekDay("2024-01-15", 7, "nope")
	assert.Error(t, err)
}

func TestShiftWeek(t *testing.T) {
	svc, _ := newTestService(t)

	prev, err := svc.ShiftWeek("2024-01-15", -1)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-08", prev)

	next, err := svc.ShiftWeek("2024-01-17", 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-22", next)

	assert.Equal(t, "2024-01-15", svc.CurrentWeekStart())
}

func TestSubmitJournalScenario(t *testing.T) {
	svc, _ := newTestService(t)

	entry, err := svc.SubmitJournal("2024-01-15", "09:30AM", "I felt grateful and accomplished today")
	require.NoError(t, err)
	require.NotNil(t, entry.Feedback)
	assert.Contains(t, *entry.Feedback, "Great to see positive momentum!")
	assert.NotContains(t, *entry.Feedback, "I notice some challenges mentioned")

	stored, err := svc.JournalEntry("2024-01-15", "09:30am")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15 09:30:00", stored.Key())
	assert.Equal(t, *entry.Feedback, *stored.Feedback)
}

func TestSubmitJournal_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name    string
		date    string
		clock   string
		content string
		want    error
	}{
		{name: "blank content", date: "2024-01-15", clock: "09:30AM", content: "  \n ", want: apperrors.ErrEmptyContent},
		{name: "24 hour clock", date: "2024-01-15", clock: "13:30", content: "x", want: apperrors.ErrInvalidTime},
		{name: "hour zero", date: "2024-01-15", clock: "00:30AM", content: "x", want: apperrors.ErrInvalidTime},
		{name: "bad minutes", date: "2024-01-15", clock: "09:60PM", content: "x", want: apperrors.ErrInvalidTime},
		{name: "bad date", date: "2024-13-01", clock: "09:30AM", content: "x", want: apperrors.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitJournal(tt.date, tt.clock, tt.content)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	dates, err := svc.JournalDates()
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestSubmitJournal_BlankClockUsesNow(t *testing.T) {
	svc, _ := newTestService(t)

	entry, err := svc.SubmitJournal("2024-01-15", "", "A quiet day")
	require.NoError(t, err)
	assert.Equal(t, "02:05PM", entry.Clock())
}

func TestAutoSaveThenSubmit(t *testing.T) {
	svc, _ := newTestService(t)

	at, err := svc.AutoSaveJournal("2024-01-15", "08:00PM", "draft one")
	require.NoError(t, err)
	_, err = svc.AutoSaveJournal("2024-01-15", "08:00PM", "draft two")
	require.NoError(t, err)

	draft, err := svc.Store().GetJournalEntry(at)
	require.NoError(t, err)
	assert.Equal(t, "draft two", draft.Content)
	assert.Nil(t, draft.Feedback)

	submitted, err := svc.SubmitJournal("2024-01-15", "08:00PM", "I was stressed")
	require.NoError(t, err)
	assert.Contains(t, *submitted.Feedback, "I notice some challenges mentioned")

	// Later autosaves keep the submitted feedback
	_, err = svc.AutoSaveJournal("2024-01-15", "08:00PM", "I was stressed, then calm")
	require.NoError(t, err)
	stored, err := svc.Store().GetJournalEntry(at)
	require.NoError(t, err)
	assert.Equal(t, "I was stressed, then calm", stored.Content)
	require.NotNil(t, stored.Feedback)
	assert.Equal(t, *submitted.Feedback, *stored.Feedback)
}

func TestAutoSaveJournal_BlankDoesNotCreate(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AutoSaveJournal("2024-01-15", "08:00PM", "   ")
	require.NoError(t, err)

	dates, err := svc.JournalDates()
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestJournalHistory(t *testing.T) {
	svc, _ := newTestService(t)

	for _, clock := range []string{"07:00AM", "09:00PM", "12:30PM"} {
		_, err := svc.SubmitJournal("2024-01-15", clock, "entry at "+clock)
		require.NoError(t, err)
	}
	_, err := svc.SubmitJournal("2024-01-16", "07:00AM", "next day")
	require.NoError(t, err)

	history, err := svc.JournalHistory("2024-01-15")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "09:00PM", history[0].Clock())
	assert.Equal(t, "12:30PM", history[1].Clock())
	assert.Equal(t, "07:00AM", history[2].Clock())

	_, err = svc.JournalHistory("yesterday")
	assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
}

func TestAdjacentJournalDate(t *testing.T) {
	svc, _ := newTestService(t)

	_, ok, err := svc.AdjacentJournalDate("2024-01-12", Earlier)
	require.NoError(t, err)
	assert.False(t, ok, "no entries")

	for _, date := range []string{"2024-01-10", "2024-01-12", "2024-01-15"} {
		_, err := svc.SubmitJournal(date, "09:00AM", "note")
		require.NoError(t, err)
	}

	tests := []struct {
		name    string
		current string
		dir     Direction
		want    string
		wantOK  bool
	}{
		{name: "earlier from middle", current: "2024-01-12", dir: Earlier, want: "2024-01-10", wantOK: true},
		{name: "later from first", current: "2024-01-10", dir: Later, want: "2024-01-12", wantOK: true},
		{name: "earlier at start", current: "2024-01-10", dir: Earlier, want: "2024-01-10", wantOK: false},
		{name: "later at end", current: "2024-01-15", dir: Later, want: "2024-01-15", wantOK: false},
		{name: "unknown date", current: "2024-01-11", dir: Earlier, want: "2024-01-15", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := svc.AdjacentJournalDate(tt.current, tt.dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestPreviewFeedbackUsesPriorities(t *testing.T) {
	svc, _ := newTestService(t)

	require.NoError(t, svc.SavePriority("health", "Run a 10k"))

	text, err := svc.PreviewFeedback("Made progress")
	require.NoError(t, err)
	assert.Contains(t, text, "Your current goals (health: Run a 10k)")

	again, err := svc.PreviewFeedback("Made progress")
	require.NoError(t, err)
	assert.Equal(t, text, again)

	dates, err := svc.JournalDates()
	require.NoError(t, err)
	assert.Empty(t, dates, "preview never writes")
}
