package constants

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// ClockFormat is the 12-hour journal time format (e.g. 09:30AM)
	ClockFormat = "03:04PM"

	// TimestampFormat is the storage layout for created_at, completed_at and date_updated.
	// Fixed width keeps lexical and chronological order identical.
	TimestampFormat = "2006-01-02T15:04:05.000000"

	// EntryFormat is the storage layout of the journal entry key
	EntryFormat = "2006-01-02 15:04:05"

	// DefaultEntryClock is the implicit time assigned to legacy date-only journal rows
	DefaultEntryClock = "12:00AM"
)
