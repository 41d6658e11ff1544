package models

import (
	"time"

	"github.com/julianstephens/lifeplan/internal/constants"
)

type JournalEntry struct {
	At       time.Time `json:"at"`
	Content  string    `json:"content"`
	Feedback *string   `json:"feedback,omitempty"` // nil until submitted
}

// Key returns the canonical storage key for the entry
func (e JournalEntry) Key() string {
	return e.At.Format(constants.EntryFormat)
}

// Date returns the YYYY-MM-DD component of the entry timestamp
func (e JournalEntry) Date() string {
	return e.At.Format(constants.DateFormat)
}

// Clock returns the entry time in the 12-hour journal format
func (e JournalEntry) Clock() string {
	return e.At.Format(constants.ClockFormat)
}

func (e JournalEntry) HasFeedback() bool {
	return e.Feedback != nil && *e.Feedback != ""
}
