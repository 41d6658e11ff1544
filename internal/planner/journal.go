package planner

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "github.com/julianstephens/lifeplan/internal/errors"
	"github.com/julianstephens/lifeplan/internal/models"
	"github.com/julianstephens/lifeplan/internal/storage"
	"github.com/julianstephens/lifeplan/internal/utils"
)

// Direction selects which neighbouring journal date to move to
type Direction int

const (
	Earlier Direction = iota
	Later
)

// entryTime builds the entry key from a date and a 12-hour clock. A blank clock means now.
func (s *Service) entryTime(date, clock string) (time.Time, error) {
	if _, err := utils.ParseDate(date); err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidDate, date)
	}

	if strings.TrimSpace(clock) == "" {
		clock = utils.FormatClock(s.now())
	}
	normalized, err := utils.NormalizeClock(clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidTime, clock)
	}

	return utils.CombineDateAndClock(date, normalized)
}

// AutoSaveJournal stores the reflection text without computing feedback. Feedback already
// stored at the same key is kept. Blank text only clears an existing draft and never creates one.
func (s *Service) AutoSaveJournal(date, clock, content string) (time.Time, error) {
	at, err := s.entryTime(date, clock)
	if err != nil {
		return time.Time{}, err
	}

	if strings.TrimSpace(content) == "" {
		_, err := s.store.GetJournalEntry(at)
		if errors.Is(err, storage.ErrNotFound) {
			return at, nil
		}
		if err != nil {
			return time.Time{}, err
		}
	}

	if err := s.store.SaveJournalDraft(at, content); err != nil {
		return time.Time{}, err
	}
	return at, nil
}

// SubmitJournal validates the entry, computes feedback and replaces whatever is stored at
// the same date and time.
func (s *Service) SubmitJournal(date, clock, content string) (models.JournalEntry, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.JournalEntry{}, apperrors.ErrEmptyContent
	}

	at, err := s.entryTime(date, clock)
	if err != nil {
		return models.JournalEntry{}, err
	}

	text, err := s.PreviewFeedback(content)
	if err != nil {
		return models.JournalEntry{}, err
	}

	entry := models.JournalEntry{
		At:       at,
		Content:  content,
		Feedback: &text,
	}
	if err := s.store.SaveJournalEntry(entry); err != nil {
		return models.JournalEntry{}, err
	}
	return entry, nil
}

// PreviewFeedback computes feedback for text against the stored priorities without writing
func (s *Service) PreviewFeedback(text string) (string, error) {
	priorities, err := s.store.GetPriorityContext()
	if err != nil {
		return "", fmt.Errorf("failed to load priorities: %w", err)
	}
	return s.feedback.Generate(text, priorities), nil
}

// JournalEntry returns the entry stored at date and clock
func (s *Service) JournalEntry(date, clock string) (models.JournalEntry, error) {
	at, err := s.entryTime(date, clock)
	if err != nil {
		return models.JournalEntry{}, err
	}
	return s.store.GetJournalEntry(at)
}

// JournalHistory returns the entries of one date, newest first
func (s *Service) JournalHistory(date string) ([]models.JournalEntry, error) {
	if _, err := utils.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidDate, date)
	}
	return s.store.GetJournalEntriesForDate(date)
}

// JournalDates returns every date with at least one entry, newest first
func (s *Service) JournalDates() ([]string, error) {
	return s.store.GetJournalDates()
}

// AdjacentJournalDate returns the entry date next to current in the given direction.
// At either end of the range current is returned with ok=false. When current has no
// entries the most recent date is returned. With no entries at all ok is false.
func (s *Service) AdjacentJournalDate(current string, dir Direction) (string, bool, error) {
	dates, err := s.store.GetJournalDates()
	if err != nil {
		return current, false, err
	}
	if len(dates) == 0 {
		return current, false, nil
	}

	ascending := append([]string(nil), dates...)
	sort.Strings(ascending)

	idx := sort.SearchStrings(ascending, current)
	if idx == len(ascending) || ascending[idx] != current {
		return ascending[len(ascending)-1], true, nil
	}

	switch dir {
	case Earlier:
		if idx > 0 {
			return ascending[idx-1], true, nil
		}
	case Later:
		if idx < len(ascending)-1 {
			return ascending[idx+1], true, nil
		}
	}
	return current, false, nil
}
