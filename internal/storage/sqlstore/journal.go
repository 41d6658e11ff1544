package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/julianstephens/lifeplan/internal/models"
	"github.com/julianstephens/lifeplan/internal/utils"
)

// entryDate is the date part of the entry_at key; substr exists in both dialects.
const entryDate = "substr(entry_at, 1, 10)"

// SaveJournalEntry writes content and feedback, replacing any row at the same timestamp.
func (s *Store) SaveJournalEntry(e models.JournalEntry) error {
	_, err := s.sb.Insert("journal_entries").
		Columns("entry_at", "content", "feedback").
		Values(utils.FormatEntryKey(e.At), e.Content, nullString(e.Feedback)).
		Suffix("ON CONFLICT (entry_at) DO UPDATE SET content = excluded.content, feedback = excluded.feedback").
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to save journal entry: %w", err)
	}
	return nil
}

func (s *Store) SaveJournalDraft(at time.Time, content string) error {
	_, err := s.sb.Insert("journal_entries").
		Columns("entry_at", "content", "feedback").
		Values(utils.FormatEntryKey(at), content, sql.NullString{}).
		Suffix("ON CONFLICT (entry_at) DO UPDATE SET content = excluded.content").
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to save journal draft: %w", err)
	}
	return nil
}

func (s *Store) GetJournalEntry(at time.Time) (models.JournalEntry, error) {
	row := s.sb.Select("entry_at", "content", "feedback").
		From("journal_entries").
		Where(sq.Eq{"entry_at": utils.FormatEntryKey(at)}).
		RunWith(s.db).
		QueryRow()

	e, err := scanJournalEntry(row)
	if err != nil {
		return models.JournalEntry{}, notFound(err)
	}
	return e, nil
}

func (s *Store) GetJournalEntriesForDate(date string) ([]models.JournalEntry, error) {
	return s.queryJournal(s.sb.Select("entry_at", "content", "feedback").
		From("journal_entries").
		Where(sq.Expr(entryDate+" = ?", date)).
		OrderBy("entry_at DESC"))
}

func (s *Store) GetAllJournalEntries() ([]models.JournalEntry, error) {
	return s.queryJournal(s.sb.Select("entry_at", "content", "feedback").
		From("journal_entries").
		OrderBy("entry_at ASC"))
}

func (s *Store) GetJournalDates() ([]string, error) {
	rows, err := s.sb.Select("DISTINCT " + entryDate + " AS entry_date").
		From("journal_entries").
		OrderBy("entry_date DESC").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query journal dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (s *Store) queryJournal(q sq.SelectBuilder) ([]models.JournalEntry, error) {
	rows, err := q.RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		e, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanJournalEntry(row scanner) (models.JournalEntry, error) {
	var e models.JournalEntry
	var key string
	var feedback sql.NullString

	if err := row.Scan(&key, &e.Content, &feedback); err != nil {
		return models.JournalEntry{}, err
	}

	at, err := utils.ParseEntryKey(key)
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("invalid journal key %q: %w", key, err)
	}
	e.At = at
	if feedback.Valid {
		e.Feedback = &feedback.String
	}
	return e, nil
}
