package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"

	"github.com/julianstephens/lifeplan/internal/models"
)

// SaveWeek replaces the 7 day rows and the intentions row of one week in a single transaction.
func (s *Store) SaveWeek(plan models.WeeklyPlan) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for i, content := range plan.Days {
		_, err := s.sb.Insert("weekly_planning").
			Columns("week_start", "day_index", "content").
			Values(plan.WeekStart, i, content).
			Suffix("ON CONFLICT (week_start, day_index) DO UPDATE SET content = excluded.content").
			RunWith(tx).
			Exec()
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to save %s day %d: %w", plan.WeekStart, i, err)
		}
	}

	_, err = s.sb.Insert("weekly_intentions").
		Columns("week_start", "content").
		Values(plan.WeekStart, plan.Intentions).
		Suffix("ON CONFLICT (week_start) DO UPDATE SET content = excluded.content").
		RunWith(tx).
		Exec()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to save intentions for %s: %w", plan.WeekStart, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit week %s: %w", plan.WeekStart, err)
	}
	return nil
}

func (s *Store) GetWeek(weekStart string) (models.WeeklyPlan, error) {
	plan := models.WeeklyPlan{WeekStart: weekStart}

	rows, err := s.sb.Select("day_index", "content").
		From("weekly_planning").
		Where(sq.Eq{"week_start": weekStart}).
		RunWith(s.db).
		Query()
	if err != nil {
		return plan, fmt.Errorf("failed to load week %s: %w", weekStart, err)
	}
	defer rows.Close()

	for rows.Next() {
		var idx int
		var content string
		if err := rows.Scan(&idx, &content); err != nil {
			return plan, err
		}
		if idx >= 0 && idx < models.DaysPerWeek {
			plan.Days[idx] = content
		}
	}
	if err := rows.Err(); err != nil {
		return plan, err
	}

	err = s.sb.Select("content").
		From("weekly_intentions").
		Where(sq.Eq{"week_start": weekStart}).
		RunWith(s.db).
		QueryRow().
		Scan(&plan.Intentions)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return plan, fmt.Errorf("failed to load intentions for %s: %w", weekStart, err)
	}
	return plan, nil
}

// GetAllWeeks returns every week with at least one stored row, oldest first.
func (s *Store) GetAllWeeks() ([]models.WeeklyPlan, error) {
	weeks := make(map[string]*models.WeeklyPlan)
	week := func(start string) *models.WeeklyPlan {
		w, ok := weeks[start]
		if !ok {
			w = &models.WeeklyPlan{WeekStart: start}
			weeks[start] = w
		}
		return w
	}

	rows, err := s.sb.Select("week_start", "day_index", "content").
		From("weekly_planning").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query weeks: %w", err)
	}
	for rows.Next() {
		var start, content string
		var idx int
		if err := rows.Scan(&start, &idx, &content); err != nil {
			rows.Close()
			return nil, err
		}
		if idx >= 0 && idx < models.DaysPerWeek {
			week(start).Days[idx] = content
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.sb.Select("week_start", "content").
		From("weekly_intentions").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query intentions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var start, content string
		if err := rows.Scan(&start, &content); err != nil {
			return nil, err
		}
		week(start).Intentions = content
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]models.WeeklyPlan, 0, len(weeks))
	for _, w := range weeks {
		result = append(result, *w)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].WeekStart < result[j].WeekStart
	})
	return result, nil
}
