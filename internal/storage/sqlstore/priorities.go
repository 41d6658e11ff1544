package sqlstore

import (
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"

	"github.com/julianstephens/lifeplan/internal/constants"
	"github.com/julianstephens/lifeplan/internal/models"
	"github.com/julianstephens/lifeplan/internal/utils"
)

func (s *Store) SavePriority(p models.Priority) error {
	_, err := s.sb.Insert("priorities").
		Columns("category", "description").
		Values(string(p.Category), p.Description).
		Suffix("ON CONFLICT (category) DO UPDATE SET description = excluded.description").
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to save priority %s: %w", p.Category, err)
	}
	return nil
}

func (s *Store) GetPriorities() ([]models.Priority, error) {
	return s.queryPriorities(s.sb.Select("category", "description").From("priorities"))
}

func (s *Store) GetPriorityContext() ([]models.Priority, error) {
	return s.queryPriorities(
		s.sb.Select("category", "description").
			From("priorities").
			Where(sq.NotEq{"description": ""}),
	)
}

func (s *Store) queryPriorities(q sq.SelectBuilder) ([]models.Priority, error) {
	rows, err := q.RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query priorities: %w", err)
	}
	defer rows.Close()

	var priorities []models.Priority
	for rows.Next() {
		var p models.Priority
		var category string
		if err := rows.Scan(&category, &p.Description); err != nil {
			return nil, err
		}
		p.Category = models.Category(category)
		priorities = append(priorities, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(priorities, func(i, j int) bool {
		return priorities[i].Category.Rank() < priorities[j].Category.Rank()
	})
	return priorities, nil
}

func (s *Store) SaveAffirmation(a models.Affirmation) error {
	if a.ID == 0 {
		a.ID = constants.AffirmationID
	}
	_, err := s.sb.Insert("affirmations").
		Columns("id", "content", "date_updated").
		Values(a.ID, a.Content, utils.FormatTimestamp(a.DateUpdated)).
		Suffix("ON CONFLICT (id) DO UPDATE SET content = excluded.content, date_updated = excluded.date_updated").
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to save affirmation: %w", err)
	}
	return nil
}

func (s *Store) GetAffirmation() (models.Affirmation, error) {
	var a models.Affirmation
	var updated string
	err := s.sb.Select("id", "content", "date_updated").
		From("affirmations").
		OrderBy("date_updated DESC").
		Limit(1).
		RunWith(s.db).
		QueryRow().
		Scan(&a.ID, &a.Content, &updated)
	if err != nil {
		return models.Affirmation{}, notFound(err)
	}

	a.DateUpdated, err = utils.ParseTimestamp(updated)
	if err != nil {
		return models.Affirmation{}, fmt.Errorf("invalid affirmation timestamp %q: %w", updated, err)
	}
	return a, nil
}
