package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/lifeplan/internal/constants"
	"github.com/julianstephens/lifeplan/internal/models"
	"github.com/julianstephens/lifeplan/internal/storage"
)

// SavePriority overwrites one category's description. A blank description is stored as-is.
func (s *Service) SavePriority(category, description string) error {
	c, err := models.ParseCategory(category)
	if err != nil {
		return err
	}
	return s.store.SavePriority(models.Priority{
		Category:    c,
		Description: strings.TrimSpace(description),
	})
}

// SavePriorities saves every category in the map. Nothing is written if any key is unknown.
func (s *Service) SavePriorities(descriptions map[models.Category]string) error {
	for c := range descriptions {
		if _, err := models.ParseCategory(string(c)); err != nil {
			return err
		}
	}
	for _, c := range models.Categories {
		d, ok := descriptions[c]
		if !ok {
			continue
		}
		if err := s.SavePriority(string(c), d); err != nil {
			return err
		}
	}
	return nil
}

// Priorities returns all six categories in display order, blank where nothing is stored
func (s *Service) Priorities() ([]models.Priority, error) {
	stored, err := s.store.GetPriorities()
	if err != nil {
		return nil, err
	}
	byCategory := make(map[models.Category]string, len(stored))
	for _, p := range stored {
		byCategory[p.Category] = p.Description
	}

	priorities := make([]models.Priority, 0, len(models.Categories))
	for _, c := range models.Categories {
		priorities = append(priorities, models.Priority{Category: c, Description: byCategory[c]})
	}
	return priorities, nil
}

// SaveAffirmation replaces the affirmation and stamps it with the current time
func (s *Service) SaveAffirmation(content string) error {
	return s.store.SaveAffirmation(models.Affirmation{
		ID:          constants.AffirmationID,
		Content:     strings.TrimSpace(content),
		DateUpdated: s.now(),
	})
}

// Affirmation returns the stored affirmation, or "" when none was saved
func (s *Service) Affirmation() (string, error) {
	a, err := s.store.GetAffirmation()
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load affirmation: %w", err)
	}
	return a.Content, nil
}
