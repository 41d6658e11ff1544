package models

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/julianstephens/lifeplan/internal/errors"
)

type Category string

const (
	CategoryCareer        Category = "career"
	CategoryHealth        Category = "health"
	CategoryFinances      Category = "finances"
	CategoryReligion      Category = "religion"
	CategoryRelationships Category = "relationships"
	CategoryHobbies       Category = "hobbies"
)

// Categories lists the life priority categories in display order.
var Categories = []Category{
	CategoryCareer,
	CategoryHealth,
	CategoryFinances,
	CategoryReligion,
	CategoryRelationships,
	CategoryHobbies,
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w %q", apperrors.ErrUnknownCategory, s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	return c.Rank() < len(Categories)
}

// Rank is the display position of the category; unknown categories sort last.
func (c Category) Rank() int {
	for i, known := range Categories {
		if c == known {
			return i
		}
	}
	return len(Categories)
}

// Title returns the category name with its first letter capitalized
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

type Priority struct {
	Category    Category `json:"category"`
	Description string   `json:"description"`
}

type Affirmation struct {
	ID          int       `json:"id"` // Always 1
	Content     string    `json:"content"`
	DateUpdated time.Time `json:"date_updated"`
}
