package planner

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/julianstephens/lifeplan/internal/errors"
	"github.com/julianstephens/lifeplan/internal/models"
	"github.com/julianstephens/lifeplan/internal/utils"
)

// NormalizeWeekStart returns the Monday on or before the given YYYY-MM-DD date
func (s *Service) NormalizeWeekStart(date string) (string, error) {
	monday, err := utils.NormalizeWeekStart(date)
	if err != nil {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidDate, date)
	}
	return monday, nil
}

// CurrentWeekStart returns the Monday of the current week
func (s *Service) CurrentWeekStart() string {
	return utils.FormatDate(utils.WeekStart(s.now()))
}

// SaveWeek replaces the 7 day entries and the intentions of the week containing weekStart
func (s *Service) SaveWeek(weekStart string, days [models.DaysPerWeek]string, intentions string) (models.WeeklyPlan, error) {
	monday, err := s.NormalizeWeekStart(weekStart)
	if err != nil {
		return models.WeeklyPlan{}, err
	}

	plan := models.WeeklyPlan{
		WeekStart:  monday,
		Intentions: strings.TrimSpace(intentions),
	}
	for i, d := range days {
		plan.Days[i] = strings.TrimSpace(d)
	}

	if err := s.store.SaveWeek(plan); err != nil {
		return models.WeeklyPlan{}, err
	}
	return plan, nil
}

// SaveWeekDay replaces one day of a week, keeping the other days and the intentions
func (s *Service) SaveWeekDay(weekStart string, dayIndex int, content string) (models.WeeklyPlan, error) {
	if dayIndex < 0 || dayIndex >= models.DaysPerWeek {
		return models.WeeklyPlan{}, fmt.Errorf("day index %d out of range 0-%d", dayIndex, models.DaysPerWeek-1)
	}
	plan, err := s.LoadWeek(weekStart)
	if err != nil {
		return models.WeeklyPlan{}, err
	}
	plan.Days[dayIndex] = content
	return s.SaveWeek(plan.WeekStart, plan.Days, plan.Intentions)
}

// SaveIntentions replaces the intentions of a week, keeping its days
func (s *Service) SaveIntentions(weekStart, intentions string) (models.WeeklyPlan, error) {
	plan, err := s.LoadWeek(weekStart)
	if err != nil {
		return models.WeeklyPlan{}, err
	}
	return s.SaveWeek(plan.WeekStart, plan.Days, intentions)
}

// LoadWeek returns the 7 day entries and intentions of the week containing weekStart
func (s *Service) LoadWeek(weekStart string) (models.WeeklyPlan, error) {
	monday, err := s.NormalizeWeekStart(weekStart)
	if err != nil {
		return models.WeeklyPlan{}, err
	}
	return s.store.GetWeek(monday)
}

// WeekDates returns the dates of the week containing weekStart; index 0 is Monday
func (s *Service) WeekDates(weekStart string) ([models.DaysPerWeek]time.Time, error) {
	t, err := utils.ParseDate(weekStart)
	if err != nil {
		return [models.DaysPerWeek]time.Time{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidDate, weekStart)
	}
	return utils.WeekDates(t), nil
}

// ShiftWeek moves weekStart by n whole weeks
func (s *Service) ShiftWeek(weekStart string, n int) (string, error) {
	shifted, err := utils.ShiftWeek(weekStart, n)
	if err != nil {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidDate, weekStart)
	}
	return shifted, nil
}
