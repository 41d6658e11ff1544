package tui

import (
	"strings"

	"github.com/charmbracelet/huh"

	apperrors "github.com/julianstephens/lifeplan/internal/errors"
)

func validateDescription(s string) error {
	if strings.TrimSpace(s) == "" {
		return apperrors.ErrEmptyDescription
	}
	return nil
}

// NewAddTaskForm asks for a description and the list to add it to
func NewAddTaskForm(fm *TaskFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				Value(&fm.Description).
				Validate(validateDescription),
			huh.NewSelect[bool]().
				Title("List").
				Options(
					huh.NewOption("Today", true),
					huh.NewOption("Backlog", false),
				).
				Value(&fm.IsDaily),
		),
	)
}

// NewEditTaskForm changes a task description
func NewEditTaskForm(fm *TaskFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				Value(&fm.Description).
				Validate(validateDescription),
		),
	)
}

// NewDeleteConfirm asks before a task is removed
func NewDeleteConfirm(description string, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete task?").
				Description(description).
				Affirmative("Delete").
				Negative("Cancel").
				Value(confirmed),
		),
	)
}
