package planner

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/lifeplan/internal/constants"
	apperrors "github.com/julianstephens/lifeplan/internal/errors"
	"github.com/julianstephens/lifeplan/internal/logger"
	"github.com/julianstephens/lifeplan/internal/models"
)

// AddTask creates a pending task. A blank description is rejected without writing.
func (s *Service) AddTask(description string, isDaily bool) (models.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return models.Task{}, apperrors.ErrEmptyDescription
	}

	task := models.Task{
		ID:          uuid.New().String(),
		Description: description,
		Category:    constants.DefaultTaskCategory,
		Priority:    constants.DefaultTaskPriority,
		Status:      models.TaskPending,
		IsDaily:     isDaily,
		CreatedAt:   s.now(),
	}
	if err := s.store.AddTask(task); err != nil {
		return models.Task{}, err
	}

	logger.Debug("Task added", "id", task.ID, "daily", isDaily)
	return task, nil
}

// ToggleTask flips a task between pending and completed
func (s *Service) ToggleTask(id string) (models.Task, error) {
	task, err := s.selectedTask(id)
	if err != nil {
		return models.Task{}, err
	}

	if task.Done() {
		task.Status = models.TaskPending
		task.CompletedAt = nil
	} else {
		now := s.now()
		task.Status = models.TaskCompleted
		task.CompletedAt = &now
	}

	if err := s.store.UpdateTask(task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// DeleteTask removes a task permanently
func (s *Service) DeleteTask(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.ErrNoSelection
	}
	if err := s.store.DeleteTask(id); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	return nil
}

// MoveTaskToDaily puts a backlog task on today's list. Status and timestamps are unchanged.
func (s *Service) MoveTaskToDaily(id string) (models.Task, error) {
	task, err := s.selectedTask(id)
	if err != nil {
		return models.Task{}, err
	}
	if task.IsDaily {
		return task, nil
	}

	task.IsDaily = true
	if err := s.store.UpdateTask(task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// EditTask replaces the description of a task
func (s *Service) EditTask(id, description string) (models.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return models.Task{}, apperrors.ErrEmptyDescription
	}

	task, err := s.selectedTask(id)
	if err != nil {
		return models.Task{}, err
	}

	task.Description = description
	if err := s.store.UpdateTask(task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// ListTasks returns today's tasks (isDaily) or the backlog, oldest first
func (s *Service) ListTasks(isDaily bool) ([]models.Task, error) {
	return s.store.ListTasks(isDaily)
}

// FindTask resolves a full id or a unique id prefix, as printed by `task list`
func (s *Service) FindTask(ref string) (models.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Task{}, apperrors.ErrNoSelection
	}
	if task, err := s.store.GetTask(ref); err == nil {
		return task, nil
	}

	all, err := s.store.GetAllTasks()
	if err != nil {
		return models.Task{}, err
	}
	var match *models.Task
	for i := range all {
		if strings.HasPrefix(all[i].ID, ref) {
			if match != nil {
				return models.Task{}, fmt.Errorf("task id %q is ambiguous", ref)
			}
			match = &all[i]
		}
	}
	if match == nil {
		return models.Task{}, fmt.Errorf("task %s not found", ref)
	}
	return *match, nil
}

func (s *Service) selectedTask(id string) (models.Task, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Task{}, apperrors.ErrNoSelection
	}
	task, err := s.store.GetTask(id)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to load task %s: %w", id, err)
	}
	return task, nil
}
