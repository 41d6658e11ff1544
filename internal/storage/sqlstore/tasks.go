package sqlstore

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/julianstephens/lifeplan/internal/models"
	"github.com/julianstephens/lifeplan/internal/utils"
)

var taskColumns = []string{
	"id", "description", "category", "priority", "status", "is_daily", "created_at", "completed_at",
}

func (s *Store) AddTask(task models.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	_, err := s.sb.Insert("tasks").
		Columns(taskColumns...).
		Values(
			task.ID, task.Description, task.Category, task.Priority, string(task.Status),
			task.IsDaily, utils.FormatTimestamp(task.CreatedAt), completedAt(task),
		).
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(id string) (models.Task, error) {
	row := s.sb.Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": id}).
		RunWith(s.db).
		QueryRow()

	t, err := scanTask(row)
	if err != nil {
		return models.Task{}, notFound(err)
	}
	return t, nil
}

// UpdateTask rewrites every mutable column of an existing task.
func (s *Store) UpdateTask(task models.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	res, err := s.sb.Update("tasks").
		Set("description", task.Description).
		Set("category", task.Category).
		Set("priority", task.Priority).
		Set("status", string(task.Status)).
		Set("is_daily", task.IsDaily).
		Set("completed_at", completedAt(task)).
		Where(sq.Eq{"id": task.ID}).
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireAffected(res)
}

func (s *Store) DeleteTask(id string) error {
	res, err := s.sb.Delete("tasks").
		Where(sq.Eq{"id": id}).
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireAffected(res)
}

func (s *Store) ListTasks(isDaily bool) ([]models.Task, error) {
	return s.queryTasks(s.sb.Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"is_daily": isDaily}).
		OrderBy("created_at ASC", "id ASC"))
}

func (s *Store) GetAllTasks() ([]models.Task, error) {
	return s.queryTasks(s.sb.Select(taskColumns...).
		From("tasks").
		OrderBy("created_at ASC", "id ASC"))
}

func (s *Store) queryTasks(q sq.SelectBuilder) ([]models.Task, error) {
	rows, err := q.RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanTask(row scanner) (models.Task, error) {
	var t models.Task
	var status, created string
	var completed sql.NullString

	if err := row.Scan(
		&t.ID, &t.Description, &t.Category, &t.Priority, &status, &t.IsDaily, &created, &completed,
	); err != nil {
		return models.Task{}, err
	}
	t.Status = models.TaskStatus(status)

	var err error
	if t.CreatedAt, err = utils.ParseTimestamp(created); err != nil {
		return models.Task{}, fmt.Errorf("task %s has invalid created_at %q: %w", t.ID, created, err)
	}
	if completed.Valid && completed.String != "" {
		at, err := utils.ParseTimestamp(completed.String)
		if err != nil {
			return models.Task{}, fmt.Errorf("task %s has invalid completed_at %q: %w", t.ID, completed.String, err)
		}
		t.CompletedAt = &at
	}
	return t, nil
}

func completedAt(t models.Task) sql.NullString {
	if t.CompletedAt == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: utils.FormatTimestamp(*t.CompletedAt), Valid: true}
}
