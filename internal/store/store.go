// Package store backs the evaluation engine's Repository with GORM queries.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mara/routinely-api/internal/engine"
	"github.com/mara/routinely-api/internal/models"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Condition(id uuid.UUID) (*models.Condition, error) {
	var condition models.Condition
	if err := s.db.Preload("Checks").First(&condition, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &condition, nil
}

func (s *Store) ControllingConditions(routineID uuid.UUID) ([]models.Condition, error) {
	var conditions []models.Condition
	err := s.db.Preload("Checks").
		Where("routine_id = ? AND controls_routine = ?", routineID, true).
		Find(&conditions).Error
	if err != nil {
		return nil, err
	}
	return conditions, nil
}

func (s *Store) Task(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &task, nil
}

func (s *Store) Routine(id uuid.UUID) (*models.Routine, error) {
	var routine models.Routine
	if err := s.db.First(&routine, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &routine, nil
}

func (s *Store) ActiveTasks(routineID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.Where("routine_id = ? AND status = ?", routineID, models.TaskActive).
		Order("position ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) CompletionCount(taskID, personID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := s.db.Model(&models.TaskCompletion{}).
		Where("task_id = ? AND person_id = ? AND completed_at >= ?", taskID, personID, since).
		Count(&count).Error
	return count, err
}

func (s *Store) LatestCompletion(taskID, personID uuid.UUID, since time.Time) (*models.TaskCompletion, error) {
	var completion models.TaskCompletion
	err := s.db.Where("task_id = ? AND person_id = ? AND completed_at >= ?", taskID, personID, since).
		Order("completed_at DESC").
		First(&completion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // no in-period completion is a regular outcome
	}
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

func (s *Store) GoalProgress(goalID uuid.UUID) (*engine.GoalProgress, error) {
	var goal models.Goal
	if err := s.db.First(&goal, goalID).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &engine.GoalProgress{
		Achieved:   goal.Achieved(),
		Percentage: goal.Percentage(),
	}, nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return engine.ErrNotFound
	}
	return err
}
