package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"kanban-board/internal/model"
)

// TaskStore is the persistence the board round-trips through on every call.
type TaskStore interface {
	Load(ctx context.Context) []model.Task
	Save(ctx context.Context, tasks []model.Task) error
}

// TaskInput represents data required to create a task.
type TaskInput struct {
	Name    string
	Type    string
	DueDate string
}

// TaskService wraps board mutations. It keeps no copy of the board: every
// call loads the full collection and writes it back.
type TaskService struct {
	store TaskStore
	newID func() string
}

// TaskOption customizes a TaskService.
type TaskOption func(*TaskService)

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(gen func() string) TaskOption {
	return func(s *TaskService) { s.newID = gen }
}

func NewTaskService(store TaskStore, opts ...TaskOption) *TaskService {
	s := &TaskService{store: store, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the current board.
func (s *TaskService) List(ctx context.Context) []model.Task {
	return s.store.Load(ctx)
}

// AddTask appends a new to-do task. Empty fields are accepted as-is.
func (s *TaskService) AddTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	task := model.Task{
		ID:      s.newID(),
		Name:    input.Name,
		Type:    input.Type,
		DueDate: model.ParseDueDate(input.DueDate),
		Status:  model.StatusToDo,
	}

	tasks := s.store.Load(ctx)
	tasks = append(tasks, task)
	if err := s.store.Save(ctx, tasks); err != nil {
		return nil, fmt.Errorf("save board: %w", err)
	}
	return &task, nil
}

// RemoveTask deletes the task with the given id. Unknown ids are a no-op.
func (s *TaskService) RemoveTask(ctx context.Context, id string) error {
	tasks := s.store.Load(ctx)
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		tasks = append(tasks[:i], tasks[i+1:]...)
		if err := s.store.Save(ctx, tasks); err != nil {
			return fmt.Errorf("save board: %w", err)
		}
		return nil
	}
	return nil
}

// SetStatus moves the task with the given id to status. The board is
// written back even when no task matches.
func (s *TaskService) SetStatus(ctx context.Context, id string, status model.Status) error {
	tasks := s.store.Load(ctx)
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].Status = status
		}
	}
	if err := s.store.Save(ctx, tasks); err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	return nil
}
