package repository

import (
	"context"
	"errors"
	"io"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"

	"kanban-board/internal/model"
)

// TaskStore reads and writes the whole board as one JSON array under a fixed key.
type TaskStore struct {
	kv  KV
	key string
	log logrus.FieldLogger
}

func NewTaskStore(kv KV, key string, log logrus.FieldLogger) *TaskStore {
	if key == "" {
		key = "projects"
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &TaskStore{kv: kv, key: key, log: log}
}

// Key returns the storage key holding the board.
func (s *TaskStore) Key() string {
	return s.key
}

// Load returns the stored tasks. A missing key, a backend failure or a
// malformed value all yield an empty board.
func (s *TaskStore) Load(ctx context.Context) []model.Task {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.log.WithError(err).Warn("board unreadable, starting empty")
		}
		return emptyBoard()
	}
	var tasks []model.Task
	if err := sonic.ConfigStd.Unmarshal(data, &tasks); err != nil {
		s.log.WithError(err).WithField("key", s.key).Warn("board malformed, starting empty")
		return emptyBoard()
	}
	if tasks == nil {
		return emptyBoard()
	}
	return tasks
}

// Save overwrites the stored board with tasks.
func (s *TaskStore) Save(ctx context.Context, tasks []model.Task) error {
	if tasks == nil {
		tasks = emptyBoard()
	}
	data, err := sonic.ConfigStd.Marshal(tasks)
	if err != nil {
		return err
	}
	return s.kv.Put(ctx, s.key, data)
}

func emptyBoard() []model.Task {
	return []model.Task{}
}
