package render

import (
	"time"

	"github.com/jinzhu/now"

	"kanban-board/internal/model"
)

// Emphasis is the urgency highlight of an open card.
type Emphasis int

const (
	EmphasisNone Emphasis = iota
	// EmphasisWarning marks a card due today.
	EmphasisWarning
	// EmphasisDanger marks an overdue card.
	EmphasisDanger
)

func (e Emphasis) String() string {
	switch e {
	case EmphasisWarning:
		return "warning"
	case EmphasisDanger:
		return "danger"
	default:
		return "none"
	}
}

// EmphasisFor compares the task's due day with the calendar day of current,
// in current's location. Done tasks and tasks without a usable due date are
// never highlighted.
func EmphasisFor(task model.Task, current time.Time) Emphasis {
	if task.Status == model.StatusDone {
		return EmphasisNone
	}
	today := now.With(current).BeginningOfDay()
	due, ok := task.DueDate.In(today.Location())
	if !ok {
		return EmphasisNone
	}
	switch {
	case due.Equal(today):
		return EmphasisWarning
	case due.Before(today):
		return EmphasisDanger
	default:
		return EmphasisNone
	}
}
