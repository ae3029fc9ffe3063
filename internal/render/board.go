package render

import (
	"strings"
	"time"

	"kanban-board/internal/model"
)

const (
	cardClass   = "card project-card draggable my-3"
	deleteClass = "btn btn-danger delete"
)

// Card is the visual form of one task.
type Card struct {
	TaskID      string
	Name        string
	Type        string
	DueDate     string
	Status      model.Status
	Emphasis    Emphasis
	Class       string
	DeleteClass string
}

// Lane is one status column of the board.
type Lane struct {
	ID     model.Status
	Title  string
	ListID string
	Cards  []Card
}

// Board holds the three lanes in display order.
type Board struct {
	Lanes []Lane
}

// Lane returns the lane with the given id, or nil.
func (b Board) Lane(id model.Status) *Lane {
	for i := range b.Lanes {
		if b.Lanes[i].ID == id {
			return &b.Lanes[i]
		}
	}
	return nil
}

var laneTitles = map[model.Status]string{
	model.StatusToDo:       "To Do",
	model.StatusInProgress: "In Progress",
	model.StatusDone:       "Done",
}

var laneListIDs = map[model.Status]string{
	model.StatusToDo:       "todo-cards",
	model.StatusInProgress: "in-progress-cards",
	model.StatusDone:       "done-cards",
}

// LaneTitle returns the display title of a lane.
func LaneTitle(id model.Status) string {
	return laneTitles[id.Lane()]
}

// BuildBoard groups tasks into lanes, keeping insertion order inside each lane.
func BuildBoard(tasks []model.Task, now time.Time) Board {
	board := Board{Lanes: make([]Lane, 0, len(model.Lanes))}
	for _, id := range model.Lanes {
		board.Lanes = append(board.Lanes, Lane{ID: id, Title: laneTitles[id], ListID: laneListIDs[id]})
	}
	for _, task := range tasks {
		lane := board.Lane(task.Status.Lane())
		lane.Cards = append(lane.Cards, BuildCard(task, now))
	}
	return board
}

// BuildCard renders a task into a card with urgency styling applied.
func BuildCard(task model.Task, now time.Time) Card {
	card := Card{
		TaskID:      task.ID,
		Name:        task.Name,
		Type:        task.Type,
		DueDate:     task.DueDate.String(),
		Status:      task.Status,
		Emphasis:    EmphasisFor(task, now),
		Class:       cardClass,
		DeleteClass: deleteClass,
	}
	switch card.Emphasis {
	case EmphasisWarning:
		card.Class = joinClasses(card.Class, "bg-warning text-white")
	case EmphasisDanger:
		card.Class = joinClasses(card.Class, "bg-danger text-white")
		card.DeleteClass = joinClasses(card.DeleteClass, "border-light")
	}
	return card
}

func joinClasses(classes ...string) string {
	return strings.Join(classes, " ")
}
