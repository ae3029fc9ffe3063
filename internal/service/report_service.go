package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kanban-board/internal/model"
	"kanban-board/internal/render"
)

// ReportService builds human-readable board summaries for chat.
type ReportService struct {
	tasks *TaskService
	loc   *time.Location
}

func NewReportService(tasks *TaskService, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{tasks: tasks, loc: loc}
}

// Board returns the freshly loaded board as seen at now.
func (s *ReportService) Board(ctx context.Context, now time.Time) render.Board {
	return render.BuildBoard(s.tasks.List(ctx), now.In(s.loc))
}

// Summary renders the board with a header counting urgent open cards.
func (s *ReportService) Summary(ctx context.Context, now time.Time) string {
	board := s.Board(ctx, now)

	var overdue, dueToday int
	for _, lane := range board.Lanes {
		if lane.ID == model.StatusDone {
			continue
		}
		for _, card := range lane.Cards {
			switch card.Emphasis {
			case render.EmphasisDanger:
				overdue++
			case render.EmphasisWarning:
				dueToday++
			}
		}
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Board report</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n", now.In(s.loc).Format(model.DueDateLayout)))
	if overdue > 0 || dueToday > 0 {
		builder.WriteString(fmt.Sprintf("⚠️ overdue: %d · ⏳ due today: %d\n", overdue, dueToday))
	}
	builder.WriteByte('\n')
	builder.WriteString(render.Text(board))
	return strings.TrimSpace(builder.String())
}
