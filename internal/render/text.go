package render

import (
	"fmt"
	"html"
	"strings"

	"kanban-board/internal/model"
)

const (
	iconDefault = "🟢"
	iconDue     = "⏳"
	iconOverdue = "⚠️"
	iconDone    = "✅"
)

// Text renders the board as Telegram HTML, one section per lane.
func Text(board Board) string {
	var sb strings.Builder
	for i, lane := range board.Lanes {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(fmt.Sprintf("<b>%s</b> (%d)\n", html.EscapeString(lane.Title), len(lane.Cards)))
		if len(lane.Cards) == 0 {
			sb.WriteString("— empty\n")
			continue
		}
		for _, card := range lane.Cards {
			sb.WriteString(CardText(card, lane.ID == model.StatusDone))
		}
	}
	return strings.TrimSpace(sb.String())
}

// CardText renders a single card line with its urgency icon.
func CardText(card Card, done bool) string {
	icon := iconDefault
	switch {
	case done:
		icon = iconDone
	case card.Emphasis == EmphasisDanger:
		icon = iconOverdue
	case card.Emphasis == EmphasisWarning:
		icon = iconDue
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s", icon, html.EscapeString(strings.TrimSpace(card.Name))))
	if t := strings.TrimSpace(card.Type); t != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(t)))
	}
	if card.DueDate != "" {
		sb.WriteString(fmt.Sprintf(" · due %s", html.EscapeString(card.DueDate)))
		if card.Emphasis == EmphasisDanger {
			sb.WriteString(" — <b>overdue</b>")
		}
	}
	sb.WriteString(fmt.Sprintf("\n   <code>%s</code>\n", html.EscapeString(card.TaskID)))
	return sb.String()
}
