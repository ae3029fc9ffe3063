package bot

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"kanban-board/internal/model"
	"kanban-board/internal/render"
	"kanban-board/internal/service"
)

const (
	cbMovePrefix   = "move:"
	cbDeletePrefix = "delete:"
)

const (
	btnDelete   = "🗑"
	btnMove     = "➡️"
	titleMaxLen = 24
)

const helpText = "ℹ️ <b>Task board</b>\n" +
	"• /board — show the three lanes\n" +
	"• /add name | type | DD/MM/YYYY — add a to-do task\n" +
	"• /move &lt;id&gt; &lt;to-do|in-progress|done&gt; — move a task\n" +
	"• /delete &lt;id&gt; — delete a task\n" +
	"• /report — board report with overdue counts\n" +
	"• /stop — stop periodic reports"

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// TaskBoard is the task collection the bot mutates.
type TaskBoard interface {
	AddTask(ctx context.Context, input service.TaskInput) (*model.Task, error)
	RemoveTask(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status model.Status) error
}

// Reporter renders the board for chat.
type Reporter interface {
	Board(ctx context.Context, now time.Time) render.Board
	Summary(ctx context.Context, now time.Time) string
}

// Subscribers keeps the chats that receive periodic reports.
type Subscribers interface {
	Subscribe(ctx context.Context, chatID int64, firstName, lastName, username string) (*model.Subscriber, error)
	Unsubscribe(ctx context.Context, chatID int64) error
	ListAll(ctx context.Context) ([]model.Subscriber, error)
}

// Bot is a chat front end to the same board the web page shows.
type Bot struct {
	api     botAPI
	tasks   TaskBoard
	reports Reporter
	subs    Subscribers
	log     logrus.FieldLogger
	now     func() time.Time
}

func New(token string, tasks TaskBoard, reports Reporter, subs Subscribers, log logrus.FieldLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log = orDiscard(log)
	log.WithField("account", api.Self.UserName).Info("bot authorized")

	return newBot(api, tasks, reports, subs, log), nil
}

func newBot(api botAPI, tasks TaskBoard, reports Reporter, subs Subscribers, log logrus.FieldLogger) *Bot {
	return &Bot{
		api:     api,
		tasks:   tasks,
		reports: reports,
		subs:    subs,
		log:     orDiscard(log),
		now:     time.Now,
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.log.WithError(err).Warn("handle callback")
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.log.WithError(err).Warn("handle message")
			}
		}
	}

	return ctx.Err()
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}
	if !msg.IsCommand() {
		return b.sendText(msg.Chat.ID, "Send /board to see the lanes or /help for the command list.")
	}

	b.log.WithFields(logrus.Fields{"chat": msg.Chat.ID, "command": msg.Command()}).Info("command")
	return b.handleCommand(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "stop":
		if err := b.subs.Unsubscribe(ctx, msg.Chat.ID); err != nil {
			return err
		}
		return b.sendText(msg.Chat.ID, "🔕 Reports are off. Send /start to turn them back on.")
	case "help":
		return b.sendText(msg.Chat.ID, helpText)
	case "board":
		return b.sendBoard(ctx, msg.Chat.ID)
	case "report":
		return b.sendText(msg.Chat.ID, b.reports.Summary(ctx, b.now()))
	case "add":
		return b.handleAdd(ctx, msg)
	case "move":
		return b.handleMove(ctx, msg)
	case "delete":
		return b.handleDelete(ctx, msg)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.subs.Subscribe(ctx, msg.Chat.ID, msg.From.FirstName, msg.From.LastName, msg.From.UserName); err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("👋 Hi, %s! You will get board reports here.\n\n%s", html.EscapeString(name), helpText))
}

// handleAdd parses "/add name | type | DD/MM/YYYY"; every part may be empty.
func (b *Bot) handleAdd(ctx context.Context, msg *tgbotapi.Message) error {
	parts := strings.SplitN(msg.CommandArguments(), "|", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	input := service.TaskInput{
		Name:    strings.TrimSpace(parts[0]),
		Type:    strings.TrimSpace(parts[1]),
		DueDate: strings.TrimSpace(parts[2]),
	}
	task, err := b.tasks.AddTask(ctx, input)
	if err != nil {
		return err
	}
	b.log.WithField("task", task.ID).Info("task added from chat")
	return b.sendBoard(ctx, msg.Chat.ID)
}

func (b *Bot) handleMove(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 2 {
		return b.sendText(msg.Chat.ID, "Usage: /move &lt;id&gt; &lt;to-do|in-progress|done&gt;")
	}
	status, ok := parseLane(args[1])
	if !ok {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Unknown lane %q. Use to-do, in-progress or done.", html.EscapeString(args[1])))
	}
	if err := b.tasks.SetStatus(ctx, args[0], status); err != nil {
		return err
	}
	return b.sendBoard(ctx, msg.Chat.ID)
}

func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message) error {
	id := strings.TrimSpace(msg.CommandArguments())
	if id == "" {
		return b.sendText(msg.Chat.ID, "Usage: /delete &lt;id&gt;")
	}
	if err := b.tasks.RemoveTask(ctx, id); err != nil {
		return err
	}
	return b.sendBoard(ctx, msg.Chat.ID)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.WithError(err).Warn("callback ack")
	}

	chatID := cb.Message.Chat.ID
	data := cb.Data
	switch {
	case strings.HasPrefix(data, cbMovePrefix):
		lane, id, found := strings.Cut(strings.TrimPrefix(data, cbMovePrefix), ":")
		status, ok := parseLane(lane)
		if !found || !ok || id == "" {
			return nil
		}
		b.log.WithFields(logrus.Fields{"chat": chatID, "task": id, "status": status}).Info("callback move")
		if err := b.tasks.SetStatus(ctx, id, status); err != nil {
			return err
		}
		return b.sendBoard(ctx, chatID)
	case strings.HasPrefix(data, cbDeletePrefix):
		id := strings.TrimPrefix(data, cbDeletePrefix)
		if id == "" {
			return nil
		}
		b.log.WithFields(logrus.Fields{"chat": chatID, "task": id}).Info("callback delete")
		if err := b.tasks.RemoveTask(ctx, id); err != nil {
			return err
		}
		return b.sendBoard(ctx, chatID)
	default:
		return nil
	}
}

// SendReports sends the board summary to every subscribed chat.
func (b *Bot) SendReports(ctx context.Context) error {
	subs, err := b.subs.ListAll(ctx)
	if err != nil {
		return err
	}
	text := b.reports.Summary(ctx, b.now())
	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.sendText(sub.ChatID, text); err != nil {
			b.log.WithError(err).WithField("chat", sub.ChatID).Warn("send report")
		}
	}
	return nil
}

func (b *Bot) sendBoard(ctx context.Context, chatID int64) error {
	board := b.reports.Board(ctx, b.now())
	msg := tgbotapi.NewMessage(chatID, render.Text(board))
	msg.ParseMode = tgbotapi.ModeHTML
	if rows := boardKeyboard(board); len(rows) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

// boardKeyboard offers one row per card: move to the next lane (open cards
// only) and delete.
func boardKeyboard(board render.Board) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, lane := range board.Lanes {
		for _, card := range lane.Cards {
			var row []tgbotapi.InlineKeyboardButton
			if lane.ID != model.StatusDone {
				next := lane.ID.Next()
				label := fmt.Sprintf("%s %s → %s", btnMove, shortTitle(card.Name, titleMaxLen), render.LaneTitle(next))
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cbMovePrefix+string(next)+":"+card.TaskID))
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(btnDelete+" "+shortTitle(card.Name, titleMaxLen), cbDeletePrefix+card.TaskID))
			rows = append(rows, row)
		}
	}
	return rows
}

func orDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	return quiet
}

func parseLane(value string) (model.Status, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "to-do", "todo":
		return model.StatusToDo, true
	case "in-progress", "inprogress", "doing":
		return model.StatusInProgress, true
	case "done":
		return model.StatusDone, true
	}
	return "", false
}

func shortTitle(title string, maxLen int) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "untitled"
	}
	if utf8.RuneCountInString(title) <= maxLen {
		return title
	}
	runes := []rune(title)
	return string(runes[:maxLen-1]) + "…"
}
