package bot

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban-board/internal/model"
	"kanban-board/internal/service"
)

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.MessageConfig
	requests []tgbotapi.Chattable
	updates  chan tgbotapi.Update
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	close(f.updates)
}

func (f *fakeAPI) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

// memStore is a minimal in-memory board store.
type memStore struct{ tasks []model.Task }

func (m *memStore) Load(context.Context) []model.Task {
	return append([]model.Task{}, m.tasks...)
}

func (m *memStore) Save(_ context.Context, tasks []model.Task) error {
	m.tasks = append([]model.Task{}, tasks...)
	return nil
}

type memSubs struct {
	chats map[int64]model.Subscriber
}

func (m *memSubs) Subscribe(_ context.Context, chatID int64, first, last, user string) (*model.Subscriber, error) {
	sub := model.Subscriber{ChatID: chatID, FirstName: first, LastName: last, Username: user}
	m.chats[chatID] = sub
	return &sub, nil
}

func (m *memSubs) Unsubscribe(_ context.Context, chatID int64) error {
	delete(m.chats, chatID)
	return nil
}

func (m *memSubs) ListAll(context.Context) ([]model.Subscriber, error) {
	var out []model.Subscriber
	for _, sub := range m.chats {
		out = append(out, sub)
	}
	return out, nil
}

type env struct {
	bot   *Bot
	api   *fakeAPI
	store *memStore
	subs  *memSubs
}

func setup(t *testing.T) env {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	n := 0
	store := &memStore{}
	tasks := service.NewTaskService(store, service.WithIDGenerator(func() string {
		n++
		return "id" + string(rune('0'+n))
	}))
	reports := service.NewReportService(tasks, time.UTC)
	api := &fakeAPI{updates: make(chan tgbotapi.Update, 4)}
	subs := &memSubs{chats: map[int64]model.Subscriber{}}

	b := newBot(api, tasks, reports, subs, log)
	b.now = func() time.Time { return time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC) }
	return env{bot: b, api: api, store: store, subs: subs}
}

func command(text string) *tgbotapi.Message {
	name := strings.SplitN(text, " ", 2)[0]
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 100, Type: "private"},
		From:     &tgbotapi.User{ID: 5, FirstName: "Ada", UserName: "ada"},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}
}

func TestAddCommandCreatesTask(t *testing.T) {
	e := setup(t)

	require.NoError(t, e.bot.handleMessage(context.Background(), command("/add Write report | Writing | 01/01/2030")))

	require.Len(t, e.store.tasks, 1)
	task := e.store.tasks[0]
	assert.Equal(t, "Write report", task.Name)
	assert.Equal(t, "Writing", task.Type)
	assert.Equal(t, "01/01/2030", task.DueDate.String())
	assert.Equal(t, model.StatusToDo, task.Status)

	msg := e.api.last(t)
	assert.Contains(t, msg.Text, "Write report")
	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, "move:in-progress:id1", *markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "delete:id1", *markup.InlineKeyboard[0][1].CallbackData)
}

func TestAddCommandAcceptsEmptyFields(t *testing.T) {
	e := setup(t)
	require.NoError(t, e.bot.handleMessage(context.Background(), command("/add")))
	require.Len(t, e.store.tasks, 1)
	assert.Empty(t, e.store.tasks[0].Name)
	assert.True(t, e.store.tasks[0].DueDate.IsZero())
}

func TestBotWithoutLogger(t *testing.T) {
	store := &memStore{}
	tasks := service.NewTaskService(store)
	api := &fakeAPI{updates: make(chan tgbotapi.Update, 1)}
	b := newBot(api, tasks, service.NewReportService(tasks, time.UTC), &memSubs{chats: map[int64]model.Subscriber{}}, nil)

	require.NotPanics(t, func() {
		require.NoError(t, b.handleMessage(context.Background(), command("/add Write report | Writing | 01/01/2030")))
	})
	require.Len(t, store.tasks, 1)
	assert.Contains(t, api.last(t).Text, "Write report")
}

func TestMoveAndDeleteCommands(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	require.NoError(t, e.bot.handleMessage(ctx, command("/add A")))
	require.NoError(t, e.bot.handleMessage(ctx, command("/add B")))

	require.NoError(t, e.bot.handleMessage(ctx, command("/move id2 done")))
	assert.Equal(t, model.StatusDone, e.store.tasks[1].Status)

	require.NoError(t, e.bot.handleMessage(ctx, command("/move id1 sideways")))
	assert.Contains(t, e.api.last(t).Text, "Unknown lane")
	assert.Equal(t, model.StatusToDo, e.store.tasks[0].Status)

	require.NoError(t, e.bot.handleMessage(ctx, command("/delete id1")))
	require.Len(t, e.store.tasks, 1)
	assert.Equal(t, "id2", e.store.tasks[0].ID)
}

func TestCallbacks(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	require.NoError(t, e.bot.handleMessage(ctx, command("/add A")))

	cb := &tgbotapi.CallbackQuery{ID: "cb1", Data: "move:in-progress:id1", Message: command("/board")}
	require.NoError(t, e.bot.handleCallback(ctx, cb))
	assert.Equal(t, model.StatusInProgress, e.store.tasks[0].Status)

	cb = &tgbotapi.CallbackQuery{ID: "cb2", Data: "delete:id1", Message: command("/board")}
	require.NoError(t, e.bot.handleCallback(ctx, cb))
	assert.Empty(t, e.store.tasks)
	assert.Len(t, e.api.requests, 2)
}

func TestStartSubscribesAndReportsAreSent(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	require.NoError(t, e.bot.handleMessage(ctx, command("/start")))
	assert.Contains(t, e.subs.chats, int64(100))
	assert.Contains(t, e.api.last(t).Text, "Hi, Ada")

	require.NoError(t, e.bot.SendReports(ctx))
	assert.Contains(t, e.api.last(t).Text, "Board report")
	assert.Equal(t, int64(100), e.api.last(t).ChatID)

	require.NoError(t, e.bot.handleMessage(ctx, command("/stop")))
	assert.Empty(t, e.subs.chats)
}

func TestStartStopsOnContextCancel(t *testing.T) {
	e := setup(t)
	ctx, cancel := context.WithCancel(context.Background())

	e.api.updates <- tgbotapi.Update{Message: command("/add From update")}
	done := make(chan error, 1)
	go func() { done <- e.bot.Start(ctx) }()

	require.Eventually(t, func() bool {
		e.api.mu.Lock()
		defer e.api.mu.Unlock()
		return len(e.api.sent) > 0
	}, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("bot did not stop")
	}
	assert.Len(t, e.store.tasks, 1)
}

func TestShortTitle(t *testing.T) {
	assert.Equal(t, "untitled", shortTitle("  ", 10))
	assert.Equal(t, "short", shortTitle("short", 10))
	assert.Equal(t, "abcd…", shortTitle("abcdefgh", 5))
}
