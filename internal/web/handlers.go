package web

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"kanban-board/internal/model"
	"kanban-board/internal/render"
	"kanban-board/internal/service"
)

// Board is the task collection the controller mutates.
type Board interface {
	List(ctx context.Context) []model.Task
	AddTask(ctx context.Context, input service.TaskInput) (*model.Task, error)
	RemoveTask(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status model.Status) error
}

// Clock is the wall-clock display source.
type Clock interface {
	Current() string
	Subscribe() chan string
	Unsubscribe(ch chan string)
}

// Handler turns form submits, delete clicks and lane drops into board
// mutations and answers with a freshly rendered board. It keeps no state
// between requests.
type Handler struct {
	board Board
	clock Clock
	loc   *time.Location
	now   func() time.Time
	log   logrus.FieldLogger

	done      chan struct{}
	closeOnce sync.Once
}

func NewHandler(board Board, clock Clock, loc *time.Location, log logrus.FieldLogger) *Handler {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		log = quiet
	}
	return &Handler{board: board, clock: clock, loc: loc, now: time.Now, log: log, done: make(chan struct{})}
}

// Close ends every open clock stream. Streams opened afterwards return
// right after their first event.
func (h *Handler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Register wires up all board routes on the given Echo instance.
func Register(e *echo.Echo, h *Handler) {
	e.GET("/", h.page)
	e.GET("/board", h.lanes)
	e.POST("/tasks", h.submit)
	e.POST("/tasks/:id/delete", h.remove)
	e.POST("/tasks/:id/status", h.drop)
	e.GET("/api/tasks", h.listTasks)
	e.GET("/clock", h.currentClock)
	e.GET("/clock/stream", h.streamClock)
	e.GET("/healthz", healthz)
}

func healthz(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (h *Handler) buildBoard(ctx context.Context) render.Board {
	return render.BuildBoard(h.board.List(ctx), h.now().In(h.loc))
}

func (h *Handler) page(c echo.Context) error {
	page := render.Page{
		Clock: h.clock.Current(),
		Board: h.buildBoard(c.Request().Context()),
	}
	return c.Render(http.StatusOK, render.PageTemplate, page)
}

func (h *Handler) lanes(c echo.Context) error {
	return c.Render(http.StatusOK, render.LanesTemplate, h.buildBoard(c.Request().Context()))
}

// rerender answers a mutation. Script callers get the lanes fragment, plain
// form posts are sent back to the page.
func (h *Handler) rerender(c echo.Context) error {
	if c.Request().Header.Get("X-Requested-With") != "fetch" {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return h.lanes(c)
}

func (h *Handler) submit(c echo.Context) error {
	input := service.TaskInput{
		Name:    c.FormValue("name"),
		Type:    c.FormValue("type"),
		DueDate: c.FormValue("dueDate"),
	}
	task, err := h.board.AddTask(c.Request().Context(), input)
	if err != nil {
		h.log.WithError(err).Error("add task")
	} else {
		h.log.WithField("task", task.ID).Info("task added")
	}
	return h.rerender(c)
}

func (h *Handler) remove(c echo.Context) error {
	id := c.Param("id")
	if err := h.board.RemoveTask(c.Request().Context(), id); err != nil {
		h.log.WithError(err).WithField("task", id).Error("remove task")
	} else {
		h.log.WithField("task", id).Info("task removed")
	}
	return h.rerender(c)
}

func (h *Handler) drop(c echo.Context) error {
	id := c.Param("id")
	status := model.Status(c.FormValue("status"))
	fields := logrus.Fields{"task": id, "status": status}
	if err := h.board.SetStatus(c.Request().Context(), id, status); err != nil {
		h.log.WithError(err).WithFields(fields).Error("set status")
	} else {
		h.log.WithFields(fields).Info("task moved")
	}
	return h.rerender(c)
}

func (h *Handler) listTasks(c echo.Context) error {
	return c.JSON(http.StatusOK, h.board.List(c.Request().Context()))
}

func (h *Handler) currentClock(c echo.Context) error {
	return c.String(http.StatusOK, h.clock.Current())
}

// streamClock pushes every clock tick as a server-sent event.
func (h *Handler) streamClock(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return c.String(http.StatusInternalServerError, "stream unsupported")
	}
	c.Response().WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	ch := h.clock.Subscribe()
	defer h.clock.Unsubscribe(ch)

	value := h.clock.Current()
	for {
		if _, err := c.Response().Write([]byte("data: " + value + "\n\n")); err != nil {
			return err
		}
		flusher.Flush()
		select {
		case <-ctx.Done():
			return nil
		case <-h.done:
			return nil
		case next, ok := <-ch:
			if !ok {
				return nil
			}
			value = next
		}
	}
}
