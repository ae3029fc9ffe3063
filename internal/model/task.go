package model

import (
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// Status is the lane identifier stored with every task.
type Status string

const (
	StatusToDo       Status = "to-do"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Lanes lists the board lanes in display order.
var Lanes = []Status{StatusToDo, StatusInProgress, StatusDone}

// Known reports whether s is one of the three lane identifiers.
func (s Status) Known() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Lane returns the lane a task with this status is shown in.
// Anything that is not to-do or in-progress, including values written by
// older clients, falls back to the done lane.
func (s Status) Lane() Status {
	switch s {
	case StatusToDo, StatusInProgress:
		return s
	default:
		return StatusDone
	}
}

// Next returns the lane to the right of s; done stays done.
func (s Status) Next() Status {
	switch s.Lane() {
	case StatusToDo:
		return StatusInProgress
	default:
		return StatusDone
	}
}

// DueDateLayout is the DD/MM/YYYY wire format of due dates.
const DueDateLayout = "02/01/2006"

// DueDate is an optional calendar date. Values that fail to parse are kept
// verbatim so they survive a load/save cycle, but carry no date.
type DueDate struct {
	year  int
	month time.Month
	day   int
	raw   string
}

// ParseDueDate parses a DD/MM/YYYY string. It never fails: an empty string
// yields the zero DueDate and anything unparsable is kept as raw text.
func ParseDueDate(s string) DueDate {
	s = strings.TrimSpace(s)
	if s == "" {
		return DueDate{}
	}
	t, err := time.Parse(DueDateLayout, s)
	if err != nil {
		return DueDate{raw: s}
	}
	return NewDueDate(t.Year(), t.Month(), t.Day())
}

// NewDueDate builds a DueDate from calendar fields.
func NewDueDate(year int, month time.Month, day int) DueDate {
	return DueDate{year: year, month: month, day: day}
}

// DueDateOf takes the calendar day of t in its own location.
func DueDateOf(t time.Time) DueDate {
	return NewDueDate(t.Date())
}

// IsZero reports whether no due date was given.
func (d DueDate) IsZero() bool {
	return d.year == 0 && d.raw == ""
}

// Valid reports whether d holds a real calendar date.
func (d DueDate) Valid() bool {
	return d.year != 0
}

// In returns midnight of the due day in loc. ok is false when d is not Valid.
func (d DueDate) In(loc *time.Location) (t time.Time, ok bool) {
	if !d.Valid() {
		return time.Time{}, false
	}
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc), true
}

func (d DueDate) String() string {
	if !d.Valid() {
		return d.raw
	}
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC).Format(DueDateLayout)
}

func (d DueDate) MarshalJSON() ([]byte, error) {
	return sonic.ConfigStd.Marshal(d.String())
}

func (d *DueDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := sonic.ConfigStd.Unmarshal(data, &s); err != nil {
		return err
	}
	*d = ParseDueDate(s)
	return nil
}

// Task is a single card on the board.
type Task struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	DueDate DueDate `json:"dueDate"`
	Status  Status  `json:"status"`
}
