package service

import (
	"sync"
	"time"
)

// ClockLayout renders as "Oct 19, 2026 at 04:05:06 pm".
const ClockLayout = "Jan 02, 2006 at 03:04:05 pm"

// Clock keeps the formatted wall-clock display and fans every tick out to
// subscribers. Slow subscribers miss ticks rather than block the clock.
type Clock struct {
	now func() time.Time
	loc *time.Location

	mu      sync.Mutex
	current string
	subs    map[chan string]struct{}
}

func NewClock(loc *time.Location, now func() time.Time) *Clock {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now, loc: loc, subs: make(map[chan string]struct{})}
}

// FormatClock formats t for the clock display.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// Tick refreshes the display from the current time and notifies subscribers.
func (c *Clock) Tick() string {
	value := FormatClock(c.now().In(c.loc))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = value
	for ch := range c.subs {
		select {
		case ch <- value:
		default:
		}
	}
	return value
}

// Current returns the last ticked value, ticking first if the clock never ran.
func (c *Clock) Current() string {
	c.mu.Lock()
	value := c.current
	c.mu.Unlock()
	if value == "" {
		return c.Tick()
	}
	return value
}

func (c *Clock) Subscribe() chan string {
	ch := make(chan string, 1)
	c.mu.Lock()
	c.subs[ch] = struct{}{}
	c.mu.Unlock()
	return ch
}

func (c *Clock) Unsubscribe(ch chan string) {
	c.mu.Lock()
	delete(c.subs, ch)
	c.mu.Unlock()
}
