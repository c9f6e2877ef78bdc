package state

import (
	"fmt"
	"strings"
)

// EventKind names the transition that produced an Event.
type EventKind int

const (
	EventStarted EventKind = iota
	EventLoaded
	EventLoadFailed
	EventTurned
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventLoaded:
		return "loaded"
	case EventLoadFailed:
		return "load-failed"
	case EventTurned:
		return "turned"
	case EventReset:
		return "reset"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is published to subscribers after every state change.
type Event struct {
	Kind EventKind
	View View
}

// View is a snapshot of everything a renderer needs. Index and Total are
// zero outside Reading.
type View struct {
	Phase     Phase
	Prompt    string
	Title     string
	PageLines []string
	PageText  string
	Index     int
	Total     int
	Direction Direction
	Err       error

	CanPrevious bool
	CanNext     bool
	IsLastPage  bool
}

// Blank reports whether the current page has no text at all. A page of
// whitespace lines is not blank.
func (v View) Blank() bool {
	return v.PageText == ""
}

// View returns a snapshot of the current state.
func (c *Controller) View() View {
	v := View{
		Phase:     c.phase,
		Prompt:    c.prompt,
		Direction: c.direction,
		Err:       c.lastErr,
	}
	if c.phase != Reading {
		return v
	}

	// index is kept in range by Next/Previous, so the page always exists.
	lines, _ := c.pages.Page(c.index)
	v.Title = c.pages.Document().Title()
	v.PageLines = lines
	v.PageText = strings.Join(lines, "\n")
	v.Index = c.index
	v.Total = c.pages.Total()
	v.CanPrevious = c.index > 0
	v.CanNext = c.index < v.Total-1
	v.IsLastPage = c.index == v.Total-1
	return v
}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn to receive every Event. Subscribers are notified in
// the order they subscribed. The returned function removes the subscription.
func (c *Controller) Subscribe(fn func(Event)) (cancel func()) {
	id := c.nextSub
	c.nextSub++
	c.subscribers = append(c.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range c.subscribers {
			if sub.id == id {
				c.subscribers = append(c.subscribers[:i:i], c.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) emit(kind EventKind) {
	if len(c.subscribers) == 0 {
		return
	}
	ev := Event{Kind: kind, View: c.View()}
	for _, sub := range c.subscribers {
		sub.fn(ev)
	}
}
