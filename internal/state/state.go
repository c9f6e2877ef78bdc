// Package state drives the reading session: prompt submission, loading, and
// bounded page navigation over a generated story.
package state

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/metcalfc/tale/internal/story"
)

// Phase is the coarse state of a reading session.
type Phase int

const (
	Idle Phase = iota
	Loading
	Reading
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Reading:
		return "reading"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Direction is the direction of the last page turn. Renderers use it to pick
// a transition; it has no effect on navigation.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

var (
	// ErrBusy is returned by Start when a session is already loading or reading.
	ErrBusy = errors.New("a story is already in progress")
	// ErrEmptyPrompt is returned by Start for a blank prompt.
	ErrEmptyPrompt = errors.New("prompt is empty")
	// ErrStale is returned when a generation result arrives for a request that
	// is no longer in flight.
	ErrStale = errors.New("stale generation result")
)

// Ticket identifies one in-flight generation request.
type Ticket uint64

// Controller is the navigation state machine for a single reading session.
// It is not safe for concurrent use; front ends mutate it from their update loop.
type Controller struct {
	perPage int
	log     *zap.Logger

	phase     Phase
	prompt    string
	ticket    Ticket
	pages     *story.PageSet
	index     int
	direction Direction
	lastErr   error

	subscribers []subscriber
	nextSub     int
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for transition tracing.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates an idle Controller paging stories at perPage lines per page.
// Values below one fall back to story.DefaultLinesPerPage.
func New(perPage int, opts ...Option) *Controller {
	if perPage < 1 {
		perPage = story.DefaultLinesPerPage
	}
	c := &Controller{
		perPage: perPage,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PerPage returns the page size shared by page counting and page slicing.
func (c *Controller) PerPage() int { return c.perPage }

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.phase }

// Start records prompt and moves Idle -> Loading. The returned ticket must be
// passed back to Succeeded or Failed once generation completes.
func (c *Controller) Start(prompt string) (Ticket, error) {
	if c.phase != Idle {
		return 0, fmt.Errorf("start in %s: %w", c.phase, ErrBusy)
	}
	if strings.TrimSpace(prompt) == "" {
		return 0, ErrEmptyPrompt
	}

	c.ticket++
	c.phase = Loading
	c.prompt = prompt
	c.lastErr = nil

	c.log.Debug("Generation started", zap.Uint64("ticket", uint64(c.ticket)), zap.Int("prompt_len", len(prompt)))
	c.emit(EventStarted)
	return c.ticket, nil
}

// Succeeded moves Loading -> Reading with doc on the first page.
func (c *Controller) Succeeded(t Ticket, doc story.Document) error {
	if err := c.checkTicket(t); err != nil {
		return err
	}
	pages, err := story.NewPageSet(doc, c.perPage)
	if err != nil {
		return err
	}

	c.phase = Reading
	c.pages = pages
	c.index = 0
	c.direction = Forward

	c.log.Debug("Story loaded",
		zap.String("story", doc.Digest()),
		zap.String("title", doc.Title()),
		zap.Int("lines", doc.LineCount()),
		zap.Int("pages", pages.Total()))
	c.emit(EventLoaded)
	return nil
}

// Failed moves Loading -> Idle, discarding the prompt and keeping err for display.
func (c *Controller) Failed(t Ticket, err error) error {
	if e := c.checkTicket(t); e != nil {
		return e
	}
	if err == nil {
		err = errors.New("generation failed")
	}

	c.phase = Idle
	c.prompt = ""
	c.lastErr = err

	c.log.Warn("Generation failed", zap.Uint64("ticket", uint64(t)), zap.Error(err))
	c.emit(EventLoadFailed)
	return nil
}

func (c *Controller) checkTicket(t Ticket) error {
	if c.phase != Loading || t != c.ticket {
		c.log.Debug("Discarding generation result", zap.Uint64("ticket", uint64(t)), zap.Stringer("phase", c.phase))
		return fmt.Errorf("ticket %d: %w", t, ErrStale)
	}
	return nil
}

// Next turns to the following page. It reports whether the page changed;
// on the last page it does nothing.
func (c *Controller) Next() bool {
	if c.phase != Reading || c.index >= c.pages.Total()-1 {
		return false
	}
	c.index++
	c.direction = Forward
	c.traceTurn()
	c.emit(EventTurned)
	return true
}

// Previous turns to the preceding page. It reports whether the page changed;
// on the first page it does nothing.
func (c *Controller) Previous() bool {
	if c.phase != Reading || c.index <= 0 {
		return false
	}
	c.index--
	c.direction = Backward
	c.traceTurn()
	c.emit(EventTurned)
	return true
}

func (c *Controller) traceTurn() {
	c.log.Debug("Page turned",
		zap.String("story", c.pages.Document().Digest()),
		zap.Int("index", c.index),
		zap.Int("total", c.pages.Total()),
		zap.Stringer("direction", c.direction))
}

// Reset returns to Idle from Loading or Reading, discarding the story, the
// prompt and the position. A pending generation result becomes stale.
func (c *Controller) Reset() {
	if c.phase == Idle {
		return
	}
	from := c.phase

	c.phase = Idle
	c.prompt = ""
	c.pages = nil
	c.index = 0
	c.direction = Forward
	c.lastErr = nil

	c.log.Debug("Session reset", zap.Stringer("from", from))
	c.emit(EventReset)
}
