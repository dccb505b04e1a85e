package main

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultSettleDelay = 2000 * time.Millisecond
	defaultVerifyDelay = 1500 * time.Millisecond
	defaultNoticeTTL   = 6000 * time.Millisecond
)

// Session is the single identity under investigation. It is only ever
// replaced or reset as a whole, never patched.
type Session struct {
	Identity IdentityCode
	Employee *Employee
	Records  []PendingRecord
	History  []HistoryEntry
}

func (s *Session) Reset() {
	*s = Session{}
}

func (s *Session) Replace(id IdentityCode, res PendingResponse) {
	*s = Session{
		Identity: id,
		Employee: res.Employee,
		Records:  res.Records,
		History:  res.History,
	}
}

// Controller owns the session and turns operator events into fetches and
// confirmations. Its lock is never held across network calls, prompts or
// delays, so operations interleave the way UI events do.
type Controller struct {
	backend  Backend
	view     View
	prompter Prompter
	sched    Scheduler
	journal  Journal
	notices  *NoticeBoard
	logger   *slog.Logger

	settleDelay time.Duration
	verifyDelay time.Duration
	noticeTTL   time.Duration

	mu        sync.Mutex
	input     string
	session   Session
	selection Selection
	busy      bool

	pending sync.WaitGroup
}

type Option func(c *Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithScheduler(sched Scheduler) Option {
	return func(c *Controller) {
		c.sched = sched
	}
}

func WithJournal(j Journal) Option {
	return func(c *Controller) {
		c.journal = j
	}
}

// WithDelays overrides the settle and verify phases. Zero keeps the default.
func WithDelays(settle, verify time.Duration) Option {
	return func(c *Controller) {
		if settle > 0 {
			c.settleDelay = settle
		}
		if verify > 0 {
			c.verifyDelay = verify
		}
	}
}

func WithNoticeTTL(ttl time.Duration) Option {
	return func(c *Controller) {
		if ttl > 0 {
			c.noticeTTL = ttl
		}
	}
}

func NewController(backend Backend, view View, prompter Prompter, opts ...Option) *Controller {
	c := &Controller{
		backend:     backend,
		view:        view,
		prompter:    prompter,
		sched:       realScheduler{},
		journal:     nopJournal{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		settleDelay: defaultSettleDelay,
		verifyDelay: defaultVerifyDelay,
		noticeTTL:   defaultNoticeTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.notices = NewNoticeBoard(view, c.sched, c.noticeTTL)

	c.mu.Lock()
	c.refreshTriggerLocked()
	c.mu.Unlock()

	return c
}

func (c *Controller) Notices() *NoticeBoard {
	return c.notices
}

// OnInput normalizes raw keystroke input and keeps it as the current input.
func (c *Controller) OnInput(raw string) string {
	normalized := NormalizeIdentity(raw)

	c.mu.Lock()
	c.input = normalized
	c.mu.Unlock()

	return normalized
}

func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.input
}

func (c *Controller) OnToggleRow(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.selection.Toggle(i); err != nil {
		return err
	}
	c.view.SetChecked(i, c.selection.IsChecked(i))
	c.refreshTriggerLocked()
	return nil
}

func (c *Controller) OnToggleAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selection.ToggleAll()
	for i := 0; i < c.selection.Len(); i++ {
		c.view.SetChecked(i, c.selection.IsChecked(i))
	}
	c.refreshTriggerLocked()
}

// OnClear drops the input, the session and whatever is on screen.
func (c *Controller) OnClear() {
	c.mu.Lock()
	c.input = ""
	c.session.Reset()
	c.selection.Reset(nil)
	c.view.HideSections()
	c.refreshTriggerLocked()
	c.mu.Unlock()

	c.notices.Dismiss()
}

type Snapshot struct {
	Input    string
	Session  Session
	Checked  []bool
	Selected int
	Trigger  TriggerState
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Input:    c.input,
		Session:  c.session,
		Selected: c.selection.Count(),
		Trigger:  c.triggerLocked(),
	}
	s.Session.Records = append([]PendingRecord(nil), c.session.Records...)
	s.Session.History = append([]HistoryEntry(nil), c.session.History...)
	s.Checked = make([]bool, c.selection.Len())
	for i := range s.Checked {
		s.Checked[i] = c.selection.IsChecked(i)
	}
	return s
}

// Wait blocks until every scheduled reconciling fetch has finished.
func (c *Controller) Wait() {
	c.pending.Wait()
}

func (c *Controller) triggerLocked() TriggerState {
	if c.busy {
		return busyTrigger()
	}
	return triggerFor(c.selection.Count())
}

// the trigger is left alone while a confirmation holds it
func (c *Controller) refreshTriggerLocked() {
	if c.busy {
		return
	}
	c.view.SetTrigger(triggerFor(c.selection.Count()))
}
