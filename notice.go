package main

import (
	"sync"
	"time"
)

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

type Notice struct {
	Level NoticeLevel
	Text  string
}

type NoticeSink interface {
	ShowNotice(n Notice)
	HideNotice()
}

// NoticeBoard shows one notice at a time. A new notice replaces the current
// one and each notice hides itself after ttl unless it was replaced first.
type NoticeBoard struct {
	mu      sync.Mutex
	sink    NoticeSink
	sched   Scheduler
	ttl     time.Duration
	current *Notice
	gen     uint64
}

func NewNoticeBoard(sink NoticeSink, sched Scheduler, ttl time.Duration) *NoticeBoard {
	return &NoticeBoard{sink: sink, sched: sched, ttl: ttl}
}

func (b *NoticeBoard) Show(level NoticeLevel, text string) {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	n := Notice{Level: level, Text: text}
	b.current = &n
	b.mu.Unlock()

	b.sink.ShowNotice(n)

	if b.ttl > 0 {
		b.sched.AfterFunc(b.ttl, func() { b.expire(gen) })
	}
}

func (b *NoticeBoard) Info(text string)    { b.Show(NoticeInfo, text) }
func (b *NoticeBoard) Warning(text string) { b.Show(NoticeWarning, text) }
func (b *NoticeBoard) Success(text string) { b.Show(NoticeSuccess, text) }
func (b *NoticeBoard) Error(text string)   { b.Show(NoticeError, text) }

// Current returns the notice on display, if any.
func (b *NoticeBoard) Current() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return Notice{}, false
	}
	return *b.current, true
}

func (b *NoticeBoard) Dismiss() {
	b.mu.Lock()
	b.gen++
	shown := b.current != nil
	b.current = nil
	b.mu.Unlock()

	if shown {
		b.sink.HideNotice()
	}
}

func (b *NoticeBoard) expire(gen uint64) {
	b.mu.Lock()
	if gen != b.gen || b.current == nil {
		b.mu.Unlock()
		return
	}
	b.current = nil
	b.mu.Unlock()

	b.sink.HideNotice()
}
