package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Watcher polls one identity on a cron schedule and reports when its
// pending list changes.
type Watcher struct {
	backend Backend
	id      IdentityCode
	out     io.Writer
	logger  *slog.Logger
	sched   Scheduler

	mu      sync.Mutex
	last    *RecordSummary
	lastErr string
}

func NewWatcher(backend Backend, id IdentityCode, out io.Writer, logger *slog.Logger, sched Scheduler) *Watcher {
	return &Watcher{backend: backend, id: id, out: out, logger: logger, sched: sched}
}

// Run checks once immediately, then on every tick of spec until ctx is done.
func (w *Watcher) Run(ctx context.Context, spec string) error {
	schedule, err := cronParser.Parse(spec)
	if err != nil {
		return fmt.Errorf("invalid schedule '%s': %w", spec, err)
	}

	c := cron.New(cron.WithParser(cronParser))
	c.Schedule(schedule, cron.FuncJob(func() { w.Check(ctx) }))

	w.Check(ctx)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()

	return nil
}

// Check runs one poll and prints a line when something changed.
func (w *Watcher) Check(ctx context.Context) {
	res, err := w.backend.FetchPending(ctx, w.id)
	if err == nil && res.Error != "" {
		err = fmt.Errorf("%s", res.Error)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	stamp := w.sched.Now().Format("15:04:05")

	if err != nil {
		w.logger.Warn("watch fetch failed", "identity", w.id, "error", err)
		if err.Error() != w.lastErr {
			fmt.Fprintf(w.out, "%s  %s  error: %v\n", stamp, w.id, err)
			w.lastErr = err.Error()
		}
		return
	}
	w.lastErr = ""

	summary := Summarize(res.Records)
	if w.last != nil && *w.last == summary {
		return
	}
	w.last = &summary

	fmt.Fprintf(w.out, "%s  %s  %d pending record(s), %s hours\n", stamp, w.id, summary.Count, summary.FormattedHours())
}
