package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type ConfirmOutcome int

const (
	ConfirmNothingSelected ConfirmOutcome = iota
	ConfirmBusy
	ConfirmDeclined
	ConfirmFailed
	ConfirmDispatched
)

func (o ConfirmOutcome) String() string {
	switch o {
	case ConfirmNothingSelected:
		return "nothing selected"
	case ConfirmBusy:
		return "busy"
	case ConfirmDeclined:
		return "declined"
	case ConfirmFailed:
		return "failed"
	case ConfirmDispatched:
		return "dispatched"
	default:
		return fmt.Sprintf("ConfirmOutcome(%d)", int(o))
	}
}

// OnConfirm runs the confirmation protocol for the current selection.
//
// The confirm request cannot report back, so ConfirmDispatched only means the
// request left the client. After the settle delay an optimistic notice is
// shown and, after the verify delay, the same identity is fetched again:
// rows the backend did confirm are gone from that list, rows it did not are
// still there. Neither delay guarantees the backend is done.
func (c *Controller) OnConfirm(ctx context.Context) ConfirmOutcome {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ConfirmBusy
	}
	id := c.session.Identity
	rows := c.selection.Selected()
	c.mu.Unlock()

	if len(rows) == 0 {
		c.notices.Warning("Select at least one record")
		return ConfirmNothingSelected
	}

	return c.confirmSelected(ctx, id, rows)
}

func (c *Controller) confirmSelected(ctx context.Context, id IdentityCode, rows []RowRef) ConfirmOutcome {
	question := fmt.Sprintf("Confirm %d record(s)?\n\nThis action cannot be undone.", len(rows))
	if !c.prompter.Confirm(question) {
		c.mu.Lock()
		c.refreshTriggerLocked()
		c.mu.Unlock()
		return ConfirmDeclined
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ConfirmBusy
	}
	c.busy = true
	c.view.SetTrigger(busyTrigger())
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.busy = false
		c.refreshTriggerLocked()
		c.mu.Unlock()
	}()

	d := Dispatch{
		ID:           uuid.New(),
		Identity:     id,
		Rows:         rows,
		DispatchedAt: c.sched.Now(),
	}

	c.logger.Info("dispatching confirmation", "dispatch_id", d.ID, "identity", id, "rows", len(rows))
	err := c.backend.Dispatch(ctx, id, rows)
	if err != nil {
		d.Error = err.Error()
	}
	c.recordDispatch(ctx, d)

	if err != nil {
		c.logger.Error("confirmation dispatch failed", "dispatch_id", d.ID, "error", err)
		c.notices.Error("Error confirming: " + err.Error())
		return ConfirmFailed
	}

	if err := c.sched.Sleep(ctx, c.settleDelay); err != nil {
		c.logger.Warn("settle wait interrupted", "dispatch_id", d.ID, "error", err)
		c.notices.Error("Error confirming: " + err.Error())
		return ConfirmFailed
	}

	c.notices.Success(fmt.Sprintf("Confirmation sent for %d record(s). Reloading...", len(rows)))

	verifyCtx := context.WithoutCancel(ctx)
	c.pending.Add(1)
	c.sched.AfterFunc(c.verifyDelay, func() {
		defer c.pending.Done()
		c.reconcile(verifyCtx, d)
	})

	return ConfirmDispatched
}

// reconcile fetches the identity again and notes which dispatched rows are
// still pending.
func (c *Controller) reconcile(ctx context.Context, d Dispatch) {
	outcome, res := c.fetch(ctx, d.Identity)

	v := Verification{
		DispatchID: d.ID,
		VerifiedAt: c.sched.Now(),
		Outcome:    outcome.String(),
	}

	switch outcome {
	case FetchFound, FetchEmpty:
		v.StillPending = stillPending(d.Rows, res.Records)
		if len(v.StillPending) > 0 {
			c.logger.Warn("dispatched rows still pending", "dispatch_id", d.ID, "identity", d.Identity, "rows", v.StillPending)
		} else {
			c.logger.Info("dispatched rows no longer pending", "dispatch_id", d.ID, "identity", d.Identity)
		}
	default:
		c.logger.Warn("could not verify confirmation", "dispatch_id", d.ID, "outcome", outcome)
	}

	c.recordVerification(ctx, v)
}

func stillPending(dispatched []RowRef, records []PendingRecord) []RowRef {
	current := make(map[RowRef]struct{}, len(records))
	for _, r := range records {
		current[r.Row] = struct{}{}
	}

	var out []RowRef
	for _, row := range dispatched {
		if _, ok := current[row]; ok {
			out = append(out, row)
		}
	}
	return out
}

func (c *Controller) recordDispatch(ctx context.Context, d Dispatch) {
	if err := c.journal.RecordDispatch(ctx, d); err != nil {
		c.logger.Error("journal dispatch failed", "dispatch_id", d.ID, "error", err)
	}
}

func (c *Controller) recordVerification(ctx context.Context, v Verification) {
	if err := c.journal.RecordVerification(ctx, v); err != nil {
		c.logger.Error("journal verification failed", "dispatch_id", v.DispatchID, "error", err)
	}
}
