package main

import (
	"context"
	"fmt"
)

type FetchOutcome int

const (
	FetchBlocked FetchOutcome = iota
	FetchFailed
	FetchRejected
	FetchEmpty
	FetchFound
)

func (o FetchOutcome) String() string {
	switch o {
	case FetchBlocked:
		return "blocked"
	case FetchFailed:
		return "failed"
	case FetchRejected:
		return "rejected"
	case FetchEmpty:
		return "empty"
	case FetchFound:
		return "found"
	default:
		return fmt.Sprintf("FetchOutcome(%d)", int(o))
	}
}

// OnSearch fetches pending records for input, which must already be a full
// canonical identity. Every failure ends as a notice.
func (c *Controller) OnSearch(ctx context.Context, input string) FetchOutcome {
	id, err := ParseIdentity(input)
	if err != nil {
		c.notices.Warning("Enter a complete, valid identity code")
		return FetchBlocked
	}

	outcome, _ := c.fetch(ctx, id)
	return outcome
}

func (c *Controller) fetch(ctx context.Context, id IdentityCode) (FetchOutcome, PendingResponse) {
	c.mu.Lock()
	c.session.Reset()
	c.session.Identity = id
	c.selection.Reset(nil)
	c.view.SetLoading(true)
	c.view.HideSections()
	c.refreshTriggerLocked()
	c.mu.Unlock()

	c.logger.Debug("fetching pending records", "identity", id)
	res, err := c.backend.FetchPending(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.view.SetLoading(false)

	if err != nil {
		c.logger.Error("fetch pending records failed", "identity", id, "error", err)
		c.notices.Error("Error fetching records: " + err.Error())
		return FetchFailed, PendingResponse{}
	}

	if res.Error != "" {
		c.logger.Info("backend rejected fetch", "identity", id, "error", res.Error)
		c.notices.Error(res.Error)
		return FetchRejected, res
	}

	c.session.Replace(id, res)

	if res.Employee != nil {
		c.view.ShowEmployee(res.Employee.Name, id)
	}

	outcome := FetchEmpty
	if len(res.Records) == 0 {
		c.notices.Info("No records pending confirmation")
	} else {
		c.selection.Reset(res.Records)
		c.view.ShowRecords(res.Records, Summarize(res.Records))
		c.refreshTriggerLocked()
		c.notices.Success(fmt.Sprintf("Found %d pending record(s)", len(res.Records)))
		outcome = FetchFound
	}

	if len(res.History) > 0 {
		c.view.ShowHistory(res.History)
	}

	c.logger.Debug("fetched pending records", "identity", id, "records", len(res.Records), "history", len(res.History))
	return outcome, res
}
