package main

import (
	"fmt"
	"io"
	"strconv"
	"sync"
)

// View is the presentation side of the controller. Implementations must not
// call back into the Controller from these methods.
type View interface {
	NoticeSink
	ShowEmployee(name string, id IdentityCode)
	ShowRecords(records []PendingRecord, summary RecordSummary)
	ShowHistory(history []HistoryEntry)
	HideSections()
	SetLoading(loading bool)
	SetChecked(i int, checked bool)
	SetTrigger(state TriggerState)
}

var recordHeaders = []string{
	"#", "Date", "Shift", "Hours", "Night 25%", "Day 25%", "Night 50%", "Ext 75%", "Hol 100%", "Reviewer", "Remarks",
}

func recordRow(i int, r PendingRecord) []string {
	return []string{
		strconv.Itoa(i + 1),
		FormatDate(r.Date),
		orDash(r.Shift),
		r.TotalHours.String(),
		r.Night25.String(),
		r.Day25.String(),
		r.Night50.String(),
		r.Extended75.String(),
		r.Holiday100.String(),
		orDash(r.Reviewer),
		orDash(r.Remarks),
	}
}

// TerminalView prints everything to w. Calls may come from timer goroutines
// so writes are serialised.
type TerminalView struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTerminalView(w io.Writer) *TerminalView {
	return &TerminalView{w: w}
}

func (v *TerminalView) ShowNotice(n Notice) {
	v.mu.Lock()
	defer v.mu.Unlock()

	fmt.Fprintf(v.w, "[%s] %s\n", n.Level, n.Text)
}

func (v *TerminalView) HideNotice() {}

func (v *TerminalView) ShowEmployee(name string, id IdentityCode) {
	v.mu.Lock()
	defer v.mu.Unlock()

	fmt.Fprintf(v.w, "Employee: %s (%s)\n", name, id)
}

func (v *TerminalView) ShowRecords(records []PendingRecord, summary RecordSummary) {
	v.mu.Lock()
	defer v.mu.Unlock()

	rows := make([][]string, 0, len(records))
	for i, r := range records {
		rows = append(rows, recordRow(i, r))
	}

	footers := make([]string, len(recordHeaders))
	footers[0] = strconv.Itoa(summary.Count)
	footers[2] = "Total:"
	footers[3] = summary.FormattedHours()

	fmt.Fprintln(v.w)
	PrintTable(v.w, recordHeaders, rows, footers)
	fmt.Fprintln(v.w)
}

func (v *TerminalView) ShowHistory(history []HistoryEntry) {
	v.mu.Lock()
	defer v.mu.Unlock()

	fmt.Fprintln(v.w, "Recent confirmations:")
	for _, h := range history {
		fmt.Fprintf(v.w, "  %s - %d record(s)\n", FormatHistoryTime(h.Timestamp), h.Count)
	}
}

func (v *TerminalView) HideSections() {}

func (v *TerminalView) SetLoading(loading bool) {
	if !loading {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	fmt.Fprintln(v.w, "Loading...")
}

func (v *TerminalView) SetChecked(i int, checked bool) {}

// only the in-progress state is worth a line, menus show the rest
func (v *TerminalView) SetTrigger(state TriggerState) {
	if !state.Busy {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	fmt.Fprintln(v.w, state.Label)
}
