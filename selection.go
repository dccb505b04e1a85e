package main

import (
	"errors"
	"fmt"
)

var ErrNothingSelected = errors.New("select at least one record")

const (
	triggerNeutralLabel = "Confirm selected"
	triggerBusyLabel    = "Confirming..."
)

// Selection tracks which rendered rows are checked. Flags are positional so
// two rows sharing a row reference are still independent checkboxes.
type Selection struct {
	rows    []RowRef
	checked []bool
}

// Reset replaces the rendered rows, everything starts unchecked.
func (s *Selection) Reset(records []PendingRecord) {
	s.rows = make([]RowRef, len(records))
	s.checked = make([]bool, len(records))
	for i, r := range records {
		s.rows[i] = r.Row
	}
}

func (s *Selection) Len() int {
	return len(s.rows)
}

func (s *Selection) Toggle(i int) error {
	if i < 0 || i >= len(s.checked) {
		return fmt.Errorf("no row at position %d", i+1)
	}
	s.checked[i] = !s.checked[i]
	return nil
}

func (s *Selection) IsChecked(i int) bool {
	return i >= 0 && i < len(s.checked) && s.checked[i]
}

// ToggleAll unchecks everything when every row is checked and checks
// everything otherwise.
func (s *Selection) ToggleAll() {
	all := true
	for _, c := range s.checked {
		if !c {
			all = false
			break
		}
	}

	for i := range s.checked {
		s.checked[i] = !all
	}
}

func (s *Selection) Count() int {
	n := 0
	for _, c := range s.checked {
		if c {
			n++
		}
	}
	return n
}

// Selected returns the checked row references in render order.
func (s *Selection) Selected() []RowRef {
	var out []RowRef
	for i, c := range s.checked {
		if c {
			out = append(out, s.rows[i])
		}
	}
	return out
}

type TriggerState struct {
	Enabled bool
	Busy    bool
	Label   string
}

func triggerFor(count int) TriggerState {
	if count == 0 {
		return TriggerState{Label: triggerNeutralLabel}
	}
	return TriggerState{Enabled: true, Label: fmt.Sprintf("Confirm %d record(s)", count)}
}

func busyTrigger() TriggerState {
	return TriggerState{Busy: true, Label: triggerBusyLabel}
}
