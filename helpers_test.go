package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "-", FormatDate(""))
	assert.Equal(t, "7/3/2025", FormatDate("2025-03-07"))
	assert.Equal(t, "17/11/2024", FormatDate("2024-11-17T00:00:00Z"))
	assert.Equal(t, "yesterday", FormatDate("yesterday"))
}

func TestPrintTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer

	PrintTable(&buf, []string{"#", "Hours"}, [][]string{{"1", "8"}, {"2", "4.5"}}, []string{"2", "12.50"})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "#\tHours\t", lines[0])
	assert.Equal(t, "1\t8    \t", lines[1])
	assert.Equal(t, "2\t12.50\t", lines[3])
}

func TestTerminalViewShowsRecords(t *testing.T) {
	var buf bytes.Buffer
	v := NewTerminalView(&buf)

	records := []PendingRecord{{Row: 7, Date: "2025-03-07", TotalHours: 8}, {Row: 9, TotalHours: 4.5}}
	v.ShowRecords(records, Summarize(records))
	v.SetTrigger(busyTrigger())
	v.ShowNotice(Notice{Level: NoticeSuccess, Text: "done"})

	out := buf.String()
	assert.Contains(t, out, "7/3/2025")
	assert.Contains(t, out, "12.50")
	assert.Contains(t, out, "Confirming...")
	assert.Contains(t, out, "[success] done")
}
