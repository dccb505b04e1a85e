package main

import (
	"fmt"
	"io"
	"strings"
	"time"
)

var backendTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func PrintTable(w io.Writer, headers []string, rows [][]string, footers []string) {
	colWidths := make([]int, len(headers))
	for i, header := range headers {
		colWidths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}
	for i, footer := range footers {
		if len(footer) > colWidths[i] {
			colWidths[i] = len(footer)
		}
	}

	// print header
	for i, header := range headers {
		fmt.Fprintf(w, "%-*s\t", colWidths[i], header)
	}
	fmt.Fprintln(w)

	// print rows
	for _, row := range rows {
		for i, cell := range row {
			fmt.Fprintf(w, "%-*s\t", colWidths[i], cell)
		}
		fmt.Fprintln(w)
	}

	if len(footers) == 0 {
		return
	}

	// print footer, empty cells keep the column aligned
	for i, footer := range footers {
		fmt.Fprintf(w, "%-*s\t", colWidths[i], footer)
	}
	fmt.Fprintln(w)
}

func parseBackendTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range backendTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}

// day/month/year without padding, the way the operators read dates
func FormatDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	t, err := parseBackendTime(s)
	if err != nil {
		return s
	}
	return t.Format("2/1/2006")
}

func FormatHistoryTime(s string) string {
	t, err := parseBackendTime(s)
	if err != nil {
		return s
	}
	t = t.Local()
	return t.Format("2/1/2006") + " - " + t.Format("15:04:05")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
