package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type (
	Employee struct {
		Name string `json:"nombre"`
	}

	PendingRecord struct {
		Row        RowRef `json:"fila"`
		Date       string `json:"fecha"`
		Shift      string `json:"turno"`
		TotalHours Hours  `json:"totalHoras"`
		Night25    Hours  `json:"noct25"`
		Day25      Hours  `json:"diur25"`
		Night50    Hours  `json:"noct50"`
		Extended75 Hours  `json:"prolong75"`
		Holiday100 Hours  `json:"feriado100"`
		Reviewer   string `json:"ingeniero"`
		Remarks    string `json:"observaciones"`
	}

	HistoryEntry struct {
		Timestamp string `json:"fecha"`
		Count     int    `json:"cantidad"`
	}

	// body of obtenerRegistrosPendientes
	PendingResponse struct {
		Error    string          `json:"error,omitempty"`
		Employee *Employee       `json:"empleado,omitempty"`
		Records  []PendingRecord `json:"registros,omitempty"`
		History  []HistoryEntry  `json:"historial,omitempty"`
	}
)

// Hours is a decimal hour count. The backend sends numbers, numeric strings
// or nothing at all; anything that does not start with a number counts as 0.
type Hours float64

func (h *Hours) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*h = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("error decoding hours: %w", err)
		}
		*h = Hours(parseLeadingFloat(s))
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		// booleans, objects and friends are not hours
		*h = 0
		return nil
	}
	*h = Hours(f)
	return nil
}

func (h Hours) String() string {
	return strconv.FormatFloat(float64(h), 'f', -1, 64)
}

// RowRef is the backend's storage handle for a record. It is the only thing
// sent back on confirmation and is never shown as a regular column.
type RowRef int

func (r *RowRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return errors.New("row reference is missing")
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("error decoding row reference: %w", err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("invalid row reference %q: %w", s, err)
		}
		*r = RowRef(n)
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid row reference %s: %w", data, err)
	}
	*r = RowRef(n)
	return nil
}

// parses the longest numeric prefix of s, exponent included, 0 when there
// is none
func parseLeadingFloat(s string) float64 {
	s = strings.TrimSpace(s)

	end := 0
	seenDigit, seenDot, seenExp := false, false, false
scan:
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
			end = i + 1
		case c == '.' && !seenDot && !seenExp:
			seenDot = true
		case (c == '-' || c == '+') && i == 0:
		case (c == 'e' || c == 'E') && seenDigit && !seenExp:
			// only an exponent when digits follow
			j := i + 1
			if j < len(s) && (s[j] == '-' || s[j] == '+') {
				j++
			}
			if j >= len(s) || s[j] < '0' || s[j] > '9' {
				break scan
			}
			seenExp = true
			i = j - 1
		default:
			break scan
		}
	}
	if !seenDigit {
		return 0
	}

	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}

type RecordSummary struct {
	Count      int
	TotalHours float64
}

func Summarize(records []PendingRecord) RecordSummary {
	summary := RecordSummary{Count: len(records)}
	for _, r := range records {
		summary.TotalHours += float64(r.TotalHours)
	}
	return summary
}

func (s RecordSummary) FormattedHours() string {
	return fmt.Sprintf("%.2f", s.TotalHours)
}
