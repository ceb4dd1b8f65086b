package dashboard

import (
	"strings"
	"time"

	"github.com/grahmind/careers-waitlist/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Window narrows the list by submission time.
type Window string

const (
	WindowAll   Window = "all"
	WindowToday Window = "today"
	WindowWeek  Window = "week"
)

const weekSpan = 7 * 24 * time.Hour

// ParseWindow maps unknown values to WindowAll.
func ParseWindow(raw string) Window {
	switch Window(strings.ToLower(strings.TrimSpace(raw))) {
	case WindowToday:
		return WindowToday
	case WindowWeek:
		return WindowWeek
	default:
		return WindowAll
	}
}

// Stats counts the unfiltered list.
type Stats struct {
	Total int `json:"total"`
	Today int `json:"today"`
	Week  int `json:"week"`
}

// clock fixes "now" and the location used for calendar days for one evaluation.
type clock struct {
	now time.Time
	loc *time.Location
}

func (c clock) isToday(ts time.Time) bool {
	y1, m1, d1 := ts.In(c.loc).Date()
	y2, m2, d2 := c.now.In(c.loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (c clock) isThisWeek(ts time.Time) bool {
	return !ts.Before(c.now.Add(-weekSpan))
}

func (c clock) inWindow(record models.WaitlistRecord, window Window) bool {
	if window == WindowAll {
		return true
	}

	ts, ok := record.ParsedTimestamp(c.loc)
	if !ok {
		return false
	}

	switch window {
	case WindowToday:
		return c.isToday(ts)
	case WindowWeek:
		return c.isThisWeek(ts)
	default:
		return true
	}
}

var folder = cases.Lower(language.Und)

func matchesSearch(record models.WaitlistRecord, needle string) bool {
	if record.Email == "" {
		return false
	}
	return strings.Contains(folder.String(record.Email), needle)
}

func filterRecords(records []models.WaitlistRecord, term string, window Window, c clock) []models.WaitlistRecord {
	needle := folder.String(term)

	filtered := make([]models.WaitlistRecord, 0, len(records))
	for _, record := range records {
		if matchesSearch(record, needle) && c.inWindow(record, window) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

func computeStats(records []models.WaitlistRecord, c clock) Stats {
	stats := Stats{Total: len(records)}
	for _, record := range records {
		ts, ok := record.ParsedTimestamp(c.loc)
		if !ok {
			continue
		}
		if c.isToday(ts) {
			stats.Today++
		}
		if c.isThisWeek(ts) {
			stats.Week++
		}
	}
	return stats
}
