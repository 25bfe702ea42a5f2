package usecase

import "time"

// Analytics report shapes. The heavy lifting happens in SQL; these helpers
// keep the calendar math and ratio edge cases out of the repository so they
// can be tested without a database. All windows are computed from "now" at
// call time in a single reference location.

type OverviewReport struct {
	Total                    int            `json:"total"`
	Today                    int            `json:"today"`
	ThisWeek                 int            `json:"this_week"`
	ThisMonth                int            `json:"this_month"`
	AvgCompletionTimeSeconds float64        `json:"avg_completion_time_seconds"`
	StatusBreakdown          map[string]int `json:"status_breakdown"`
}

type FunnelReport struct {
	Funnel        map[string]int `json:"funnel"`
	StepViews     map[string]int `json:"step_views"`
	StepCompletes map[string]int `json:"step_completes"`
}

type SourceCount struct {
	Source string `json:"source"`
	Medium string `json:"medium"`
	Count  int    `json:"count"`
}

type CampaignCount struct {
	Campaign string `json:"campaign"`
	Content  string `json:"content"`
	Count    int    `json:"count"`
}

type DeviceCount struct {
	Device string `json:"device"`
	Count  int    `json:"count"`
}

type GeoCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

type ScreenCount struct {
	Screen string `json:"screen"`
	Count  int    `json:"count"`
}

type AbandonmentReport struct {
	ByScreen           []ScreenCount `json:"abandonment_by_screen"`
	TotalStarted       int           `json:"total_started"`
	TotalCompleted     int           `json:"total_completed"`
	AbandonmentRatePct float64       `json:"abandonment_rate_pct"`
}

type EventVerification struct {
	Event      string `json:"event"`
	TotalCount int    `json:"total_count"`
	LastSeen   string `json:"last_seen"`
}

// StartOfDay truncates t to midnight in its location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Monday midnight at or before t.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// StartOfMonth returns the first of t's month at midnight.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// WindowStart returns the start of a trailing window of the given number of
// days, ending at t.
func WindowStart(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, -days)
}

// AbandonmentRatePct is 100 * (1 - completed/started), rounded to one
// decimal, and 0 when nothing started in the window.
func AbandonmentRatePct(completed, started int) float64 {
	if started <= 0 {
		return 0
	}
	pct := (1 - float64(completed)/float64(started)) * 100
	return float64(int(pct*10+0.5)) / 10
}
