package core

import "time"

// DateLayout is the calendar-day key used for the daily usage reset.
const DateLayout = "2006-01-02"

// UsageSnapshot is the per-day cumulative usage persisted to usage.json.
type UsageSnapshot struct {
	Date  string `json:"date"`
	Down  int64  `json:"down"`
	Up    int64  `json:"up"`
	Total int64  `json:"total"`
}

// LoadUsage reads the usage file. Missing or corrupt data yields a zeroed
// snapshot dated today.
func LoadUsage(path string, now time.Time) UsageSnapshot {
	today := now.Format(DateLayout)
	snap := UsageSnapshot{Date: today}
	if err := readJSONFile(path, &snap); err != nil {
		return UsageSnapshot{Date: today}
	}
	if snap.Date == "" {
		snap.Date = today
	}
	return snap
}

// SaveUsage writes the snapshot atomically, stamping the total.
func SaveUsage(path string, snap UsageSnapshot) error {
	snap.Total = snap.Down + snap.Up
	return writeJSONAtomic(path, snap)
}
