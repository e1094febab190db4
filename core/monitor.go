package core

import "time"

// Totals summarizes a query window: summed deltas plus the largest
// single-record delta seen (zero when the window is empty).
type Totals struct {
	TotalDown int64 `json:"total_down"`
	TotalUp   int64 `json:"total_up"`
	PeakDown  int64 `json:"peak_down"`
	PeakUp    int64 `json:"peak_up"`
}

// Monitor is the read surface handed to the HTTP layer. It is constructed
// by main and passed explicitly; nothing in this package is reachable
// through package-level state.
type Monitor struct {
	store   *HistoryStore
	sampler *Sampler
}

func NewMonitor(store *HistoryStore, sampler *Sampler) *Monitor {
	return &Monitor{store: store, sampler: sampler}
}

func (m *Monitor) Live() LiveStats {
	return m.sampler.Live()
}

// History returns the raw records within [now-hours, now].
func (m *Monitor) History(hours int) []TrafficRecord {
	now := time.Now()
	return m.store.Range(now.Add(-time.Duration(hours)*time.Hour), now)
}

// Totals folds the window into sums and per-record peaks.
func (m *Monitor) Totals(hours int) Totals {
	var t Totals
	for _, rec := range m.History(hours) {
		t.TotalDown += rec.Down
		t.TotalUp += rec.Up
		if rec.Down > t.PeakDown {
			t.PeakDown = rec.Down
		}
		if rec.Up > t.PeakUp {
			t.PeakUp = rec.Up
		}
	}
	return t
}

func (m *Monitor) StoreLen() int {
	return m.store.Len()
}
