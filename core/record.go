package core

import "time"

// TimeLayout is the on-disk timestamp format. RFC3339Nano also parses
// plain RFC3339, so records written without sub-second precision load fine.
const TimeLayout = time.RFC3339Nano

// TrafficRecord is one observation: bytes transferred in the sampling
// interval plus the running daily totals at that instant. Timestamps are
// kept as strings so a corrupt entry in the history file degrades to a
// skipped record instead of a failed load.
type TrafficRecord struct {
	Timestamp string `json:"timestamp"`
	Down      int64  `json:"down"`
	Up        int64  `json:"up"`
	TotalDown int64  `json:"total_down"`
	TotalUp   int64  `json:"total_up"`
}

func NewTrafficRecord(ts time.Time, down, up, totalDown, totalUp int64) TrafficRecord {
	return TrafficRecord{
		Timestamp: ts.Format(TimeLayout),
		Down:      down,
		Up:        up,
		TotalDown: totalDown,
		TotalUp:   totalUp,
	}
}

// Time parses the record timestamp. Callers skip records whose timestamp
// does not parse; a malformed record is never fatal to a query.
func (r TrafficRecord) Time() (time.Time, error) {
	return time.Parse(TimeLayout, r.Timestamp)
}
