package core

import (
	"sort"
	"strings"
	"time"
)

// Granularity is the bucket width used to group records for charting.
type Granularity int

const (
	GranularityHour Granularity = iota
	GranularityDay
	GranularityMonth
	GranularityYear
)

func (g Granularity) String() string {
	switch g {
	case GranularityHour:
		return "hour"
	case GranularityDay:
		return "day"
	case GranularityMonth:
		return "month"
	case GranularityYear:
		return "year"
	}
	return "unknown"
}

// Truncate floors t to the bucket boundary in t's location.
func (g Granularity) Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch g {
	case GranularityHour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, loc)
	case GranularityDay:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case GranularityMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	}
}

// Bucket is one aggregated chart point at a bucket-start timestamp.
type Bucket struct {
	Timestamp int64 `json:"ts"`
	Down      int64 `json:"down"`
	Up        int64 `json:"up"`
}

// Aggregate groups records into fixed-width buckets and returns them
// sorted ascending. Records with unparseable timestamps are skipped. The
// result is never empty: with no usable input it holds a single zero
// bucket at now, so the dashboard always has something to draw.
func Aggregate(records []TrafficRecord, g Granularity, now time.Time) []Bucket {
	sums := make(map[int64]*Bucket)
	for _, rec := range records {
		ts, err := rec.Time()
		if err != nil {
			continue
		}
		key := g.Truncate(ts).Unix()
		b, ok := sums[key]
		if !ok {
			b = &Bucket{Timestamp: key}
			sums[key] = b
		}
		b.Down += rec.Down
		b.Up += rec.Up
	}

	if len(sums) == 0 {
		return []Bucket{{Timestamp: now.Unix()}}
	}

	out := make([]Bucket, 0, len(sums))
	for _, b := range sums {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}

// ResolveRange maps a query range key to its window length in hours and
// chart granularity. Keys are case-insensitive; unrecognized values fall
// back to "year". The "all" window is effectively unbounded and ends up
// capped by actual retention.
func ResolveRange(key string) (string, int, Granularity) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "7days":
		return "7days", 168, GranularityHour
	case "month":
		return "month", 720, GranularityDay
	case "all":
		return "all", 876000, GranularityYear
	case "year":
		fallthrough
	default:
		return "year", 8760, GranularityMonth
	}
}
