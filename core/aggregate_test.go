package core

import (
	"testing"
	"time"
)

func TestAggregate_EmptyInput(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC)
	got := Aggregate(nil, GranularityHour, now)
	if len(got) != 1 {
		t.Fatalf("got %d buckets, want 1 synthetic", len(got))
	}
	if got[0].Timestamp != now.Unix() || got[0].Down != 0 || got[0].Up != 0 {
		t.Errorf("synthetic bucket = %+v, want zero values at now", got[0])
	}
}

func TestAggregate_ByHour(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	records := []TrafficRecord{
		rec(day.Add(10*time.Hour+5*time.Minute), 100, 0),
		rec(day.Add(10*time.Hour+47*time.Minute), 50, 0),
		rec(day.Add(11*time.Hour+2*time.Minute), 10, 0),
	}

	got := Aggregate(records, GranularityHour, time.Now())
	if len(got) != 2 {
		t.Fatalf("got %d buckets, want 2", len(got))
	}
	if got[0].Timestamp != day.Add(10*time.Hour).Unix() || got[0].Down != 150 {
		t.Errorf("bucket 0 = %+v, want ts=10:00 down=150", got[0])
	}
	if got[1].Timestamp != day.Add(11*time.Hour).Unix() || got[1].Down != 10 {
		t.Errorf("bucket 1 = %+v, want ts=11:00 down=10", got[1])
	}
}

func TestAggregate_ByMonthTruncation(t *testing.T) {
	records := []TrafficRecord{
		rec(time.Date(2024, 3, 7, 9, 15, 0, 0, time.UTC), 1, 2),
		rec(time.Date(2024, 3, 28, 23, 59, 0, 0, time.UTC), 10, 20),
		rec(time.Date(2024, 4, 1, 0, 0, 1, 0, time.UTC), 100, 200),
	}

	got := Aggregate(records, GranularityMonth, time.Now())
	if len(got) != 2 {
		t.Fatalf("got %d buckets, want 2", len(got))
	}
	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Unix()
	if got[0].Timestamp != march || got[0].Down != 11 || got[0].Up != 22 {
		t.Errorf("march bucket = %+v, want ts=%d down=11 up=22", got[0], march)
	}
}

func TestAggregate_SortedAscending(t *testing.T) {
	records := []TrafficRecord{
		rec(time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC), 3, 0),
		rec(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), 1, 0),
		rec(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), 2, 0),
	}

	got := Aggregate(records, GranularityHour, time.Now())
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp <= got[i-1].Timestamp {
			t.Fatalf("buckets not ascending at %d: %+v", i, got)
		}
	}
}

func TestAggregate_SkipsMalformed(t *testing.T) {
	records := []TrafficRecord{
		{Timestamp: "not-a-time", Down: 999},
		rec(time.Date(2024, 3, 10, 9, 5, 0, 0, time.UTC), 7, 0),
	}

	got := Aggregate(records, GranularityHour, time.Now())
	if len(got) != 1 || got[0].Down != 7 {
		t.Errorf("got %+v, want single bucket with down=7", got)
	}
}

func TestResolveRange(t *testing.T) {
	tests := []struct {
		key   string
		want  string
		hours int
		g     Granularity
	}{
		{"7days", "7days", 168, GranularityHour},
		{"month", "month", 720, GranularityDay},
		{"year", "year", 8760, GranularityMonth},
		{"all", "all", 876000, GranularityYear},
		{"MONTH", "month", 720, GranularityDay},
		{"bogus", "year", 8760, GranularityMonth},
		{"", "year", 8760, GranularityMonth},
	}
	for _, tt := range tests {
		key, hours, g := ResolveRange(tt.key)
		if key != tt.want || hours != tt.hours || g != tt.g {
			t.Errorf("ResolveRange(%q) = (%s, %d, %s), want (%s, %d, %s)",
				tt.key, key, hours, g, tt.want, tt.hours, tt.g)
		}
	}
}

func TestGranularityTruncate(t *testing.T) {
	ts := time.Date(2024, 7, 19, 14, 35, 42, 123, time.UTC)
	tests := []struct {
		g    Granularity
		want time.Time
	}{
		{GranularityHour, time.Date(2024, 7, 19, 14, 0, 0, 0, time.UTC)},
		{GranularityDay, time.Date(2024, 7, 19, 0, 0, 0, 0, time.UTC)},
		{GranularityMonth, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
		{GranularityYear, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := tt.g.Truncate(ts); !got.Equal(tt.want) {
			t.Errorf("%s.Truncate = %v, want %v", tt.g, got, tt.want)
		}
	}
}
