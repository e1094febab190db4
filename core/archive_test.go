package core

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := NewArchive(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestArchive_UpsertAndRange(t *testing.T) {
	a := newTestArchive(t)
	h0 := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	h1 := h0.Add(time.Hour)

	err := a.UpsertBuckets([]Bucket{
		{Timestamp: h0.Unix(), Down: 100, Up: 10},
		{Timestamp: h1.Unix(), Down: 200, Up: 20},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := a.Range(h0, h1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Range returned %d buckets, want 2", len(got))
	}
	if got[0].Down != 100 || got[1].Down != 200 {
		t.Errorf("buckets = %+v, want down 100 then 200", got)
	}
}

func TestArchive_UpsertReplacesBucket(t *testing.T) {
	a := newTestArchive(t)
	h0 := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)

	if err := a.UpsertBuckets([]Bucket{{Timestamp: h0.Unix(), Down: 100, Up: 10}}); err != nil {
		t.Fatal(err)
	}
	// Re-rolling the hour after more records arrived replaces the row.
	if err := a.UpsertBuckets([]Bucket{{Timestamp: h0.Unix(), Down: 150, Up: 15}}); err != nil {
		t.Fatal(err)
	}

	got, err := a.Range(h0, h0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Down != 150 || got[0].Up != 15 {
		t.Errorf("bucket after re-roll = %+v, want down=150 up=15", got)
	}

	n, err := a.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestArchive_MaxBucket(t *testing.T) {
	a := newTestArchive(t)

	ts, err := a.MaxBucket()
	if err != nil {
		t.Fatal(err)
	}
	if ts != 0 {
		t.Errorf("MaxBucket on empty archive = %d, want 0", ts)
	}

	h0 := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	h1 := h0.Add(time.Hour)
	err = a.UpsertBuckets([]Bucket{
		{Timestamp: h1.Unix(), Down: 200, Up: 20},
		{Timestamp: h0.Unix(), Down: 100, Up: 10},
	})
	if err != nil {
		t.Fatal(err)
	}

	ts, err = a.MaxBucket()
	if err != nil {
		t.Fatal(err)
	}
	if ts != h1.Unix() {
		t.Errorf("MaxBucket = %d, want %d", ts, h1.Unix())
	}
}

func TestArchive_EmptyRange(t *testing.T) {
	a := newTestArchive(t)
	got, err := a.Range(time.Unix(0, 0), time.Unix(1000, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Range on empty archive returned %d buckets", len(got))
	}
}
