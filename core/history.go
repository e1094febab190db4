package core

import (
	"log"
	"sort"
	"sync"
	"time"
)

// MaxRecords caps the in-memory history at 365 days of one-per-minute
// slots. The sampler emits at 1 Hz, so this acts as a memory safety bound;
// the hourly rollup archive carries the long-range history past it.
const MaxRecords = 525600

// HistoryStore is a bounded, append-only sequence of traffic records
// backed by a single JSON file. It is the only writer to that file.
type HistoryStore struct {
	mu      sync.RWMutex
	path    string
	records []TrafficRecord
	max     int
}

func NewHistoryStore(path string) *HistoryStore {
	s := &HistoryStore{path: path, max: MaxRecords}
	s.load()
	return s
}

// load reads the persisted history, keeping only the most recent entries.
// A missing, empty or corrupt file degrades to an empty store.
func (s *HistoryStore) load() {
	var records []TrafficRecord
	if err := readJSONFile(s.path, &records); err != nil {
		return
	}
	if len(records) > s.max {
		records = records[len(records)-s.max:]
	}
	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
}

// Append adds one record, evicting the oldest first when at capacity.
func (s *HistoryStore) Append(rec TrafficRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) >= s.max {
		drop := len(s.records) - s.max + 1
		s.records = s.records[drop:]
	}
	s.records = append(s.records, rec)
}

func (s *HistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Persist writes the full sequence to disk, replacing the prior file
// atomically. I/O errors are returned for the caller to log; the in-memory
// state remains authoritative either way.
func (s *HistoryStore) Persist() error {
	s.mu.RLock()
	snapshot := make([]TrafficRecord, len(s.records))
	copy(snapshot, s.records)
	s.mu.RUnlock()
	return writeJSONAtomic(s.path, snapshot)
}

// Range returns all records with start <= ts <= end, sorted by timestamp.
// Records whose timestamp does not parse are skipped.
func (s *HistoryStore) Range(start, end time.Time) []TrafficRecord {
	type parsed struct {
		rec TrafficRecord
		ts  time.Time
	}
	s.mu.RLock()
	hits := make([]parsed, 0, len(s.records))
	for _, rec := range s.records {
		ts, err := rec.Time()
		if err != nil {
			continue
		}
		if !ts.Before(start) && !ts.After(end) {
			hits = append(hits, parsed{rec, ts})
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].ts.Before(hits[j].ts) })
	out := make([]TrafficRecord, len(hits))
	for i, h := range hits {
		out[i] = h.rec
	}
	return out
}

// EvictOlderThan removes records strictly older than cutoff and returns
// them. If anything was removed the store persists itself; a failed persist
// is logged, not propagated.
func (s *HistoryStore) EvictOlderThan(cutoff time.Time) []TrafficRecord {
	s.mu.Lock()
	kept := s.records[:0]
	var removed []TrafficRecord
	for _, rec := range s.records {
		ts, err := rec.Time()
		if err == nil && ts.Before(cutoff) {
			removed = append(removed, rec)
			continue
		}
		kept = append(kept, rec)
	}
	s.records = kept
	s.mu.Unlock()

	if len(removed) > 0 {
		log.Printf("HistoryStore: evicted %d records older than %s", len(removed), cutoff.Format(time.RFC3339))
		if err := s.Persist(); err != nil {
			log.Printf("HistoryStore: persist after eviction failed: %v", err)
		}
	}
	return removed
}
