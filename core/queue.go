package core

import "sync"

// RecordQueue decouples the sampler from disk I/O. Push never blocks and
// never drops: the buffer grows until the scheduler drains it. Wait exposes
// a wake-up channel so the consumer blocks instead of polling.
type RecordQueue struct {
	mu  sync.Mutex
	buf []TrafficRecord
	sig chan struct{}
}

func NewRecordQueue() *RecordQueue {
	return &RecordQueue{sig: make(chan struct{}, 1)}
}

func (q *RecordQueue) Push(rec TrafficRecord) {
	q.mu.Lock()
	q.buf = append(q.buf, rec)
	q.mu.Unlock()
	select {
	case q.sig <- struct{}{}:
	default:
	}
}

// Wait returns a channel that receives after a Push. The signal is
// coalesced; one receive may cover any number of pushes.
func (q *RecordQueue) Wait() <-chan struct{} {
	return q.sig
}

// Drain removes and returns all queued records.
func (q *RecordQueue) Drain() []TrafficRecord {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.buf
	q.buf = nil
	return out
}

func (q *RecordQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}
