package core

import (
	"log"
	"sync"
	"time"
)

// LiveStats is the most recent rate and daily cumulative totals, read as
// one consistent snapshot.
type LiveStats struct {
	DownBps   int64 `json:"down_bps"`
	UpBps     int64 `json:"up_bps"`
	TotalDown int64 `json:"total_down"`
	TotalUp   int64 `json:"total_up"`
}

// Sampler polls cumulative counters once per second, converts them to
// per-interval deltas and publishes one record per tick. It never touches
// disk on the tick path; persistence happens on the scheduler side of the
// queue.
type Sampler struct {
	src       CounterSource
	queue     *RecordQueue
	usagePath string
	interval  time.Duration
	stopCh    chan struct{}

	mu        sync.Mutex
	paused    bool
	primed    bool
	prevRecv  uint64
	prevSent  uint64
	downBps   int64
	upBps     int64
	totalDown int64
	totalUp   int64
	usageDate string
}

func NewSampler(src CounterSource, queue *RecordQueue, cfg *Config) *Sampler {
	interval := time.Duration(cfg.SampleIntervalSec) * time.Second
	if interval <= 0 {
		interval = time.Second
	}
	s := &Sampler{
		src:       src,
		queue:     queue,
		usagePath: cfg.UsageFile(),
		interval:  interval,
		stopCh:    make(chan struct{}),
	}

	now := time.Now()
	snap := LoadUsage(s.usagePath, now)
	today := now.Format(DateLayout)
	if snap.Date != today {
		// Stale usage file: the day rolled over while we were down.
		snap = UsageSnapshot{Date: today}
		if err := SaveUsage(s.usagePath, snap); err != nil {
			log.Printf("Sampler: cannot reset usage file: %v", err)
		}
	}
	s.usageDate = snap.Date
	s.totalDown = snap.Down
	s.totalUp = snap.Up

	if recv, sent, err := src.Counters(); err == nil {
		s.prevRecv, s.prevSent = recv, sent
		s.primed = true
	} else {
		log.Printf("Sampler: initial counter read failed: %v", err)
	}
	return s
}

func (s *Sampler) Start() {
	log.Printf("Sampler: started (source=%s, interval=%s)", s.src.Name(), s.interval)
	go s.loop()
}

func (s *Sampler) Stop() {
	close(s.stopCh)
}

func (s *Sampler) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sampleOnce()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Sampler) SetPaused(p bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = p
}

func (s *Sampler) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Live returns the current snapshot.
func (s *Sampler) Live() LiveStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return LiveStats{
		DownBps:   s.downBps,
		UpBps:     s.upBps,
		TotalDown: s.totalDown,
		TotalUp:   s.totalUp,
	}
}

// Usage returns the daily counters for the scheduler's periodic save.
func (s *Sampler) Usage() UsageSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return UsageSnapshot{
		Date:  s.usageDate,
		Down:  s.totalDown,
		Up:    s.totalUp,
		Total: s.totalDown + s.totalUp,
	}
}

func (s *Sampler) sampleOnce() {
	s.sampleAt(time.Now())
}

func (s *Sampler) sampleAt(now time.Time) {
	if s.IsPaused() {
		return
	}

	// The counter read can stall on a slow kernel or wgctrl call, so it
	// happens before the lock; Live and Usage stay responsive throughout.
	recv, sent, err := s.src.Counters()
	if err != nil {
		log.Printf("Sampler: counter read error: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused {
		return
	}

	if !s.primed {
		s.prevRecv, s.prevSent = recv, sent
		s.primed = true
		return
	}

	// Clamp negative deltas from counter wraparound or interface reset.
	down := int64(recv) - int64(s.prevRecv)
	if down < 0 {
		down = 0
	}
	up := int64(sent) - int64(s.prevSent)
	if up < 0 {
		up = 0
	}
	s.prevRecv, s.prevSent = recv, sent

	today := now.Format(DateLayout)
	if today != s.usageDate {
		// Day boundary crossed mid-run: totals restart from this delta.
		// The next scheduler flush persists the reset.
		s.usageDate = today
		s.totalDown = 0
		s.totalUp = 0
	}

	// Interval is one second, so the delta doubles as bytes/sec.
	s.downBps = down
	s.upBps = up
	s.totalDown += down
	s.totalUp += up

	s.queue.Push(NewTrafficRecord(now, down, up, s.totalDown, s.totalUp))
}
