package core

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// PersistenceScheduler owns everything that touches disk: it drains the
// sampler's queue into the store, flushes store and usage counters on a
// fixed cadence, rolls completed hours into the SQLite archive, and runs
// the weekly retention sweep. The sampler never blocks on any of it.
type PersistenceScheduler struct {
	store     *HistoryStore
	queue     *RecordQueue
	sampler   *Sampler
	archive   *Archive
	cron      *cron.Cron
	usagePath string
	flush     time.Duration
	retention time.Duration
	stopCh    chan struct{}
	done      chan struct{}

	// Unix start of the newest fully-archived hour. Rollups only read raw
	// records from later hours, so retention sweeps and FIFO eviction of
	// raw records can never shrink a bucket that is already in the archive.
	rollupMark int64
}

func NewPersistenceScheduler(store *HistoryStore, queue *RecordQueue, sampler *Sampler, archive *Archive, cfg *Config) *PersistenceScheduler {
	flush := time.Duration(cfg.FlushIntervalSec) * time.Second
	if flush <= 0 {
		flush = 30 * time.Second
	}
	days := cfg.RetentionDays
	if days <= 0 {
		days = 365
	}
	p := &PersistenceScheduler{
		store:     store,
		queue:     queue,
		sampler:   sampler,
		archive:   archive,
		cron:      cron.New(),
		usagePath: cfg.UsageFile(),
		flush:     flush,
		retention: time.Duration(days) * 24 * time.Hour,
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
	if archive != nil {
		ts, err := archive.MaxBucket()
		if err != nil {
			log.Printf("Scheduler: cannot read archive high-water mark: %v", err)
		}
		p.rollupMark = ts
	}
	return p
}

func (p *PersistenceScheduler) Start() {
	go p.drainLoop()

	if _, err := p.cron.AddFunc("@hourly", p.rollup); err != nil {
		log.Printf("Scheduler: cannot schedule rollup: %v", err)
	}
	if _, err := p.cron.AddFunc("@weekly", p.sweep); err != nil {
		log.Printf("Scheduler: cannot schedule retention sweep: %v", err)
	}
	p.cron.Start()
}

// Stop drains whatever is queued and performs a final best-effort flush.
func (p *PersistenceScheduler) Stop() {
	close(p.stopCh)
	<-p.done
	ctx := p.cron.Stop()
	<-ctx.Done()
}

func (p *PersistenceScheduler) drainLoop() {
	ticker := time.NewTicker(p.flush)
	defer ticker.Stop()
	for {
		select {
		case <-p.queue.Wait():
			p.drain()
		case <-ticker.C:
			p.drain()
			p.flushAll()
		case <-p.stopCh:
			p.drain()
			p.flushAll()
			close(p.done)
			return
		}
	}
}

func (p *PersistenceScheduler) drain() {
	for _, rec := range p.queue.Drain() {
		p.store.Append(rec)
	}
}

func (p *PersistenceScheduler) flushAll() {
	if err := p.store.Persist(); err != nil {
		log.Printf("Scheduler: history persist error: %v", err)
	}
	if err := SaveUsage(p.usagePath, p.sampler.Usage()); err != nil {
		log.Printf("Scheduler: usage save error: %v", err)
	}
}

// rollup upserts completed hourly buckets into the archive. The current
// hour is still accumulating and is left out, and hours at or below the
// high-water mark are never re-read: once an hour is archived its raw
// records may be evicted without touching the archived sums.
func (p *PersistenceScheduler) rollup() {
	if p.archive == nil {
		return
	}
	now := time.Now()
	hourStart := GranularityHour.Truncate(now)
	start := time.Time{}
	if p.rollupMark > 0 {
		start = time.Unix(p.rollupMark, 0).Add(time.Hour)
	}
	records := p.store.Range(start, hourStart.Add(-time.Nanosecond))
	if len(records) == 0 {
		return
	}
	buckets := Aggregate(records, GranularityHour, now)
	if err := p.archive.UpsertBuckets(buckets); err != nil {
		log.Printf("Scheduler: archive rollup error: %v", err)
		return
	}
	p.rollupMark = buckets[len(buckets)-1].Timestamp
	log.Printf("Scheduler: rolled up %d records into %d hourly buckets", len(records), len(buckets))
}

func (p *PersistenceScheduler) sweep() {
	p.SweepOlderThan(time.Now().Add(-p.retention))
}

// SweepOlderThan evicts records older than cutoff and returns how many
// were removed. Also exposed to the prune endpoint.
func (p *PersistenceScheduler) SweepOlderThan(cutoff time.Time) int {
	removed := p.store.EvictOlderThan(cutoff)
	if len(removed) > 0 {
		log.Printf("Retention sweep: removed %d records older than %s", len(removed), cutoff.Format(time.RFC3339))
	}
	return len(removed)
}
