package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mnohosten/versionvec/pkg/concurrent"
)

// Collector tracks the store's operation counters and query latency
// distribution. Counters are lock-free concurrent.Counters; the histogram
// keeps its own lock for the recent-timings slice used in percentile
// calculation.
type Collector struct {
	transactionsBegun     *concurrent.Counter
	transactionsCommitted *concurrent.Counter
	transactionsAborted   *concurrent.Counter

	inserts        *concurrent.Counter
	updates        *concurrent.Counter
	deletes        *concurrent.Counter
	reads          *concurrent.Counter
	writeConflicts *concurrent.Counter
	alreadyExists  *concurrent.Counter
	notFound       *concurrent.Counter

	queryTimings *TimingHistogram

	startTime time.Time
}

// TimingHistogram buckets timing samples and retains a bounded recent
// window for percentile estimates.
type TimingHistogram struct {
	bucket0_1ms      uint64
	bucket1_10ms     uint64
	bucket10_100ms   uint64
	bucket100_1000ms uint64
	bucket1000ms     uint64

	mu               sync.Mutex
	recentTimings    []time.Duration
	maxRecentTimings int
}

// NewCollector creates a new, zeroed metrics collector.
func NewCollector() *Collector {
	return &Collector{
		transactionsBegun:     concurrent.NewCounter(),
		transactionsCommitted: concurrent.NewCounter(),
		transactionsAborted:   concurrent.NewCounter(),
		inserts:               concurrent.NewCounter(),
		updates:               concurrent.NewCounter(),
		deletes:               concurrent.NewCounter(),
		reads:                 concurrent.NewCounter(),
		writeConflicts:        concurrent.NewCounter(),
		alreadyExists:         concurrent.NewCounter(),
		notFound:              concurrent.NewCounter(),
		queryTimings:          NewTimingHistogram(1000),
		startTime:             time.Now(),
	}
}

// NewTimingHistogram creates an empty histogram retaining up to maxRecent
// timings for percentile calculation.
func NewTimingHistogram(maxRecent int) *TimingHistogram {
	return &TimingHistogram{
		recentTimings:    make([]time.Duration, 0, maxRecent),
		maxRecentTimings: maxRecent,
	}
}

func (c *Collector) RecordBegin()         { c.transactionsBegun.Inc() }
func (c *Collector) RecordCommit()        { c.transactionsCommitted.Inc() }
func (c *Collector) RecordAbort()         { c.transactionsAborted.Inc() }
func (c *Collector) RecordInsert()        { c.inserts.Inc() }
func (c *Collector) RecordUpdate()        { c.updates.Inc() }
func (c *Collector) RecordDelete()        { c.deletes.Inc() }
func (c *Collector) RecordWriteConflict() { c.writeConflicts.Inc() }
func (c *Collector) RecordAlreadyExists() { c.alreadyExists.Inc() }
func (c *Collector) RecordNotFound()      { c.notFound.Inc() }

// RecordQuery records a read/query operation's latency.
func (c *Collector) RecordQuery(d time.Duration) {
	c.reads.Inc()
	c.queryTimings.Record(d)
}

// Record adds a timing sample to the histogram, both the fixed bucket and
// the percentile window.
func (th *TimingHistogram) Record(duration time.Duration) {
	ms := duration.Milliseconds()
	switch {
	case ms < 1:
		atomic.AddUint64(&th.bucket0_1ms, 1)
	case ms < 10:
		atomic.AddUint64(&th.bucket1_10ms, 1)
	case ms < 100:
		atomic.AddUint64(&th.bucket10_100ms, 1)
	case ms < 1000:
		atomic.AddUint64(&th.bucket100_1000ms, 1)
	default:
		atomic.AddUint64(&th.bucket1000ms, 1)
	}

	th.mu.Lock()
	defer th.mu.Unlock()
	if len(th.recentTimings) >= th.maxRecentTimings {
		th.recentTimings = th.recentTimings[1:]
	}
	th.recentTimings = append(th.recentTimings, duration)
}

// GetBuckets returns the fixed-bucket histogram counts.
func (th *TimingHistogram) GetBuckets() map[string]uint64 {
	return map[string]uint64{
		"0-1ms":      atomic.LoadUint64(&th.bucket0_1ms),
		"1-10ms":     atomic.LoadUint64(&th.bucket1_10ms),
		"10-100ms":   atomic.LoadUint64(&th.bucket10_100ms),
		"100-1000ms": atomic.LoadUint64(&th.bucket100_1000ms),
		">1000ms":    atomic.LoadUint64(&th.bucket1000ms),
	}
}

// GetPercentiles computes p50/p95/p99 over the retained recent window.
func (th *TimingHistogram) GetPercentiles() map[string]time.Duration {
	th.mu.Lock()
	defer th.mu.Unlock()

	if len(th.recentTimings) == 0 {
		return map[string]time.Duration{"p50": 0, "p95": 0, "p99": 0}
	}

	sorted := make([]time.Duration, len(th.recentTimings))
	copy(sorted, th.recentTimings)
	for i := 1; i < len(sorted); i++ {
		key := sorted[i]
		j := i - 1
		for j >= 0 && sorted[j] > key {
			sorted[j+1] = sorted[j]
			j--
		}
		sorted[j+1] = key
	}

	return map[string]time.Duration{
		"p50": sorted[len(sorted)*50/100],
		"p95": sorted[len(sorted)*95/100],
		"p99": sorted[len(sorted)*99/100],
	}
}

// Snapshot is a point-in-time view of every counter, for the health/metrics
// endpoints and for the Prometheus exporter.
type Snapshot struct {
	UptimeSeconds         float64
	TransactionsBegun     uint64
	TransactionsCommitted uint64
	TransactionsAborted   uint64
	Inserts               uint64
	Updates               uint64
	Deletes               uint64
	Reads                 uint64
	WriteConflicts        uint64
	AlreadyExists         uint64
	NotFound              uint64
	QueryBuckets          map[string]uint64
	QueryPercentiles      map[string]time.Duration
}

// Snapshot reads every counter without locking the whole collector —
// individual atomics and the histogram's own lock are sufficient.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		UptimeSeconds:         time.Since(c.startTime).Seconds(),
		TransactionsBegun:     c.transactionsBegun.Load(),
		TransactionsCommitted: c.transactionsCommitted.Load(),
		TransactionsAborted:   c.transactionsAborted.Load(),
		Inserts:               c.inserts.Load(),
		Updates:               c.updates.Load(),
		Deletes:               c.deletes.Load(),
		Reads:                 c.reads.Load(),
		WriteConflicts:        c.writeConflicts.Load(),
		AlreadyExists:         c.alreadyExists.Load(),
		NotFound:              c.notFound.Load(),
		QueryBuckets:          c.queryTimings.GetBuckets(),
		QueryPercentiles:      c.queryTimings.GetPercentiles(),
	}
}
