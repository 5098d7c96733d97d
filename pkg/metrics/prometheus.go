package metrics

import (
	"fmt"
	"io"
	"time"
)

// PrometheusExporter exports the collector's counters in Prometheus text
// exposition format. No prometheus/client_golang dependency is introduced
// here — the teacher hand-rolls this format, and so does this module.
type PrometheusExporter struct {
	collector *Collector
	namespace string
}

// NewPrometheusExporter builds an exporter for collector under the given
// metric namespace prefix (e.g. "versionvec").
func NewPrometheusExporter(collector *Collector, namespace string) *PrometheusExporter {
	return &PrometheusExporter{collector: collector, namespace: namespace}
}

// WriteMetrics writes every counter, histogram, and percentile gauge to w.
func (pe *PrometheusExporter) WriteMetrics(w io.Writer) error {
	snap := pe.collector.Snapshot()

	if err := pe.writeGauge(w, "uptime_seconds", "Store uptime in seconds", snap.UptimeSeconds); err != nil {
		return err
	}

	if err := pe.writeCounter(w, "transactions_begun_total", "Total transactions begun", snap.TransactionsBegun); err != nil {
		return err
	}
	if err := pe.writeCounter(w, "transactions_committed_total", "Total transactions committed", snap.TransactionsCommitted); err != nil {
		return err
	}
	if err := pe.writeCounter(w, "transactions_aborted_total", "Total transactions aborted", snap.TransactionsAborted); err != nil {
		return err
	}

	if err := pe.writeCounter(w, "inserts_total", "Total insert operations", snap.Inserts); err != nil {
		return err
	}
	if err := pe.writeCounter(w, "updates_total", "Total update operations", snap.Updates); err != nil {
		return err
	}
	if err := pe.writeCounter(w, "deletes_total", "Total delete operations", snap.Deletes); err != nil {
		return err
	}
	if err := pe.writeCounter(w, "reads_total", "Total read/query operations", snap.Reads); err != nil {
		return err
	}

	if err := pe.writeCounter(w, "write_conflicts_total", "Total write-conflict rejections", snap.WriteConflicts); err != nil {
		return err
	}
	if err := pe.writeCounter(w, "already_exists_total", "Total duplicate-insert rejections", snap.AlreadyExists); err != nil {
		return err
	}
	if err := pe.writeCounter(w, "not_found_total", "Total not-found rejections", snap.NotFound); err != nil {
		return err
	}

	if err := pe.writeHistogram(w, "query_duration_seconds", "Read/query latency histogram", snap.QueryBuckets); err != nil {
		return err
	}
	return pe.writePercentiles(w, "query_duration_seconds", snap.QueryPercentiles)
}

func (pe *PrometheusExporter) writeCounter(w io.Writer, name, help string, value uint64) error {
	metricName := pe.namespace + "_" + name
	_, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %d\n",
		metricName, help, metricName, metricName, value)
	return err
}

func (pe *PrometheusExporter) writeGauge(w io.Writer, name, help string, value float64) error {
	metricName := pe.namespace + "_" + name
	_, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s gauge\n%s %g\n",
		metricName, help, metricName, metricName, value)
	return err
}

func (pe *PrometheusExporter) writeHistogram(w io.Writer, name, help string, buckets map[string]uint64) error {
	metricName := pe.namespace + "_" + name
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s histogram\n", metricName, help, metricName); err != nil {
		return err
	}

	var cumulative uint64
	for _, b := range []struct {
		key string
		le  string
	}{
		{"0-1ms", "0.001"},
		{"1-10ms", "0.01"},
		{"10-100ms", "0.1"},
		{"100-1000ms", "1.0"},
		{">1000ms", "+Inf"},
	} {
		cumulative += buckets[b.key]
		if _, err := fmt.Fprintf(w, "%s_bucket{le=\"%s\"} %d\n", metricName, b.le, cumulative); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s_count %d\n", metricName, cumulative)
	return err
}

func (pe *PrometheusExporter) writePercentiles(w io.Writer, baseName string, percentiles map[string]time.Duration) error {
	for _, p := range []string{"p50", "p95", "p99"} {
		if err := pe.writeGauge(w, baseName+"_"+p,
			fmt.Sprintf("%s percentile of %s", p, baseName),
			percentiles[p].Seconds()); err != nil {
			return err
		}
	}
	return nil
}
