package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	jobsCreatedTotal   atomic.Uint64
	jobsCompletedTotal atomic.Uint64
	jobsFailedTotal    atomic.Uint64
	jobsDegradedTotal  atomic.Uint64

	workerMessagesReceivedTotal  atomic.Uint64
	workerMessagesDiscardedTotal atomic.Uint64

	generationFailures = newLabeledCounter()
	rendersByFormat    = newLabeledCounter()

	jobDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncJobCreated increments the created counter.
func IncJobCreated() {
	jobsCreatedTotal.Add(1)
}

// IncJobCompleted increments the completed counter.
func IncJobCompleted() {
	jobsCompletedTotal.Add(1)
}

// IncJobFailed increments the failed counter.
func IncJobFailed() {
	jobsFailedTotal.Add(1)
}

// IncJobDegraded increments the degraded-completion counter.
func IncJobDegraded() {
	jobsDegradedTotal.Add(1)
}

// IncWorkerMessageReceived increments the queue messages received counter.
func IncWorkerMessageReceived() {
	workerMessagesReceivedTotal.Add(1)
}

// IncWorkerMessageDiscarded counts messages deleted without processing,
// either unparseable or past their redelivery budget.
func IncWorkerMessageDiscarded() {
	workerMessagesDiscardedTotal.Add(1)
}

// IncGenerationFailure increments the generation failure counter for a kind.
func IncGenerationFailure(kind string) {
	generationFailures.Inc(kind)
}

// IncRender increments the render counter for an output format.
func IncRender(format string) {
	rendersByFormat.Inc(format)
}

// ObserveJobDurationMs records a tailoring job duration in milliseconds.
func ObserveJobDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	jobDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "tailor_jobs_created_total", "Total tailoring jobs created", jobsCreatedTotal.Load())
	writeCounter(&buf, "tailor_jobs_completed_total", "Total tailoring jobs completed", jobsCompletedTotal.Load())
	writeCounter(&buf, "tailor_jobs_failed_total", "Total tailoring jobs failed", jobsFailedTotal.Load())
	writeCounter(&buf, "tailor_jobs_degraded_total", "Total tailoring jobs completed without a cover letter", jobsDegradedTotal.Load())
	writeCounter(&buf, "worker_messages_received_total", "Total queue messages received by the worker", workerMessagesReceivedTotal.Load())
	writeCounter(&buf, "worker_messages_discarded_total", "Total queue messages deleted without processing", workerMessagesDiscardedTotal.Load())
	writeLabeledCounter(&buf, "generation_failures_total", "Total cover letter generation failures by kind", "kind", generationFailures.Snapshot())
	writeLabeledCounter(&buf, "renders_total", "Total artifact renders by format", "format", rendersByFormat.Snapshot())
	writeHistogram(&buf, "tailor_job_duration_ms", "Tailoring job duration in milliseconds", jobDuration.Snapshot())
	return buf.String()
}

type labeledCounter struct {
	mu     sync.Mutex
	counts map[string]uint64
}

func newLabeledCounter() *labeledCounter {
	return &labeledCounter{counts: make(map[string]uint64)}
}

func (lc *labeledCounter) Inc(label string) {
	if label == "" {
		label = "unknown"
	}
	lc.mu.Lock()
	lc.counts[label]++
	lc.mu.Unlock()
}

func (lc *labeledCounter) Snapshot() map[string]uint64 {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	out := make(map[string]uint64, len(lc.counts))
	for k, v := range lc.counts {
		out[k] = v
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help, label string, counts map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, counts[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
