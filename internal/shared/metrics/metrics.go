package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	reminderRunsTotal     atomic.Uint64
	remindersSentTotal    atomic.Uint64
	pushDeliveredTotal    atomic.Uint64
	pushFailedTotal       atomic.Uint64
	subscriptionsPruned   atomic.Uint64
	reminderRunDurationMs = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000, 15000})
)

// IncReminderRun increments the reminder sweep counter.
func IncReminderRun() {
	reminderRunsTotal.Add(1)
}

// AddRemindersSent adds to the notified-reminder counter.
func AddRemindersSent(n int) {
	if n > 0 {
		remindersSentTotal.Add(uint64(n))
	}
}

// IncPushDelivered increments the successful delivery counter.
func IncPushDelivered() {
	pushDeliveredTotal.Add(1)
}

// IncPushFailed increments the failed delivery counter.
func IncPushFailed() {
	pushFailedTotal.Add(1)
}

// IncSubscriptionPruned increments the pruned-endpoint counter.
func IncSubscriptionPruned() {
	subscriptionsPruned.Add(1)
}

// ObserveReminderRunDurationMs records a sweep duration in milliseconds.
func ObserveReminderRunDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	reminderRunDurationMs.Observe(value)
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
	writeCounter(&buf, "reminder_runs_total", "Total reminder sweeps executed", reminderRunsTotal.Load())
	writeCounter(&buf, "reminders_sent_total", "Total reminders with at least one delivery", remindersSentTotal.Load())
	writeCounter(&buf, "push_delivered_total", "Total successful push deliveries", pushDeliveredTotal.Load())
	writeCounter(&buf, "push_failed_total", "Total failed push deliveries", pushFailedTotal.Load())
	writeCounter(&buf, "subscriptions_pruned_total", "Total push subscriptions pruned on permanent failure", subscriptionsPruned.Load())
	writeHistogram(&buf, "reminder_run_duration_ms", "Reminder sweep duration in milliseconds", reminderRunDurationMs.Snapshot())
	return buf.String()
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

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
