package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "code"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "code"},
	)

	// Kafka
	kafkaMessagesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kafka_messages_sent_total",
			Help: "Total number of Kafka messages successfully sent.",
		},
	)
	kafkaMessagesProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Total number of Kafka messages successfully processed.",
		},
	)
	kafkaErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_errors_total",
			Help: "Total number of Kafka-related errors.",
		},
		[]string{"component", "operation"},
	)
	kafkaConsumerLag = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kafka_consumer_lag",
			Help: "Kafka consumer lag (high watermark - current offset - 1).",
		},
		[]string{"topic", "partition"},
	)

	// Business
	inquiriesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inquiries_created_total",
			Help: "Total number of inquiries accepted via the public endpoints.",
		},
	)
	inquiriesCategorized = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiries_categorized_total",
			Help: "Number of inquiries categorized, by resulting category.",
		},
		[]string{"category"},
	)
	categorizationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inquiry_categorization_failures_total",
			Help: "Total number of failed categorization attempts.",
		},
	)
	batchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inquiry_batch_duration_seconds",
			Help:    "Duration of one claim-and-categorize batch run.",
			Buckets: prometheus.DefBuckets,
		},
	)
	batchClaimed = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inquiry_batch_claimed",
			Help:    "Number of inquiries claimed per batch run.",
			Buckets: []float64{0, 1, 2, 5, 10, 20},
		},
	)
	inquiryStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "inquiry_status_count",
			Help: "Current count of inquiries by status.",
		},
		[]string{"status"},
	)
	uncategorizedBacklog = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "inquiry_uncategorized_count",
			Help: "Current number of inquiries awaiting categorization.",
		},
	)
	emailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_emails_sent_total",
			Help: "Total number of response emails sent, by transport.",
		},
		[]string{"transport"},
	)
	voiceCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_commands_total",
			Help: "Total number of voice commands processed, by parsed action.",
		},
		[]string{"action"},
	)

	// Outbox
	outboxMessagesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "outbox_messages_count",
			Help: "Current count of outbox messages by status.",
		},
		[]string{"status"},
	)
	outboxMessagesSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "outbox_messages_sent_total",
			Help: "Total number of outbox messages marked as sent.",
		},
	)
	outboxMessagesFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "outbox_messages_failed_total",
			Help: "Total number of outbox messages marked as failed.",
		},
	)
	outboxProcessingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "outbox_processing_duration_seconds",
			Help:    "Time spent sending a single outbox message (seconds).",
			Buckets: prometheus.DefBuckets,
		},
	)
	outboxRetryCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "outbox_retries_total",
			Help: "Total number of outbox send retries (failed attempts).",
		},
	)
	outboxLagSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "outbox_lag_seconds",
			Help:    "Lag between outbox message creation and send attempt (seconds).",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
	)
	outboxPendingCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "outbox_pending_count",
			Help: "Current number of pending outbox messages.",
		},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,

			kafkaMessagesSent,
			kafkaMessagesProcessed,
			kafkaErrors,
			kafkaConsumerLag,

			inquiriesCreated,
			inquiriesCategorized,
			categorizationFailures,
			batchDuration,
			batchClaimed,
			inquiryStatus,
			uncategorizedBacklog,
			emailsSent,
			voiceCommands,

			outboxMessagesTotal,
			outboxMessagesSentTotal,
			outboxMessagesFailedTotal,
			outboxProcessingDuration,
			outboxRetryCount,
			outboxLagSeconds,
			outboxPendingCount,
		)
		registerRedisMetrics()
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// --- HTTP ---
func ObserveHTTPRequest(method, route, code string, d time.Duration) {
	httpRequests.WithLabelValues(method, route, code).Inc()
	httpDuration.WithLabelValues(method, route, code).Observe(d.Seconds())
}

// --- Kafka ---
func IncKafkaSent()      { kafkaMessagesSent.Inc() }
func IncKafkaProcessed() { kafkaMessagesProcessed.Inc() }
func IncKafkaError(component, operation string) {
	kafkaErrors.WithLabelValues(component, operation).Inc()
}
func SetKafkaConsumerLag(topic string, partition int32, lag int64) {
	if lag < 0 {
		lag = 0
	}
	kafkaConsumerLag.WithLabelValues(topic, strconv.Itoa(int(partition))).Set(float64(lag))
}

// --- Business ---
func IncInquiriesCreated()          { inquiriesCreated.Inc() }
func IncInquiryCategorized(c string) { inquiriesCategorized.WithLabelValues(c).Inc() }
func IncCategorizationFailure()     { categorizationFailures.Inc() }
func ObserveBatchDuration(d time.Duration) { batchDuration.Observe(d.Seconds()) }
func ObserveBatchClaimed(n int)     { batchClaimed.Observe(float64(max0(n))) }
func IncEmailSent(transport string) { emailsSent.WithLabelValues(transport).Inc() }
func IncVoiceCommand(action string) { voiceCommands.WithLabelValues(action).Inc() }

// --- Outbox ---
func IncOutboxSent()                          { outboxMessagesSentTotal.Inc() }
func IncOutboxFailed()                        { outboxMessagesFailedTotal.Inc() }
func ObserveOutboxProcessing(d time.Duration) { outboxProcessingDuration.Observe(d.Seconds()) }
func IncOutboxRetry()                         { outboxRetryCount.Inc() }
func ObserveOutboxLagSeconds(sec float64) {
	if sec < 0 {
		sec = 0
	}
	outboxLagSeconds.Observe(sec)
}

// --- Gauges (DB collectors) ---
func SetInquiryStatusCount(status string, count int64) {
	if count < 0 {
		count = 0
	}
	inquiryStatus.WithLabelValues(status).Set(float64(count))
}
func SetUncategorizedCount(count int64) {
	if count < 0 {
		count = 0
	}
	uncategorizedBacklog.Set(float64(count))
}
func SetOutboxStatusCount(status string, count int64) {
	if count < 0 {
		count = 0
	}
	outboxMessagesTotal.WithLabelValues(status).Set(float64(count))
}
func SetOutboxPendingCount(count int64) {
	if count < 0 {
		count = 0
	}
	outboxPendingCount.Set(float64(count))
}

// helpers
func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
