package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)

	DeadLetterTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDeadLetter,
			Help: HelpTextDeadLetter,
		},
	)
)

// Game Metrics
var (
	ClicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameClicks,
			Help: HelpTextClicks,
		},
	)

	PurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePurchases,
			Help: HelpTextPurchases,
		},
		[]string{LabelResult},
	)

	LevelUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLevelUps,
			Help: HelpTextLevelUps,
		},
	)

	MilestonesUnlockedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMilestonesUnlocked,
			Help: HelpTextMilestonesUnlocked,
		},
		[]string{LabelMilestone},
	)

	SavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSaves,
			Help: HelpTextSaves,
		},
		[]string{LabelBackend, LabelResult},
	)

	OfflineReportsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameOfflineReports,
			Help: HelpTextOfflineReports,
		},
	)

	MoneyEarned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameMoneyEarned,
			Help: HelpTextMoneyEarned,
		},
	)

	MoneySpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameMoneySpent,
			Help: HelpTextMoneySpent,
		},
	)

	ExperienceEarned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameExperienceEarned,
			Help: HelpTextExperienceEarned,
		},
	)
)

// RegisterSessionGauge exposes the resident session count as a gauge that
// reads through the given function on every scrape. Call once at startup.
func RegisterSessionGauge(count func() int) {
	promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: MetricNameSessionsActive,
			Help: HelpTextSessionsActive,
		},
		func() float64 { return float64(count()) },
	)
}
