package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "gameclicker_http_requests_total"
	MetricNameHTTPRequestDuration  = "gameclicker_http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "gameclicker_http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "gameclicker_events_published_total"
	MetricNameEventHandlerErrors = "gameclicker_event_handler_errors_total"
	MetricNameDeadLetter         = "gameclicker_dead_letter_total"
)

// Game metric names
const (
	MetricNameClicks             = "gameclicker_clicks_total"
	MetricNamePurchases          = "gameclicker_purchases_total"
	MetricNameLevelUps           = "gameclicker_level_ups_total"
	MetricNameMilestonesUnlocked = "gameclicker_milestones_unlocked_total"
	MetricNameSaves              = "gameclicker_saves_total"
	MetricNameOfflineReports     = "gameclicker_offline_reports_total"
	MetricNameSessionsActive     = "gameclicker_sessions_active"
	MetricNameMoneyEarned        = "gameclicker_money_earned_total"
	MetricNameMoneySpent         = "gameclicker_money_spent_total"
	MetricNameExperienceEarned   = "gameclicker_experience_earned_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
	HelpTextDeadLetter         = "Total number of events written to the dead-letter file"
)

// Game metric help text
const (
	HelpTextClicks             = "Total number of clicks performed"
	HelpTextPurchases          = "Total number of upgrade purchase attempts by result"
	HelpTextLevelUps           = "Total number of level ups"
	HelpTextMilestonesUnlocked = "Total number of milestones unlocked"
	HelpTextSaves              = "Total number of save attempts by backend and result"
	HelpTextOfflineReports     = "Total number of offline progress reports applied"
	HelpTextSessionsActive     = "Current number of resident player sessions"
	HelpTextMoneyEarned        = "Total money earned across all profiles"
	HelpTextMoneySpent         = "Total money spent across all profiles"
	HelpTextExperienceEarned   = "Total experience earned across all profiles"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelResult    = "result"
	LabelBackend   = "backend"
	LabelMilestone = "milestone"
)

// Values for the purchase and save result label
const (
	ResultOK                = "ok"
	ResultInsufficientFunds = "insufficient_funds"
	ResultLocked            = "locked"
	ResultMaxLevel          = "max_level"
	ResultNotFound          = "not_found"
	ResultError             = "error"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgPayloadDecodeFailed = "Could not decode event payload for metrics"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)
