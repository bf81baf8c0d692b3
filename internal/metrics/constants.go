package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Simulation metric names
const (
	MetricNameHeartbeatsTotal     = "heartbeats_total"
	MetricNameHeartbeatDuration   = "heartbeat_duration_seconds"
	MetricNameOwnersSkipped       = "heartbeat_owners_skipped_total"
	MetricNameEngineSteps         = "engine_steps_total"
	MetricNameEngineErrors        = "engine_errors_total"
	MetricNameCatchUpSteps        = "catchup_steps_total"
	MetricNameGateWait            = "gate_wait_seconds"
	MetricNameCachedCharacters    = "cached_characters"
	MetricNameConnectedCharacters = "connected_characters"
	MetricNameDirtyCharacters     = "dirty_characters"
	MetricNameFlushes             = "persistence_flushes_total"
	MetricNameEvictions           = "cache_evictions_total"
	MetricNameRealtimeClients     = "realtime_clients"
)

// Economy metric names
const (
	MetricNameItemsGained   = "items_gained_total"
	MetricNameXPGained      = "xp_gained_total"
	MetricNameSilverGained  = "silver_gained_total"
	MetricNameLevelUps      = "level_ups_total"
	MetricNamePaymentCredit = "payment_credit_total"
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
)

// Simulation metric help text
const (
	HelpTextHeartbeatsTotal     = "Total number of heartbeats run"
	HelpTextHeartbeatDuration   = "Time spent dispatching one heartbeat"
	HelpTextOwnersSkipped       = "Owners skipped by a heartbeat"
	HelpTextEngineSteps         = "Engine steps executed"
	HelpTextEngineErrors        = "Engine steps that cleared a task because of an error"
	HelpTextCatchUpSteps        = "Engine steps replayed by offline catch-up"
	HelpTextGateWait            = "Time spent waiting for a per-owner gate"
	HelpTextCachedCharacters    = "Characters held in the in-memory cache"
	HelpTextConnectedCharacters = "Characters with a connected client"
	HelpTextDirtyCharacters     = "Characters with unflushed changes"
	HelpTextFlushes             = "Character writes attempted by the flusher"
	HelpTextEvictions           = "Characters evicted from the cache"
	HelpTextRealtimeClients     = "Connected realtime clients"
)

// Economy metric help text
const (
	HelpTextItemsGained   = "Items granted by engine steps"
	HelpTextXPGained      = "Skill XP granted by engine steps"
	HelpTextSilverGained  = "Silver granted by engine steps"
	HelpTextLevelUps      = "Skill level-ups"
	HelpTextPaymentCredit = "Silver credited by confirmed payments"
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
	LabelKind      = "kind"
	LabelReason    = "reason"
	LabelResult    = "result"
	LabelSkill     = "skill"
	LabelTransport = "transport"
)

// Label values
const (
	ReasonGateBusy  = "gate_busy"
	ReasonQueueFull = "queue_full"
	ResultOK        = "ok"
	ResultError     = "error"
)

// UnknownRoute labels requests that matched no route
const UnknownRoute = "unmatched"

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// FastBuckets cover in-process work such as heartbeats and gate waits, 10µs to 1s
var FastBuckets = []float64{.00001, .0001, .0005, .001, .005, .01, .05, .1, .5, 1}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgUnexpectedPayload = "Event payload has unexpected type"
	LogMsgMetricsRecorded   = "Metrics recorded for event"
)
