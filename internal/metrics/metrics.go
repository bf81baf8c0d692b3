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
)

// Simulation Metrics
var (
	HeartbeatsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameHeartbeatsTotal,
			Help: HelpTextHeartbeatsTotal,
		},
	)

	HeartbeatDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameHeartbeatDuration,
			Help:    HelpTextHeartbeatDuration,
			Buckets: FastBuckets,
		},
	)

	OwnersSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOwnersSkipped,
			Help: HelpTextOwnersSkipped,
		},
		[]string{LabelReason},
	)

	EngineSteps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEngineSteps,
			Help: HelpTextEngineSteps,
		},
		[]string{LabelKind},
	)

	EngineErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEngineErrors,
			Help: HelpTextEngineErrors,
		},
		[]string{LabelKind},
	)

	CatchUpSteps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCatchUpSteps,
			Help: HelpTextCatchUpSteps,
		},
		[]string{LabelKind},
	)

	GateWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameGateWait,
			Help:    HelpTextGateWait,
			Buckets: FastBuckets,
		},
	)

	CachedCharacters = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameCachedCharacters,
			Help: HelpTextCachedCharacters,
		},
	)

	ConnectedCharacters = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameConnectedCharacters,
			Help: HelpTextConnectedCharacters,
		},
	)

	DirtyCharacters = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameDirtyCharacters,
			Help: HelpTextDirtyCharacters,
		},
	)

	Flushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameFlushes,
			Help: HelpTextFlushes,
		},
		[]string{LabelResult},
	)

	Evictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameEvictions,
			Help: HelpTextEvictions,
		},
	)

	RealtimeClients = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameRealtimeClients,
			Help: HelpTextRealtimeClients,
		},
		[]string{LabelTransport},
	)
)

// Economy Metrics
var (
	ItemsGained = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameItemsGained,
			Help: HelpTextItemsGained,
		},
	)

	XPGained = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameXPGained,
			Help: HelpTextXPGained,
		},
		[]string{LabelSkill},
	)

	SilverGained = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSilverGained,
			Help: HelpTextSilverGained,
		},
	)

	LevelUps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLevelUps,
			Help: HelpTextLevelUps,
		},
		[]string{LabelSkill},
	)

	PaymentCredit = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePaymentCredit,
			Help: HelpTextPaymentCredit,
		},
	)
)
