package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CanteenMetrics counts domain events emitted by the API.
type CanteenMetrics struct {
	ordersPlaced     prometheus.Counter
	transitions      *prometheus.CounterVec
	lowStockAlerts   prometheus.Counter
	realtimeEvents   *prometheus.CounterVec
	realtimeSessions prometheus.Gauge
}

// NewCanteenMetrics registers the domain counters. A nil registerer yields a no-op recorder.
func NewCanteenMetrics(reg prometheus.Registerer) *CanteenMetrics {
	if reg == nil {
		return &CanteenMetrics{}
	}
	m := &CanteenMetrics{
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders submitted by students.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Order status advances by target status.",
		}, []string{"to"}),
		lowStockAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "low_stock_alerts_total",
			Help:      "Stock writes that landed at or below the minimum.",
		}),
		realtimeEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "realtime_events_total",
			Help:      "Change events published by collection and kind.",
		}, []string{"collection", "kind"}),
		realtimeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "realtime_sessions",
			Help:      "Open websocket change streams.",
		}),
	}
	reg.MustRegister(m.ordersPlaced, m.transitions, m.lowStockAlerts, m.realtimeEvents, m.realtimeSessions)
	return m
}

func (m *CanteenMetrics) IncOrdersPlaced() {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.Inc()
}

func (m *CanteenMetrics) IncTransition(to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(to)).Inc()
}

func (m *CanteenMetrics) IncLowStockAlert() {
	if m == nil || m.lowStockAlerts == nil {
		return
	}
	m.lowStockAlerts.Inc()
}

func (m *CanteenMetrics) IncRealtimeEvent(collection, kind string) {
	if m == nil || m.realtimeEvents == nil {
		return
	}
	m.realtimeEvents.WithLabelValues(normalizeLabel(collection), normalizeLabel(kind)).Inc()
}

// SessionOpened and SessionClosed track live websocket subscribers.
func (m *CanteenMetrics) SessionOpened() {
	if m == nil || m.realtimeSessions == nil {
		return
	}
	m.realtimeSessions.Inc()
}

func (m *CanteenMetrics) SessionClosed() {
	if m == nil || m.realtimeSessions == nil {
		return
	}
	m.realtimeSessions.Dec()
}
