package httpserver

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds session and byte counters registered against a
// prometheus.Registry. cmd/fttp increments the session counters; nothing in
// this module increments BytesServed or BytesReceived. The custom server has no net/http.Handler to hand to
// promhttp.Handler, so /metrics is produced by walking Gather() directly.
type Metrics struct {
	registry *prometheus.Registry

	SessionsOpened prometheus.Counter
	SessionsClosed prometheus.Counter
	BytesServed    prometheus.Counter
	BytesReceived  prometheus.Counter
}

// NewMetrics registers the session counters against a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		SessionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fttp_http_sessions_opened_total",
			Help: "HTTP sessions accepted.",
		}),
		SessionsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fttp_http_sessions_closed_total",
			Help: "HTTP sessions closed.",
		}),
		BytesServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fttp_http_bytes_served_total",
			Help: "Bytes written to HTTP clients.",
		}),
		BytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fttp_http_bytes_received_total",
			Help: "Bytes read from HTTP clients.",
		}),
	}
	reg.MustRegister(m.SessionsOpened, m.SessionsClosed, m.BytesServed, m.BytesReceived)
	return m
}

// Expose renders the registry's current state as Prometheus text
// exposition format, for a session to hand to EnqueueFixed verbatim.
func (m *Metrics) Expose() (string, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, mf := range families {
		fmt.Fprintf(&b, "# HELP %s %s\n", mf.GetName(), mf.GetHelp())
		fmt.Fprintf(&b, "# TYPE %s %s\n", mf.GetName(), strings.ToLower(mf.GetType().String()))
		for _, metric := range mf.GetMetric() {
			writeMetricLine(&b, mf.GetName(), metric)
		}
	}
	return b.String(), nil
}

func writeMetricLine(b *strings.Builder, name string, metric *dto.Metric) {
	labels := ""
	if len(metric.GetLabel()) > 0 {
		parts := make([]string, 0, len(metric.GetLabel()))
		for _, l := range metric.GetLabel() {
			parts = append(parts, fmt.Sprintf(`%s="%s"`, l.GetName(), l.GetValue()))
		}
		labels = "{" + strings.Join(parts, ",") + "}"
	}
	switch {
	case metric.Counter != nil:
		fmt.Fprintf(b, "%s%s %g\n", name, labels, metric.GetCounter().GetValue())
	case metric.Gauge != nil:
		fmt.Fprintf(b, "%s%s %g\n", name, labels, metric.GetGauge().GetValue())
	}
}

// MetricsResponse builds a complete HTTP response for a GET /metrics
// request, ready to enqueue as a Fixed write.
func MetricsResponse(m *Metrics) ([]byte, error) {
	body, err := m.Expose()
	if err != nil {
		return nil, err
	}
	header := fmt.Sprintf("HTTP/1.1 200 OK\r\nContent-Type: text/plain; version=0.0.4\r\nContent-Length: %d\r\nConnection: close\r\n\r\n", len(body))
	return append([]byte(header), body...), nil
}
