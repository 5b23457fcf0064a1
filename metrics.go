package groonga

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hugr-lab/groonga-go/rc"
)

// Metrics holds the Prometheus collectors a Client reports to.
type Metrics struct {
	// CommandsTotal counts commands by name and return code name.
	CommandsTotal *prometheus.CounterVec

	// CommandDuration is the round trip latency of commands by name.
	CommandDuration *prometheus.HistogramVec

	// Reconnects counts reconnections after failures.
	Reconnects prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg means prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		CommandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "groonga_client_commands_total",
				Help: "Total number of Groonga commands sent",
			},
			[]string{"command", "code"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "groonga_client_command_duration_seconds",
				Help:    "Groonga command round trip latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		Reconnects: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "groonga_client_reconnects_total",
				Help: "Total number of reconnections after a failed command",
			},
		),
	}
}

func (m *Metrics) observe(command string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	code := rc.Success
	if err != nil {
		code = rc.UnknownError
		var rcErr *rc.Error
		if errors.As(err, &rcErr) {
			code = rcErr.Code
		}
	}
	m.CommandsTotal.WithLabelValues(command, code.Name()).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

func (m *Metrics) reconnected() {
	if m == nil {
		return
	}
	m.Reconnects.Inc()
}
