package farkle

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsSink counts events as prometheus metrics.
type MetricsSink struct {
	rolls   *prometheus.CounterVec
	farkles *prometheus.CounterVec
	keeps   *prometheus.CounterVec
	banks   *prometheus.CounterVec
	points  *prometheus.CounterVec
	wins    *prometheus.CounterVec
}

func NewMetricsSink(reg prometheus.Registerer) (*MetricsSink, error) {
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "farkle",
			Name:      name,
			Help:      help,
		}, append([]string{"player"}, labels...))
	}

	m := &MetricsSink{
		rolls:   counter("rolls_total", "Number of rolls."),
		farkles: counter("farkles_total", "Number of rolls that scored nothing."),
		keeps:   counter("keeps_total", "Number of scoring selections kept."),
		banks:   counter("banks_total", "Number of bank attempts by result.", "result"),
		points:  counter("points_banked_total", "Points credited by banking."),
		wins:    counter("games_won_total", "Number of games won."),
	}
	for _, c := range []prometheus.Collector{m.rolls, m.farkles, m.keeps, m.banks, m.points, m.wins} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "register farkle metrics")
		}
	}
	return m, nil
}

func (m *MetricsSink) Emit(e Event) {
	player := e.Player.String()
	switch e.Kind {
	case EventRolled:
		m.rolls.WithLabelValues(player).Inc()
	case EventFarkle:
		m.farkles.WithLabelValues(player).Inc()
	case EventKept:
		m.keeps.WithLabelValues(player).Inc()
	case EventBanked:
		m.banks.WithLabelValues(player, "ok").Inc()
		m.points.WithLabelValues(player).Add(float64(e.Points))
	case EventBankFailed:
		m.banks.WithLabelValues(player, "failed").Inc()
	case EventGameWon:
		m.wins.WithLabelValues(player).Inc()
	}
}
