// Package metrics turns session notifications into Prometheus counters.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AlexeyInc/Color-Lines/internal/session"
)

const namespace = "balls"

type Metrics struct {
	gamesStarted        prometheus.Counter
	gamesOver           prometheus.Counter
	newRecords          *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec
	scorePoints         prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		gamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Boards created, including restored ones.",
		}),
		gamesOver: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_over_total",
			Help:      "Games that ended with a full board.",
		}),
		newRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "new_records_total",
			Help:      "New best scores, by board size.",
		}, []string{"board_size"}),
		persistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Failed background writes, by operation.",
		}, []string{"op"}),
		scorePoints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_points_total",
			Help:      "Points scored across all games.",
		}),
	}
	for _, c := range []prometheus.Collector{
		m.gamesStarted, m.gamesOver, m.newRecords, m.persistenceFailures, m.scorePoints,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe is a session.Listener.
func (m *Metrics) Observe(n session.Notification) {
	switch n.Kind {
	case session.KindBoardReset:
		m.gamesStarted.Inc()
	case session.KindGameOver:
		m.gamesOver.Inc()
	case session.KindNewRecord:
		m.newRecords.WithLabelValues(strconv.Itoa(n.BoardSize)).Inc()
	case session.KindPersistenceFailed:
		m.persistenceFailures.WithLabelValues(n.Op).Inc()
	case session.KindScoreChanged:
		if n.Delta > 0 {
			m.scorePoints.Add(float64(n.Delta))
		}
	}
}
