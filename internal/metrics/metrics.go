package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tictactoe"

// Metrics counts what happens to game sessions. Each instance owns its registry.
type Metrics struct {
	registry *prometheus.Registry

	gamesCreated  prometheus.Counter
	moves         *prometheus.CounterVec
	rejectedMoves prometheus.Counter
	jumps         prometheus.Counter
	wins          *prometheus.CounterVec
}

func New() *Metrics {
	that := &Metrics{
		registry: prometheus.NewRegistry(),
		gamesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_created_total",
			Help:      "Total number of game sessions created",
		}),
		moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Total number of applied moves by mark",
		}, []string{"mark"}),
		rejectedMoves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_ignored_total",
			Help:      "Moves ignored because the cell was taken or the game was won",
		}),
		jumps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_jumps_total",
			Help:      "Total number of jumps through history",
		}),
		wins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wins_total",
			Help:      "Moves that completed a line, by mark",
		}, []string{"mark"}),
	}

	that.registry.MustRegister(
		that.gamesCreated,
		that.moves,
		that.rejectedMoves,
		that.jumps,
		that.wins,
	)

	return that
}

func (that *Metrics) GameCreated() {
	that.gamesCreated.Inc()
}

func (that *Metrics) MoveApplied(mark string) {
	that.moves.WithLabelValues(mark).Inc()
}

func (that *Metrics) MoveIgnored() {
	that.rejectedMoves.Inc()
}

func (that *Metrics) Jumped() {
	that.jumps.Inc()
}

func (that *Metrics) GameWon(mark string) {
	that.wins.WithLabelValues(mark).Inc()
}

func (that *Metrics) Registry() *prometheus.Registry {
	return that.registry
}

// Handler exposes the registry in the Prometheus text format.
func (that *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(that.registry, promhttp.HandlerOpts{})
}
