// internal/metrics/metrics.go
//
// Prometheus metrics for gameplay and store health. Implements the game
// service's Metrics hook and serves the /metrics scrape endpoint.

package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ckhuang/wordlebot/internal/wordle"
)

// Collector records gameplay events into Prometheus metrics.
type Collector struct {
	guesses       *prometheus.CounterVec
	wins          *prometheus.CounterVec
	hints         prometheus.Counter
	storeFailures *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wordlebot_guesses_total",
			Help: "Guesses submitted, labeled by resulting session state.",
		}, []string{"state"}),
		wins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wordlebot_wins_total",
			Help: "Won sessions, labeled by attempts used.",
		}, []string{"attempts"}),
		hints: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wordlebot_hints_total",
			Help: "Hints issued.",
		}),
		storeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wordlebot_store_failures_total",
			Help: "Backing store failures, labeled by operation.",
		}, []string{"op"}),
	}

	reg.MustRegister(c.guesses, c.wins, c.hints, c.storeFailures)
	return c
}

// RecordGuess counts a submitted guess by resulting state.
func (c *Collector) RecordGuess(state wordle.State) {
	c.guesses.WithLabelValues(string(state)).Inc()
}

// RecordWin counts a won session by attempts used.
func (c *Collector) RecordWin(attempts int) {
	c.wins.WithLabelValues(strconv.Itoa(attempts)).Inc()
}

// RecordHint counts an issued hint.
func (c *Collector) RecordHint() {
	c.hints.Inc()
}

// RecordStoreFailure counts a backing-store failure for op.
func (c *Collector) RecordStoreFailure(op string) {
	c.storeFailures.WithLabelValues(op).Inc()
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
