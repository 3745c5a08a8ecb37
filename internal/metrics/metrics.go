// Package metrics definisce le metriche Prometheus del servizio. Le metriche
// vengono registrate sul registry di default al primo import (promauto) ed
// esposte dal router su /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "turni"

// Esiti possibili di un tentativo di iscrizione, usati come valore
// dell'etichetta outcome di JoinAttemptsTotal.
const (
	JoinOutcomeOK       = "ok"
	JoinOutcomeInvalid  = "invalid"
	JoinOutcomeRoleFull = "role_full"
	JoinOutcomeConflict = "conflict"
	JoinOutcomeError    = "error"
)

var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Numero totale di richieste HTTP servite.",
	},
	[]string{"method", "path", "status"},
)

var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Durata delle richieste HTTP.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "path"},
)

var JoinAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "join_attempts_total",
		Help:      "Tentativi di iscrizione a un turno, per esito.",
	},
	[]string{"outcome"},
)
