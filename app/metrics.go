package app

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

var (
	registerMetricsOnce sync.Once

	txTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Subsystem: "tx",
			Name:      "total",
			Help:      "Processed transactions by ABCI call and result code.",
		},
		[]string{"call", "code"},
	)
	txDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ledger",
			Subsystem: "tx",
			Name:      "duration_seconds",
			Help:      "Transaction processing time in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"call"},
	)
	instructionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Subsystem: "runtime",
			Name:      "instructions_total",
			Help:      "Delivered top level instructions by program.",
		},
		[]string{"program"},
	)
)

// RegisterMetrics adds the application metrics to the default prometheus
// registry. Safe to call many times.
func RegisterMetrics() {
	registerMetricsOnce.Do(func() {
		prometheus.MustRegister(txTotal, txDuration, instructionTotal)
	})
}

const (
	callCheck   = "check_tx"
	callDeliver = "deliver_tx"
)

// recordTx observes a processed transaction. tx is nil if it could not be
// decoded.
func recordTx(call string, tx *ledger.Tx, err error, started time.Time) {
	code := strconv.FormatUint(uint64(errors.Code(err)), 10)
	txTotal.WithLabelValues(call, code).Inc()
	txDuration.WithLabelValues(call).Observe(time.Since(started).Seconds())

	if err != nil || tx == nil || call != callDeliver {
		return
	}
	for _, ix := range tx.Instructions {
		instructionTotal.WithLabelValues(ix.ProgramID.String()).Inc()
	}
}
