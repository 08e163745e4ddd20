package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(dbPoolStats, dbConnected) }

var (
	dbPoolStats = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "db_pool_stats",
			Help: "Current state of the database connection pool.",
		},
		[]string{"state"}, // 'total', 'idle', 'in_use'
	)

	dbConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connected",
			Help: "1 when the last connectivity probe reached the database, 0 otherwise.",
		},
	)
)

func SetDBPoolStats(total, idle, inUse int32) {
	dbPoolStats.WithLabelValues("total").Set(float64(total))
	dbPoolStats.WithLabelValues("idle").Set(float64(idle))
	dbPoolStats.WithLabelValues("in_use").Set(float64(inUse))
}

func SetDBConnected(ok bool) {
	if ok {
		dbConnected.Set(1)
		return
	}
	dbConnected.Set(0)
}
