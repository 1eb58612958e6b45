package forecast

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TrainingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_trainings_total",
			Help: "Count of forecast model trainings by model_type, history_source and trigger.",
		},
		[]string{"model_type", "history_source", "trigger"},
	)

	ForecastsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_requests_total",
			Help: "Count of demand forecasts served, split by cache outcome.",
		},
		[]string{"cache"},
	)

	RegistryScopes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "forecast_registry_scopes",
		Help: "Number of scopes currently held by the model registry.",
	})
)

func init() {
	prometheus.MustRegister(TrainingsTotal, ForecastsTotal, RegistryScopes)
}
