package metrics

import (
	pkgmetrics "hotelPricing/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var BuildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Name: "hotel_pricing_build_info",
	Help: "Version and environment of the running server",
}, []string{"version", "environment"})

// Init registers the server collectors and exposes every registered metric,
// including those of the business packages, on GET /metrics.
func Init(e *echo.Echo, version, environment string) {
	prometheus.MustRegister(BuildInfo)
	pkgmetrics.Init()

	BuildInfo.WithLabelValues(version, environment).Set(1)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
