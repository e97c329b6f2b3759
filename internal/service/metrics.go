package service

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type ingestionMetrics struct {
	categoryRefreshes *prometheus.CounterVec
	refreshDuration   prometheus.Histogram
	batchLocations    *prometheus.CounterVec
	batchDuration     prometheus.Histogram
}

// Registered once per process; tests build several pipelines.
var (
	metricsInstance *ingestionMetrics
	metricsOnce     sync.Once
	metricsRegistry = prometheus.DefaultRegisterer
)

func newIngestionMetrics() *ingestionMetrics {
	metricsOnce.Do(func() {
		factory := promauto.With(metricsRegistry)
		metricsInstance = &ingestionMetrics{
			categoryRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "weather_refresh_category_total",
				Help: "Category refreshes by category and status",
			}, []string{"category", "status"}),
			refreshDuration: factory.NewHistogram(prometheus.HistogramOpts{
				Name:    "weather_refresh_duration_seconds",
				Help:    "Time taken to refresh one location",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
			}),
			batchLocations: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "weather_batch_locations_total",
				Help: "Locations processed by batch refreshes by result",
			}, []string{"status"}),
			batchDuration: factory.NewHistogram(prometheus.HistogramOpts{
				Name:    "weather_batch_duration_seconds",
				Help:    "Time taken by a full batch refresh",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			}),
		}
	})
	return metricsInstance
}
