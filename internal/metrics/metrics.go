package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_admin_http_requests_total",
			Help: "Total HTTP requests by route and status code",
		}, []string{"route", "code"},
	)
	HTTPLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campaign_admin_http_request_duration_seconds",
		Help:    "HTTP request latency seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	AdsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_ads_generated_total",
			Help: "Ads generations by result",
		}, []string{"result"},
	)
	AdsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_ads_published_total",
			Help: "Ads publish attempts by result",
		}, []string{"result"},
	)
	ProductsDeleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_products_deleted_total",
			Help: "Products removed, by cleanup or explicit delete",
		}, []string{"source"},
	)
	ProductsCloned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "campaign_products_cloned_total",
		Help: "Products created by cloning",
	})
	Redirects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_redirects_total",
			Help: "Outbound redirects by outcome",
		}, []string{"outcome"},
	)
	StoreWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_store_writes_total",
			Help: "Configuration document writes by result",
		}, []string{"result"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, AdsGenerated, AdsPublished,
		ProductsDeleted, ProductsCloned, Redirects, StoreWrites)
}

func Handler() http.Handler { return promhttp.Handler() }

// Result maps an error to the "result" label.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
