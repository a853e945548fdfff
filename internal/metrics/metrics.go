// Package metrics holds the Prometheus collectors shared by the HTTP layer
// and the upload service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recap_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "code"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recap_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// UploadRows counts parsed upload rows by kind (transactions, products)
	// and status (valid, invalid).
	UploadRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recap_upload_rows_total",
			Help: "Rows parsed from uploaded files",
		},
		[]string{"kind", "status"},
	)

	CorrectedRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recap_upload_corrected_rows_total",
			Help: "Transaction rows where at least one field was snapped to reference data",
		},
	)

	ProductsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recap_bulk_products_created_total",
			Help: "Products created by bulk insert",
		},
	)

	ProductDuplicates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recap_bulk_product_duplicates_total",
			Help: "Products skipped by bulk insert as duplicates",
		},
	)
)
