package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type RouterOptions struct {
	Log         zerolog.Logger
	CORSOrigins []string
	UploadRate  float64
	UploadBurst int
}

func NewRouter(handler *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(opts.Log))
	r.Use(Recoverer)
	r.Use(Metrics)
	r.Use(Timeout)
	r.Use(CORS(opts.CORSOrigins))

	r.Get("/healthz", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/transactions", handler.ListTransactions)
		r.Post("/transactions", handler.CreateTransaction)
		r.Get("/transactions/stats", handler.TransactionStats)
		r.Get("/transactions/export", handler.ExportTransactions)
		r.Patch("/transactions/{id}", handler.PatchTransaction)
		r.Delete("/transactions/{id}", handler.DeleteTransaction)

		r.Get("/products", handler.ListProducts)
		r.Post("/products", handler.CreateProduct)
		r.Post("/products/delete", handler.DeleteProducts)
		r.Patch("/products/{id}", handler.PatchProduct)
		r.Delete("/products/{id}", handler.DeleteProduct)

		r.Route("/uploads", func(r chi.Router) {
			r.Use(RateLimit(opts.UploadRate, opts.UploadBurst))
			r.Post("/transactions/preview", handler.PreviewTransactionUpload)
			r.Post("/transactions/commit", handler.CommitTransactionUpload)
			r.Post("/products/preview", handler.PreviewProductUpload)
			r.Post("/products/commit", handler.CommitProductUpload)
		})

		r.Get("/templates/transactions.csv", handler.TransactionTemplate)
		r.Get("/templates/products.csv", handler.ProductTemplate)
	})

	return r
}
