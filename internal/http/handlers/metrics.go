package handlers

import (
	"net/http"

	"junqo/internal/http/metrics"
)

type MetricsHandler struct {
	inner http.Handler
}

func NewMetricsHandler(collector *metrics.Collector) *MetricsHandler {
	return &MetricsHandler{inner: collector.Handler()}
}

func (h *MetricsHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.inner.ServeHTTP(w, r)
}
