package api

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nauticai_http_requests_total",
		Help: "HTTP requests handled, by path and status code.",
	}, []string{"path", "code"})

	anomaliesLoggedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nauticai_anomalies_logged_total",
		Help: "Anomaly events appended to mission logs after deduplication.",
	})

	framesProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nauticai_video_frames_processed_total",
		Help: "Sampled video frames run through the detector.",
	})

	alertsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nauticai_alerts_sent_total",
		Help: "Alert messages successfully dispatched.",
	})
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware считает запросы по маршруту и коду ответа.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		httpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).Inc()
	})
}
