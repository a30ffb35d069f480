package api

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	app "nauticai/internal/application"
	"nauticai/internal/container"
	"nauticai/internal/domain/port"
)

// Источники фронтенда, которым разрешён кросс-доменный доступ.
var allowedOrigins = map[string]bool{
	"http://localhost:3000":             true,
	"http://127.0.0.1:3000":             true,
	"http://localhost:5173":             true,
	"http://127.0.0.1:5173":             true,
	"https://nautic-ai-osjw.vercel.app": true,
	"https://nautic-ai.vercel.app":      true,
}

// Server — HTTP-транспорт NautiCAI API.
type Server struct {
	detection *app.DetectionService
	mission   *app.MissionService
	report    *app.ReportService
	detector  port.AnomalyDetector
	openVideo func(path string) (port.FrameSource, error)
	mux       *http.ServeMux
}

// NewServer создаёт сервер поверх собранного контейнера сервисов.
func NewServer(c *container.Container) *Server {
	s := &Server{
		detection: c.DetectionService,
		mission:   c.MissionService,
		report:    c.ReportService,
		detector:  c.Detector,
		openVideo: c.OpenVideo,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/detect/image", s.handleDetectImage)
	mux.HandleFunc("POST /api/detect/video", s.handleDetectVideo)
	mux.HandleFunc("POST /api/report/generate", s.handleReportGenerate)
	mux.HandleFunc("POST /api/agent/mission-summary", s.handleMissionSummary)
	mux.Handle("GET /metrics", promhttp.Handler())
	s.mux = mux
	return s
}

// Handler возвращает корневой обработчик со всеми промежуточными слоями.
func (s *Server) Handler() http.Handler {
	return requestIDMiddleware(corsMiddleware(metricsMiddleware(s.mux)))
}

// Run запускает HTTP-сервер и блокируется до его завершения.
func (s *Server) Run(addr string) error {
	log.Printf("NautiCAI API listening on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// requestIDMiddleware помечает каждый ответ уникальным идентификатором.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", uuid.NewString())
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware пропускает запросы известных фронтендов.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
