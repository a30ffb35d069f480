package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	app "nauticai/internal/application"
	"nauticai/internal/domain/entity"
	"nauticai/internal/domain/port"
)

const maxUploadBytes = 256 << 20

var videoExtensions = map[string]bool{".mp4": true, ".avi": true, ".mov": true}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}

func formFloat(r *http.Request, name string, def float64) float64 {
	raw := r.FormValue(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func formInt(r *http.Request, name string, def int) int {
	raw := r.FormValue(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func formBool(r *http.Request, name string, def bool) bool {
	raw := strings.ToLower(r.FormValue(name))
	switch raw {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// handleHealth сообщает о готовности сервиса и загруженной модели.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	model := "unavailable"
	if s.detector != nil {
		model = s.detector.ModelName()
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"model":   model,
		"classes": entity.ClassNames,
	})
}

// handleDetectImage прогоняет один кадр через детектор и возвращает
// найденные объекты вместе с журналом аномалий.
func (s *Server) handleDetectImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "File field is required")
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		respondError(w, http.StatusBadRequest, "File must be an image (jpg, png, etc.)")
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}

	opts := app.DetectOptions{
		Confidence: formFloat(r, "confidence", 0.25),
		Simulate:   formBool(r, "simulate_underwater", false),
		Turbidity:  r.FormValue("turbidity"),
		MarineSnow: formBool(r, "marine_snow", true),
	}
	if opts.Turbidity == "" {
		opts.Turbidity = "medium"
	}

	res, err := s.detection.ProcessImage(r.Context(), raw, opts)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	events := res.Log.Events()
	anomaliesLoggedTotal.Add(float64(len(events)))

	respondJSON(w, http.StatusOK, map[string]any{
		"detections":             detectionsToDTO(res.Detections),
		"det_counts":             res.Log.Counts(),
		"anomaly_log":            eventsToDTO(events),
		"annotated_image_base64": base64.StdEncoding.EncodeToString(res.Annotated),
		"summary":                entity.Summarize(events),
	})
}

// handleDetectVideo сохраняет ролик во временный файл и обрабатывает его
// с прореживанием кадров. Частичный результат при сбое чтения не считается
// ошибкой.
func (s *Server) handleDetectVideo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "File field is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !videoExtensions[ext] {
		respondError(w, http.StatusBadRequest, "File must be a video (mp4, avi, mov)")
		return
	}

	tmp, err := os.CreateTemp("", "nauticai-*"+ext)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to buffer uploaded video")
		return
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		respondError(w, http.StatusInternalServerError, "Failed to buffer uploaded video")
		return
	}
	tmp.Close()

	src, err := s.openVideo(tmp.Name())
	if err != nil {
		if errors.Is(err, port.ErrUndecodableFrame) {
			respondError(w, http.StatusBadRequest, "Could not open video file")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer src.Close()

	opts := app.VideoOptions{
		DetectOptions: app.DetectOptions{
			Confidence: formFloat(r, "confidence", 0.25),
			Simulate:   formBool(r, "simulate_underwater", false),
			Turbidity:  r.FormValue("turbidity"),
			MarineSnow: formBool(r, "marine_snow", true),
		},
		FrameStride: formInt(r, "frame_skip", 1),
		MaxFrames:   formInt(r, "max_frames", 0),
	}
	if opts.Turbidity == "" {
		opts.Turbidity = "medium"
	}

	res, err := s.detection.ProcessVideo(r.Context(), src, opts)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	events := res.Log.Events()
	anomaliesLoggedTotal.Add(float64(len(events)))
	framesProcessedTotal.Add(float64(res.FramesProcessed))

	respondJSON(w, http.StatusOK, map[string]any{
		"anomaly_log":      eventsToDTO(events),
		"det_counts":       res.Log.Counts(),
		"summary":          entity.Summarize(events),
		"frames_processed": res.FramesProcessed,
	})
}

type reportRequest struct {
	AnomalyLog   []anomalyEventDTO `json:"anomaly_log"`
	MissionName  string            `json:"mission_name"`
	OperatorName string            `json:"operator_name"`
	VesselID     string            `json:"vessel_id"`
	Location     string            `json:"location"`
}

// handleReportGenerate отдаёт HTML-отчёт по журналу миссии как вложение.
func (s *Server) handleReportGenerate(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	mission := missionFrom(req.MissionName, req.OperatorName, req.VesselID, req.Location)
	doc, filename, err := s.report.Generate(eventsFromDTO(req.AnomalyLog), mission)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Report generation failed: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

type missionSummaryRequest struct {
	AnomalyLog   []anomalyEventDTO      `json:"anomaly_log"`
	DetCounts    map[string]int         `json:"det_counts"`
	Summary      *entity.MissionSummary `json:"summary"`
	MissionName  string                 `json:"mission_name"`
	OperatorName string                 `json:"operator_name"`
	VesselID     string                 `json:"vessel_id"`
	Location     string                 `json:"location"`
	Phone        string                 `json:"phone"`
	SendWhatsApp *bool                  `json:"send_whatsapp"`
}

// handleMissionSummary запускает триаж миссии: оценка риска, сводка,
// опциональное улучшение текста и отправка оповещения.
func (s *Server) handleMissionSummary(w http.ResponseWriter, r *http.Request) {
	var req missionSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	sendAlert := true
	if req.SendWhatsApp != nil {
		sendAlert = *req.SendWhatsApp
	}

	res := s.mission.Triage(r.Context(), app.TriageRequest{
		Mission:   missionFrom(req.MissionName, req.OperatorName, req.VesselID, req.Location),
		Events:    eventsFromDTO(req.AnomalyLog),
		Counts:    req.DetCounts,
		Summary:   req.Summary,
		Phone:     req.Phone,
		SendAlert: sendAlert,
	})

	if res.Dispatch.Sent {
		alertsSentTotal.Inc()
	}

	bullets := res.Narrative.Bullets
	if bullets == nil {
		bullets = []string{}
	}
	highlights := res.Narrative.Highlights
	if highlights == nil {
		highlights = []string{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"risk_level":       res.Risk,
		"headline":         res.Narrative.Headline,
		"bullets":          bullets,
		"highlights":       highlights,
		"recommendations":  res.Narrative.Recommendations,
		"whatsapp_message": res.Narrative.AlertMessage,
		"whatsapp":         res.Dispatch,
		"llm_used":         res.Enhancement.Applied,
		"llm_raw":          res.Enhancement.Raw,
	})
}
