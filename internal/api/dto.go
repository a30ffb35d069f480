package api

import (
	"encoding/base64"

	"nauticai/internal/domain/entity"
)

// anomalyEventDTO — запись журнала аномалий в формате API.
// Кадр передаётся как base64, чтобы JSON оставался самодостаточным.
type anomalyEventDTO struct {
	ClassName        string  `json:"class_name"`
	Confidence       float64 `json:"confidence"`
	Timestamp        string  `json:"timestamp"`
	FrameBytesBase64 string  `json:"frame_bytes_base64,omitempty"`
}

type detectionDTO struct {
	ClassName  string              `json:"class_name"`
	Confidence float64             `json:"confidence"`
	Severity   entity.Severity     `json:"severity"`
	Box        *entity.BoundingBox `json:"box,omitempty"`
}

func eventsToDTO(events []entity.AnomalyEvent) []anomalyEventDTO {
	out := make([]anomalyEventDTO, 0, len(events))
	for _, ev := range events {
		dto := anomalyEventDTO{
			ClassName:  ev.ClassName,
			Confidence: ev.Confidence,
			Timestamp:  ev.Timestamp,
		}
		if len(ev.FrameBytes) > 0 {
			dto.FrameBytesBase64 = base64.StdEncoding.EncodeToString(ev.FrameBytes)
		}
		out = append(out, dto)
	}
	return out
}

func eventsFromDTO(dtos []anomalyEventDTO) []entity.AnomalyEvent {
	out := make([]entity.AnomalyEvent, 0, len(dtos))
	for _, dto := range dtos {
		ev := entity.AnomalyEvent{
			ClassName:  dto.ClassName,
			Confidence: dto.Confidence,
			Timestamp:  dto.Timestamp,
		}
		if dto.FrameBytesBase64 != "" {
			if raw, err := base64.StdEncoding.DecodeString(dto.FrameBytesBase64); err == nil {
				ev.FrameBytes = raw
			}
		}
		out = append(out, ev)
	}
	return out
}

func detectionsToDTO(dets []entity.Detection) []detectionDTO {
	out := make([]detectionDTO, 0, len(dets))
	for _, d := range dets {
		box := d.Box
		out = append(out, detectionDTO{
			ClassName:  d.ClassName,
			Confidence: d.Confidence,
			Severity:   entity.SeverityOf(d.ClassName),
			Box:        &box,
		})
	}
	return out
}

// missionFrom собирает паспорт миссии, подставляя значения по умолчанию
// вместо пустых полей.
func missionFrom(name, operator, vessel, location string) entity.Mission {
	m := entity.DefaultMission()
	if name != "" {
		m.Name = name
	}
	if operator != "" {
		m.Operator = operator
	}
	if vessel != "" {
		m.VesselID = vessel
	}
	if location != "" {
		m.Location = location
	}
	return m
}
