package app

import (
	"errors"
	"fmt"
	"time"

	"nauticai/internal/domain/entity"
	"nauticai/internal/domain/port"
)

// ReportService генерирует итоговый документ миссии.
type ReportService struct {
	renderer port.ReportRenderer
}

// NewReportService создаёт сервис отчётов.
func NewReportService(renderer port.ReportRenderer) *ReportService {
	return &ReportService{renderer: renderer}
}

// Generate собирает документ по журналу аномалий. Сбой генератора
// возвращается вызывающему явно, частичный документ не отдаётся.
func (s *ReportService) Generate(events []entity.AnomalyEvent, mission entity.Mission) (doc []byte, filename string, err error) {
	if s.renderer == nil {
		return nil, "", errors.New("report renderer is not configured")
	}

	doc, err = s.renderer.Render(events, mission)
	if err != nil {
		return nil, "", fmt.Errorf("report generation failed: %w", err)
	}

	filename = fmt.Sprintf("nauticai_%s.html", time.Now().Format("20060102_150405"))
	return doc, filename, nil
}
