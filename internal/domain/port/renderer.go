package port

import "nauticai/internal/domain/entity"

// ReportRenderer интерфейс генератора итогового документа миссии
type ReportRenderer interface {
	// Render собирает документ из журнала аномалий и метаданных миссии
	Render(events []entity.AnomalyEvent, mission entity.Mission) ([]byte, error)
}
