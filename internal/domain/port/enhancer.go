package port

import (
	"context"

	"nauticai/internal/domain/entity"
)

// EnhanceRequest — данные миссии для генеративного улучшения брифинга.
type EnhanceRequest struct {
	Risk      entity.RiskLevel
	Mission   entity.Mission
	Events    []entity.AnomalyEvent
	Counts    map[string]int
	Summary   entity.MissionSummary
	Narrative entity.MissionNarrative
}

// Enhancement — разобранный ответ провайдера. Пустое поле означает,
// что провайдер не вернул соответствующий ключ.
type Enhancement struct {
	Headline        string
	Bullets         []string
	Recommendations string
	AlertMessage    string
	Raw             string // полный текст ответа для диагностики
}

// NarrativeEnhancer интерфейс генеративного провайдера текста.
// Ошибка никогда не фатальна: вызывающий сохраняет эвристический брифинг.
type NarrativeEnhancer interface {
	// Enhance переписывает эвристический брифинг миссии
	Enhance(ctx context.Context, req EnhanceRequest) (*Enhancement, error)
}
