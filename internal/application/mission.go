package app

import (
	"context"

	"nauticai/internal/domain/entity"
	"nauticai/internal/domain/port"
)

// Этап улучшения сокращает тезисы провайдера до разумного объёма.
const maxEnhancedBullets = 6

// MissionService выполняет разбор миссии: классификацию риска, сборку
// брифинга, генеративное улучшение и условную отправку оповещения.
type MissionService struct {
	enhancer port.NarrativeEnhancer
	alerter  port.AlertSender
}

// NewMissionService создаёт сервис разбора миссий. Оба провайдера
// необязательны: без них этапы деградируют в эвристику и отказ отправки.
func NewMissionService(enhancer port.NarrativeEnhancer, alerter port.AlertSender) *MissionService {
	return &MissionService{enhancer: enhancer, alerter: alerter}
}

// TriageRequest — вход разбора миссии.
type TriageRequest struct {
	Mission   entity.Mission
	Events    []entity.AnomalyEvent
	Counts    map[string]int
	Summary   *entity.MissionSummary // nil — посчитать по журналу
	Phone     string                 // адрес назначения оповещения
	SendAlert bool
}

// EnhancementOutcome — явный итог этапа генеративного улучшения.
// Провал этапа не ошибка: брифинг остаётся эвристическим.
type EnhancementOutcome struct {
	Applied bool
	Raw     string // сырой ответ провайдера для диагностики
	Reason  string // причина деградации, если Applied == false
}

// TriageResult — полный результат разбора миссии.
type TriageResult struct {
	Risk        entity.RiskLevel
	Summary     entity.MissionSummary
	Narrative   entity.MissionNarrative
	Enhancement EnhancementOutcome
	Dispatch    entity.DispatchOutcome
}

// Triage прогоняет миссию через весь конвейер. Ошибки внешних провайдеров
// не всплывают: результат всегда полностью заполнен.
func (s *MissionService) Triage(ctx context.Context, req TriageRequest) *TriageResult {
	summary := entity.Summarize(req.Events)
	if req.Summary != nil {
		summary = *req.Summary
	}
	total := summary.Total
	if total == 0 {
		total = len(req.Events)
	}

	risk := entity.ClassifyRisk(req.Counts, total)
	narrative := ComposeNarrative(req.Mission, risk, req.Events, req.Counts, summary)
	enhancement := s.applyEnhancement(ctx, req, risk, summary, &narrative)
	dispatch := s.dispatch(ctx, risk, req, narrative.AlertMessage)

	return &TriageResult{
		Risk:        risk,
		Summary:     summary,
		Narrative:   narrative,
		Enhancement: enhancement,
		Dispatch:    dispatch,
	}
}

// applyEnhancement вызывает генеративного провайдера и накладывает его
// ответ на эвристический брифинг по полям: отсутствующее поле оставляет
// эвристическое значение. Любой сбой молча сохраняет брифинг как есть.
func (s *MissionService) applyEnhancement(ctx context.Context, req TriageRequest, risk entity.RiskLevel, summary entity.MissionSummary, narrative *entity.MissionNarrative) EnhancementOutcome {
	if s.enhancer == nil {
		return EnhancementOutcome{Reason: "enhancer is not configured"}
	}

	enh, err := s.enhancer.Enhance(ctx, port.EnhanceRequest{
		Risk:      risk,
		Mission:   req.Mission,
		Events:    req.Events,
		Counts:    req.Counts,
		Summary:   summary,
		Narrative: *narrative,
	})
	if err != nil {
		return EnhancementOutcome{Reason: err.Error()}
	}
	if enh == nil {
		return EnhancementOutcome{Reason: "empty enhancement response"}
	}

	if enh.Headline != "" {
		narrative.Headline = enh.Headline
	}
	if len(enh.Bullets) > 0 {
		bullets := enh.Bullets
		if len(bullets) > maxEnhancedBullets {
			bullets = bullets[:maxEnhancedBullets]
		}
		narrative.Bullets = bullets
	}
	if enh.Recommendations != "" {
		narrative.Recommendations = enh.Recommendations
	}
	if enh.AlertMessage != "" {
		narrative.AlertMessage = enh.AlertMessage
	}

	return EnhancementOutcome{Applied: true, Raw: enh.Raw}
}

// dispatch отправляет оповещение только когда отправка запрошена, адрес
// указан и риск не ниже MEDIUM. Иначе — детерминированный отказ без
// сетевого вызова.
func (s *MissionService) dispatch(ctx context.Context, risk entity.RiskLevel, req TriageRequest, message string) entity.DispatchOutcome {
	if !req.SendAlert || req.Phone == "" || (risk != entity.RiskMedium && risk != entity.RiskHigh) {
		return entity.DispatchOutcome{
			Attempted: false,
			Sent:      false,
			Info:      "Conditions for sending alert not met (no destination, disabled, or risk below MEDIUM).",
		}
	}

	if s.alerter == nil {
		return entity.DispatchOutcome{Attempted: true, Sent: false, Info: "alert provider is not configured"}
	}

	sent, info := s.alerter.Send(ctx, req.Phone, message)
	return entity.DispatchOutcome{Attempted: true, Sent: sent, Info: info}
}
