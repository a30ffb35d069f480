package app

import (
	"fmt"
	"math"
	"strings"

	"nauticai/internal/domain/entity"
)

// Рекомендации фиксированы по уровню риска; свободный текст
// появляется только на этапе генеративного улучшения.
const (
	recommendationHigh = "Immediate follow-up required: schedule targeted inspection of critical regions, validate structural " +
		"integrity around free spans or damage, and review maintenance schedule for affected sections."
	recommendationMedium = "Plan follow-up inspection for highlighted regions and schedule cleaning or minor repair windows in the " +
		"next maintenance cycle."
	recommendationLow = "Conditions are mostly acceptable. Continue routine monitoring and include highlighted regions in the next " +
		"standard inspection round."
	recommendationNone = "No anomalies detected for this mission. No immediate action required."
)

const maxHighlights = 4

// ComposeNarrative собирает эвристический брифинг миссии: заголовок,
// тезисы, ключевые находки, рекомендацию и текст оповещения.
func ComposeNarrative(mission entity.Mission, risk entity.RiskLevel, events []entity.AnomalyEvent, counts map[string]int, summary entity.MissionSummary) entity.MissionNarrative {
	crit := entity.CriticalCount(counts)
	warn := entity.WarningCount(counts)
	healthy := counts["healthy"] + counts["anode"]

	var bullets []string
	if crit > 0 {
		bullets = append(bullets, fmt.Sprintf("%d critical findings (corrosion / damage / free span)", crit))
	}
	if warn > 0 {
		bullets = append(bullets, fmt.Sprintf("%d warning findings (marine growth / debris)", warn))
	}
	if healthy > 0 && summary.Total > 0 {
		bullets = append(bullets, fmt.Sprintf("%d healthy / anode detections logged", healthy))
	}

	highlights := make([]string, 0, maxHighlights)
	for _, e := range events {
		if len(highlights) >= maxHighlights {
			break
		}
		cls := strings.ReplaceAll(e.ClassName, "_", " ")
		pct := int(math.Round(e.Confidence * 100))
		highlights = append(highlights, fmt.Sprintf("- %s at %s (%d%% confidence)", cls, e.Timestamp, pct))
	}

	finding := "no detected anomalies"
	if risk != entity.RiskNone {
		finding = strings.ToLower(string(risk)) + " risk findings"
	}
	headline := fmt.Sprintf("Mission '%s' on vessel %s near %s has %s.", mission.Name, mission.VesselID, mission.Location, finding)

	return entity.MissionNarrative{
		Headline:        headline,
		Bullets:         bullets,
		Highlights:      highlights,
		Recommendations: recommendationFor(risk),
		AlertMessage:    composeAlertMessage(mission, risk, summary, crit, warn, highlights, recommendationFor(risk)),
	}
}

func recommendationFor(risk entity.RiskLevel) string {
	switch risk {
	case entity.RiskHigh:
		return recommendationHigh
	case entity.RiskMedium:
		return recommendationMedium
	case entity.RiskLow:
		return recommendationLow
	default:
		return recommendationNone
	}
}

// composeAlertMessage собирает текст оповещения по фиксированному шаблону:
// заголовок с уровнем риска, реквизиты миссии, пустая строка, строка со
// счётчиками, ключевые находки, пустая строка, рекомендация.
func composeAlertMessage(mission entity.Mission, risk entity.RiskLevel, summary entity.MissionSummary, crit, warn int, highlights []string, recommendation string) string {
	lines := []string{
		fmt.Sprintf("NautiCAI Mission Alert — %s RISK", risk),
		fmt.Sprintf("Mission: %s", mission.Name),
		fmt.Sprintf("Vessel/ROV: %s", mission.VesselID),
		fmt.Sprintf("Location: %s", mission.Location),
		fmt.Sprintf("Operator: %s", mission.Operator),
		"",
	}

	if summary.Total > 0 {
		lines = append(lines, fmt.Sprintf("Detections this mission: %d (critical=%d, warnings=%d)", summary.Total, crit, warn))
	} else {
		lines = append(lines, "No anomalies detected in this mission.")
	}

	if len(highlights) > 0 {
		lines = append(lines, "Key findings:")
		lines = append(lines, highlights...)
	}

	lines = append(lines, "", fmt.Sprintf("Recommendation: %s", recommendation))
	return strings.Join(lines, "\n")
}
