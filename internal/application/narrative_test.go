package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"nauticai/internal/domain/entity"
)

func sampleMission() entity.Mission {
	return entity.Mission{
		Name:     "Pipeline Survey 7",
		Operator: "A. Tan",
		VesselID: "ROV-02",
		Location: "Block 12",
	}
}

func TestComposeNarrative_HeadlineByRisk(t *testing.T) {
	mission := sampleMission()

	n := ComposeNarrative(mission, entity.RiskHigh, nil, map[string]int{"corrosion": 2}, entity.MissionSummary{Total: 2, Critical: 2})
	require.Equal(t, "Mission 'Pipeline Survey 7' on vessel ROV-02 near Block 12 has high risk findings.", n.Headline)

	n = ComposeNarrative(mission, entity.RiskNone, nil, map[string]int{}, entity.MissionSummary{})
	require.Equal(t, "Mission 'Pipeline Survey 7' on vessel ROV-02 near Block 12 has no detected anomalies.", n.Headline)
}

func TestComposeNarrative_BulletsOnlyForNonZeroBuckets(t *testing.T) {
	counts := map[string]int{"corrosion": 1, "healthy": 2}
	summary := entity.MissionSummary{Total: 3, Critical: 1, Normal: 2}

	n := ComposeNarrative(sampleMission(), entity.RiskMedium, nil, counts, summary)
	require.Len(t, n.Bullets, 2)
	require.Equal(t, "1 critical findings (corrosion / damage / free span)", n.Bullets[0])
	require.Equal(t, "2 healthy / anode detections logged", n.Bullets[1])
}

func TestComposeNarrative_HighlightsCappedAndFormatted(t *testing.T) {
	events := []entity.AnomalyEvent{
		{ClassName: "marine_growth", Confidence: 0.914, Timestamp: "00:12"},
		{ClassName: "corrosion", Confidence: 0.52, Timestamp: "00:30"},
		{ClassName: "debris", Confidence: 0.4, Timestamp: "00:44"},
		{ClassName: "damage", Confidence: 0.8, Timestamp: "01:02"},
		{ClassName: "anode", Confidence: 0.99, Timestamp: "01:30"},
	}

	n := ComposeNarrative(sampleMission(), entity.RiskHigh, events, map[string]int{}, entity.MissionSummary{Total: 5})
	require.Len(t, n.Highlights, 4)
	// Подчёркивания заменяются пробелами, процент округляется.
	require.Equal(t, "- marine growth at 00:12 (91% confidence)", n.Highlights[0])
	require.Equal(t, "- corrosion at 00:30 (52% confidence)", n.Highlights[1])
}

func TestComposeNarrative_RecommendationTable(t *testing.T) {
	m := sampleMission()
	require.Contains(t, ComposeNarrative(m, entity.RiskHigh, nil, nil, entity.MissionSummary{}).Recommendations, "Immediate follow-up required")
	require.Contains(t, ComposeNarrative(m, entity.RiskMedium, nil, nil, entity.MissionSummary{}).Recommendations, "Plan follow-up inspection")
	require.Contains(t, ComposeNarrative(m, entity.RiskLow, nil, nil, entity.MissionSummary{}).Recommendations, "Continue routine monitoring")
	require.Contains(t, ComposeNarrative(m, entity.RiskNone, nil, nil, entity.MissionSummary{}).Recommendations, "No immediate action required")
}

func TestComposeNarrative_AlertMessageTemplate(t *testing.T) {
	events := []entity.AnomalyEvent{
		{ClassName: "corrosion", Confidence: 0.9, Timestamp: "00:10"},
	}
	counts := map[string]int{"corrosion": 1}
	summary := entity.MissionSummary{Total: 1, Critical: 1}

	n := ComposeNarrative(sampleMission(), entity.RiskMedium, events, counts, summary)
	lines := strings.Split(n.AlertMessage, "\n")

	require.Equal(t, "NautiCAI Mission Alert — MEDIUM RISK", lines[0])
	require.Equal(t, "Mission: Pipeline Survey 7", lines[1])
	require.Equal(t, "Vessel/ROV: ROV-02", lines[2])
	require.Equal(t, "Location: Block 12", lines[3])
	require.Equal(t, "Operator: A. Tan", lines[4])
	require.Equal(t, "", lines[5])
	require.Equal(t, "Detections this mission: 1 (critical=1, warnings=0)", lines[6])
	require.Equal(t, "Key findings:", lines[7])
	require.Equal(t, "- corrosion at 00:10 (90% confidence)", lines[8])
	require.Equal(t, "", lines[9])
	require.True(t, strings.HasPrefix(lines[10], "Recommendation: "))
}

func TestComposeNarrative_AlertMessageEmptyMission(t *testing.T) {
	n := ComposeNarrative(sampleMission(), entity.RiskNone, nil, map[string]int{}, entity.MissionSummary{})
	require.Contains(t, n.AlertMessage, "No anomalies detected in this mission.")
	require.NotContains(t, n.AlertMessage, "Key findings:")
}
