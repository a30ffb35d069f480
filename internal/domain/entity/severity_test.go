package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeverityOf(t *testing.T) {
	require.Equal(t, SeverityCritical, SeverityOf("corrosion"))
	require.Equal(t, SeverityCritical, SeverityOf("damage"))
	require.Equal(t, SeverityCritical, SeverityOf("free_span"))
	require.Equal(t, SeverityWarning, SeverityOf("marine_growth"))
	require.Equal(t, SeverityWarning, SeverityOf("debris"))
	require.Equal(t, SeverityNormal, SeverityOf("healthy"))
	require.Equal(t, SeverityNormal, SeverityOf("anode"))
}

func TestSeverityOf_UnknownClassDefaultsToWarning(t *testing.T) {
	require.Equal(t, SeverityWarning, SeverityOf("kraken"))
}

func TestSummarize_BucketsAddUpToTotal(t *testing.T) {
	events := []AnomalyEvent{
		{ClassName: "corrosion", Confidence: 0.9},
		{ClassName: "damage", Confidence: 0.8},
		{ClassName: "marine_growth", Confidence: 0.7},
		{ClassName: "healthy", Confidence: 0.95},
	}

	sum := Summarize(events)
	require.Equal(t, 4, sum.Total)
	require.Equal(t, 2, sum.Critical)
	require.Equal(t, 1, sum.Warnings)
	require.Equal(t, 1, sum.Normal)
	require.Equal(t, sum.Total, sum.Critical+sum.Warnings+sum.Normal)
}

func TestSummarize_UnknownClassCountedAsWarning(t *testing.T) {
	sum := Summarize([]AnomalyEvent{{ClassName: "kraken", Confidence: 0.5}})
	require.Equal(t, 1, sum.Total)
	require.Equal(t, 1, sum.Warnings)
}

func TestSummarize_Empty(t *testing.T) {
	require.Equal(t, MissionSummary{}, Summarize(nil))
}
