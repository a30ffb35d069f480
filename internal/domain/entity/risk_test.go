package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyRisk_Table(t *testing.T) {
	cases := []struct {
		name   string
		counts map[string]int
		total  int
		want   RiskLevel
	}{
		{"two criticals is HIGH", map[string]int{"corrosion": 1, "damage": 1}, 2, RiskHigh},
		{"one critical plus three warnings is HIGH", map[string]int{"free_span": 1, "debris": 3}, 4, RiskHigh},
		{"single critical is MEDIUM", map[string]int{"damage": 1}, 1, RiskMedium},
		{"three warnings is MEDIUM", map[string]int{"marine_growth": 2, "debris": 1}, 3, RiskMedium},
		{"single warning is LOW", map[string]int{"debris": 1}, 1, RiskLow},
		{"only normals is LOW", map[string]int{"healthy": 2, "anode": 1}, 3, RiskLow},
		{"empty mission is NONE", map[string]int{}, 0, RiskNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ClassifyRisk(tc.counts, tc.total))
		})
	}
}

func TestCriticalAndWarningCounts(t *testing.T) {
	counts := map[string]int{
		"corrosion":     2,
		"free_span":     1,
		"marine_growth": 3,
		"healthy":       5,
	}
	require.Equal(t, 3, CriticalCount(counts))
	require.Equal(t, 3, WarningCount(counts))
}

func TestBoundingBoxCenter(t *testing.T) {
	b := BoundingBox{X: 10, Y: 20, Width: 8, Height: 6}
	x, y := b.Center()
	require.Equal(t, 14, x)
	require.Equal(t, 23, y)
}
