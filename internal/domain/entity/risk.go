package entity

// RiskLevel — итоговый уровень риска миссии.
type RiskLevel string

const (
	RiskNone   RiskLevel = "NONE"
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// CriticalCount суммирует счётчики по классам категории CRITICAL.
func CriticalCount(counts map[string]int) int {
	n := 0
	for cn, c := range counts {
		if SeverityOf(cn) == SeverityCritical {
			n += c
		}
	}
	return n
}

// WarningCount суммирует счётчики по классам категории WARNING.
func WarningCount(counts map[string]int) int {
	n := 0
	for cn, c := range counts {
		if SeverityOf(cn) == SeverityWarning {
			n += c
		}
	}
	return n
}

// ClassifyRisk вычисляет уровень риска миссии из счётчиков обнаружений
// и общего числа записанных событий. Чистая функция без состояния.
func ClassifyRisk(counts map[string]int, total int) RiskLevel {
	crit := CriticalCount(counts)
	warn := WarningCount(counts)

	switch {
	case crit >= 2 || (crit == 1 && warn >= 3):
		return RiskHigh
	case crit == 1 || warn >= 3:
		return RiskMedium
	case total > 0:
		return RiskLow
	default:
		return RiskNone
	}
}
