package entity

// Severity — категория серьёзности класса аномалии.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
	SeverityNormal   Severity = "NORMAL"
)

// ClassNames — полный список классов модели в порядке индексов выхода.
var ClassNames = []string{
	"corrosion",
	"damage",
	"free_span",
	"marine_growth",
	"debris",
	"healthy",
	"anode",
}

// SeverityOf возвращает категорию класса. Неизвестные классы намеренно
// попадают в WARNING: лучше лишний раз насторожить оператора, чем
// молча проигнорировать находку.
func SeverityOf(className string) Severity {
	switch className {
	case "corrosion", "damage", "free_span":
		return SeverityCritical
	case "marine_growth", "debris":
		return SeverityWarning
	case "healthy", "anode":
		return SeverityNormal
	default:
		return SeverityWarning
	}
}

// MissionSummary — распределение журнала миссии по категориям.
type MissionSummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Warnings int `json:"warnings"`
	Normal   int `json:"normal"`
}

// Summarize считает итоги миссии по журналу аномалий.
func Summarize(events []AnomalyEvent) MissionSummary {
	sum := MissionSummary{Total: len(events)}
	for _, e := range events {
		switch SeverityOf(e.ClassName) {
		case SeverityCritical:
			sum.Critical++
		case SeverityNormal:
			sum.Normal++
		default:
			sum.Warnings++
		}
	}
	return sum
}
