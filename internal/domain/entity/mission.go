package entity

// Mission — метаданные одной инспекционной миссии.
type Mission struct {
	Name     string
	Operator string
	VesselID string
	Location string
}

// DefaultMission возвращает метаданные-заполнители для запросов,
// в которых клиент не указал собственные.
func DefaultMission() Mission {
	return Mission{
		Name:     "Subsea Inspection Mission",
		Operator: "NautiCAI Operator",
		VesselID: "ROV-NautiCAI-01",
		Location: "Offshore Location",
	}
}

// BoundingBox — прямоугольная область обнаружения на кадре.
type BoundingBox struct {
	X      int `json:"x"`      // координата X левого верхнего угла
	Y      int `json:"y"`      // координата Y левого верхнего угла
	Width  int `json:"width"`  // ширина области в пикселях
	Height int `json:"height"` // высота области в пикселях
}

// Center возвращает координаты центра области.
func (b BoundingBox) Center() (x, y int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Detection — один бокс, возвращённый детектором для кадра.
type Detection struct {
	ClassName  string
	Confidence float64
	Box        BoundingBox
}

// MissionNarrative — собранный текст брифинга миссии.
// Изменяем до финализации этапом улучшения, дальше только читаем.
type MissionNarrative struct {
	Headline        string
	Bullets         []string
	Highlights      []string
	Recommendations string
	AlertMessage    string
}

// DispatchOutcome — итог попытки отправить оповещение.
type DispatchOutcome struct {
	Attempted bool   `json:"attempted"`
	Sent      bool   `json:"sent"`
	Info      string `json:"info"`
}
