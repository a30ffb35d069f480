package entity

import "math"

// DedupThreshold — минимальная абсолютная разница уверенности,
// при которой повторное обнаружение класса считается новой аномалией.
const DedupThreshold = 0.50

// AnomalyEvent — одна зафиксированная аномалия в журнале миссии.
type AnomalyEvent struct {
	ClassName  string  // класс аномалии (corrosion, marine_growth, ...)
	Confidence float64 // уверенность детектора в диапазоне [0, 1]
	Timestamp  string  // "HH:MM:SS" для фото или "mm:ss" для видео
	FrameBytes []byte  // аннотированный кадр (JPEG), может быть nil
}

// SessionLog хранит журнал аномалий одной миссии и историю уверенности
// по классам. Состояние принадлежит одному запросу и не разделяется.
type SessionLog struct {
	events  []AnomalyEvent
	history map[string][]float64
	counts  map[string]int
}

// NewSessionLog создаёт пустой журнал миссии.
func NewSessionLog() *SessionLog {
	return &SessionLog{
		history: make(map[string][]float64),
		counts:  make(map[string]int),
	}
}

// Log добавляет событие в журнал, если уверенность отличается от каждого
// ранее записанного значения этого класса не меньше чем на DedupThreshold.
// Первое обнаружение класса записывается всегда.
// Возвращает true, если событие было записано.
func (s *SessionLog) Log(className string, confidence float64, timestamp string, frameBytes []byte) bool {
	for _, prev := range s.history[className] {
		if math.Abs(confidence-prev) < DedupThreshold {
			return false
		}
	}

	s.events = append(s.events, AnomalyEvent{
		ClassName:  className,
		Confidence: confidence,
		Timestamp:  timestamp,
		FrameBytes: frameBytes,
	})
	s.history[className] = append(s.history[className], confidence)
	s.counts[className]++
	return true
}

// Events возвращает журнал в порядке обнаружения.
func (s *SessionLog) Events() []AnomalyEvent {
	return s.events
}

// Counts возвращает копию счётчиков записанных событий по классам.
func (s *SessionLog) Counts() map[string]int {
	out := make(map[string]int, len(s.counts))
	for cn, n := range s.counts {
		out[cn] = n
	}
	return out
}

// Len возвращает число записанных событий.
func (s *SessionLog) Len() int {
	return len(s.events)
}
