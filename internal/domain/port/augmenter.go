package port

// FrameAugmenter интерфейс имитации подводных условий съёмки
type FrameAugmenter interface {
	// Apply накладывает подводные искажения на кадр и возвращает новый кадр
	Apply(frame []byte, turbidity string, marineSnow bool) ([]byte, error)
}
