package port

// FrameSource интерфейс последовательного источника кадров видео.
// Порядок кадров определяет таймкоды, поэтому чтение строго поочерёдное.
type FrameSource interface {
	// Next возвращает следующий кадр (JPEG); io.EOF в конце потока
	Next() ([]byte, error)

	// FPS возвращает частоту кадров источника
	FPS() float64

	// Close освобождает ресурсы источника
	Close() error
}
