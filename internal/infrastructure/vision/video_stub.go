//go:build !gocv
// +build !gocv

package vision

import (
	"errors"

	"nauticai/internal/domain/port"
)

// VideoSource — заглушка для сборки без OpenCV.
type VideoSource struct{}

// OpenVideo возвращает ошибку, если сборка без тега gocv.
func OpenVideo(path string) (*VideoSource, error) {
	_ = path
	return nil, errors.New("gocv build tag is not enabled")
}

// Next возвращает ошибку, если сборка без тега gocv.
func (v *VideoSource) Next() ([]byte, error) {
	return nil, errors.New("gocv build tag is not enabled")
}

// FPS возвращает нулевую частоту кадров.
func (v *VideoSource) FPS() float64 { return 0 }

// Close ничего не освобождает в сборке-заглушке.
func (v *VideoSource) Close() error { return nil }

var _ port.FrameSource = (*VideoSource)(nil)
