//go:build !gocv
// +build !gocv

package vision

import (
	"errors"

	"nauticai/internal/domain/port"
)

// UnderwaterAugmenter — заглушка для сборки без OpenCV.
type UnderwaterAugmenter struct{}

// NewUnderwaterAugmenter создаёт преобразователь-заглушку (без тега gocv).
func NewUnderwaterAugmenter() *UnderwaterAugmenter {
	return &UnderwaterAugmenter{}
}

// Apply возвращает ошибку, если сборка без тега gocv.
func (a *UnderwaterAugmenter) Apply(frame []byte, turbidity string, marineSnow bool) ([]byte, error) {
	_ = frame
	_ = turbidity
	_ = marineSnow
	return nil, errors.New("gocv build tag is not enabled")
}

var _ port.FrameAugmenter = (*UnderwaterAugmenter)(nil)
