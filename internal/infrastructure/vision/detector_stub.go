//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"nauticai/internal/domain/port"
)

// YOLODetector — заглушка для сборки без OpenCV.
type YOLODetector struct {
	modelPath string
	libPath   string
}

// NewYOLODetector создаёт детектор-заглушку (без тега gocv).
func NewYOLODetector(modelPath, libPath string) *YOLODetector {
	return &YOLODetector{modelPath: modelPath, libPath: libPath}
}

// ModelName возвращает человекочитаемое имя модели.
func (d *YOLODetector) ModelName() string {
	return fmt.Sprintf("YOLOv8 ONNX (%s)", filepath.Base(d.modelPath))
}

// Predict возвращает ошибку, если сборка без тега gocv.
func (d *YOLODetector) Predict(ctx context.Context, frame []byte, confidence float64) (*port.FramePrediction, error) {
	_ = ctx
	_ = frame
	_ = confidence
	return nil, errors.New("gocv build tag is not enabled")
}

// Close ничего не освобождает в сборке-заглушке.
func (d *YOLODetector) Close() error { return nil }

var _ port.AnomalyDetector = (*YOLODetector)(nil)
