//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"io"

	"gocv.io/x/gocv"

	"nauticai/internal/domain/port"
)

// VideoSource читает кадры видеофайла через gocv.VideoCapture
// строго по порядку: позиция кадра определяет таймкод.
type VideoSource struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
	fps     float64
}

// OpenVideo открывает видеофайл. Нечитаемый файл — ошибка валидации.
func OpenVideo(path string) (*VideoSource, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open video: %v", port.ErrUndecodableFrame, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: could not open video", port.ErrUndecodableFrame)
	}

	return &VideoSource{
		capture: capture,
		frame:   gocv.NewMat(),
		fps:     capture.Get(gocv.VideoCaptureFPS),
	}, nil
}

// Next возвращает следующий кадр в JPEG; io.EOF в конце потока.
func (v *VideoSource) Next() ([]byte, error) {
	if ok := v.capture.Read(&v.frame); !ok || v.frame.Empty() {
		return nil, io.EOF
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, v.frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// FPS возвращает частоту кадров; для битых контейнеров минимум 1.
func (v *VideoSource) FPS() float64 {
	if v.fps > 0 {
		return v.fps
	}
	return 1
}

// Close освобождает ресурсы захвата.
func (v *VideoSource) Close() error {
	v.frame.Close()
	return v.capture.Close()
}

var _ port.FrameSource = (*VideoSource)(nil)
