//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"

	"gocv.io/x/gocv"

	"nauticai/internal/domain/port"
)

// UnderwaterAugmenter имитирует подводную съёмку: затухание красного
// канала, зеленовато-синюю дымку по уровню мутности и "морской снег".
type UnderwaterAugmenter struct{}

// NewUnderwaterAugmenter создаёт преобразователь кадров.
func NewUnderwaterAugmenter() *UnderwaterAugmenter {
	return &UnderwaterAugmenter{}
}

// Параметры дымки по уровню мутности: размер ядра размытия и доля дымки.
func turbidityParams(turbidity string) (kernel int, haze float64) {
	switch turbidity {
	case "low":
		return 3, 0.10
	case "high":
		return 13, 0.35
	default: // medium
		return 7, 0.20
	}
}

// Apply накладывает подводные искажения и возвращает новый JPEG-кадр.
func (a *UnderwaterAugmenter) Apply(frame []byte, turbidity string, marineSnow bool) ([]byte, error) {
	mat, err := gocv.IMDecode(frame, gocv.IMReadColor)
	if err != nil || mat.Empty() {
		if !mat.Empty() {
			mat.Close()
		}
		return nil, fmt.Errorf("%w: image decode failed", port.ErrUndecodableFrame)
	}
	defer mat.Close()

	// Вода поглощает красный сильнее всего, зелёный — слабее.
	channels := gocv.Split(mat)
	channels[2].MultiplyFloat(0.45)
	channels[1].MultiplyFloat(0.90)
	attenuated := gocv.NewMat()
	gocv.Merge(channels, &attenuated)
	for i := range channels {
		channels[i].Close()
	}
	defer attenuated.Close()

	kernel, hazeRatio := turbidityParams(turbidity)
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(attenuated, &blurred, image.Pt(kernel, kernel), 0, 0, gocv.BorderDefault)

	haze := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(110, 130, 60, 0), blurred.Rows(), blurred.Cols(), blurred.Type())
	defer haze.Close()

	out := gocv.NewMat()
	defer out.Close()
	gocv.AddWeighted(blurred, 1-hazeRatio, haze, hazeRatio, 0, &out)

	if marineSnow {
		drawMarineSnow(&out)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, out)
	if err != nil {
		return nil, fmt.Errorf("encode augmented frame: %w", err)
	}
	defer buf.Close()

	encoded := make([]byte, buf.Len())
	copy(encoded, buf.GetBytes())
	return encoded, nil
}

// drawMarineSnow рассыпает по кадру мелкие светлые частицы.
func drawMarineSnow(mat *gocv.Mat) {
	white := color.RGBA{R: 235, G: 240, B: 240, A: 255}
	count := mat.Cols() * mat.Rows() / 18000
	for i := 0; i < count; i++ {
		pt := image.Pt(rand.Intn(mat.Cols()), rand.Intn(mat.Rows()))
		gocv.Circle(mat, pt, 1+rand.Intn(2), white, -1)
	}
}

var _ port.FrameAugmenter = (*UnderwaterAugmenter)(nil)
