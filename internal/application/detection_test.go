package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"nauticai/internal/domain/entity"
	"nauticai/internal/domain/port"
)

// fakeDetector выдаёт заранее заданные находки по порядку вызовов.
type fakeDetector struct {
	calls   int
	frames  [][]byte
	scripts [][]entity.Detection
	err     error
}

func (d *fakeDetector) Predict(_ context.Context, frame []byte, _ float64) (*port.FramePrediction, error) {
	if d.err != nil {
		return nil, d.err
	}
	d.calls++
	d.frames = append(d.frames, frame)

	var dets []entity.Detection
	if len(d.scripts) > 0 {
		dets = d.scripts[0]
		d.scripts = d.scripts[1:]
	}
	return &port.FramePrediction{Detections: dets, Annotated: []byte("annotated")}, nil
}

func (d *fakeDetector) ModelName() string { return "fake" }

// fakeSource выдаёт нумерованные кадры; после failAt кадров возвращает сбой.
type fakeSource struct {
	total  int
	served int
	failAt int // 0 — без сбоя
	fps    float64
}

func (s *fakeSource) Next() ([]byte, error) {
	if s.failAt > 0 && s.served >= s.failAt {
		return nil, errors.New("read failure")
	}
	if s.served >= s.total {
		return nil, io.EOF
	}
	s.served++
	return []byte(fmt.Sprintf("frame-%d", s.served)), nil
}

func (s *fakeSource) FPS() float64 { return s.fps }
func (s *fakeSource) Close() error { return nil }

func TestProcessImage_EachBoxLoggedIndependently(t *testing.T) {
	det := &fakeDetector{scripts: [][]entity.Detection{{
		{ClassName: "corrosion", Confidence: 0.9},
		{ClassName: "corrosion", Confidence: 0.95},
		{ClassName: "debris", Confidence: 0.6},
	}}}
	svc := NewDetectionService(det, nil)

	res, err := svc.ProcessImage(context.Background(), []byte("img"), DetectOptions{Confidence: 0.25})
	require.NoError(t, err)

	// Все боксы возвращаются клиенту, но второй corrosion подавлен дедупликацией.
	require.Len(t, res.Detections, 3)
	require.Equal(t, 2, res.Log.Len())
	require.Equal(t, 1, res.Log.Counts()["corrosion"])
	require.Equal(t, 1, res.Log.Counts()["debris"])
}

func TestProcessImage_FrameReferenceShared(t *testing.T) {
	det := &fakeDetector{scripts: [][]entity.Detection{{
		{ClassName: "corrosion", Confidence: 0.9},
		{ClassName: "debris", Confidence: 0.2},
	}}}
	svc := NewDetectionService(det, nil)

	res, err := svc.ProcessImage(context.Background(), []byte("img"), DetectOptions{})
	require.NoError(t, err)

	events := res.Log.Events()
	require.Len(t, events, 2)
	require.Equal(t, []byte("annotated"), events[0].FrameBytes)
	require.Equal(t, []byte("annotated"), events[1].FrameBytes)
}

func TestProcessImage_UndecodableIsValidationError(t *testing.T) {
	det := &fakeDetector{err: fmt.Errorf("decode: %w", port.ErrUndecodableFrame)}
	svc := NewDetectionService(det, nil)

	_, err := svc.ProcessImage(context.Background(), []byte("garbage"), DetectOptions{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestProcessImage_DetectorMissing(t *testing.T) {
	svc := NewDetectionService(nil, nil)
	_, err := svc.ProcessImage(context.Background(), []byte("img"), DetectOptions{})
	require.Error(t, err)
}

func TestProcessVideo_StrideAndCap(t *testing.T) {
	det := &fakeDetector{}
	src := &fakeSource{total: 12, fps: 30}
	svc := NewDetectionService(det, nil)

	res, err := svc.ProcessVideo(context.Background(), src, VideoOptions{FrameStride: 2, MaxFrames: 5})
	require.NoError(t, err)

	require.Equal(t, 5, res.FramesProcessed)
	require.Equal(t, 5, det.calls)
	// Обрабатываются кадры 2, 4, 6, 8, 10.
	require.Equal(t, []byte("frame-2"), det.frames[0])
	require.Equal(t, []byte("frame-10"), det.frames[4])
}

func TestProcessVideo_CollapsesPerClassWithinFrame(t *testing.T) {
	det := &fakeDetector{scripts: [][]entity.Detection{{
		{ClassName: "corrosion", Confidence: 0.6},
		{ClassName: "corrosion", Confidence: 0.9},
		{ClassName: "debris", Confidence: 0.4},
	}}}
	src := &fakeSource{total: 1, fps: 1}
	svc := NewDetectionService(det, nil)

	res, err := svc.ProcessVideo(context.Background(), src, VideoOptions{FrameStride: 1})
	require.NoError(t, err)

	events := res.Log.Events()
	require.Len(t, events, 2)
	// От corrosion остаётся только самое уверенное значение кадра.
	require.Equal(t, "corrosion", events[0].ClassName)
	require.Equal(t, 0.9, events[0].Confidence)
	require.Equal(t, "debris", events[1].ClassName)
}

func TestProcessVideo_TimestampFromFramePosition(t *testing.T) {
	det := &fakeDetector{scripts: [][]entity.Detection{
		{},
		{{ClassName: "debris", Confidence: 0.7}},
	}}
	// 1 fps: второй обработанный кадр (номер 130 при шаге 65) — 02:10.
	src := &fakeSource{total: 130, fps: 1}
	svc := NewDetectionService(det, nil)

	res, err := svc.ProcessVideo(context.Background(), src, VideoOptions{FrameStride: 65})
	require.NoError(t, err)

	events := res.Log.Events()
	require.Len(t, events, 1)
	require.Equal(t, "02:10", events[0].Timestamp)
}

func TestProcessVideo_MidStreamFailureReturnsPartial(t *testing.T) {
	det := &fakeDetector{scripts: [][]entity.Detection{
		{{ClassName: "corrosion", Confidence: 0.9}},
	}}
	src := &fakeSource{total: 100, failAt: 3, fps: 1}
	svc := NewDetectionService(det, nil)

	res, err := svc.ProcessVideo(context.Background(), src, VideoOptions{FrameStride: 1})
	require.NoError(t, err)

	require.Equal(t, 3, res.FramesProcessed)
	require.Equal(t, 1, res.Log.Len())
}

func TestCollapseBestPerClass_KeepsFirstAppearanceOrder(t *testing.T) {
	dets := []entity.Detection{
		{ClassName: "debris", Confidence: 0.3},
		{ClassName: "corrosion", Confidence: 0.8},
		{ClassName: "debris", Confidence: 0.7},
	}

	out := collapseBestPerClass(dets)
	require.Len(t, out, 2)
	require.Equal(t, "debris", out[0].ClassName)
	require.Equal(t, 0.7, out[0].Confidence)
	require.Equal(t, "corrosion", out[1].ClassName)
}
