package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nauticai/internal/domain/entity"
	"nauticai/internal/domain/port"
)

// ErrInvalidInput помечает ошибки валидации входных данных.
// Транспортный слой превращает их в ответ 400.
var ErrInvalidInput = errors.New("invalid input")

// DetectionService управляет прогоном детектора по фото и видео
// и ведёт журнал аномалий миссии с дедупликацией.
type DetectionService struct {
	detector  port.AnomalyDetector
	augmenter port.FrameAugmenter
}

// NewDetectionService создаёт сервис обработки кадров.
func NewDetectionService(detector port.AnomalyDetector, augmenter port.FrameAugmenter) *DetectionService {
	return &DetectionService{detector: detector, augmenter: augmenter}
}

// DetectOptions — параметры одного прогона детектора.
type DetectOptions struct {
	Confidence float64 // порог уверенности
	Simulate   bool    // включить имитацию подводной съёмки
	Turbidity  string  // уровень мутности: low / medium / high
	MarineSnow bool    // добавить "морской снег"
}

// VideoOptions — параметры выборки кадров видео.
type VideoOptions struct {
	DetectOptions
	FrameStride int // брать каждый N-й кадр, минимум 1
	MaxFrames   int // ограничение на число обработанных кадров, 0 — без лимита
}

// ImageResult — результат обработки одного изображения.
type ImageResult struct {
	Detections []entity.Detection
	Annotated  []byte
	Log        *entity.SessionLog
}

// VideoResult — результат обработки видео.
type VideoResult struct {
	Log             *entity.SessionLog
	FramesProcessed int
}

// ProcessImage прогоняет детектор по одному изображению. Каждый бокс
// передаётся в журнал отдельно: несколько находок одного класса на
// кадре проходят независимые проверки дедупликации.
func (s *DetectionService) ProcessImage(ctx context.Context, frame []byte, opts DetectOptions) (*ImageResult, error) {
	if s.detector == nil {
		return nil, errors.New("detector is not configured")
	}

	frame, err := s.maybeAugment(frame, opts)
	if err != nil {
		return nil, err
	}

	pred, err := s.detector.Predict(ctx, frame, opts.Confidence)
	if err != nil {
		if errors.Is(err, port.ErrUndecodableFrame) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}

	log := entity.NewSessionLog()
	if len(pred.Detections) > 0 {
		ts := time.Now().Format("15:04:05")
		for _, det := range pred.Detections {
			log.Log(det.ClassName, det.Confidence, ts, pred.Annotated)
		}
	}

	return &ImageResult{
		Detections: pred.Detections,
		Annotated:  pred.Annotated,
		Log:        log,
	}, nil
}

// ProcessVideo читает кадры источника с заданным шагом и прогоняет
// детектор по выбранным кадрам. Внутри одного кадра находки каждого
// класса схлопываются до самой уверенной. Сбой чтения посреди потока
// завершает выборку, накопленный журнал возвращается как обычный
// частичный результат.
func (s *DetectionService) ProcessVideo(ctx context.Context, src port.FrameSource, opts VideoOptions) (*VideoResult, error) {
	if s.detector == nil {
		return nil, errors.New("detector is not configured")
	}

	stride := opts.FrameStride
	if stride < 1 {
		stride = 1
	}
	fps := src.FPS()
	if fps <= 0 {
		fps = 1
	}

	log := entity.NewSessionLog()
	frameIndex := 0
	processed := 0

	for opts.MaxFrames <= 0 || processed < opts.MaxFrames {
		frame, err := src.Next()
		if err != nil {
			break
		}
		frameIndex++
		if frameIndex%stride != 0 {
			continue
		}

		frame, err = s.maybeAugment(frame, opts.DetectOptions)
		if err != nil {
			break
		}

		pred, err := s.detector.Predict(ctx, frame, opts.Confidence)
		if err != nil {
			break
		}

		if len(pred.Detections) > 0 {
			sec := float64(frameIndex) / fps
			ts := fmt.Sprintf("%02d:%02d", int(sec)/60, int(sec)%60)
			for _, det := range collapseBestPerClass(pred.Detections) {
				log.Log(det.ClassName, det.Confidence, ts, pred.Annotated)
			}
		}
		processed++
	}

	return &VideoResult{Log: log, FramesProcessed: processed}, nil
}

func (s *DetectionService) maybeAugment(frame []byte, opts DetectOptions) ([]byte, error) {
	if !opts.Simulate || s.augmenter == nil {
		return frame, nil
	}
	out, err := s.augmenter.Apply(frame, opts.Turbidity, opts.MarineSnow)
	if err != nil {
		return nil, fmt.Errorf("underwater simulation: %w", err)
	}
	return out, nil
}

// collapseBestPerClass оставляет для каждого класса самый уверенный бокс,
// сохраняя порядок первого появления классов.
func collapseBestPerClass(dets []entity.Detection) []entity.Detection {
	bestIdx := make(map[string]int, len(dets))
	order := make([]string, 0, len(dets))
	for i, det := range dets {
		j, seen := bestIdx[det.ClassName]
		if !seen {
			bestIdx[det.ClassName] = i
			order = append(order, det.ClassName)
			continue
		}
		if det.Confidence > dets[j].Confidence {
			bestIdx[det.ClassName] = i
		}
	}

	out := make([]entity.Detection, 0, len(order))
	for _, cn := range order {
		out = append(out, dets[bestIdx[cn]])
	}
	return out
}
