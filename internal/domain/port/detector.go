package port

import (
	"context"
	"errors"

	"nauticai/internal/domain/entity"
)

// ErrUndecodableFrame сообщает, что байты кадра не удалось раскодировать.
// Транспортный слой превращает такую ошибку в отказ валидации.
var ErrUndecodableFrame = errors.New("undecodable frame")

// FramePrediction — результат одного прогона детектора по кадру.
type FramePrediction struct {
	Detections []entity.Detection
	Annotated  []byte // аннотированный кадр (JPEG)
}

// AnomalyDetector интерфейс детектора подводных аномалий
type AnomalyDetector interface {
	// Predict запускает инференс на одном кадре с порогом уверенности
	Predict(ctx context.Context, frame []byte, confidence float64) (*FramePrediction, error)

	// ModelName возвращает человекочитаемое имя модели
	ModelName() string
}
