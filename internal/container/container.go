package container

import (
	app "nauticai/internal/application"
	"nauticai/internal/domain/port"
)

// Container собирает сервисы приложения и их зависимости.
type Container struct {
	DetectionService *app.DetectionService
	MissionService   *app.MissionService
	ReportService    *app.ReportService

	Detector  port.AnomalyDetector
	OpenVideo func(path string) (port.FrameSource, error)
}

func New(
	detector port.AnomalyDetector,
	augmenter port.FrameAugmenter,
	enhancer port.NarrativeEnhancer,
	alerter port.AlertSender,
	renderer port.ReportRenderer,
	openVideo func(path string) (port.FrameSource, error),
) *Container {
	return &Container{
		DetectionService: app.NewDetectionService(detector, augmenter),
		MissionService:   app.NewMissionService(enhancer, alerter),
		ReportService:    app.NewReportService(renderer),
		Detector:         detector,
		OpenVideo:        openVideo,
	}
}
