package main

import (
	"log"

	"nauticai/config"
	"nauticai/internal/api"
	"nauticai/internal/container"
	"nauticai/internal/domain/port"
	"nauticai/internal/infrastructure/agent"
	"nauticai/internal/infrastructure/messaging"
	"nauticai/internal/infrastructure/report"
	"nauticai/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Детектор аномалий
	detector := vision.NewYOLODetector(cfg.ModelPath, cfg.ONNXLibPath)
	augmenter := vision.NewUnderwaterAugmenter()

	// Генеративное улучшение брифинга (необязательно)
	var enhancer port.NarrativeEnhancer
	if cfg.GeminiAPIKey != "" {
		enhancer = agent.NewClient(cfg.GeminiAPIKey)
	} else {
		log.Println("GEMINI_API_KEY is not set, mission summaries stay heuristic")
	}

	// Канал оповещений
	var alerter port.AlertSender
	switch cfg.AlertChannel {
	case "telegram":
		sender, err := messaging.NewTelegramSender(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("Failed to create telegram sender: %v", err)
		}
		alerter = sender
	default:
		alerter = messaging.NewWhatsAppSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom)
	}

	openVideo := func(path string) (port.FrameSource, error) {
		return vision.OpenVideo(path)
	}

	// Собираем сервисы приложения
	appContainer := container.New(detector, augmenter, enhancer, alerter, report.NewHTMLRenderer(), openVideo)

	server := api.NewServer(appContainer)
	if err := server.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
