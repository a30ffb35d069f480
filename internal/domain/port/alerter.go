package port

import "context"

// AlertSender интерфейс провайдера исходящих оповещений
type AlertSender interface {
	// Send отправляет сообщение на адрес назначения.
	// Возвращает флаг успеха и id сообщения либо текст ошибки провайдера.
	Send(ctx context.Context, destination, body string) (bool, string)
}
