package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nauticai/internal/domain/port"
)

const (
	twilioBaseURL  = "https://api.twilio.com"
	twilioTimeout  = 15 * time.Second
	whatsappScheme = "whatsapp:"
)

// WhatsAppSender отправляет оповещения через Twilio WhatsApp API.
// Неполная конфигурация не ошибка: Send детерминированно сообщает об этом.
type WhatsAppSender struct {
	accountSID string
	authToken  string
	from       string // например "whatsapp:+14155238886"
	baseURL    string
	httpClient *http.Client
}

// WhatsAppOption настраивает отправителя.
type WhatsAppOption func(*WhatsAppSender)

// WithBaseURL переопределяет адрес API (используется в тестах).
func WithBaseURL(baseURL string) WhatsAppOption {
	return func(s *WhatsAppSender) { s.baseURL = baseURL }
}

// NewWhatsAppSender создаёт отправителя WhatsApp-оповещений.
func NewWhatsAppSender(accountSID, authToken, from string, opts ...WhatsAppOption) *WhatsAppSender {
	s := &WhatsAppSender{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    twilioBaseURL,
		httpClient: &http.Client{Timeout: twilioTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type twilioResponse struct {
	SID     string `json:"sid"`
	Message string `json:"message"`
}

// Send отправляет сообщение на номер назначения. Номер без схемы
// дополняется префиксом "whatsapp:", как требует провайдер.
func (s *WhatsAppSender) Send(ctx context.Context, destination, body string) (bool, string) {
	if s.accountSID == "" || s.authToken == "" || s.from == "" {
		return false, "Twilio WhatsApp not configured (set TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_WHATSAPP_FROM)"
	}

	to := strings.TrimSpace(destination)
	if !strings.HasPrefix(to, whatsappScheme) {
		to = whatsappScheme + to
	}

	form := url.Values{
		"From": {s.from},
		"To":   {to},
		"Body": {body},
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err.Error()
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, err.Error()
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err.Error()
	}

	var parsed twilioResponse
	_ = json.Unmarshal(respBody, &parsed)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return true, parsed.SID
	}
	if parsed.Message != "" {
		return false, parsed.Message
	}
	snippet := string(respBody)
	if len(snippet) > 512 {
		snippet = snippet[:512]
	}
	return false, fmt.Sprintf("HTTP %d: %s", resp.StatusCode, snippet)
}

var _ port.AlertSender = (*WhatsAppSender)(nil)
