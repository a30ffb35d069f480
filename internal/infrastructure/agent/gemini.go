package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"nauticai/internal/domain/entity"
	"nauticai/internal/domain/port"
)

const (
	defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent"
	requestTimeout  = 20 * time.Second
	maxLogEntries   = 32 // обрезаем журнал, чтобы полезная нагрузка оставалась небольшой
)

// Инструкция провайдеру: строгий JSON и построчный шаблон сообщения.
const systemPrompt = `You are an underwater inspection mission assistant for NautiCAI. ` +
	"Given structured detection data from hull/pipeline missions, you must:\n" +
	"1) Explain the mission risk level briefly.\n" +
	"2) Summarize the most important anomalies for an ROV/AUV operator.\n" +
	"3) Provide clear, concise next-step recommendations.\n" +
	"4) Generate a short WhatsApp-friendly alert message.\n" +
	"Respond strictly in compact JSON with keys: " +
	"headline (string), bullets (array of strings), " +
	"recommendations (string), whatsapp_message (string).\n\n" +
	"The whatsapp_message MUST follow this structure:\n" +
	"  - First line: \"Hey <operator_name>, we found <short risk summary>.\" (friendly but professional)\n" +
	"  - Then a blank line.\n" +
	"  - One line: \"Mission: <mission_name>\".\n" +
	"  - One line: \"Vessel/ROV: <vessel_id>\".\n" +
	"  - One line: \"Location: <location>\".\n" +
	"  - Blank line.\n" +
	"  - One line summarising counts, e.g. \"Detections: total=<total>, critical=<critical>, warnings=<warnings>.\".\n" +
	"  - Then a short bulleted list (max 3 bullets) of key findings, one per line, starting with \"• \".\n" +
	"  - Final line starting with \"Recommendation:\" and a concise action item.\n" +
	"Do not wrap the message in backticks or quotes. Keep it under 8 lines total."

// Client вызывает Gemini generateContent для улучшения брифинга миссии.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// Option настраивает клиента.
type Option func(*Client)

// WithEndpoint переопределяет адрес API (используется в тестах).
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithTimeout переопределяет таймаут HTTP-клиента.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient создаёт клиента Gemini.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type logEntryPayload struct {
	ClassName  string  `json:"class_name"`
	Confidence float64 `json:"confidence"`
	Timestamp  string  `json:"timestamp"`
}

type missionPayload struct {
	RiskLevel           string                `json:"risk_level"`
	MissionName         string                `json:"mission_name"`
	VesselID            string                `json:"vessel_id"`
	Location            string                `json:"location"`
	OperatorName        string                `json:"operator_name"`
	AnomalyLog          []logEntryPayload     `json:"anomaly_log"`
	DetCounts           map[string]int        `json:"det_counts"`
	Summary             entity.MissionSummary `json:"summary"`
	BaseHeadline        string                `json:"base_headline"`
	BaseRecommendations string                `json:"base_recommendations"`
	BaseWhatsAppMessage string                `json:"base_whatsapp_message"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type enhancementBody struct {
	Headline        string   `json:"headline"`
	Bullets         []string `json:"bullets"`
	Recommendations string   `json:"recommendations"`
	WhatsAppMessage string   `json:"whatsapp_message"`
}

// Enhance отправляет данные миссии провайдеру и разбирает его JSON-ответ.
// Любой сбой возвращается ошибкой; вызывающий деградирует в эвристику.
func (c *Client) Enhance(ctx context.Context, req port.EnhanceRequest) (*port.Enhancement, error) {
	if c.apiKey == "" {
		return nil, errors.New("gemini api key is not set")
	}

	events := req.Events
	if len(events) > maxLogEntries {
		events = events[:maxLogEntries]
	}
	logEntries := make([]logEntryPayload, 0, len(events))
	for _, e := range events {
		logEntries = append(logEntries, logEntryPayload{
			ClassName:  e.ClassName,
			Confidence: e.Confidence,
			Timestamp:  e.Timestamp,
		})
	}

	payload, err := json.MarshalIndent(missionPayload{
		RiskLevel:           string(req.Risk),
		MissionName:         req.Mission.Name,
		VesselID:            req.Mission.VesselID,
		Location:            req.Mission.Location,
		OperatorName:        req.Mission.Operator,
		AnomalyLog:          logEntries,
		DetCounts:           req.Counts,
		Summary:             req.Summary,
		BaseHeadline:        req.Narrative.Headline,
		BaseRecommendations: req.Narrative.Recommendations,
		BaseWhatsAppMessage: req.Narrative.AlertMessage,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal payload: %w", err)
	}

	userPrompt := "Here is the mission data in JSON format:\n" + string(payload) + "\n\n" +
		"Rewrite headline, bullets, recommendations and especially whatsapp_message to match the structure described " +
		"above. Use operator_name, mission_name, vessel_id, location, summary.total, summary.critical and " +
		"summary.warnings when constructing the message. " +
		"Return only JSON, no explanations."

	body, err := json.Marshal(generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: systemPrompt + "\n\n" + userPrompt}},
		}},
		GenerationConfig: generationConfig{
			Temperature:      0.2,
			MaxOutputTokens:  512,
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(respBody)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return nil, fmt.Errorf("gemini: HTTP %d: %s", resp.StatusCode, snippet)
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("gemini: empty response")
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	enh, err := parseEnhancement(text)
	if err != nil {
		return nil, err
	}
	enh.Raw = text
	return enh, nil
}

// parseEnhancement пытается разобрать тело целиком как JSON-объект;
// при неудаче один раз повторяет попытку на первой сбалансированной
// подстроке вида {...}.
func parseEnhancement(text string) (*port.Enhancement, error) {
	var body enhancementBody
	if err := json.Unmarshal([]byte(text), &body); err != nil {
		sub, ok := firstBalancedObject(text)
		if !ok {
			return nil, errors.New("gemini: response is not a JSON object")
		}
		if err := json.Unmarshal([]byte(sub), &body); err != nil {
			return nil, fmt.Errorf("gemini: unparsable response body: %w", err)
		}
	}

	return &port.Enhancement{
		Headline:        body.Headline,
		Bullets:         body.Bullets,
		Recommendations: body.Recommendations,
		AlertMessage:    body.WhatsAppMessage,
	}, nil
}

// firstBalancedObject вырезает первую подстроку с парными фигурными
// скобками, учитывая строковые литералы и экранирование.
func firstBalancedObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}
	return "", false
}

var _ port.NarrativeEnhancer = (*Client)(nil)
