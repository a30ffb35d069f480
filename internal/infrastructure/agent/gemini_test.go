package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"nauticai/internal/domain/entity"
	"nauticai/internal/domain/port"
)

func enhanceRequest() port.EnhanceRequest {
	return port.EnhanceRequest{
		Risk:    entity.RiskHigh,
		Mission: entity.DefaultMission(),
		Events: []entity.AnomalyEvent{
			{ClassName: "corrosion", Confidence: 0.9, Timestamp: "00:10"},
		},
		Counts:  map[string]int{"corrosion": 1},
		Summary: entity.MissionSummary{Total: 1, Critical: 1},
		Narrative: entity.MissionNarrative{
			Headline:        "base headline",
			Recommendations: "base recommendations",
			AlertMessage:    "base alert",
		},
	}
}

// candidateResponse оборачивает текст в формат ответа generateContent.
func candidateResponse(t *testing.T, text string) []byte {
	t.Helper()
	resp := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	out, err := json.Marshal(resp)
	require.NoError(t, err)
	return out
}

func TestEnhance_ParsesStrictJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NotEmpty(t, r.URL.Query().Get("key"))
		w.Write(candidateResponse(t, `{"headline":"h","bullets":["a","b"],"recommendations":"r","whatsapp_message":"m"}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithEndpoint(srv.URL))
	enh, err := c.Enhance(context.Background(), enhanceRequest())
	require.NoError(t, err)
	require.Equal(t, "h", enh.Headline)
	require.Equal(t, []string{"a", "b"}, enh.Bullets)
	require.Equal(t, "r", enh.Recommendations)
	require.Equal(t, "m", enh.AlertMessage)
	require.NotEmpty(t, enh.Raw)
}

func TestEnhance_ExtractsBalancedObjectFromProse(t *testing.T) {
	text := "Sure, here is the JSON you asked for:\n{\"headline\":\"extracted\"}\nHope this helps!"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateResponse(t, text))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithEndpoint(srv.URL))
	enh, err := c.Enhance(context.Background(), enhanceRequest())
	require.NoError(t, err)
	require.Equal(t, "extracted", enh.Headline)
	require.Empty(t, enh.Bullets)
}

func TestEnhance_MalformedBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateResponse(t, "no json here at all"))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithEndpoint(srv.URL))
	_, err := c.Enhance(context.Background(), enhanceRequest())
	require.Error(t, err)
}

func TestEnhance_EmptyCandidatesIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithEndpoint(srv.URL))
	_, err := c.Enhance(context.Background(), enhanceRequest())
	require.Error(t, err)
}

func TestEnhance_HTTPErrorIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithEndpoint(srv.URL))
	_, err := c.Enhance(context.Background(), enhanceRequest())
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}

func TestEnhance_MissingKeyIsError(t *testing.T) {
	c := NewClient("")
	_, err := c.Enhance(context.Background(), enhanceRequest())
	require.Error(t, err)
}

func TestEnhance_TrimsLogTo32Entries(t *testing.T) {
	var gotEntries int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		text := req.Contents[0].Parts[0].Text
		// Считаем записи журнала в полезной нагрузке.
		var count int
		for i := 0; i+12 <= len(text); i++ {
			if text[i:i+12] == `"class_name"` {
				count++
			}
		}
		gotEntries = count
		w.Write(candidateResponse(t, `{"headline":"h"}`))
	}))
	defer srv.Close()

	req := enhanceRequest()
	req.Events = make([]entity.AnomalyEvent, 50)
	for i := range req.Events {
		req.Events[i] = entity.AnomalyEvent{ClassName: "debris", Confidence: 0.5, Timestamp: "00:01"}
	}

	c := NewClient("test-key", WithEndpoint(srv.URL))
	_, err := c.Enhance(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 32, gotEntries)
}

func TestFirstBalancedObject(t *testing.T) {
	sub, ok := firstBalancedObject(`prefix {"a":{"b":1},"s":"}"} suffix {"x":2}`)
	require.True(t, ok)
	require.Equal(t, `{"a":{"b":1},"s":"}"}`, sub)

	_, ok = firstBalancedObject("no braces")
	require.False(t, ok)

	_, ok = firstBalancedObject("{unclosed")
	require.False(t, ok)
}
