package narration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/nguyentantai21042004/lessonreel/internal/config"
)

// httpTTS speaks through an OpenAI-compatible /audio/speech endpoint.
type httpTTS struct {
	endpoint string
	apiKey   string
	model    string
	voice    string
	format   string
	client   *http.Client
}

func newHTTPTTS(cfg config.TTSConfig, client *http.Client) *httpTTS {
	return &httpTTS{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		voice:    cfg.Voice,
		format:   cfg.Format,
		client:   client,
	}
}

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

func (t *httpTTS) Speak(ctx context.Context, text, outPath string) error {
	body, err := json.Marshal(speechRequest{
		Model:          t.model,
		Input:          text,
		Voice:          t.voice,
		ResponseFormat: t.format,
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("tts error: %s - %s", resp.Status, bytes.TrimSpace(msg))
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create clip: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("write clip: %w", err)
	}
	return f.Close()
}
