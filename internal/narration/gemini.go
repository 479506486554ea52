package narration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/lessonreel/internal/logger"
	"github.com/nguyentantai21042004/lessonreel/internal/media"
)

const defaultPCMRate = 24000

// speechFunc returns raw PCM samples and their MIME type.
type speechFunc func(ctx context.Context, apiKey, model, voice, text string) ([]byte, string, error)

// geminiTTS asks a Gemini speech model for PCM audio and wraps it into a WAV clip.
type geminiTTS struct {
	apiKeys    []string
	currentKey int
	model      string
	voice      string
	tools      media.Tools
	logger     logger.Logger
	call       speechFunc
}

func newGeminiTTS(apiKeys []string, model, voice string, tools media.Tools, log logger.Logger) *geminiTTS {
	return &geminiTTS{
		apiKeys: apiKeys,
		model:   model,
		voice:   voice,
		tools:   tools,
		logger:  log,
		call:    callGeminiSpeech,
	}
}

func (t *geminiTTS) Speak(ctx context.Context, text, outPath string) error {
	if len(t.apiKeys) == 0 {
		return errors.New("no Gemini API keys configured")
	}

	pcm, mimeType, err := t.speakWithRotation(ctx, text)
	if err != nil {
		return err
	}
	if len(pcm) == 0 {
		return errors.New("empty audio in Gemini response")
	}

	pcmPath := outPath + ".pcm"
	if err := os.WriteFile(pcmPath, pcm, 0644); err != nil {
		return fmt.Errorf("write pcm: %w", err)
	}
	defer os.Remove(pcmPath)

	return t.tools.TranscodePCM(ctx, pcmPath, pcmRate(mimeType), outPath)
}

func (t *geminiTTS) speakWithRotation(ctx context.Context, text string) ([]byte, string, error) {
	var lastErr error

	for range len(t.apiKeys) {
		pcm, mimeType, err := t.call(ctx, t.apiKeys[t.currentKey], t.model, t.voice, text)
		if err != nil {
			if isQuotaError(err) {
				t.logger.Warn(ctx, "Speech key %d rate limited, rotating...", t.currentKey+1)
				t.currentKey = (t.currentKey + 1) % len(t.apiKeys)
				lastErr = err
				continue
			}
			return nil, "", fmt.Errorf("generate speech: %w", err)
		}
		return pcm, mimeType, nil
	}

	return nil, "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// pcmRate reads the sample rate from a MIME type like "audio/L16;codec=pcm;rate=24000".
func pcmRate(mimeType string) int {
	for _, param := range strings.Split(mimeType, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
		if ok && strings.EqualFold(k, "rate") {
			if rate, err := strconv.Atoi(v); err == nil && rate > 0 {
				return rate
			}
		}
	}
	return defaultPCMRate
}

func callGeminiSpeech(ctx context.Context, apiKey, model, voice, text string) ([]byte, string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(text), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	})
	if err != nil {
		return nil, "", err
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		for _, part := range result.Candidates[0].Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, part.InlineData.MIMEType, nil
			}
		}
	}

	return nil, "", errors.New("no audio in Gemini response")
}
