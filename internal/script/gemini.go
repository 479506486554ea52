package script

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/lessonreel/internal/apperr"
	"github.com/nguyentantai21042004/lessonreel/internal/logger"
)

const scriptPrompt = `You are an experienced teacher writing a short narrated slide lesson.

Course requirement: %s
Target students: %s

Return ONLY a JSON object with this exact shape:
{
  "title": "course title",
  "segments": [
    {"title": "slide title", "bullets": ["point", "point", "point"], "narration": "what the teacher says on this slide"}
  ]
}

Rules:
- 5 to 7 segments, ordered as they should be taught
- 3 to 4 short bullets per segment (under 60 characters each)
- narration is 2 to 4 spoken sentences, plain text, no markdown
- adapt vocabulary and depth to the target students`

type callFunc func(ctx context.Context, apiKey, model, prompt string) (string, error)

type implGeminiGenerator struct {
	apiKeys    []string
	currentKey int
	model      string
	logger     logger.Logger
	call       callFunc
}

// NewGeminiGenerator creates a Generator backed by Gemini that rotates through apiKeys on quota errors.
func NewGeminiGenerator(apiKeys []string, model string, log logger.Logger) Generator {
	return &implGeminiGenerator{
		apiKeys: apiKeys,
		model:   model,
		logger:  log,
		call:    callGemini,
	}
}

// Generate asks Gemini for a script and returns it only if it passes Validate.
// Every failure is reported as ContentGenerationFailure.
func (g *implGeminiGenerator) Generate(ctx context.Context, requirement, persona string) (Script, error) {
	if strings.TrimSpace(requirement) == "" {
		return Script{}, apperr.New(apperr.InvalidRequest, "script.gemini", "course requirement is required")
	}
	if len(g.apiKeys) == 0 {
		return Script{}, apperr.New(apperr.ContentGenerationFailure, "script.gemini", "no API keys configured")
	}
	if strings.TrimSpace(persona) == "" {
		persona = "general audience"
	}

	raw, err := g.generateWithRotation(ctx, fmt.Sprintf(scriptPrompt, requirement, persona))
	if err != nil {
		return Script{}, apperr.Wrap(apperr.ContentGenerationFailure, "script.gemini", err)
	}

	s, err := ParseScript(raw)
	if err != nil {
		return Script{}, apperr.Wrap(apperr.ContentGenerationFailure, "script.gemini", err)
	}
	return s, nil
}

// generateWithRotation rotates API keys on 429 / quota errors.
func (g *implGeminiGenerator) generateWithRotation(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for range len(g.apiKeys) {
		key := g.apiKeys[g.currentKey]

		text, err := g.call(ctx, key, g.model, prompt)
		if err != nil {
			if isQuotaError(err) {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", g.currentKey+1)
				g.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}
		return text, nil
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *implGeminiGenerator) rotateKey() {
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func callGemini(ctx context.Context, apiKey, model, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", err
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text string
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text += part.Text
			}
		}
		return text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

// ParseScript decodes an untrusted JSON document into a Script and validates its shape.
// Markdown code fences around the JSON are tolerated.
func ParseScript(raw string) (Script, error) {
	raw = stripCodeFence(raw)
	if raw == "" {
		return Script{}, fmt.Errorf("empty document")
	}

	var s Script
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Script{}, fmt.Errorf("decode script: %w", err)
	}
	if err := Validate(&s); err != nil {
		return Script{}, err
	}
	return s, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
