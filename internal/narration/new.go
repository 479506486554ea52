package narration

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nguyentantai21042004/lessonreel/internal/config"
	"github.com/nguyentantai21042004/lessonreel/internal/logger"
	"github.com/nguyentantai21042004/lessonreel/internal/media"
)

type implSynthesizer struct {
	cfg     config.NarrationConfig
	timeout time.Duration
	ext     string
	tts     TTS
	tools   media.Tools
	logger  logger.Logger
}

// New creates a Synthesizer speaking through tts and measuring clips with tools.
func New(cfg *config.Config, tts TTS, tools media.Tools, log logger.Logger) Synthesizer {
	return &implSynthesizer{
		cfg:     cfg.Narration,
		timeout: time.Duration(cfg.TTS.TimeoutSeconds) * time.Second,
		ext:     clipExt(cfg.TTS),
		tts:     tts,
		tools:   tools,
		logger:  log,
	}
}

// NewTTS builds the speech provider selected by tts.provider.
func NewTTS(cfg *config.Config, tools media.Tools, log logger.Logger) (TTS, error) {
	switch cfg.TTS.Provider {
	case config.TTSProviderGemini:
		return newGeminiTTS(cfg.Gemini.APIKeys, cfg.TTS.Model, cfg.TTS.Voice, tools, log), nil
	case config.TTSProviderHTTP:
		client := &http.Client{Timeout: time.Duration(cfg.TTS.TimeoutSeconds) * time.Second}
		return newHTTPTTS(cfg.TTS, client), nil
	case config.TTSProviderNone:
		return noneTTS{}, nil
	default:
		return nil, fmt.Errorf("unsupported tts provider: %s", cfg.TTS.Provider)
	}
}

func clipExt(cfg config.TTSConfig) string {
	if cfg.Provider == config.TTSProviderHTTP {
		return "." + cfg.Format
	}
	return ".wav"
}
