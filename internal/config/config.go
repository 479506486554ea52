package config

import (
	"fmt"
	"strings"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Paths     PathsConfig     `yaml:"paths"`
	FFmpeg    FFmpegConfig    `yaml:"ffmpeg"`
	Render    RenderConfig    `yaml:"render"`
	Narration NarrationConfig `yaml:"narration"`
	TTS       TTSConfig       `yaml:"tts"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Overlay   OverlayConfig   `yaml:"overlay"`
	Handout   HandoutConfig   `yaml:"handout"`
	Intake    IntakeConfig    `yaml:"intake"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port                   string `yaml:"port"`
	FilesRoute             string `yaml:"files_route"`
	RequestTimeoutSeconds  int    `yaml:"request_timeout_seconds"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
}

type PathsConfig struct {
	Output string `yaml:"output"`
	Temp   string `yaml:"temp"`
	Inbox  string `yaml:"inbox"`
}

type FFmpegConfig struct {
	Binary       string `yaml:"binary"`
	ProbeBinary  string `yaml:"probe_binary"`
	Encoder      string `yaml:"encoder"`
	Preset       string `yaml:"preset"`
	AudioCodec   string `yaml:"audio_codec"`
	AudioBitrate string `yaml:"audio_bitrate"`
	SampleRate   int    `yaml:"sample_rate"`
	FrameRate    int    `yaml:"frame_rate"`
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	CanvasColor  string `yaml:"canvas_color"`
}

type RenderConfig struct {
	StderrTailBytes int `yaml:"stderr_tail_bytes"`
}

type NarrationConfig struct {
	PaddingSeconds   float64 `yaml:"padding_seconds"`
	MinSilentSeconds float64 `yaml:"min_silent_seconds"`
	MinClipBytes     int64   `yaml:"min_clip_bytes"`
}

type TTSConfig struct {
	Provider       string `yaml:"provider"`
	Voice          string `yaml:"voice"`
	Model          string `yaml:"model"`
	Endpoint       string `yaml:"endpoint"`
	Format         string `yaml:"format"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	APIKey         string `yaml:"-"`
}

type GeminiConfig struct {
	Enabled bool     `yaml:"enabled"`
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"-"`
}

type OverlayConfig struct {
	FontFile  string `yaml:"font_file"`
	WrapWidth int    `yaml:"wrap_width"`
}

type HandoutConfig struct {
	Enabled bool `yaml:"enabled"`
}

// IntakeConfig tunes the drop-folder watcher. It only runs when paths.inbox is set.
type IntakeConfig struct {
	MaxPending   int `yaml:"max_pending"`
	SettleMillis int `yaml:"settle_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	TTSProviderGemini = "gemini"
	TTSProviderHTTP   = "http"
	TTSProviderNone   = "none"
)

func (c *Config) Validate() error {
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if c.Narration.PaddingSeconds < 0 {
		return fmt.Errorf("narration.padding_seconds must not be negative")
	}
	if c.Narration.MinSilentSeconds < 0 {
		return fmt.Errorf("narration.min_silent_seconds must not be negative")
	}

	if c.Server.Port == "" {
		c.Server.Port = "3456"
	}
	if c.Server.FilesRoute == "" {
		c.Server.FilesRoute = "/files"
	}
	c.Server.FilesRoute = "/" + strings.Trim(c.Server.FilesRoute, "/")
	if c.Server.RequestTimeoutSeconds == 0 {
		c.Server.RequestTimeoutSeconds = 900
	}
	if c.Server.ShutdownTimeoutSeconds == 0 {
		c.Server.ShutdownTimeoutSeconds = 15
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = "ffmpeg"
	}
	if c.FFmpeg.ProbeBinary == "" {
		c.FFmpeg.ProbeBinary = "ffprobe"
	}
	if c.FFmpeg.Encoder == "" {
		c.FFmpeg.Encoder = "libx264"
	}
	if c.FFmpeg.Preset == "" {
		c.FFmpeg.Preset = "ultrafast"
	}
	if c.FFmpeg.AudioCodec == "" {
		c.FFmpeg.AudioCodec = "aac"
	}
	if c.FFmpeg.AudioBitrate == "" {
		c.FFmpeg.AudioBitrate = "64k"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 24000
	}
	if c.FFmpeg.FrameRate == 0 {
		c.FFmpeg.FrameRate = 15
	}
	if c.FFmpeg.Width == 0 {
		c.FFmpeg.Width = 1280
	}
	if c.FFmpeg.Height == 0 {
		c.FFmpeg.Height = 720
	}
	if c.FFmpeg.CanvasColor == "" {
		c.FFmpeg.CanvasColor = "0x0a0a1a"
	}
	if c.Render.StderrTailBytes == 0 {
		c.Render.StderrTailBytes = 300
	}
	if c.Narration.PaddingSeconds == 0 {
		c.Narration.PaddingSeconds = 0.3
	}
	if c.Narration.MinSilentSeconds == 0 {
		c.Narration.MinSilentSeconds = 2.0
	}
	if c.Narration.MinClipBytes == 0 {
		c.Narration.MinClipBytes = 100
	}

	switch c.TTS.Provider {
	case "":
		c.TTS.Provider = TTSProviderGemini
	case TTSProviderGemini, TTSProviderHTTP, TTSProviderNone:
	default:
		return fmt.Errorf("tts.provider %q is not supported", c.TTS.Provider)
	}
	if c.TTS.Provider == TTSProviderHTTP && c.TTS.Endpoint == "" {
		return fmt.Errorf("tts.endpoint is required for the http provider")
	}
	if c.TTS.Voice == "" {
		c.TTS.Voice = "Kore"
	}
	if c.TTS.Model == "" {
		c.TTS.Model = "gemini-2.5-flash-preview-tts"
	}
	if c.TTS.Format == "" {
		c.TTS.Format = "mp3"
	}
	if c.TTS.TimeoutSeconds == 0 {
		c.TTS.TimeoutSeconds = 60
	}

	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Intake.MaxPending == 0 {
		c.Intake.MaxPending = 16
	}
	if c.Intake.SettleMillis == 0 {
		c.Intake.SettleMillis = 500
	}
	if c.Overlay.WrapWidth == 0 {
		c.Overlay.WrapWidth = 48
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	return nil
}
