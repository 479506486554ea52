package narration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/nguyentantai21042004/lessonreel/internal/config"
	"github.com/nguyentantai21042004/lessonreel/internal/logger"
)

func typeName(v interface{}) string { return fmt.Sprintf("%T", v) }

func TestHTTPTTSSpeak(t *testing.T) {
	var got speechRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte("ID3-audio-bytes"))
	}))
	defer srv.Close()

	tts := newHTTPTTS(config.TTSConfig{Endpoint: srv.URL, APIKey: "k", Model: "tts-1", Voice: "alloy", Format: "mp3"}, srv.Client())
	out := filepath.Join(t.TempDir(), "clip.mp3")

	if err := tts.Speak(context.Background(), "Hello", out); err != nil {
		t.Fatalf("Speak() error = %v", err)
	}
	data, _ := os.ReadFile(out)
	if string(data) != "ID3-audio-bytes" {
		t.Errorf("clip = %q", data)
	}
	if got.Input != "Hello" || got.Voice != "alloy" || got.ResponseFormat != "mp3" || got.Model != "tts-1" {
		t.Errorf("request = %+v", got)
	}
	if auth != "Bearer k" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestHTTPTTSSpeakError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	tts := newHTTPTTS(config.TTSConfig{Endpoint: srv.URL}, srv.Client())
	out := filepath.Join(t.TempDir(), "clip.mp3")
	if err := tts.Speak(context.Background(), "Hello", out); err == nil {
		t.Fatal("Speak() error = nil")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("clip written for a failed request")
	}
}

func TestGeminiTTSSpeak(t *testing.T) {
	tools := &fakeTools{}
	tts := newGeminiTTS([]string{"k1", "k2"}, "tts-model", "Kore", tools, logger.Nop())

	var keys []string
	tts.call = func(_ context.Context, apiKey, model, voice, text string) ([]byte, string, error) {
		keys = append(keys, apiKey)
		if apiKey == "k1" {
			return nil, "", errors.New("Error 429: RESOURCE_EXHAUSTED")
		}
		return []byte("pcm-samples"), "audio/L16;codec=pcm;rate=16000", nil
	}

	out := filepath.Join(t.TempDir(), "clip.wav")
	if err := tts.Speak(context.Background(), "Hi", out); err != nil {
		t.Fatalf("Speak() error = %v", err)
	}
	if len(keys) != 2 || keys[1] != "k2" {
		t.Errorf("keys tried = %v", keys)
	}
	if tools.pcmRate != 16000 || len(tools.pcm) != 1 || tools.pcm[0] != "pcm-samples" {
		t.Errorf("transcode rate=%d pcm=%v", tools.pcmRate, tools.pcm)
	}
	if _, err := os.Stat(out + ".pcm"); !os.IsNotExist(err) {
		t.Error("raw pcm left behind")
	}
}

func TestGeminiTTSSpeakFailures(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		call speechFunc
	}{
		{"no keys", nil, nil},
		{"all keys exhausted", []string{"a", "b"}, func(context.Context, string, string, string, string) ([]byte, string, error) {
			return nil, "", errors.New("quota exceeded")
		}},
		{"hard error", []string{"a"}, func(context.Context, string, string, string, string) ([]byte, string, error) {
			return nil, "", errors.New("invalid argument")
		}},
		{"empty audio", []string{"a"}, func(context.Context, string, string, string, string) ([]byte, string, error) {
			return nil, "audio/L16", nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tts := newGeminiTTS(tt.keys, "m", "v", &fakeTools{}, logger.Nop())
			if tt.call != nil {
				tts.call = tt.call
			}
			if err := tts.Speak(context.Background(), "Hi", filepath.Join(t.TempDir(), "c.wav")); err == nil {
				t.Error("Speak() error = nil")
			}
		})
	}
}

func TestPCMRate(t *testing.T) {
	tests := []struct {
		mime string
		want int
	}{
		{"audio/L16;codec=pcm;rate=24000", 24000},
		{"audio/L16; rate=16000", 16000},
		{"audio/L16", defaultPCMRate},
		{"audio/L16;rate=abc", defaultPCMRate},
	}
	for _, tt := range tests {
		if got := pcmRate(tt.mime); got != tt.want {
			t.Errorf("pcmRate(%q) = %d, want %d", tt.mime, got, tt.want)
		}
	}
}
