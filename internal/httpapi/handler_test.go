package httpapi

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/lessonreel/internal/apperr"
	"github.com/nguyentantai21042004/lessonreel/internal/config"
	"github.com/nguyentantai21042004/lessonreel/internal/logger"
	"github.com/nguyentantai21042004/lessonreel/internal/sequencer"
)

func newTestServer(t *testing.T, run sequencer.RunFunc, mutate func(*config.Config)) (*httptest.Server, *config.Config) {
	t.Helper()
	cfg := &config.Config{Paths: config.PathsConfig{Output: t.TempDir()}}
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	seq := sequencer.New(run, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go seq.Start(ctx)

	srv := httptest.NewServer(NewRouter(NewHandler(cfg, seq, "test", logger.Nop())))
	t.Cleanup(srv.Close)
	return srv, cfg
}

func okRun(ctx context.Context, job sequencer.Job) (sequencer.Result, error) {
	switch job.Request.CourseRequirement {
	case "explode":
		return sequencer.Result{}, apperr.New(apperr.RenderFailure, "media.render_video", "ffmpeg render: Invalid argument")
	case "handout":
		return sequencer.Result{VideoPath: job.ID + ".mp4", SubtitlePath: job.ID + ".vtt", Supplementary: []string{job.ID + ".docx"}}, nil
	}
	return sequencer.Result{VideoPath: job.ID + ".mp4", SubtitlePath: job.ID + ".vtt"}, nil
}

func post(t *testing.T, url, body string, headers map[string]string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, out
}

func TestGenerate(t *testing.T) {
	srv, _ := newTestServer(t, okRun, nil)
	host := strings.TrimPrefix(srv.URL, "http://")

	tests := []struct {
		name     string
		body     string
		headers  map[string]string
		code     int
		kind     string
		videoURL string
		extra    int
	}{
		{
			name:     "success",
			body:     `{"request_id":"lesson-1","course_requirement":"algebra","student_persona":"beginner"}`,
			code:     http.StatusOK,
			videoURL: "http://" + host + "/files/lesson-1.mp4",
		},
		{
			name:     "forwarded headers",
			body:     `{"request_id":"lesson-2","course_requirement":"algebra"}`,
			headers:  map[string]string{"X-Forwarded-Proto": "https", "X-Forwarded-Host": "lessons.example.com"},
			code:     http.StatusOK,
			videoURL: "https://lessons.example.com/files/lesson-2.mp4",
		},
		{
			name:     "supplementary",
			body:     `{"request_id":"lesson-3","course_requirement":"handout"}`,
			code:     http.StatusOK,
			videoURL: "http://" + host + "/files/lesson-3.mp4",
			extra:    1,
		},
		{name: "missing requirement", body: `{"student_persona":"x"}`, code: http.StatusBadRequest, kind: "InvalidRequest"},
		{name: "bad json", body: `{`, code: http.StatusBadRequest, kind: "InvalidRequest"},
		{name: "unsafe id", body: `{"request_id":"../x","course_requirement":"algebra"}`, code: http.StatusBadRequest, kind: "InvalidRequest"},
		{name: "render failure", body: `{"course_requirement":"explode"}`, code: http.StatusInternalServerError, kind: "RenderFailure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out := post(t, srv.URL+"/generate", tt.body, tt.headers)
			if code != tt.code {
				t.Fatalf("status = %d, want %d (%v)", code, tt.code, out)
			}
			if tt.kind != "" {
				if out["kind"] != tt.kind {
					t.Errorf("kind = %v, want %s", out["kind"], tt.kind)
				}
				if out["error"] == "" {
					t.Error("empty error message")
				}
				return
			}
			if out["video_url"] != tt.videoURL {
				t.Errorf("video_url = %v, want %s", out["video_url"], tt.videoURL)
			}
			if !strings.HasSuffix(out["subtitle_url"].(string), ".vtt") {
				t.Errorf("subtitle_url = %v", out["subtitle_url"])
			}
			extra, ok := out["supplementary_url"].([]any)
			if !ok || len(extra) != tt.extra {
				t.Errorf("supplementary_url = %v, want %d entries", out["supplementary_url"], tt.extra)
			}
		})
	}
}

func TestGenerateTimeoutKeepsJob(t *testing.T) {
	release := make(chan struct{})
	done := make(chan struct{})
	run := func(ctx context.Context, job sequencer.Job) (sequencer.Result, error) {
		<-release
		close(done)
		return sequencer.Result{VideoPath: "late.mp4", SubtitlePath: "late.vtt"}, nil
	}
	srv, _ := newTestServer(t, run, func(c *config.Config) { c.Server.RequestTimeoutSeconds = 1 })

	code, out := post(t, srv.URL+"/generate", `{"request_id":"late","course_requirement":"algebra"}`, nil)
	if code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", code)
	}
	if out["request_id"] != "late" {
		t.Errorf("request_id = %v", out["request_id"])
	}

	close(release)
	<-done
}

func TestFilesAndHealth(t *testing.T) {
	srv, cfg := newTestServer(t, okRun, nil)
	if err := os.WriteFile(filepath.Join(cfg.Paths.Output, "lesson.vtt"), []byte("WEBVTT\n\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		method string
		path   string
		code   int
		body   string
	}{
		{"served file", http.MethodGet, "/files/lesson.vtt", http.StatusOK, "WEBVTT"},
		{"missing file", http.MethodGet, "/files/nope.mp4", http.StatusNotFound, ""},
		{"no listing", http.MethodGet, "/files/", http.StatusNotFound, ""},
		{"read only", http.MethodPost, "/files/lesson.vtt", http.StatusMethodNotAllowed, ""},
		{"health", http.MethodGet, "/", http.StatusOK, `"status":"ok"`},
		{"status", http.MethodGet, "/status", http.StatusOK, `"queued":0`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != tt.code {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.code)
			}
			if tt.body != "" && !strings.Contains(string(body), tt.body) {
				t.Errorf("body = %q, want %q", body, tt.body)
			}
		})
	}
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		tls     bool
		want    string
	}{
		{"plain", nil, false, "http://example.test"},
		{"tls", nil, true, "https://example.test"},
		{"forwarded", map[string]string{"X-Forwarded-Proto": "https, http", "X-Forwarded-Host": "cdn.test, proxy"}, false, "https://cdn.test"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "http://example.test/generate", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if tt.tls {
				r.TLS = &tls.ConnectionState{}
			}
			if got := baseURL(r); got != tt.want {
				t.Errorf("baseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
