package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/nguyentantai21042004/lessonreel/internal/apperr"
	"github.com/nguyentantai21042004/lessonreel/internal/config"
	"github.com/nguyentantai21042004/lessonreel/internal/logger"
	"github.com/nguyentantai21042004/lessonreel/internal/sequencer"
)

const maxBodyBytes = 1 << 20

// Handler serves the HTTP surface over a Sequencer.
type Handler struct {
	sequencer  sequencer.Sequencer
	logger     logger.Logger
	outputDir  string
	filesRoute string
	timeout    time.Duration
	service    string
	version    string
}

// NewHandler creates a Handler. version is reported by the health endpoint.
func NewHandler(cfg *config.Config, seq sequencer.Sequencer, version string, log logger.Logger) *Handler {
	return &Handler{
		sequencer:  seq,
		logger:     log,
		outputDir:  cfg.Paths.Output,
		filesRoute: cfg.Server.FilesRoute,
		timeout:    time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second,
		service:    "lessonreel",
		version:    version,
	}
}

type generateRequest struct {
	RequestID         string `json:"request_id"`
	CourseRequirement string `json:"course_requirement"`
	StudentPersona    string `json:"student_persona"`
}

type generateResponse struct {
	RequestID        string   `json:"request_id"`
	VideoURL         string   `json:"video_url"`
	SubtitleURL      string   `json:"subtitle_url"`
	SupplementaryURL []string `json:"supplementary_url"`
}

// Generate queues a lesson and holds the request open until it is rendered.
// A caller that gives up does not cancel the job.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var body generateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		h.fail(w, r, apperr.New(apperr.InvalidRequest, "httpapi.generate", "invalid JSON body: %v", err))
		return
	}

	handle, err := h.sequencer.Enqueue(sequencer.Request{
		ID:                body.RequestID,
		CourseRequirement: body.CourseRequirement,
		StudentPersona:    body.StudentPersona,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	job, err := handle.Wait(ctx)
	if err != nil {
		h.logger.Warn(r.Context(), "Stopped waiting for job %s: %v", handle.ID(), err)
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{
			Error:     "job is still running; its files will appear under " + h.filesRoute,
			Kind:      string(apperr.Internal),
			RequestID: handle.ID(),
		})
		return
	}
	if job.Err != nil {
		h.fail(w, r, job.Err)
		return
	}

	base := baseURL(r) + h.filesRoute + "/"
	resp := generateResponse{
		RequestID:        job.ID,
		VideoURL:         base + job.Result.VideoPath,
		SubtitleURL:      base + job.Result.SubtitlePath,
		SupplementaryURL: []string{},
	}
	for _, key := range job.Result.Supplementary {
		resp.SupplementaryURL = append(resp.SupplementaryURL, base+key)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": h.service,
		"version": h.version,
	})
}

// Status reports queue counters.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sequencer.Snapshot())
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	code := statusFor(kind)
	if errors.Is(err, sequencer.ErrClosed) {
		code = http.StatusServiceUnavailable
	}
	if code >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "Generate failed: %v", err)
	}
	writeJSON(w, code, errorResponse{Error: err.Error(), Kind: string(kind)})
}

// baseURL honours reverse-proxy headers before falling back to the connection.
func baseURL(r *http.Request) string {
	proto := firstValue(r.Header.Get("X-Forwarded-Proto"))
	if proto == "" {
		proto = "http"
		if r.TLS != nil {
			proto = "https"
		}
	}
	host := firstValue(r.Header.Get("X-Forwarded-Host"))
	if host == "" {
		host = r.Host
	}
	return proto + "://" + host
}

func firstValue(header string) string {
	v, _, _ := strings.Cut(header, ",")
	return strings.TrimSpace(v)
}
