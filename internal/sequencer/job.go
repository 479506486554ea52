package sequencer

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/lessonreel/internal/apperr"
)

// Status enumerates job lifecycle states.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Request is what a caller asks the pipeline to produce.
type Request struct {
	ID                string `json:"request_id,omitempty"`
	CourseRequirement string `json:"course_requirement"`
	StudentPersona    string `json:"student_persona,omitempty"`
}

// Result holds the published artifact paths of a successful job.
type Result struct {
	VideoPath     string   `json:"video_path"`
	SubtitlePath  string   `json:"subtitle_path"`
	Supplementary []string `json:"supplementary,omitempty"`
}

// Job is one unit of work and its lifecycle.
type Job struct {
	ID         string
	Request    Request
	Status     Status
	Result     Result
	Err        error
	EnqueuedAt time.Time
	StartedAt  time.Time
	FinishedAt time.Time
}

// Stats counts jobs by state.
type Stats struct {
	Queued    int `json:"queued"`
	Running   int `json:"running"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Handle lets the submitter wait for a job's outcome.
type Handle struct {
	id   string
	done chan struct{}
	job  *Job
}

// ID returns the job id.
func (h *Handle) ID() string { return h.id }

// Done is closed once the job has finished.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the job finishes or ctx ends. A ctx that ends first only
// stops the wait; the job keeps its place and still runs.
func (h *Handle) Wait(ctx context.Context) (Job, error) {
	select {
	case <-h.done:
		return *h.job, nil
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}
}

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidID reports whether id can be used as a job id.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// normalize trims the request and assigns a job id when none was supplied.
// Supplied ids end up in file names and must be safe there.
func normalize(req Request) (Request, error) {
	const op = "sequencer.enqueue"

	req.CourseRequirement = strings.TrimSpace(req.CourseRequirement)
	req.StudentPersona = strings.TrimSpace(req.StudentPersona)
	req.ID = strings.TrimSpace(req.ID)

	if req.CourseRequirement == "" {
		return req, apperr.New(apperr.InvalidRequest, op, "course_requirement is required")
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
		return req, nil
	}
	if !ValidID(req.ID) {
		return req, apperr.New(apperr.InvalidRequest, op, "request_id %q must be 1-64 letters, digits, '-' or '_'", req.ID)
	}
	return req, nil
}
