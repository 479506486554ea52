package sequencer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nguyentantai21042004/lessonreel/internal/apperr"
	"github.com/nguyentantai21042004/lessonreel/internal/logger"
)

func startSequencer(t *testing.T, run RunFunc) (Sequencer, context.CancelFunc, chan error) {
	t.Helper()
	seq := New(run, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- seq.Start(ctx) }()
	t.Cleanup(cancel)
	return seq, cancel, errCh
}

func waitJob(t *testing.T, h *Handle) Job {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	job, err := h.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait(%s) error = %v", h.ID(), err)
	}
	return job
}

func TestSequencerRunsOneAtATimeInOrder(t *testing.T) {
	var (
		mu      sync.Mutex
		order   []string
		current int32
		maxSeen int32
	)
	run := func(ctx context.Context, job Job) (Result, error) {
		n := atomic.AddInt32(&current, 1)
		defer atomic.AddInt32(&current, -1)
		for {
			m := atomic.LoadInt32(&maxSeen)
			if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
				break
			}
		}
		mu.Lock()
		order = append(order, job.ID)
		mu.Unlock()
		time.Sleep(2 * time.Millisecond)
		return Result{VideoPath: job.Request.CourseRequirement + ".mp4"}, nil
	}

	seq, _, _ := startSequencer(t, run)

	var handles []*Handle
	for i := 0; i < 20; i++ {
		h, err := seq.Enqueue(Request{ID: fmt.Sprintf("job-%02d", i), CourseRequirement: fmt.Sprintf("topic-%02d", i)})
		if err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}
		handles = append(handles, h)
	}

	for i, h := range handles {
		job := waitJob(t, h)
		if job.Status != StatusSucceeded {
			t.Errorf("job %s status = %s", job.ID, job.Status)
		}
		if want := fmt.Sprintf("topic-%02d.mp4", i); job.Result.VideoPath != want {
			t.Errorf("job %s result = %q, want %q", job.ID, job.Result.VideoPath, want)
		}
	}

	if atomic.LoadInt32(&maxSeen) != 1 {
		t.Errorf("max concurrent jobs = %d, want 1", atomic.LoadInt32(&maxSeen))
	}
	for i, id := range order {
		if want := fmt.Sprintf("job-%02d", i); id != want {
			t.Fatalf("run order[%d] = %s, want %s", i, id, want)
		}
	}
	if s := seq.Snapshot(); s.Succeeded != 20 || s.Queued != 0 || s.Running != 0 {
		t.Errorf("Snapshot() = %+v", s)
	}
}

func TestSequencerRecordsFailures(t *testing.T) {
	run := func(ctx context.Context, job Job) (Result, error) {
		switch job.Request.CourseRequirement {
		case "boom":
			return Result{}, apperr.New(apperr.RenderFailure, "render", "exit status 1")
		case "panic":
			panic("unexpected")
		}
		return Result{VideoPath: "ok.mp4"}, nil
	}
	seq, _, _ := startSequencer(t, run)

	tests := []struct {
		requirement string
		status      Status
		kind        apperr.Kind
	}{
		{"boom", StatusFailed, apperr.RenderFailure},
		{"panic", StatusFailed, apperr.Internal},
		{"fine", StatusSucceeded, ""},
	}

	for _, tt := range tests {
		t.Run(tt.requirement, func(t *testing.T) {
			h, err := seq.Enqueue(Request{CourseRequirement: tt.requirement})
			if err != nil {
				t.Fatal(err)
			}
			job := waitJob(t, h)
			if job.Status != tt.status {
				t.Errorf("status = %s, want %s", job.Status, tt.status)
			}
			if tt.kind != "" && apperr.KindOf(job.Err) != tt.kind {
				t.Errorf("kind = %s, want %s", apperr.KindOf(job.Err), tt.kind)
			}
		})
	}
}

func TestEnqueueValidation(t *testing.T) {
	seq := New(func(context.Context, Job) (Result, error) { return Result{}, nil }, logger.Nop())

	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"generated id", Request{CourseRequirement: "algebra"}, false},
		{"caller id", Request{ID: "lesson_01-a", CourseRequirement: "algebra"}, false},
		{"empty requirement", Request{CourseRequirement: "  "}, true},
		{"path traversal", Request{ID: "../etc", CourseRequirement: "algebra"}, true},
		{"slash", Request{ID: "a/b", CourseRequirement: "algebra"}, true},
		{"duplicate id is a new job", Request{ID: "lesson_01-a", CourseRequirement: "algebra"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := seq.Enqueue(tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Enqueue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !apperr.Is(err, apperr.InvalidRequest) {
					t.Errorf("error kind = %s", apperr.KindOf(err))
				}
				return
			}
			if h.ID() == "" {
				t.Error("empty job id")
			}
		})
	}
}

func TestWaitTimeoutDoesNotCancelJob(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var sawCancel atomic.Bool
	run := func(ctx context.Context, job Job) (Result, error) {
		close(started)
		<-release
		sawCancel.Store(ctx.Err() != nil)
		return Result{VideoPath: "late.mp4"}, nil
	}
	seq, cancel, errCh := startSequencer(t, run)

	h, err := seq.Enqueue(Request{CourseRequirement: "slow"})
	if err != nil {
		t.Fatal(err)
	}

	ctx, stop := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer stop()
	if _, err := h.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait() error = %v, want deadline exceeded", err)
	}

	<-started
	cancel()
	close(release)

	job := waitJob(t, h)
	if job.Status != StatusSucceeded || job.Result.VideoPath != "late.mp4" {
		t.Errorf("job = %+v", job)
	}
	if sawCancel.Load() {
		t.Error("running job observed worker cancellation")
	}
	if err := <-errCh; err != nil {
		t.Errorf("Start() error = %v", err)
	}
}

func TestCloseDrainsQueue(t *testing.T) {
	var ran atomic.Int32
	seq := New(func(context.Context, Job) (Result, error) {
		ran.Add(1)
		return Result{}, nil
	}, logger.Nop())

	var handles []*Handle
	for i := 0; i < 3; i++ {
		h, err := seq.Enqueue(Request{CourseRequirement: "x"})
		if err != nil {
			t.Fatal(err)
		}
		handles = append(handles, h)
	}
	seq.Close()

	if _, err := seq.Enqueue(Request{CourseRequirement: "late"}); !errors.Is(err, ErrClosed) {
		t.Errorf("Enqueue() after Close error = %v", err)
	}

	if err := seq.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	for _, h := range handles {
		if job := waitJob(t, h); job.Status != StatusSucceeded {
			t.Errorf("job %s status = %s", job.ID, job.Status)
		}
	}
	if ran.Load() != 3 {
		t.Errorf("ran %d jobs, want 3", ran.Load())
	}
}

func TestCancelAbandonsQueuedJobs(t *testing.T) {
	seq := New(func(context.Context, Job) (Result, error) { return Result{}, nil }, logger.Nop())
	h, err := seq.Enqueue(Request{CourseRequirement: "never"})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := seq.Start(ctx); err != nil {
		t.Fatal(err)
	}

	job := waitJob(t, h)
	if job.Status != StatusFailed {
		t.Errorf("status = %s, want failed", job.Status)
	}
	if s := seq.Snapshot(); s.Failed != 1 || s.Queued != 0 {
		t.Errorf("Snapshot() = %+v", s)
	}
}
