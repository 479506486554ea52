package sequencer

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/lessonreel/internal/apperr"
	"github.com/nguyentantai21042004/lessonreel/internal/logger"
)

func (s *implSequencer) Enqueue(req Request) (*Handle, error) {
	req, err := normalize(req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	h := &Handle{
		id:   req.ID,
		done: make(chan struct{}),
		job: &Job{
			ID:         req.ID,
			Request:    req,
			Status:     StatusQueued,
			EnqueuedAt: time.Now(),
		},
	}
	s.queue = append(s.queue, h)
	s.stats.Queued++
	s.signal()

	return h, nil
}

func (s *implSequencer) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.signal()
}

func (s *implSequencer) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *implSequencer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("sequencer already started")
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "Job sequencer started")
	for {
		h, ok := s.next(ctx)
		if !ok {
			break
		}
		s.execute(ctx, h)
	}

	s.abandonQueued(ctx)
	s.logger.Info(ctx, "Job sequencer stopped")
	return nil
}

// next pops the oldest queued job. It returns false once ctx is cancelled,
// or once the sequencer is closed and the queue is empty.
func (s *implSequencer) next(ctx context.Context) (*Handle, bool) {
	for {
		if ctx.Err() != nil {
			return nil, false
		}

		s.mu.Lock()
		if len(s.queue) > 0 {
			h := s.queue[0]
			s.queue[0] = nil
			s.queue = s.queue[1:]
			s.stats.Queued--
			s.stats.Running++
			h.job.Status = StatusRunning
			h.job.StartedAt = time.Now()
			s.mu.Unlock()
			return h, true
		}
		closed := s.closed
		s.mu.Unlock()

		if closed {
			return nil, false
		}

		select {
		case <-s.wake:
		case <-ctx.Done():
			return nil, false
		}
	}
}

// execute runs one job to completion. Cancelling the worker context does not
// interrupt a running job.
func (s *implSequencer) execute(ctx context.Context, h *Handle) {
	job := *h.job
	jobCtx := logger.WithJobID(context.WithoutCancel(ctx), job.ID)

	s.logger.Info(jobCtx, "Job started: %q (waited %s)", job.Request.CourseRequirement, job.StartedAt.Sub(job.EnqueuedAt).Round(time.Millisecond))

	res, err := s.safeRun(jobCtx, job)

	s.mu.Lock()
	h.job.FinishedAt = time.Now()
	s.stats.Running--
	if err != nil {
		h.job.Status = StatusFailed
		h.job.Err = err
		s.stats.Failed++
	} else {
		h.job.Status = StatusSucceeded
		h.job.Result = res
		s.stats.Succeeded++
	}
	elapsed := h.job.FinishedAt.Sub(h.job.StartedAt)
	s.mu.Unlock()
	close(h.done)

	if err != nil {
		s.logger.Error(jobCtx, "Job failed after %s: %s: %v", elapsed, apperr.KindOf(err), err)
		return
	}
	s.logger.Info(jobCtx, "Job succeeded in %s: %s", elapsed, res.VideoPath)
}

func (s *implSequencer) safeRun(ctx context.Context, job Job) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperr.New(apperr.Internal, "sequencer.run", "panic: %v", r)
		}
	}()
	return s.run(ctx, job)
}

// abandonQueued fails every job still waiting when the worker stops.
func (s *implSequencer) abandonQueued(ctx context.Context) {
	s.mu.Lock()
	s.closed = true
	pending := s.queue
	s.queue = nil
	now := time.Now()
	for _, h := range pending {
		h.job.Status = StatusFailed
		h.job.Err = apperr.New(apperr.Internal, "sequencer", "shut down before the job started")
		h.job.FinishedAt = now
			s.stats.Queued--
		s.stats.Failed++
	}
	s.mu.Unlock()

	for _, h := range pending {
		close(h.done)
	}
	if len(pending) > 0 {
		s.logger.Warn(ctx, "Abandoned %d queued jobs on shutdown", len(pending))
	}
}

func (s *implSequencer) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
