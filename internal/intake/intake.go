package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/lessonreel/internal/apperr"
	"github.com/nguyentantai21042004/lessonreel/internal/sequencer"
)

// Outcome is written as <name>.result.json once a dropped request finishes.
type Outcome struct {
	RequestID     string   `json:"request_id,omitempty"`
	Status        string   `json:"status"`
	VideoPath     string   `json:"video_path,omitempty"`
	SubtitlePath  string   `json:"subtitle_path,omitempty"`
	Supplementary []string `json:"supplementary,omitempty"`
	Error         string   `json:"error,omitempty"`
	Kind          string   `json:"kind,omitempty"`
}

func (i *implIntake) Handle(ctx context.Context, path string) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	claimed, err := i.moveToProcessing(ctx, path)
	if err != nil {
		return err
	}

	req, err := readRequest(claimed)
	if err == nil && req.ID == "" && sequencer.ValidID(name) {
		req.ID = name
	}

	var h *sequencer.Handle
	if err == nil {
		h, err = i.sequencer.Enqueue(req)
	}
	if err != nil {
		i.logger.Warn(ctx, "Rejected request %s: %v", filepath.Base(path), err)
		return i.finish(ctx, name, claimed, failedOutcome(req.ID, err))
	}

	i.logger.Info(ctx, "Queued request %s as job %s", filepath.Base(path), h.ID())

	job, err := h.Wait(ctx)
	if err != nil {
		// Shutting down: the file stays in processing for Recover.
		return fmt.Errorf("wait for job %s: %w", h.ID(), err)
	}

	out := Outcome{RequestID: job.ID, Status: string(job.Status)}
	if job.Err != nil {
		out = failedOutcome(job.ID, job.Err)
	} else {
		out.VideoPath = job.Result.VideoPath
		out.SubtitlePath = job.Result.SubtitlePath
		out.Supplementary = job.Result.Supplementary
	}
	return i.finish(ctx, name, claimed, out)
}

func (i *implIntake) Recover(ctx context.Context) error {
	entries, err := os.ReadDir(i.processing)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read processing dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		src := filepath.Join(i.processing, e.Name())
		dst := filepath.Join(i.inbox, e.Name())
		if err := os.Rename(src, dst); err != nil {
			return fmt.Errorf("requeue %s: %w", e.Name(), err)
		}
		i.logger.Info(ctx, "Requeued interrupted request: %s", e.Name())
	}
	return nil
}

// moveToProcessing claims a request file so it is handled only once.
func (i *implIntake) moveToProcessing(ctx context.Context, path string) (string, error) {
	if err := os.MkdirAll(i.processing, 0755); err != nil {
		return "", fmt.Errorf("create processing dir: %w", err)
	}
	dest := filepath.Join(i.processing, filepath.Base(path))

	i.logger.Debug(ctx, "Moving to processing folder: %s -> %s", path, dest)

	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("move to processing: %w", err)
	}
	return dest, nil
}

// finish writes the outcome and removes the claimed request file.
func (i *implIntake) finish(ctx context.Context, name, claimed string, out Outcome) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode outcome: %w", err)
	}
	key, err := i.store.Write(context.WithoutCancel(ctx), name+".result.json", data)
	if err != nil {
		return fmt.Errorf("write outcome: %w", err)
	}
	i.logger.Info(ctx, "Request %s finished with status %s: %s", name, out.Status, key)

	if err := os.Remove(claimed); err != nil {
		i.logger.Warn(ctx, "Failed to cleanup request file %s: %v", claimed, err)
	}
	return nil
}

func readRequest(path string) (sequencer.Request, error) {
	var req sequencer.Request
	data, err := os.ReadFile(path)
	if err != nil {
		return req, apperr.Wrap(apperr.InvalidRequest, "intake.read", err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, apperr.Wrap(apperr.InvalidRequest, "intake.read", fmt.Errorf("decode request: %w", err))
	}
	return req, nil
}

func failedOutcome(id string, err error) Outcome {
	return Outcome{
		RequestID: id,
		Status:    string(sequencer.StatusFailed),
		Error:     err.Error(),
		Kind:      string(apperr.KindOf(err)),
	}
}
