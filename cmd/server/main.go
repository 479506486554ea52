package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/lessonreel/internal/config"
	"github.com/nguyentantai21042004/lessonreel/internal/handout"
	"github.com/nguyentantai21042004/lessonreel/internal/httpapi"
	"github.com/nguyentantai21042004/lessonreel/internal/intake"
	"github.com/nguyentantai21042004/lessonreel/internal/logger"
	"github.com/nguyentantai21042004/lessonreel/internal/media"
	"github.com/nguyentantai21042004/lessonreel/internal/narration"
	"github.com/nguyentantai21042004/lessonreel/internal/pipeline"
	"github.com/nguyentantai21042004/lessonreel/internal/script"
	"github.com/nguyentantai21042004/lessonreel/internal/sequencer"
	"github.com/nguyentantai21042004/lessonreel/internal/storage"
	"github.com/nguyentantai21042004/lessonreel/internal/watcher"
	"github.com/nguyentantai21042004/lessonreel/pkg/executor"
)

const version = "1.0.0"

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Lessonreel %s", version)
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "Lessonreel stopped with error: %v", err)
		os.Exit(1)
	}
	log.Info(ctx, "Lessonreel stopped")
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	if err := ensureDirectories(cfg); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	// Initialize dependencies
	exec := executor.New()
	tools := media.New(cfg, exec, log)
	if err := tools.AssertReady(); err != nil {
		log.Warn(ctx, "Media tools unavailable, renders will fail: %v", err)
	}

	store, err := storage.NewFileStore(cfg.Paths.Output)
	if err != nil {
		return err
	}

	tts, err := narration.NewTTS(cfg, tools, log)
	if err != nil {
		return err
	}

	deps := pipeline.Deps{
		Generator: newGenerator(cfg, log),
		Narrator:  narration.New(cfg, tts, tools, log),
		Tools:     tools,
		Store:     store,
	}
	if cfg.Handout.Enabled {
		deps.Handout = handout.New(log)
	}
	proc := pipeline.New(cfg, deps, log)
	seq := sequencer.New(proc.Process, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           httpapi.NewRouter(httpapi.NewHandler(cfg, seq, version, log)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return seq.Start(gctx)
	})

	g.Go(func() error {
		log.Info(ctx, "HTTP server listening on :%s (files under %s)", cfg.Server.Port, cfg.Server.FilesRoute)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info(ctx, "Shutting down gracefully...")
		seq.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Paths.Inbox != "" {
		in := intake.New(cfg.Paths.Inbox, seq, store, log)
		if err := in.Recover(ctx); err != nil {
			log.Warn(ctx, "Failed to requeue interrupted requests: %v", err)
		}

		w, err := watcher.New(cfg.Paths.Inbox, in.Handle, log, watcher.Options{
			Extensions: []string{".json"},
			MaxPending: cfg.Intake.MaxPending,
			Settle:     time.Duration(cfg.Intake.SettleMillis) * time.Millisecond,
		})
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer w.Stop()

		g.Go(func() error {
			if err := w.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	log.Info(ctx, "========================================")
	log.Info(ctx, "Lessonreel is ready!")
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	if cfg.Paths.Inbox != "" {
		log.Info(ctx, "Inbox: %s", cfg.Paths.Inbox)
	}
	log.Info(ctx, "TTS: %s, script: %s", cfg.TTS.Provider, generatorName(cfg))
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	return g.Wait()
}

// newGenerator prefers Gemini when enabled and keyed, with the templates as fallback.
func newGenerator(cfg *config.Config, log logger.Logger) script.Generator {
	templates := script.NewTemplateGenerator()
	if !cfg.Gemini.Enabled || len(cfg.Gemini.APIKeys) == 0 {
		return templates
	}
	return script.NewFallbackGenerator(script.NewGeminiGenerator(cfg.Gemini.APIKeys, cfg.Gemini.Model, log), templates, log)
}

func generatorName(cfg *config.Config) string {
	if cfg.Gemini.Enabled && len(cfg.Gemini.APIKeys) > 0 {
		return "gemini (" + cfg.Gemini.Model + ") with template fallback"
	}
	return "templates"
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Output,
		cfg.Paths.Temp,
	}
	if cfg.Paths.Inbox != "" {
		dirs = append(dirs, cfg.Paths.Inbox)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
