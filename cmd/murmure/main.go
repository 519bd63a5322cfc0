package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgnsrekt/murmure-go/internal/analyzer"
	"github.com/dgnsrekt/murmure-go/internal/api"
	"github.com/dgnsrekt/murmure-go/internal/config"
	"github.com/dgnsrekt/murmure-go/internal/llm"
	"github.com/dgnsrekt/murmure-go/internal/logging"
	"github.com/dgnsrekt/murmure-go/internal/pipeline"
	"github.com/dgnsrekt/murmure-go/internal/queue"
	"github.com/dgnsrekt/murmure-go/internal/render"
	"github.com/dgnsrekt/murmure-go/internal/tables"
	"github.com/dgnsrekt/murmure-go/internal/tts"
)

const version = "0.1.0"

func main() {
	// Load configuration from environment and CONFIG_FILE
	cfg, err := config.Load()
	if err != nil {
		// Use stderr before logger is initialized
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting murmure", "version", version)

	if cfg.AuthDisabled() {
		logger.Warn("HTTP bearer authentication is disabled (BEARER_TOKEN is empty)")
	}

	// Log loaded configuration (without sensitive values)
	logger.Info("configuration loaded",
		"log_level", cfg.LogLevel,
		"log_format", cfg.LogFormat,
		"http_port", cfg.HTTPPort,
		"max_text_length", cfg.MaxTextLength,
		"queue_capacity", cfg.QueueCapacity,
		"llm_provider", cfg.LLMProvider,
		"tables_file", cfg.TablesFile,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()
	}()

	t, err := tables.Load(cfg.TablesFile)
	if err != nil {
		logger.Error("failed to load tables", "error", err)
		os.Exit(1)
	}

	p, err := newPipeline(cfg, t, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	logger.Info("analysis pipeline ready", "producers", p.Producers())

	registry := newRegistry(cfg, logger)

	narrations := queue.NewQueue(cfg.QueueCapacity, cfg.ResultRetention, logger)
	narrations.SetHandler(render.NewHandler(p, registry, logger).Handle)
	narrations.Start()
	defer narrations.Stop()

	server := api.New(cfg, logger, narrations, p)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
}

func newPipeline(cfg *config.Config, t *tables.Tables, logger *slog.Logger) (*pipeline.Pipeline, error) {
	completer, err := llm.New(cfg.LLM())
	if err != nil {
		return nil, err
	}
	if completer == nil {
		logger.Warn("no LLM provider configured, using lexical analysis only")
	}

	return pipeline.New(t, pipeline.Options{
		Completer: completer,
		Remote: analyzer.RemoteConfig{
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
		},
		MaxSegmentWords: cfg.MaxSegmentWords,
	}, logger)
}

// newRegistry registers Piper when a model is configured. The silent engine
// is always available and becomes the default without Piper.
func newRegistry(cfg *config.Config, logger *slog.Logger) *tts.Registry {
	registry := tts.NewRegistry()

	if cfg.PiperModel != "" {
		piperEngine, err := tts.NewPiperEngine(tts.PiperConfig{
			BinaryPath:   cfg.PiperPath,
			ModelPath:    cfg.PiperModel,
			DefaultVoice: cfg.DefaultVoice,
		}, logger)
		if err != nil {
			logger.Warn("failed to initialize Piper TTS", "error", err)
		} else if err := registry.Register(piperEngine); err != nil {
			logger.Warn("failed to register Piper TTS", "error", err)
		} else {
			logger.Info("Piper TTS engine registered", "model", cfg.PiperModel)
		}
	} else {
		logger.Warn("no Piper model configured, narrations will render as silence")
	}

	if err := registry.Register(tts.NewSilentEngine()); err != nil {
		logger.Warn("failed to register silent engine", "error", err)
	}
	logger.Info("TTS engines registered", "engines", registry.List())
	return registry
}
