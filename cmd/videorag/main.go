package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"videorag/internal/answer"
	"videorag/internal/chunker"
	"videorag/internal/config"
	"videorag/internal/embedding/openai"
	"videorag/internal/index"
	"videorag/internal/llm"
	"videorag/internal/server"
	"videorag/internal/service"
	"videorag/internal/transcript"
	"videorag/internal/vectorstore"
	"videorag/internal/vectorstore/memory"
	"videorag/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.Server)

	// Assemble components via interfaces
	transcripts := transcript.NewClient(transcript.Config{
		BaseURL: cfg.Transcript.BaseURL,
		Timeout: time.Duration(cfg.Transcript.TimeoutSecs) * time.Second,
	})

	embedder := openai.NewClient(openai.Config{
		BaseURL:   cfg.Embedder.BaseURL,
		APIKeyEnv: cfg.Embedder.APIKeyEnv,
		Model:     cfg.Embedder.Model,
		Dimension: cfg.Embedder.Dimension,
		Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
	})

	var store vectorstore.Store
	switch cfg.VectorStore.Type {
	case "memory":
		store = memory.NewStorage()
	case "qdrant", "":
		if cfg.VectorStore.Qdrant == nil {
			log.Fatalf("qdrant config missing")
		}
		store = qdrant.NewStorage(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		})
	default:
		log.Fatalf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	completer, err := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKeyEnv:   cfg.LLM.APIKeyEnv,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("llm client init failed: %v", err)
	}

	idx := index.New(store, embedder.Dimension())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := idx.EnsureCollection(ctx); err != nil {
		log.Fatalf("collection init failed: %v", err)
	}

	svc := service.New(service.Options{
		Transcripts: transcripts,
		Chunker:     chunker.NewWordChunker(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap),
		Embedder:    embedder,
		Index:       idx,
		Composer:    answer.NewComposer(completer),
		Languages:   cfg.Transcript.Languages,
		TopK:        cfg.Retrieval.TopK,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(svc, logger, cfg.Server.AllowedOrigins).Handler(),
	}

	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func newLogger(cfg config.ServerConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
