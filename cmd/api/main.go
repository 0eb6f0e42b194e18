package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/frontdesk-ai/frontdesk/backend/internal/config"
	"github.com/frontdesk-ai/frontdesk/backend/internal/handler"
	streamHandler "github.com/frontdesk-ai/frontdesk/backend/internal/handler/stream"
	"github.com/frontdesk-ai/frontdesk/backend/internal/model/operator"
	"github.com/frontdesk-ai/frontdesk/backend/internal/recorder"
	"github.com/frontdesk-ai/frontdesk/backend/internal/service/ai"
	"github.com/frontdesk-ai/frontdesk/backend/internal/service/convo"
	"github.com/frontdesk-ai/frontdesk/backend/internal/service/session"
	"github.com/frontdesk-ai/frontdesk/backend/internal/service/sweep"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Operator directory: the persistence service when configured,
	// seeded in-memory operators otherwise.
	var operators operator.Store
	if cfg.Directory.URL != "" {
		operators = operator.NewHTTPStore(cfg.Directory.URL, cfg.Directory.Timeout)
		log.Printf("operator directory: %s", cfg.Directory.URL)
	} else {
		operators = operator.NewMemoryStore(operator.Seed())
		log.Println("operator directory: seeded in-memory store")
	}

	// Call recorder: persistence intake when configured, log-only otherwise.
	var rec recorder.Recorder
	if cfg.Recorder.URL != "" {
		rec = recorder.NewHTTPRecorder(cfg.Recorder.URL, cfg.Recorder.Timeout)
		log.Printf("call recorder: %s", cfg.Recorder.URL)
	} else {
		rec = recorder.LogRecorder{}
		log.Println("call recorder: log only (RECORDER_URL not set)")
	}

	// Completion client. The service stays up without one; every turn
	// then answers with the fallback reply.
	var aiClient *ai.Client
	if cfg.LLM.Enabled() {
		aiClient, err = ai.NewClient(ctx, cfg.LLM)
		if err != nil {
			log.Printf("warning: failed to initialize completion client: %v", err)
			log.Println("continuing with fallback replies only")
		} else {
			log.Println("completion client initialized successfully")
		}
	} else {
		log.Println("completion credentials not configured, replies fall back")
	}

	registry := session.NewRegistry()

	var completer convo.Completer
	var streamer streamHandler.Streamer
	if aiClient != nil {
		completer = aiClient
		if cfg.LLM.StreamResponse {
			streamer = aiClient
		}
	}

	engine := convo.NewEngine(registry, completer, rec)

	sweeper := sweep.New(registry, cfg.Session.SweepInterval, cfg.Session.IdleTimeout)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	router := handler.NewRouter(operators, engine, streamer)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Frontdesk backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
