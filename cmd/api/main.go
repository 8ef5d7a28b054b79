package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/zhouzirui/wellness-chat/internal/config"
	"github.com/zhouzirui/wellness-chat/internal/handler"
	"github.com/zhouzirui/wellness-chat/internal/model/persona"
	"github.com/zhouzirui/wellness-chat/internal/service/ai"
	"github.com/zhouzirui/wellness-chat/internal/service/chat"
	"github.com/zhouzirui/wellness-chat/internal/service/image"
	"github.com/zhouzirui/wellness-chat/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("failed to load .env file, continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	setupLogger(cfg.Log)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.AI.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create gemini client")
	}

	chatModel, err := ai.NewChatModel(ctx, cfg.AI, client.Models)
	if err != nil {
		log.Fatal().Err(err).Str("provider", string(cfg.AI.Provider)).Msg("failed to initialize chat model")
	}

	personaStore := persona.NewMemoryStore(persona.Seed())
	active, err := persona.Lookup(personaStore, cfg.AI.PersonaID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve configured persona")
	}

	aiService, err := ai.NewService(ctx, chatModel, active)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize AI service")
	}
	log.Info().
		Str("provider", string(cfg.AI.Provider)).
		Str("persona", aiService.Persona().ID).
		Msg("AI service initialized")

	chatService := chat.NewService(func(sessionID string) (chat.Conversation, error) {
		return aiService.NewConversation(sessionID), nil
	})
	if cfg.Session.IdleTTL > 0 {
		chatService.SetEvictionConfig(cfg.Session.IdleTTL, cfg.Session.SweepInterval)
		chatService.StartEvictionLoop(ctx)
		log.Info().Dur("idle_ttl", cfg.Session.IdleTTL).Msg("idle session eviction enabled")
	}

	imageService := image.NewService(client.Models, cfg.AI.ImageModel)

	router := handler.NewRouter(handler.Deps{
		Personas:       personaStore,
		ActivePersona:  active.ID,
		Sessions:       chatService,
		Images:         imageService,
		RevealInterval: cfg.Server.RevealInterval,
		Static:         web.Handler(),
	})

	startServer(ctx, cfg.Server, router)
}

func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("wellness chat server listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
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
