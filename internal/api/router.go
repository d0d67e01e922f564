package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/learnableai/readassist/internal/api/handlers"
	"github.com/learnableai/readassist/internal/api/middleware"
	"github.com/learnableai/readassist/internal/auth"
	"github.com/learnableai/readassist/internal/cache"
	"github.com/learnableai/readassist/internal/config"
	"github.com/learnableai/readassist/internal/generative"
	"github.com/learnableai/readassist/internal/images"
	"github.com/learnableai/readassist/internal/llm"
	"github.com/learnableai/readassist/internal/session"
	"github.com/learnableai/readassist/internal/speech"
)

type Router struct {
	mux   *chi.Mux
	redis *redis.Client
	cfg   *config.Config
	store *session.Store
	jwt   *auth.JWTMiddleware
}

func NewRouter(rdb *redis.Client, cfg *config.Config, store *session.Store) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		redis: rdb,
		cfg:   cfg,
		store: store,
		jwt:   auth.NewJWTMiddleware(cfg.Auth.JWTSecret),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	// Synthesis and generation calls are slow and metered upstream, so the
	// budget is far below a typical CRUD API's.
	rl := middleware.NewRateLimiter(25, 50)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Initialize services
	gw := llm.NewGateway(llm.GatewayConfig{
		OpenAIKey:        rt.cfg.LLM.OpenAIKey,
		AnthropicKey:     rt.cfg.LLM.AnthropicKey,
		OllamaURL:        rt.cfg.LLM.OllamaURL,
		DefaultProvider:  rt.cfg.LLM.DefaultProvider,
		DefaultModel:     rt.cfg.LLM.DefaultModel,
		FallbackProvider: rt.cfg.LLM.FallbackProvider,
	})
	gen := generative.NewService(gw)

	var synth speech.Synthesizer
	if rt.cfg.Speech.ElevenLabsKey != "" {
		synth = speech.NewElevenLabs(speech.ElevenLabsConfig{
			APIKey:  rt.cfg.Speech.ElevenLabsKey,
			BaseURL: rt.cfg.Speech.ElevenLabsBaseURL,
			ModelID: rt.cfg.Speech.ModelID,
		})
	}
	local := speech.NewLocalEngine(speech.LocalEngineConfig{BinPath: rt.cfg.Speech.LocalBinPath})

	imgClient := images.NewClient(images.ClientConfig{
		APIKey:  rt.cfg.Images.PexelsKey,
		BaseURL: rt.cfg.Images.PexelsBaseURL,
	})

	artifacts := cache.NewArtifactCache(rt.redis)
	actions := session.NewActions(synth, local, gen, imgClient, artifacts)

	sessionH := handlers.NewSessionHandler(rt.store)
	docH := handlers.NewDocumentHandler(rt.store)
	playbackH := handlers.NewPlaybackHandler(rt.store, actions)
	artifactH := handlers.NewArtifactHandler(rt.store, actions)
	exportH := handlers.NewExportHandler(rt.store)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.jwt.Authenticate)

		r.Get("/voices", playbackH.Voices)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionH.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", sessionH.Get)
				r.Delete("/", sessionH.Delete)
				r.Put("/style", sessionH.UpdateStyle)
				r.Put("/voice", sessionH.UpdateVoice)

				r.Post("/document", docH.Paste)
				r.Post("/document/upload", docH.Upload)

				r.Post("/speech", playbackH.Acquire)
				r.Post("/speech/play", playbackH.Play)
				r.Post("/speech/pause", playbackH.Pause)
				r.Post("/speech/stop", playbackH.Stop)
				r.Get("/playback", playbackH.State)
				r.Get("/playback/stream", playbackH.Stream)
				r.Get("/audio", playbackH.Audio)

				r.Post("/simplify", artifactH.Simplify)
				r.Post("/quiz", artifactH.GenerateQuiz)
				r.Post("/plan", artifactH.GeneratePlan)
				r.Post("/images/search", artifactH.SearchImages)

				r.Get("/export/text", exportH.Text)
				r.Get("/export/audio", exportH.Audio)
				r.Get("/export/plan", exportH.Plan)
			})
		})
	})

	return r
}
