package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ahmednasr/namastebot/internal/config"
	"github.com/ahmednasr/namastebot/internal/database"
	"github.com/ahmednasr/namastebot/internal/dialogue"
	"github.com/ahmednasr/namastebot/internal/handler"
	"github.com/ahmednasr/namastebot/internal/logging"
	"github.com/ahmednasr/namastebot/internal/middleware"
	"github.com/ahmednasr/namastebot/internal/repository"
	"github.com/ahmednasr/namastebot/internal/service"
	"github.com/ahmednasr/namastebot/internal/session"
)

// newInjector loads configuration, finishes logging setup and registers
// every provider. Services are built lazily on first Invoke.
func newInjector(ctx context.Context) (*do.Injector, error) {
	di := do.New()
	do.ProvideValue(di, ctx)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	do.ProvideValue(di, &cfg)

	if err := logging.Init(cfg); err != nil {
		return nil, err
	}

	do.Provide(di, newMongoStore)
	do.Provide(di, newRedisStore)
	do.Provide(di, newTranscripts)
	do.Provide(di, newModel)
	do.Provide(di, newEmbedder)
	do.Provide(di, newRetriever)
	do.Provide(di, newSearcher)
	do.Provide(di, newRegistry)
	do.Provide(di, newApp)

	return di, nil
}

// ---- Stores ------------------------------------------------------------------

// mongoStore holds the optional Mongo connection.
type mongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func newMongoStore(di *do.Injector) (*mongoStore, error) {
	cfg := do.MustInvoke[*config.Config](di)
	if cfg.MongoURI == "" {
		slog.Warn("MONGODB_URI not set; guide retrieval and transcripts are disabled")
		return &mongoStore{}, nil
	}

	client, err := database.NewMongo(do.MustInvoke[context.Context](di), cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	slog.Info("Connected to MongoDB", "database", cfg.DBName)

	return &mongoStore{client: client, db: client.Database(cfg.DBName)}, nil
}

func (s *mongoStore) Shutdown() error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(context.Background())
}

// redisStore holds the optional Redis connection.
type redisStore struct {
	client *redis.Client
}

func newRedisStore(di *do.Injector) (*redisStore, error) {
	cfg := do.MustInvoke[*config.Config](di)
	if cfg.RedisAddr == "" {
		return &redisStore{}, nil
	}

	client, err := database.NewRedis(do.MustInvoke[context.Context](di), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	slog.Info("Connected to Redis", "addr", cfg.RedisAddr)

	return &redisStore{client: client}, nil
}

func (s *redisStore) Shutdown() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func newTranscripts(di *do.Injector) (*repository.TranscriptRepository, error) {
	cfg := do.MustInvoke[*config.Config](di)
	store, err := do.Invoke[*mongoStore](di)
	if err != nil {
		return nil, err
	}
	if store.db == nil {
		return nil, errors.New("transcripts need MONGODB_URI")
	}
	return repository.NewTranscriptRepository(store.db, cfg.TranscriptCollection), nil
}

// ---- Collaborators -----------------------------------------------------------

// model is the configured LLM, used both for guide answers and as the
// general-purpose generator.
type model interface {
	service.LLM
	dialogue.Generator
}

func newModel(di *do.Injector) (model, error) {
	cfg := do.MustInvoke[*config.Config](di)

	if cfg.LLMProvider == "openai" {
		return service.NewOpenAILLM(cfg.OpenAIBaseURL, cfg.OpenAIToken, cfg.OpenAIModel), nil
	}

	llm, err := service.NewVertexLLM(do.MustInvoke[context.Context](di),
		cfg.ProjectID, cfg.Location, cfg.GenerationModel, cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}
	return llm, nil
}

func newEmbedder(di *do.Injector) (*service.VertexEmbedder, error) {
	cfg := do.MustInvoke[*config.Config](di)
	return service.NewVertexEmbedder(do.MustInvoke[context.Context](di),
		cfg.ProjectID, cfg.Location, cfg.EmbeddingModel, cfg.CredentialsFile)
}

func newRetriever(di *do.Injector) (dialogue.Retriever, error) {
	cfg := do.MustInvoke[*config.Config](di)
	store := do.MustInvoke[*mongoStore](di)

	if store.db == nil || cfg.ProjectID == "" {
		slog.Warn("Guide retrieval disabled", "mongo", store.db != nil, "gcp_project", cfg.ProjectID != "")
		return nil, nil
	}

	embedder, err := do.Invoke[*service.VertexEmbedder](di)
	if err != nil {
		return nil, err
	}

	var r dialogue.Retriever = service.NewGuideRetriever(
		repository.NewGuideChunks(store.db, cfg.GuideCollection, cfg.VectorIndex),
		embedder,
		do.MustInvoke[model](di),
	)

	if rs := do.MustInvoke[*redisStore](di); rs.client != nil {
		r = service.NewCachedRetriever(r, rs.client, cfg.CacheTTL)
	}

	return service.RetrieverWithTimeout(r, cfg.CollaboratorTimeout), nil
}

func newSearcher(di *do.Injector) (dialogue.Searcher, error) {
	cfg := do.MustInvoke[*config.Config](di)

	switch cfg.SearchProvider {
	case "google":
		g, err := service.NewGoogleSearch(do.MustInvoke[context.Context](di), cfg.GoogleAPIKey, cfg.GoogleCX)
		if err != nil {
			return nil, err
		}
		return service.SearcherWithTimeout(g, cfg.CollaboratorTimeout), nil
	case "brave":
		b, err := service.NewBraveSearch(cfg.BraveAPIKey, service.WithBraveCountry("IN"))
		if err != nil {
			return nil, err
		}
		return service.SearcherWithTimeout(b, cfg.CollaboratorTimeout), nil
	}

	slog.Warn("Live search disabled")
	return nil, nil
}

// ---- Sessions & HTTP ---------------------------------------------------------

func newRegistry(di *do.Injector) (*session.Registry, error) {
	cfg := do.MustInvoke[*config.Config](di)

	retriever, err := do.Invoke[dialogue.Retriever](di)
	if err != nil {
		return nil, err
	}
	searcher, err := do.Invoke[dialogue.Searcher](di)
	if err != nil {
		return nil, err
	}
	llm, err := do.Invoke[model](di)
	if err != nil {
		return nil, err
	}
	generator := service.GeneratorWithTimeout(llm, cfg.CollaboratorTimeout)

	opts := dialogueOptions(cfg.Dialogue)
	factory := func(_ string, logger *slog.Logger) *dialogue.Controller {
		return dialogue.New(retriever, searcher, generator,
			append([]dialogue.Option{dialogue.WithLogger(logger)}, opts...)...)
	}

	regOpts := []session.Option{session.WithIdleTTL(cfg.SessionTTL)}
	if transcripts, err := do.Invoke[*repository.TranscriptRepository](di); err == nil {
		regOpts = append(regOpts, session.WithArchive(transcripts))
	}

	return session.NewRegistry(factory, regOpts...), nil
}

func dialogueOptions(d config.Dialogue) []dialogue.Option {
	phrases := d.DisqualifyingPhrases
	if len(phrases) == 0 {
		phrases = dialogue.DefaultDisqualifyingPhrases
	}

	opts := []dialogue.Option{
		dialogue.WithMaxFollowUps(d.MaxFollowUps),
		dialogue.WithJudge(dialogue.NewJudge(d.MinAnswerLength, phrases)),
	}
	if d.ResetFollowUps {
		opts = append(opts, dialogue.WithFollowUpReset())
	}
	return opts
}

func newApp(di *do.Injector) (*fiber.App, error) {
	cfg := do.MustInvoke[*config.Config](di)

	registry, err := do.Invoke[*session.Registry](di)
	if err != nil {
		return nil, err
	}

	// Keep the redis interface nil when Redis is not configured.
	var rdb redis.UniversalClient
	if rs := do.MustInvoke[*redisStore](di); rs.client != nil {
		rdb = rs.client
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: handler.ErrorHandler,
	})
	app.Use(middleware.Logging())

	handler.RegisterRoutes(app, registry, handler.NewHealthHandler(do.MustInvoke[*mongoStore](di).client, rdb))

	return app, nil
}
