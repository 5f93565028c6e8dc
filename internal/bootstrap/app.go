// Package bootstrap assembles the application graph from configuration:
// storage, queue, generator and renderer backends, then services, handlers
// and the router. Both the API and the worker build the same graph.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"tailor-backend/internal/health"
	"tailor-backend/internal/llm"
	"tailor-backend/internal/llm/ollama"
	"tailor-backend/internal/llm/openai"
	"tailor-backend/internal/queue"
	"tailor-backend/internal/render"
	"tailor-backend/internal/render/chromedp"
	"tailor-backend/internal/shared/config"
	"tailor-backend/internal/shared/server"
	"tailor-backend/internal/shared/storage/db"
	"tailor-backend/internal/shared/storage/object"
	localstore "tailor-backend/internal/shared/storage/object/local"
	s3store "tailor-backend/internal/shared/storage/object/s3"
	"tailor-backend/internal/tailor"
	"tailor-backend/internal/templates"
	"tailor-backend/internal/usage"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Enqueuer

	TemplatesRepo templates.TemplatesRepo
	TailorRepo    tailor.Repo

	TemplatesService *templates.Service
	UsageService     *usage.Service
	TailorService    *tailor.Service
	HealthService    *health.Service

	TemplatesHandler *templates.Handler
	TailorHandler    *tailor.Handler
	UsageHandler     *usage.Handler
	HealthHandler    *health.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	return build(cfg, db.DefaultServerOptions())
}

// BuildWorker prepares the same graph with a database pool sized for queue
// consumers, which hold fewer connections than the API.
func BuildWorker(cfg config.Config) (*App, error) {
	return build(cfg, db.DefaultWorkerOptions())
}

func build(cfg config.Config, dbDefaults db.Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg, dbDefaults)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	enqueuer, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	generator, err := buildGenerator(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  enqueuer,
	}

	buildServices(app, generator, buildRenderer(cfg))

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		HealthHandler:   app.HealthHandler,
		TemplateHandler: app.TemplatesHandler,
		TailorHandler:   app.TailorHandler,
		UsageHandler:    app.UsageHandler,
	})

	return app, nil
}

// Close releases held connections.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config, defaults db.Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(defaults)
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Enqueuer, error) {
	if strings.TrimSpace(cfg.QueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.QueueURL)
}

func buildGenerator(cfg config.Config) (llm.Client, error) {
	switch cfg.GeneratorProvider {
	case "openai":
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.GeneratorModel)
	case "placeholder":
		return llm.PlaceholderClient{}, nil
	default:
		return ollama.NewClient(cfg.OllamaURL, cfg.GeneratorModel, cfg.OllamaTimeout), nil
	}
}

func buildRenderer(cfg config.Config) render.Renderer {
	if cfg.RendererKind == "chromedp" {
		return chromedp.New(cfg.RenderTimeout)
	}
	return render.TextRenderer{}
}

func buildServices(app *App, generator llm.Client, renderer render.Renderer) {
	var templatesRepo templates.TemplatesRepo
	var tailorRepo tailor.Repo
	if app.DB != nil {
		templatesRepo = &templates.PGRepo{DB: app.DB}
		tailorRepo = &tailor.PGRepo{DB: app.DB}
	} else {
		templatesRepo = templates.NewMemoryRepo()
		tailorRepo = tailor.NewMemoryRepo()
	}

	var usageSvc *usage.Service
	if app.DB != nil {
		usageSvc = usage.NewPostgresService(usage.NewPGStore(app.DB, app.Config.UsageDailyLimit))
	} else {
		usageSvc = usage.NewService(app.Config.UsageDailyLimit)
	}

	templatesSvc := &templates.Service{
		Store: app.Store,
		Repo:  templatesRepo,
	}

	tailorSvc := &tailor.Service{
		Repo:      tailorRepo,
		Usage:     usageSvc,
		Templates: templatesSvc,
		Store:     app.Store,
		Generator: generator,
		Renderer:  renderer,
		Queue:     app.Queue,
		TopN:      app.Config.TopKeywords,
	}

	healthSvc := &health.Service{
		DB:        app.DB,
		Store:     app.Store,
		Generator: generator,
	}

	app.TemplatesRepo = templatesRepo
	app.TailorRepo = tailorRepo
	app.TemplatesService = templatesSvc
	app.UsageService = usageSvc
	app.TailorService = tailorSvc
	app.HealthService = healthSvc
	app.TemplatesHandler = templates.NewHandler(templatesSvc)
	app.TailorHandler = tailor.NewHandler(tailorSvc)
	app.UsageHandler = usage.NewHandler(usageSvc)
	app.HealthHandler = health.NewHandler(healthSvc)
}
