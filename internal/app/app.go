package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"forklift-route-agent/internal/adapters/artifacts"
	"forklift-route-agent/internal/adapters/cache"
	"forklift-route-agent/internal/adapters/charts"
	"forklift-route-agent/internal/adapters/cuopt"
	"forklift-route-agent/internal/adapters/llm"
	"forklift-route-agent/internal/adapters/repositories"
	"forklift-route-agent/internal/config"
	"forklift-route-agent/internal/platform/db"
	"forklift-route-agent/internal/ports"
	"forklift-route-agent/internal/services"
	"log"
	"strings"
)

const memoryCacheSize = 256

// App holds the wired agent and the resources it owns.
type App struct {
	Agent  *services.Agent
	Orders ports.OrderRepository

	closers []func() error
}

// Close releases database and cache connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build wires concrete adapters behind ports. Database drivers must be
// registered by the binary.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	a := &App{}

	driver := DriverName(cfg.DBDriver)
	var conn *sql.DB
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		var err error
		conn, err = db.Open(driver, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("build app: %w", err)
		}
		a.closers = append(a.closers, conn.Close)

		if err := repositories.InitSchema(ctx, conn); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("build app: %w", err)
		}
	}

	sources := []ports.OrderRepository{}
	if conn != nil {
		sources = append(sources, repositories.NewSQLOrderRepository(conn, driver))
	}
	sources = append(sources, repositories.NewCSVOrderRepository(cfg.OrdersCSV))
	a.Orders = repositories.NewFallbackOrderRepository(sources...)

	solutionCache, err := buildCache(cfg, conn, driver)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("build app: %w", err)
	}
	if c, ok := solutionCache.(*cache.RedisSolutionCache); ok {
		a.closers = append(a.closers, c.Close)
	}

	model := llm.New(ctx, llm.Settings{
		Provider:        cfg.LLMProvider,
		Model:           cfg.LLMModel,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		GeminiAPIKey:    cfg.GeminiAPIKey,
	})

	solver := cuopt.New(cuopt.Options{
		APIKey:       cfg.CuOptAPIKey,
		InvokeURL:    cfg.CuOptInvokeURL,
		StatusURL:    cfg.CuOptStatusURL,
		PollInterval: cfg.PollInterval,
		MaxPolls:     cfg.MaxPolls,
		Cache:        solutionCache,
	})

	a.Agent = &services.Agent{
		Interpreter:          services.NewQueryInterpreter(model),
		Modifier:             &services.DataModifier{Orders: a.Orders, ApplyEdits: cfg.ApplyDataEdits},
		Builder:              &services.ProblemBuilder{TimeLimit: cfg.SolverTimeLimit},
		Solver:               solver,
		Renderer:             charts.NewRenderer(),
		VisualizationEnabled: cfg.VisualizationEnabled,
		OutputDir:            cfg.OutputDir,
		Markdown:             charts.Markdown,
	}

	if cfg.S3.Enabled() {
		store, err := artifacts.NewMinioStore(artifacts.Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			UseSSL:    cfg.S3.UseSSL,
		})
		if err != nil {
			log.Printf("artifact mirror disabled: %v", err)
		} else {
			a.Agent.Artifacts = store
		}
	}

	return a, nil
}

func buildCache(cfg config.Config, conn *sql.DB, driver string) (ports.SolutionCache, error) {
	switch cfg.CacheBackend {
	case "", "none":
		return nil, nil
	case "memory":
		return cache.NewLRUSolutionCache(memoryCacheSize, cfg.CacheTTL)
	case "redis":
		if strings.TrimSpace(cfg.RedisURL) == "" {
			return nil, errors.New("cache backend redis requires REDIS_URL")
		}
		return cache.NewRedisSolutionCache(cfg.RedisURL, cfg.CacheTTL)
	case "sql":
		if conn == nil {
			return nil, errors.New("cache backend sql requires DATABASE_URL")
		}
		return cache.NewSQLSolutionCache(conn, driver, cfg.CacheTTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

// DriverName maps configured driver aliases onto registered sql drivers.
func DriverName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pgx", "postgres", "postgresql":
		return db.DriverPostgres
	default:
		return db.DriverSQLite
	}
}
