package main

import (
	"context"
	"forklift-route-agent/internal/api"
	"forklift-route-agent/internal/app"
	"forklift-route-agent/internal/config"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It loads configuration, wires the agent and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("AGENT_CONFIG", "configs/agent.yml"))
	if err != nil {
		log.Fatal(err)
	}

	a, err := app.Build(context.Background(), cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	router := api.NewRouter(a.Agent, a.Orders)

	// A single query may wait on the solver for MaxPolls*PollInterval.
	log.Printf("Server listening addr=:%s llm=%s cache=%s", cfg.Port, cfg.LLMProvider, cfg.CacheBackend)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      300 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
