package main

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/harukit/journeys-backend-go/internal/api"
	"github.com/harukit/journeys-backend-go/internal/config"
	"github.com/harukit/journeys-backend-go/internal/database"
	"github.com/harukit/journeys-backend-go/internal/engine"
	"github.com/harukit/journeys-backend-go/internal/metrics"
	"github.com/harukit/journeys-backend-go/internal/repository"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	journeyRepo := repository.NewJourneyRepository(db)
	sampleRepo := repository.NewSampleRepository(db)

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	eng, err := engine.New(cfg.EngineConfig(), journeyRepo, sampleRepo, collector)
	if err != nil {
		log.Fatal("Failed to create engine:", err)
	}

	router := api.SetupRouter(cfg, eng, journeyRepo, reg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
