// Package main implements the entry point for the taskboard API server,
// a task tracking backend with JWT authentication, cached task listings
// and email notifications for assignments and overdue tasks.
package main

import (
	"context"
	"log"

	"github.com/arolitec/taskboard-api/internal/config"
	"github.com/arolitec/taskboard-api/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg := logger.Setup(cfg.Server.LogLevel)
	logg.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	app, err := newApplication(context.Background(), cfg, logg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.run(context.Background()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
