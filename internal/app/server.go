package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AliMohammadiiii/PRS-sub001/internal/api/router"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/config"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/database"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/logger"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/metrics"
	pkgredis "github.com/AliMohammadiiii/PRS-sub001/pkg/redis"
)

// StartServer runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully.
func StartServer(cfg *config.Config, handlers *Handlers, services *Services, repos *Repositories) {
	r := router.Setup(
		handlers.Auth,
		handlers.Request,
		handlers.Action,
		handlers.Attachment,
		handlers.Template,
		handlers.Team,
		handlers.Lookup,
		services.Auth,
		repos.Approval,
		cfg.Uploads.MaxSizeMB,
		cfg.Server.Mode,
	)

	stopGauges := make(chan struct{})
	go updateStatusGauges(repos, stopGauges)

	addr := fmt.Sprintf(":%d", cfg.Server.APIPort)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	logger.Infof("Purchase request API listening on %s (mode: %s)", addr, cfg.Server.Mode)

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Infof("Shutting down gracefully...")
	close(stopGauges)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("HTTP server shutdown error: %v", err)
	}

	if err := database.Close(); err != nil {
		logger.Warnf("Database close error: %v", err)
	}

	if cfg.Redis.Enabled {
		if err := pkgredis.Close(); err != nil {
			logger.Warnf("Redis close error: %v", err)
		}
	}

	logger.Infof("Shutdown complete")
}

// updateStatusGauges refreshes the by-status request gauge once a minute.
func updateStatusGauges(repos *Repositories, stop <-chan struct{}) {
	refresh := func() {
		rows, err := repos.Request.CountByStatus()
		if err != nil {
			logger.Warnf("Status gauge refresh failed: %v", err)
			return
		}
		metrics.RequestsByStatus.Reset()
		for _, row := range rows {
			metrics.RequestsByStatus.WithLabelValues(row.StatusCode).Set(float64(row.RequestCount))
		}
	}

	refresh()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			refresh()
		case <-stop:
			return
		}
	}
}
