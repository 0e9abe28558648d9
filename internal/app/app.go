package app

import (
	"github.com/AliMohammadiiii/PRS-sub001/pkg/config"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/database"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/logger"
)

// App holds the wired application graph.
type App struct {
	Config   *config.Config
	Repos    *Repositories
	Services *Services
	Handlers *Handlers
}

// Initialize builds the application bottom-up: infrastructure, then
// repositories, services and handlers.
func Initialize(cfgPath string) (*App, error) {
	cfg, err := Bootstrap(cfgPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			database.Close()
		}
	}()

	repos := InitializeRepositories()
	logger.Infof("Repositories initialized")

	services := InitializeServices(repos, cfg)
	logger.Infof("Services initialized")

	handlers := InitializeHandlers(repos, services, cfg)
	logger.Infof("Handlers initialized")

	return &App{
		Config:   cfg,
		Repos:    repos,
		Services: services,
		Handlers: handlers,
	}, nil
}
