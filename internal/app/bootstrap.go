package app

import (
	"log"
	"os"

	"github.com/AliMohammadiiii/PRS-sub001/pkg/config"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/database"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/logger"
	pkgredis "github.com/AliMohammadiiii/PRS-sub001/pkg/redis"
)

// Bootstrap brings up the infrastructure: config, logger, database, redis.
func Bootstrap(cfgPath string) (*config.Config, error) {
	if cfgPath == "" {
		cfgPath = os.Getenv("PRS_CONFIG")
		if cfgPath == "" {
			cfgPath = "config/config.yaml"
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(&cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}

	if err := pkgredis.Init(&cfg.Redis); err != nil {
		logger.Warnf("Redis initialization failed: %v", err)
		logger.Info("Transition locks degrade to single-server mode")
	} else if cfg.Redis.Enabled {
		logger.Infof("Redis initialized, distributed transition locks enabled")
	}

	return cfg, nil
}
