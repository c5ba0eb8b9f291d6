package service

import (
	"github.com/bitfantasy/ppv-engine/internal/config"
	"github.com/bitfantasy/ppv-engine/internal/ppv/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services is the PPV service collection.
type Services struct {
	Variance *VarianceService
	Export   *ExportService
}

// NewServices wires the engine against the GORM repositories.
func NewServices(repos *repository.Repositories, lookup ContextLookup, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	src := Sources{
		PO:        repos.PO,
		Invoice:   repos.Invoice,
		Condition: repos.Condition,
		Contract:  repos.Contract,
		Journal:   repos.Journal,
		Rate:      repos.Rate,
		Uom:       repos.Uom,
	}
	variance := NewVarianceService(src, lookup, rdb, cfg, logger)
	return &Services{
		Variance: variance,
		Export:   NewExportService(),
	}
}
