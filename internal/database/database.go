package database

import (
	"context"

	"github.com/flayve23/flayve-oficial/internal/config"
	"github.com/flayve23/flayve-oficial/pkg/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewConnection(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	return mysql.NewConnection(ctx, cfg.Database, logger)
}
