package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/staff-rota/internal/config"
	"github.com/jakechorley/staff-rota/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Database *postgres.DB
	Logger   *zap.Logger
	Ctx      context.Context
}
