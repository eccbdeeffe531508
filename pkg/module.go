package pkg

import (
	"go.uber.org/fx"

	"brewhouse/pkg/config"
	"brewhouse/pkg/db"
	"brewhouse/pkg/logger"
	"brewhouse/pkg/migration"
	"brewhouse/pkg/redis"
	"brewhouse/pkg/reply"
	"brewhouse/pkg/repository"
	"brewhouse/pkg/tgrouter"
)

var Module = fx.Options(
	config.Module,
	logger.Module,
	migration.Module,
	repository.Module,
	db.Module,
	redis.Module,
	reply.Module,
	tgrouter.Module,
)
