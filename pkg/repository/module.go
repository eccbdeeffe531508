package repository

import (
	"go.uber.org/fx"

	"brewhouse/pkg/repository/postgres"
)

var Module = fx.Options(
	postgres.Module,
)
