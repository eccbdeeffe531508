package handlers

import (
	"brewhouse/apps/gateway/handlers/cart"
	"brewhouse/apps/gateway/handlers/catalog"
	"brewhouse/apps/gateway/handlers/lookup"
	"brewhouse/apps/gateway/handlers/middleware"
	"brewhouse/apps/gateway/handlers/order"

	"go.uber.org/fx"
)

var Module = fx.Options(
	catalog.Module,
	cart.Module,
	order.Module,
	lookup.Module,
	middleware.Module,
)
