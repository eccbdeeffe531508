package internal

import (
	"brewhouse/internal/cart"
	"brewhouse/internal/catalog"
	"brewhouse/internal/lookup"
	"brewhouse/internal/notify"
	"brewhouse/internal/order"

	"go.uber.org/fx"
)

var Module = fx.Options(
	catalog.Module,
	cart.Module,
	order.Module,
	lookup.Module,
	notify.Module,
)
