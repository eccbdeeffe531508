package postgres

import (
	cartrepo "brewhouse/pkg/repository/postgres/cart_repo"
	orderrepo "brewhouse/pkg/repository/postgres/order_repo"
	productrepo "brewhouse/pkg/repository/postgres/product_repo"
	tguserrepo "brewhouse/pkg/repository/postgres/tguser_repo"

	"go.uber.org/fx"
)

var Module = fx.Options(
	productrepo.Module,
	cartrepo.Module,
	orderrepo.Module,
	tguserrepo.Module,
)
