package main

import (
	"brewhouse/apps/bot"
	"brewhouse/apps/gateway"
	"brewhouse/cmd/gateway/router"
	"brewhouse/internal"
	"brewhouse/pkg"

	"go.uber.org/fx"
)

func main() {
	fx.New(
		gateway.Module,
		router.Module,
		pkg.Module,
		internal.Module,
		bot.Module,
	).Run()
}
