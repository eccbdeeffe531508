package bot

import (
	"context"
	"fmt"

	"brewhouse/apps/bot/commands/orders"
	"brewhouse/pkg/config"
	"brewhouse/pkg/logger"
	"brewhouse/pkg/tgrouter"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"
)

var Module = fx.Options(
	orders.Module,

	fx.Invoke(NewBot),
)

type Params struct {
	fx.In
	fx.Lifecycle

	Logger  logger.Logger
	Config  config.IConfig
	Factory tgrouter.RouterFactory

	OrdersCmd orders.Commands
}

// NewBot wires the Telegram client. A missing token disables the bot but
// never blocks the gateway from serving.
func NewBot(p Params) error {
	token := p.Config.GetString("bot.token")
	if token == "" {
		p.Logger.Warn(context.Background(), "bot token is not set, bot disabled")
		return nil
	}
	tb, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return fmt.Errorf("failed to initialize bot: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	registerCommands(tb)

	r := p.Factory(tb, tgrouter.WithPoolSize(10))

	r.On(tgrouter.Cmd("start"), p.OrdersCmd.Start)
	r.On(tgrouter.Text(), p.OrdersCmd.Lookup)
	r.On(tgrouter.Any(), p.OrdersCmd.Fallback)

	go r.ListenUpdate(ctx)
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info(ctx, "bot started!")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			r.Shutdown(ctx, cancel)
			p.Logger.Info(ctx, "bot stopped!")
			return nil
		},
	})

	return nil
}

func registerCommands(tb *tgbotapi.BotAPI) {
	cfg := tgbotapi.NewSetMyCommands([]tgbotapi.BotCommand{
		{Command: "start", Description: "Restart the bot"},
	}...)

	_, _ = tb.Request(cfg)
}
