// Package tgrouter is a small filter-based dispatcher over the Telegram bot
// API update stream, with a bounded worker pool and graceful shutdown.
package tgrouter

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"brewhouse/pkg/logger"
)

var Module = fx.Provide(NewRouterFactory)

type RouterFactory func(*tgbotapi.BotAPI, ...OptFn) *Router

type Handler func(*Ctx)

type Middleware func(Handler) Handler

type route struct {
	filter  Filter
	handler Handler
}

type Router struct {
	bot         *tgbotapi.BotAPI
	poolSize    int
	logger      logger.Logger
	wg          sync.WaitGroup
	routes      []route
	middlewares []Middleware
}

// poolSize - default router poolSize.
const _poolSize = 10

type OptFn func(r *Router)

func WithPoolSize(psize int) OptFn {
	return func(r *Router) {
		r.poolSize = psize
	}
}

func NewRouterFactory(logger logger.Logger) RouterFactory {
	return func(bot *tgbotapi.BotAPI, options ...OptFn) *Router {
		r := &Router{
			bot:      bot,
			logger:   logger,
			poolSize: _poolSize,
		}
		for _, opt := range options {
			opt(r)
		}
		return r
	}
}

func (r *Router) Use(middlewares ...Middleware) {
	r.middlewares = append(r.middlewares, middlewares...)
}

// On registers a handler for updates matching the filter. Registered
// middlewares wrap the handler outermost-first. Routes are tried in
// registration order; the first match wins.
func (r *Router) On(filter Filter, handler Handler) {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i](handler)
	}
	r.routes = append(r.routes, route{filter: filter, handler: handler})
}

func (r *Router) ListenUpdate(ctx context.Context) {
	updates := r.bot.GetUpdatesChan(tgbotapi.UpdateConfig{
		Offset:  0,
		Timeout: 60,
		Limit:   100,
	})

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for i := 1; i <= r.poolSize; i++ {
		r.wg.Add(1)
		go func(workerID int) {
			defer r.wg.Done()
			for {
				select {
				case update, ok := <-updates:
					if !ok {
						r.logger.Warn(ctx, "update channel closed, worker shutting down",
							zap.Int("workerID", workerID))
						return
					}
					r.serveUpdate(workerCtx, &update)
				case <-workerCtx.Done():
					return
				}
			}
		}(i)
	}

	<-ctx.Done()
}

const shutdownTimeout = 5 * time.Second

func (r *Router) Shutdown(ctx context.Context, cancel context.CancelFunc) error {
	r.logger.Info(ctx, "bot workers shutting down")
	r.bot.StopReceivingUpdates()
	cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info(ctx, "bot workers stopped")
		return nil
	case <-time.After(shutdownTimeout):
		r.logger.Warn(ctx, "bot shutdown timeout exceeded")
	}
	return nil
}

func (r *Router) serveUpdate(ctx context.Context, update *tgbotapi.Update) {
	c := &Ctx{
		bot:     r.bot,
		update:  update,
		Context: r.logger.Context(ctx),
	}

	for _, rt := range r.routes {
		if rt.filter(c) {
			rt.handler(c)
			return
		}
	}
}
