package middleware

import (
	"brewhouse/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var (
	Module = fx.Provide(NewMiddleware)
)

type (
	Middleware interface {
		Ctx() gin.HandlerFunc
	}

	Params struct {
		fx.In

		Logger logger.Logger
	}

	mw struct {
		logger logger.Logger
	}
)

func NewMiddleware(params Params) Middleware {
	return &mw{
		logger: params.Logger,
	}
}

// Ctx attaches a log id to the request context so every line written while
// serving the request can be correlated.
func (m *mw) Ctx() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := m.logger.Context(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
