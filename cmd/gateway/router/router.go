package router

import (
	"context"
	"net/http"

	"brewhouse/apps/gateway/handlers/cart"
	"brewhouse/apps/gateway/handlers/catalog"
	"brewhouse/apps/gateway/handlers/lookup"
	"brewhouse/apps/gateway/handlers/middleware"
	"brewhouse/apps/gateway/handlers/order"
	"brewhouse/pkg/config"
	"brewhouse/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Options(
	fx.Invoke(
		NewRouter,
	),
)

type Params struct {
	fx.In

	middleware.Middleware
	Lifecycle fx.Lifecycle
	Config    config.IConfig
	Logger    logger.Logger
	Catalog   catalog.Handler
	Cart      cart.Handler
	Order     order.Handler
	Lookup    lookup.Handler
}

func NewRouter(params Params) {
	r := gin.New()
	baseUrl := "/api/v1"
	api := r.Group(baseUrl)
	api.Use(params.Ctx(), gin.Logger(), gin.Recovery())

	catalogGroup := api.Group("/catalog")
	{
		catalogGroup.GET("/", params.Catalog.GetMenu)
		catalogGroup.GET("/coffee", params.Catalog.GetCoffee)
		catalogGroup.GET("/tea", params.Catalog.GetTea)
		catalogGroup.GET("/syrup", params.Catalog.GetSyrup)
		catalogGroup.GET("/:type/:id", params.Catalog.GetProduct)
	}

	cartGroup := api.Group("/cart")
	{
		cartGroup.GET("/:user_id", params.Cart.GetCart)
		cartGroup.POST("/items", params.Cart.AddItem)
		cartGroup.PATCH("/items", params.Cart.PatchItem)
		cartGroup.DELETE("/items", params.Cart.DeleteItem)
		cartGroup.DELETE("/:user_id", params.Cart.ClearCart)
	}

	orderGroup := api.Group("/order")
	{
		orderGroup.POST("/", params.Order.Checkout)
		orderGroup.GET("/:id", params.Order.GetByID)
		orderGroup.GET("/", params.Order.GetList)
		orderGroup.PUT("/status", params.Order.UpdateStatus)
		orderGroup.DELETE("/:id", params.Order.Delete)
	}

	api.POST("/customer-orders", params.Lookup.FindOrders)

	server := http.Server{
		Addr: params.Config.GetString("server.port"),
		Handler: cors.New(cors.Options{
			AllowedHeaders:   []string{"*"},
			AllowedOrigins:   []string{"http://localhost:5173"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
			AllowCredentials: true,
			AllowOriginVaryRequestFunc: func(r *http.Request, origin string) (bool, []string) {
				return true, []string{"*"}
			},
		}).Handler(r),
	}

	params.Lifecycle.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				params.Logger.Info(ctx, "Starting application")
				go func() {
					if err := server.ListenAndServe(); err != nil {
						params.Logger.Error(ctx, "Err on ListenAndServe", zap.Error(err))
					}
				}()

				params.Logger.Info(ctx, "Application starting on port", zap.String("port", params.Config.GetString("server.port")))
				return nil
			},
			OnStop: func(ctx context.Context) error {
				params.Logger.Error(ctx, "Application stopped")
				return server.Shutdown(ctx)
			},
		},
	)
}
