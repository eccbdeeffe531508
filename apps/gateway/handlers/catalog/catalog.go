package catalog

import (
	"errors"
	"net/http"

	"brewhouse/internal/catalog"
	"brewhouse/internal/responses"
	"brewhouse/internal/structs"
	"brewhouse/pkg/logger"
	"brewhouse/pkg/reply"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

type (
	Handler interface {
		GetMenu(c *gin.Context)
		GetCoffee(c *gin.Context)
		GetTea(c *gin.Context)
		GetSyrup(c *gin.Context)
		GetProduct(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger         logger.Logger
		CatalogService catalog.Service
	}

	handler struct {
		logger         logger.Logger
		catalogService catalog.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:         p.Logger,
		catalogService: p.CatalogService,
	}
}

func (h *handler) GetMenu(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)
	defer reply.Json(c.Writer, http.StatusOK, &response)

	menu, err := h.catalogService.Menu(c)
	if err != nil {
		h.logger.Error(ctx, " err on h.catalogService.Menu", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = menu
}

func (h *handler) GetCoffee(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)
	defer reply.Json(c.Writer, http.StatusOK, &response)

	list, err := h.catalogService.ListCoffee(c)
	if err != nil {
		h.logger.Error(ctx, " err on h.catalogService.ListCoffee", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) GetTea(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)
	defer reply.Json(c.Writer, http.StatusOK, &response)

	list, err := h.catalogService.ListTea(c)
	if err != nil {
		h.logger.Error(ctx, " err on h.catalogService.ListTea", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) GetSyrup(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)
	defer reply.Json(c.Writer, http.StatusOK, &response)

	list, err := h.catalogService.ListSyrup(c)
	if err != nil {
		h.logger.Error(ctx, " err on h.catalogService.ListSyrup", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) GetProduct(c *gin.Context) {
	var (
		response    structs.Response
		productType = c.Param("type")
		id          = cast.ToInt64(c.Param("id"))
		ctx         = c.Request.Context()
	)
	defer reply.Json(c.Writer, http.StatusOK, &response)

	product, err := h.catalogService.Resolve(c, productType, id)
	if err != nil {
		if errors.Is(err, structs.ErrInvalidProductType) {
			response = responses.Invalid(err)
			return
		}
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		h.logger.Error(ctx, " err on h.catalogService.Resolve", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = product
}
