package order

import (
	"errors"
	"net/http"

	"brewhouse/internal/order"
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
		Checkout(c *gin.Context)
		GetByID(c *gin.Context)
		GetList(c *gin.Context)
		UpdateStatus(c *gin.Context)
		Delete(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger       logger.Logger
		OrderService order.Service
	}

	handler struct {
		logger       logger.Logger
		orderService order.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:       p.Logger,
		orderService: p.OrderService,
	}
}

func (h *handler) Checkout(c *gin.Context) {
	var (
		response structs.Response
		request  structs.Checkout
		ctx      = c.Request.Context()
	)
	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := c.ShouldBindJSON(&request)
	if err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	created, err := h.orderService.Checkout(c, request)
	if err != nil {
		switch {
		case errors.Is(err, structs.ErrEmptyCart),
			errors.Is(err, structs.ErrInvalidPhone),
			errors.Is(err, structs.ErrInvalidSize):
			response = responses.Invalid(err)
		case errors.Is(err, structs.ErrUniqueViolation):
			response = responses.Retryable
		default:
			h.logger.Error(ctx, " err on h.orderService.Checkout", zap.Error(err))
			response = responses.InternalErr
		}
		return
	}

	response = responses.Success
	response.Payload = created
}

func (h *handler) GetByID(c *gin.Context) {
	var (
		response structs.Response
		id       = c.Param("id")
		ctx      = c.Request.Context()
	)
	defer reply.Json(c.Writer, http.StatusOK, &response)

	orderData, err := h.orderService.GetByID(c, id)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		h.logger.Error(ctx, " err on h.orderService.GetByID", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = orderData
}

func (h *handler) GetList(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
		request  = structs.GetListOrderRequest{
			Limit:  cast.ToInt64(c.Query("limit")),
			Offset: cast.ToInt64(c.Query("offset")),
			Status: c.Query("status"),
			Phone:  c.Query("phone"),
		}
	)
	defer reply.Json(c.Writer, http.StatusOK, &response)

	list, err := h.orderService.GetList(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrInvalidOrderStatus) {
			response = responses.Invalid(err)
			return
		}
		h.logger.Error(ctx, " err on h.orderService.GetList", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) UpdateStatus(c *gin.Context) {
	var (
		response structs.Response
		request  structs.UpdateOrderStatus
		ctx      = c.Request.Context()
	)
	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := c.ShouldBindJSON(&request)
	if err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	err = h.orderService.UpdateStatus(c, request)
	if err != nil {
		switch {
		case errors.Is(err, structs.ErrInvalidOrderStatus):
			response = responses.Invalid(err)
		case errors.Is(err, structs.ErrNotFound):
			response = responses.NotFound
		default:
			h.logger.Error(ctx, " err on h.orderService.UpdateStatus", zap.Error(err))
			response = responses.InternalErr
		}
		return
	}

	response = responses.Success
}

func (h *handler) Delete(c *gin.Context) {
	var (
		response structs.Response
		id       = c.Param("id")
		ctx      = c.Request.Context()
	)
	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := h.orderService.Delete(c, id)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		h.logger.Error(ctx, " err on h.orderService.Delete", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
}
