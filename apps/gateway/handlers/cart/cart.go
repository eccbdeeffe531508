package cart

import (
	"errors"
	"net/http"

	"brewhouse/internal/cart"
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
		GetCart(c *gin.Context)
		AddItem(c *gin.Context)
		PatchItem(c *gin.Context)
		DeleteItem(c *gin.Context)
		ClearCart(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger      logger.Logger
		CartService cart.Service
	}

	handler struct {
		logger      logger.Logger
		cartService cart.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:      p.Logger,
		cartService: p.CartService,
	}
}

func (h *handler) GetCart(c *gin.Context) {
	var (
		response structs.Response
		userID   = cast.ToInt64(c.Param("user_id"))
		ctx      = c.Request.Context()
	)
	defer reply.Json(c.Writer, http.StatusOK, &response)

	view, err := h.cartService.View(c, userID)
	if err != nil {
		h.logger.Error(ctx, " err on h.cartService.View", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = view
}

func (h *handler) AddItem(c *gin.Context) {
	var (
		response structs.Response
		request  structs.AddCartItem
		ctx      = c.Request.Context()
	)
	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := c.ShouldBindJSON(&request)
	if err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	err = h.cartService.AddItem(c, request)
	if err != nil {
		switch {
		case errors.Is(err, structs.ErrInvalidProductType),
			errors.Is(err, structs.ErrInvalidSize),
			errors.Is(err, structs.ErrInvalidQuantity),
			errors.Is(err, structs.ErrProductUnavailable):
			response = responses.Invalid(err)
		case errors.Is(err, structs.ErrNotFound):
			response = responses.NotFound
		case errors.Is(err, structs.ErrUniqueViolation):
			response = responses.Retryable
		default:
			h.logger.Error(ctx, " err on h.cartService.AddItem", zap.Error(err))
			response = responses.InternalErr
		}
		return
	}

	response = responses.Success
}

func (h *handler) PatchItem(c *gin.Context) {
	var (
		response structs.Response
		request  structs.UpdateCartItem
		ctx      = c.Request.Context()
	)
	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := c.ShouldBindJSON(&request)
	if err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	err = h.cartService.UpdateQuantity(c, request)
	if err != nil {
		switch {
		case errors.Is(err, structs.ErrInvalidQuantity):
			response = responses.Invalid(err)
		case errors.Is(err, structs.ErrNotFound):
			response = responses.NotFound
		default:
			h.logger.Error(ctx, " err on h.cartService.UpdateQuantity", zap.Error(err))
			response = responses.InternalErr
		}
		return
	}

	response = responses.Success
}

func (h *handler) DeleteItem(c *gin.Context) {
	var (
		response structs.Response
		request  structs.DeleteCartItem
		ctx      = c.Request.Context()
	)
	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := c.ShouldBindJSON(&request)
	if err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	err = h.cartService.RemoveItem(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		h.logger.Error(ctx, " err on h.cartService.RemoveItem", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
}

func (h *handler) ClearCart(c *gin.Context) {
	var (
		response structs.Response
		userID   = cast.ToInt64(c.Param("user_id"))
		ctx      = c.Request.Context()
	)
	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := h.cartService.Clear(c, userID)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		h.logger.Error(ctx, " err on h.cartService.Clear", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
}
