package lookup

import (
	"errors"
	"net/http"

	"brewhouse/internal/lookup"
	"brewhouse/internal/responses"
	"brewhouse/internal/structs"
	"brewhouse/pkg/logger"
	"brewhouse/pkg/reply"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

type (
	Handler interface {
		FindOrders(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger        logger.Logger
		LookupService lookup.Service
	}

	handler struct {
		logger        logger.Logger
		lookupService lookup.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:        p.Logger,
		lookupService: p.LookupService,
	}
}

// FindOrders serves the customer-orders endpoint. Zero matches still replies
// success; the payload carries the explanation.
func (h *handler) FindOrders(c *gin.Context) {
	var (
		response structs.Response
		request  structs.LookupRequest
		ctx      = c.Request.Context()
	)
	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := c.ShouldBindJSON(&request)
	if err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	found, err := h.lookupService.FindRecentOrders(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrInvalidPhone) {
			response = responses.Invalid(err)
			return
		}
		h.logger.Error(ctx, " err on h.lookupService.FindRecentOrders", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = found
}
