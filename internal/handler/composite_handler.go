package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ordercomposite/internal/model"
	"ordercomposite/internal/service/aggregate"
	"ordercomposite/internal/service/orderflow"
	"ordercomposite/pkg/apperr"
	"ordercomposite/pkg/utils"
)

// CompositeHandler composite order handler
type CompositeHandler struct {
	aggregates aggregate.Service
	placement  orderflow.Service
}

// NewCompositeHandler creates a composite order handler
func NewCompositeHandler(aggregates aggregate.Service, placement orderflow.Service) *CompositeHandler {
	return &CompositeHandler{
		aggregates: aggregates,
		placement:  placement,
	}
}

// RegisterRoutes wires the composite routes onto a router group
func (h *CompositeHandler) RegisterRoutes(r gin.IRouter) {
	group := r.Group("/order-composite")
	group.GET("", h.GetOrders)
	group.GET("/user/:userId", h.GetOrdersByUser)
	group.GET("/:orderId", h.GetOrder)
	group.POST("", h.CreateOrder)
}

// GetOrder returns the aggregate for one order
func (h *CompositeHandler) GetOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	result, err := h.aggregates.GetCompositeOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, result)
}

// GetOrders returns aggregates for all orders
func (h *CompositeHandler) GetOrders(c *gin.Context) {
	result, err := h.aggregates.GetCompositeOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, result)
}

// GetOrdersByUser returns aggregates for all orders of one user
func (h *CompositeHandler) GetOrdersByUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	result, err := h.aggregates.GetCompositeOrdersByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, result)
}

// CreateOrder places a composite order
func (h *CompositeHandler) CreateOrder(c *gin.Context) {
	var req model.OrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, utils.FormatValidationError(err))
		return
	}

	result, err := h.placement.CreateCompositeOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, result)
}

// respondError maps an application error to its HTTP status
func respondError(c *gin.Context, err error) {
	utils.ErrorResponse(c, apperr.HTTPStatus(err), err.Error())
}
