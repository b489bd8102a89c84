package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plantopia_back_end/internal/models"
	"plantopia_back_end/internal/services"
)

// POST /api/orders
func (h *Handler) CreateOrder(c *gin.Context) {
	var in services.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Missing required fields")
		return
	}

	ctx, cancel := h.ctx()
	defer cancel()

	order, err := h.Orders.CreateOrder(ctx, in)
	if err != nil {
		fail(c, err, "Failed to create order")
		return
	}

	orderID := order.ID.Hex()
	ok(c, http.StatusOK, gin.H{
		"message": "Order created successfully",
		"orderId": orderID,
		"data":    gin.H{"orderId": orderID},
	})
}

// GET /api/orders
func (h *Handler) ListOrders(c *gin.Context) {
	ctx, cancel := h.ctx()
	defer cancel()

	orders, err := h.Orders.ListAllOrders(ctx)
	if err != nil {
		fail(c, err, "Failed to fetch orders")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": orders})
}

// GET /api/users/:uid/orders
func (h *Handler) ListUserOrders(c *gin.Context) {
	ctx, cancel := h.ctx()
	defer cancel()

	orders, err := h.Orders.ListOrdersForUser(ctx, c.Param("uid"))
	if err != nil {
		fail(c, err, "Failed to fetch orders")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": orders})
}

// PUT /api/orders/:orderId/status
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var body struct {
		Status models.OrderStatus `json:"status"`
	}
	_ = c.ShouldBindJSON(&body)

	ctx, cancel := h.ctx()
	defer cancel()

	order, err := h.Orders.UpdateOrderStatus(ctx, c.Param("orderId"), body.Status)
	if err != nil {
		fail(c, err, "Failed to update order status")
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Order status updated successfully", "data": order})
}

// DELETE /api/orders/:orderId
func (h *Handler) DeleteOrder(c *gin.Context) {
	var body struct {
		UserID string `json:"userId"`
	}
	_ = c.ShouldBindJSON(&body)

	ctx, cancel := h.ctx()
	defer cancel()

	if err := h.Orders.DeleteOrder(ctx, c.Param("orderId"), body.UserID); err != nil {
		fail(c, err, "Failed to delete order")
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Order deleted successfully"})
}
