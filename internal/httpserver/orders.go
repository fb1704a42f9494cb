package httpserver

import (
	"net/http"
	"time"

	"storefront/internal/domain"
	ordersvc "storefront/internal/service/order"

	"github.com/gin-gonic/gin"
)

func createOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ordersvc.CreateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondMessage(c, http.StatusBadRequest, "invalid request body")
			return
		}
		o, err := orders.Create(c.Request.Context(), currentUser(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, o)
	}
}

func listMyOrdersHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.ListMine(c.Request.Context(), currentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, list)
	}
}

func getOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := orders.Get(c.Request.Context(), currentUser(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, o)
	}
}

// payOrderRequest mirrors the shape a checkout widget posts back after a
// manual (non-gateway) payment capture.
type payOrderRequest struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	UpdateTime   time.Time `json:"update_time"`
	EmailAddress string    `json:"email_address"`
}

func payOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req payOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondMessage(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.UpdateTime.IsZero() {
			req.UpdateTime = time.Now().UTC()
		}
		o, err := orders.MarkPaid(c.Request.Context(), currentUser(c), c.Param("id"), domain.PaymentResult{
			ID:         req.ID,
			Status:     req.Status,
			UpdateTime: req.UpdateTime,
			Email:      req.EmailAddress,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, o)
	}
}

func deliverOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := orders.MarkDelivered(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, o)
	}
}
