package httpserver

import (
	"net/http"

	paymentsvc "storefront/internal/service/payment"

	"github.com/gin-gonic/gin"
)

type initiatePaymentRequest struct {
	OrderID string `json:"orderId"`
}

type verifyPaymentRequest struct {
	OrderID         string `json:"orderId"`
	RemoteOrderID   string `json:"remote_order_id"`
	RemotePaymentID string `json:"remote_payment_id"`
	Signature       string `json:"signature"`
}

func initiatePaymentHandler(payments PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req initiatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" {
			respondMessage(c, http.StatusBadRequest, "orderId required")
			return
		}
		result, err := payments.Initiate(c.Request.Context(), currentUser(c), req.OrderID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, result)
	}
}

func verifyPaymentHandler(payments PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req verifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" {
			respondMessage(c, http.StatusBadRequest, "orderId required")
			return
		}
		o, err := payments.Verify(c.Request.Context(), currentUser(c), paymentsvc.VerifyInput{
			OrderID:   req.OrderID,
			IntentID:  req.RemoteOrderID,
			PaymentID: req.RemotePaymentID,
			Signature: req.Signature,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, o)
	}
}
