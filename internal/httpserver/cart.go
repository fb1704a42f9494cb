package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func getCartHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := carts.Get(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, view)
	}
}

func addCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
			respondMessage(c, http.StatusBadRequest, "productId required")
			return
		}
		view, err := carts.Add(c.Request.Context(), currentUser(c).ID, req.ProductID, req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, view)
	}
}

func updateCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondMessage(c, http.StatusBadRequest, "invalid request body")
			return
		}
		view, err := carts.UpdateItem(c.Request.Context(), currentUser(c).ID, c.Param("productId"), req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, view)
	}
}

func removeCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := carts.Remove(c.Request.Context(), currentUser(c).ID, c.Param("productId"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, view)
	}
}

func clearCartHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := carts.Clear(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, view)
	}
}
