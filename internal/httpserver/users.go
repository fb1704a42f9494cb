package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type setRoleRequest struct {
	Role string `json:"role"`
}

// promoteUserHandler grants the admin role. There is no self-service path to
// admin; only an existing admin can elevate an account.
func promoteUserHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondMessage(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Role != "admin" {
			respondMessage(c, http.StatusBadRequest, "unsupported role")
			return
		}
		u, err := users.PromoteToAdmin(c.Request.Context(), currentUser(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, u)
	}
}
