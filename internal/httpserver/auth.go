package httpserver

import (
	"net/http"
	"strings"

	usersvc "storefront/internal/service/user"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User      interface{} `json:"user"`
	Token     string      `json:"token"`
	ExpiresIn int         `json:"expiresIn"`
}

func signupHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req usersvc.SignupInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondMessage(c, http.StatusBadRequest, "invalid request body")
			return
		}
		u, token, err := users.Signup(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, authResponse{User: u, Token: token, ExpiresIn: users.AccessTTLSeconds()})
	}
}

func loginHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondMessage(c, http.StatusBadRequest, "invalid request body")
			return
		}
		u, token, err := users.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, authResponse{User: u, Token: token, ExpiresIn: users.AccessTTLSeconds()})
	}
}

func meHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondOK(c, currentUser(c))
	}
}

func logoutHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, _ := strings.CutPrefix(header, "Bearer ")
		if err := users.Logout(c.Request.Context(), strings.TrimSpace(token)); err != nil {
			respondError(c, err)
			return
		}
		respondMessage(c, http.StatusOK, "logged out")
	}
}
