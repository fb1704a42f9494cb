package httpserver

import (
	"errors"
	"net/http"

	"storefront/internal/domain"
	usersvc "storefront/internal/service/user"

	"github.com/gin-gonic/gin"
)

// apiResponse is the envelope every endpoint returns: success is always
// present, message only on failures (or informational successes), data only
// when there is a payload.
type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, apiResponse{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, apiResponse{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, apiResponse{Success: status < http.StatusBadRequest, Message: message})
}

// respondError maps domain errors onto HTTP statuses. Anything unclassified
// is a 500 with the detail withheld from the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		respondMessage(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		respondMessage(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidSignature):
		respondMessage(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, usersvc.ErrInvalidToken):
		respondMessage(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		respondMessage(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		respondMessage(c, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrNotPaid),
		errors.Is(err, domain.ErrAlreadyExists):
		respondMessage(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrGatewayNotConfigured):
		respondMessage(c, http.StatusInternalServerError, err.Error())
	default:
		respondMessage(c, http.StatusInternalServerError, "internal server error")
	}
}
