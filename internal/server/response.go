package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the error body of every failed request
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps APIError as {"error": {...}}
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
