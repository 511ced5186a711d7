package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorBody standard error response structure
type ErrorBody struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// ErrorResponse returns error response
func ErrorResponse(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, ErrorBody{
		Code:      httpCode,
		Message:   message,
		Timestamp: time.Now().Unix(),
	})
}

// Created returns a 201 response with the created resource
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// OK returns a 200 response with the resource
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
