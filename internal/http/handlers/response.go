// Package handlers provides HTTP handler implementations for the public API.
//
// This file holds the response helpers shared by all endpoints and the
// envelope types referenced by the OpenAPI annotations.
//
// Conventions:
//   - Handlers never render failures themselves. fail() hands the error to
//     Gin and aborts; middleware.ErrorTranslator renders it once.
//   - The only exception is the login outcome pair (invalid credentials,
//     deactivated account), which loginError() writes directly as
//     {"error": "<message>"} with status 400.
//
// Example error responses:
//
//	HTTP/1.1 404 Not Found
//	{"User": "Not found."}
//
//	HTTP/1.1 400 Bad Request
//	{"error": ["email : Enter a valid email address."], "status_code": 400}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorEnvelope is the single-message error shape.
type ErrorEnvelope struct {
	Error string `json:"error" example:"Invalid Credentials"`
}

// ValidationEnvelope is the error shape of rejected input.
type ValidationEnvelope struct {
	Error      []string `json:"error" example:"email : Enter a valid email address."`
	StatusCode int      `json:"status_code" example:"400"`
}

// UserNotFoundEnvelope is the error shape of a failed user lookup.
type UserNotFoundEnvelope struct {
	User string `json:"User" example:"Not found."`
}

// DetailEnvelope is the shape of failures rendered without reshaping
// (permission denied, throttled, malformed body).
type DetailEnvelope struct {
	Detail string `json:"detail" example:"You do not have permission to perform this action."`
}

// fail records err for the error translator and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// loginError writes a login rejection.
func loginError(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorEnvelope{Error: msg})
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
