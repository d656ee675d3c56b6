package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pagination metadata returned with paginated responses.
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	TotalPage   int   `json:"total_page"`
	Size        int   `json:"size"`
	HasNextPage bool  `json:"has_next_page"`
}

// envelope is the common response body shape shared with the portal APIs.
type envelope struct {
	Status  bool        `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// pagedEnvelope extends the envelope with pagination metadata.
type pagedEnvelope struct {
	Status     bool        `json:"status"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
	Message    string      `json:"message,omitempty"`
}

// OK sends a 200 success envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Status: true, Data: data})
}

// OKMsg sends a 200 success envelope with a message.
func OKMsg(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, envelope{Status: true, Data: data, Message: message})
}

// Paged sends a paginated success envelope.
func Paged(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, pagedEnvelope{Status: true, Data: data, Pagination: pagination})
}

// Created sends a 201 success envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Status: true, Data: data})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 error envelope.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, envelope{Status: false, Message: message})
}

// Unauthorized sends a 401 error envelope.
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Status: false, Message: "authentication required"})
}

// UnauthorizedMsg sends a 401 error envelope with a custom message.
func UnauthorizedMsg(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Status: false, Message: message})
}

// Forbidden sends a 403 error envelope.
func Forbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, envelope{Status: false, Message: "forbidden"})
}

// NotFound sends a 404 error envelope.
func NotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, envelope{Status: false, Message: "not found"})
}

// NotFoundMsg sends a 404 error envelope with a custom message.
func NotFoundMsg(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusNotFound, envelope{Status: false, Message: message})
}

// MethodNotAllowed sends a 405 error envelope.
func MethodNotAllowed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, envelope{Status: false, Message: "method not allowed"})
}

// Conflict sends a 409 error envelope.
func Conflict(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusConflict, envelope{Status: false, Message: message})
}

// UnprocessableEntity sends a 422 error envelope.
func UnprocessableEntity(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, envelope{Status: false, Message: message})
}

// InternalError sends a 500 error envelope.
func InternalError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, envelope{Status: false, Message: err.Error()})
}
