package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler turns panics and errors attached with c.Error into JSON
// responses when the handler did not write a body itself
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Error: panic serving %s %s [%s]: %v", c.Request.Method, c.Request.URL.Path, c.GetString("request_id"), err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		log.Printf("Error: %s %s: %v", c.Request.Method, c.Request.URL.Path, c.Errors.Last())
		c.JSON(status, ErrorResponse{Error: c.Errors.Last().Error()})
	}
}
