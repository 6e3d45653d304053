package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const htmlContentType = "text/html; charset=utf-8"

// GenericError is the only body clients see for unexpected failures.
const GenericError = "Error!"

func errorBody(code int, message string) gin.H {
	return gin.H{"ok": 0, "code": code, "message": message}
}

// OK sends a 200 JSON response.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// JSON sends data with an explicit status.
func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// HTML sends a pre-rendered HTML body.
func HTML(c *gin.Context, status int, body string) {
	c.Data(status, htmlContentType, []byte(body))
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.AbortWithStatus(http.StatusNoContent)
}

// BadRequestHTML sends a 400 with an HTML body, as the guestbook form expects.
func BadRequestHTML(c *gin.Context, body string) {
	c.Abort()
	HTML(c, http.StatusBadRequest, body)
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, errorBody(http.StatusNotFound, "Not Found"))
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, errorBody(http.StatusMethodNotAllowed, "Method Not Allowed"))
}

// InternalError sends a plain 500 without any detail of the cause.
func InternalError(c *gin.Context) {
	c.Abort()
	c.String(http.StatusInternalServerError, GenericError)
}
