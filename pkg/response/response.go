package response

import "github.com/gin-gonic/gin"

// ErrorBody is the error envelope every endpoint returns. The consumers are
// first-party front-end pages, so provider messages pass through verbatim.
type ErrorBody struct {
	Error string `json:"error"`
}

// Error writes an {"error": msg} JSON body with the given status.
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorBody{Error: msg})
}
