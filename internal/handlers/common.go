package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/nexlayer/backend/pkg/response"
)

// bindJSON decodes the request body into v. An empty body is not an error so
// that the service layer reports missing fields after its permission check.
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
