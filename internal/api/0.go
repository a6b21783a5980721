package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
)

var Provider = wire.NewSet(
	NewUserAPI,
	NewCatalogAPI,
	NewPolicyAPI,
	NewTaskAPI,
	NewCommonAPI,
	NewServer,
)

func onGinBind(c *gin.Context, val any, typ string) bool {
	var err error
	switch typ {
	case "JSON":
		err = c.ShouldBindJSON(val)
	case "QUERY":
		err = c.ShouldBindQuery(val)
	case "URI":
		err = c.ShouldBindUri(val)
	default:
		err = c.ShouldBind(val)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// onGinResponse 错误交给 ErrorHandlingMiddleware 统一映射状态码
func onGinResponse[T any](c *gin.Context, data T, err error) {
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, data)
}
