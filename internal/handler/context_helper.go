package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/user-table-api/internal/middleware"
	"github.com/noah-isme/user-table-api/internal/service"
)

func tableFromContext(c *gin.Context) (*service.TableService, bool) {
	value, exists := c.Get(middleware.ContextTableKey)
	if !exists {
		return nil, false
	}
	t, ok := value.(*service.TableService)
	return t, ok && t != nil
}
