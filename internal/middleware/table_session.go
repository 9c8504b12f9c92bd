package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/user-table-api/internal/service"
	"github.com/noah-isme/user-table-api/pkg/response"
)

// ContextTableKey is the gin context key storing the resolved table session.
const ContextTableKey = "tableSession"

type sessionResolver interface {
	Get(id string) (*service.TableService, error)
}

// TableSession resolves the :id path parameter to an open table session.
func TableSession(sessions sessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := sessions.Get(c.Param("id"))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ContextTableKey, session)
		c.Next()
	}
}
