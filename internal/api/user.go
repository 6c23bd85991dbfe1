package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jehuge/personalWeb/internal/model"
)

// requireSuperuser gates account administration behind the superuser flag.
// It runs after requireAuth, which has already loaded the account.
func requireSuperuser(c *gin.Context) bool {
	user := c.MustGet(ctxUserKey).(*model.User)
	if !user.IsSuperuser {
		c.JSON(http.StatusForbidden, gin.H{"error": "superuser required"})
		return false
	}
	return true
}

func (s *Server) listUsers(c *gin.Context) {
	if !requireSuperuser(c) {
		return
	}
	limit, offset := pagination(c)
	users, err := s.users.List(c.Request.Context(), limit, offset)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) getUser(c *gin.Context) {
	if !requireSuperuser(c) {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	user, err := s.users.GetByID(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
