package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jehuge/personalWeb/internal/auth"
	"github.com/Jehuge/personalWeb/internal/model"
	"github.com/Jehuge/personalWeb/internal/repository"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}

	user, err := s.users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same response as a bad password; do not leak which part failed.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		s.fail(c, err)
		return
	}
	if !user.IsActive || !auth.CheckPassword(user.HashedPassword, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, expiry, err := s.issuer.Issue(user.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"expires_at":   expiry,
	})
}

func (s *Server) me(c *gin.Context) {
	user := c.MustGet(ctxUserKey).(*model.User)
	c.JSON(http.StatusOK, user)
}
