package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Jehuge/personalWeb/internal/repository"
)

// homeOverview aggregates the landing-page payload in one round trip: the
// latest published posts, a random photo strip, the highlighted published
// demos and per-type totals.
func (s *Server) homeOverview(c *gin.Context) {
	ctx := c.Request.Context()
	blogLimit := clampQuery(c, "blog_limit", 6, 1, 20)
	photoLimit := clampQuery(c, "photo_limit", 8, 1, 20)
	projectLimit := clampQuery(c, "project_limit", 4, 1, 10)

	blogs, err := s.blogs.List(ctx, repository.BlogFilter{PublishedOnly: true, Limit: blogLimit})
	if err != nil {
		s.fail(c, err)
		return
	}
	photos, err := s.photos.ListRandom(ctx, photoLimit)
	if err != nil {
		s.fail(c, err)
		return
	}
	projects, err := s.aiDemos.List(ctx, repository.AIDemoFilter{
		PublishedOnly: true,
		FeaturedFirst: true,
		Limit:         projectLimit,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	blogCount, err := s.blogs.CountPublished(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	photoCount, err := s.photos.Count(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	demoCount, err := s.aiDemos.CountPublished(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	projectCount, err := s.aiProjects.CountPublished(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"blogs":    blogs,
		"photos":   photos,
		"projects": projects,
		"stats": gin.H{
			"blog_count":    blogCount,
			"photo_count":   photoCount,
			"project_count": demoCount + projectCount,
		},
	})
}

func (s *Server) randomPhotos(c *gin.Context) {
	limit := clampQuery(c, "limit", 8, 1, 20)
	photos, err := s.photos.ListRandom(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

// clampQuery reads an integer query parameter, falling back to def and
// clamping into [min, max].
func clampQuery(c *gin.Context, name string, def, min, max int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
