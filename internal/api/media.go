package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Jehuge/personalWeb/internal/model"
)

func (s *Server) listMedia(c *gin.Context) {
	limit, offset := pagination(c)
	items, err := s.media.List(c.Request.Context(), c.Query("type"), limit, offset)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) mediaStats(c *gin.Context) {
	stats, err := s.media.Stats(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// deleteMedia removes one entry of the merged listing by composite id, e.g.
// "photo_12" or "blog_cover_3". The row write happens first; the stored
// objects are released afterwards, best-effort.
func (s *Server) deleteMedia(c *gin.Context) {
	mediaType, relatedID, ok := splitMediaID(c.Param("id"))
	if !ok {
		badRequest(c, "invalid media id")
		return
	}

	url, thumbURL, err := s.media.URLsFor(c.Request.Context(), mediaType, relatedID)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.media.DetachCover(c.Request.Context(), mediaType, relatedID); err != nil {
		s.fail(c, err)
		return
	}
	s.pipeline.ReleaseURLs(c.Request.Context(), url, thumbURL)
	c.Status(http.StatusNoContent)
}

// splitMediaID separates "<type>_<row id>" on the last underscore; the type
// itself may contain underscores.
func splitMediaID(id string) (mediaType string, relatedID int64, ok bool) {
	i := strings.LastIndexByte(id, '_')
	if i <= 0 || i == len(id)-1 {
		return "", 0, false
	}
	relatedID, err := strconv.ParseInt(id[i+1:], 10, 64)
	if err != nil || relatedID <= 0 {
		return "", 0, false
	}
	mediaType = id[:i]
	switch mediaType {
	case model.MediaTypePhoto, model.MediaTypeBlogCover, model.MediaTypeAICover:
		return mediaType, relatedID, true
	}
	return "", 0, false
}
