package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Jehuge/personalWeb/internal/model"
	"github.com/Jehuge/personalWeb/internal/repository"
)

const nsfwTag = "nsfw"

// nsfwVisible reports whether restricted images may appear in this
// response: admins always, anonymous visitors only with the access code.
func (s *Server) nsfwVisible(c *gin.Context) bool {
	if s.isAuthed(c) {
		return true
	}
	return s.cfg.NSFWAccessCode != "" && c.Query("access_code") == s.cfg.NSFWAccessCode
}

func isNSFW(img *model.AIImage) bool {
	return strings.Contains(strings.ToLower(img.Tags), nsfwTag)
}

func (s *Server) listAIImages(c *gin.Context) {
	limit, offset := pagination(c)
	filter := repository.AIImageFilter{
		Category:   c.Query("category"),
		Tag:        c.Query("tag"),
		IsFeatured: boolQuery(c, "is_featured"),
		Limit:      limit,
		Offset:     offset,
	}
	if published := boolQuery(c, "published_only"); published != nil {
		filter.PublishedOnly = *published
	} else {
		filter.PublishedOnly = !s.isAuthed(c)
	}
	images, err := s.aiImages.List(c.Request.Context(), filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !s.nsfwVisible(c) {
		filtered := images[:0]
		for _, img := range images {
			if !isNSFW(&img) {
				filtered = append(filtered, img)
			}
		}
		images = filtered
	}
	c.JSON(http.StatusOK, images)
}

func (s *Server) getAIImage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	img, err := s.aiImages.Get(c.Request.Context(), id, true)
	if err != nil {
		s.fail(c, err)
		return
	}
	if isNSFW(img) && !s.nsfwVisible(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, img)
}

func (s *Server) listAIImageCategories(c *gin.Context) {
	cats, err := s.aiImages.Categories(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (s *Server) likeAIImage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	likes, err := s.aiImages.Like(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"like_count": likes})
}

type aiImageRequest struct {
	Title          string         `json:"title"`
	ImageURL       string         `json:"image_url" binding:"required"`
	ThumbnailURL   string         `json:"thumbnail_url"`
	Prompt         string         `json:"prompt"`
	NegativePrompt string         `json:"negative_prompt"`
	ModelName      string         `json:"model_name"`
	Parameters     map[string]any `json:"parameters"`
	Category       string         `json:"category"`
	Tags           string         `json:"tags"`
	IsFeatured     bool           `json:"is_featured"`
	IsPublished    *bool          `json:"is_published"`
}

func (r *aiImageRequest) toModel(id int64) *model.AIImage {
	published := true
	if r.IsPublished != nil {
		published = *r.IsPublished
	}
	return &model.AIImage{
		ID:             id,
		Title:          r.Title,
		ImageURL:       r.ImageURL,
		ThumbnailURL:   r.ThumbnailURL,
		Prompt:         r.Prompt,
		NegativePrompt: r.NegativePrompt,
		ModelName:      r.ModelName,
		Parameters:     r.Parameters,
		Category:       r.Category,
		Tags:           r.Tags,
		IsFeatured:     r.IsFeatured,
		IsPublished:    published,
	}
}

func (s *Server) createAIImage(c *gin.Context) {
	var req aiImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "image_url is required")
		return
	}
	img := req.toModel(0)
	if err := s.aiImages.Create(c.Request.Context(), img); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}

func (s *Server) updateAIImage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req aiImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "image_url is required")
		return
	}

	old, err := s.aiImages.Get(c.Request.Context(), id, false)
	if err != nil {
		s.fail(c, err)
		return
	}
	var stale []string
	if old.ImageURL != "" && old.ImageURL != req.ImageURL {
		stale = append(stale, old.ImageURL)
	}
	if old.ThumbnailURL != "" && old.ThumbnailURL != req.ThumbnailURL {
		stale = append(stale, old.ThumbnailURL)
	}
	if len(stale) > 0 {
		s.pipeline.ReleaseURLs(c.Request.Context(), stale...)
	}

	img := req.toModel(id)
	if err := s.aiImages.Update(c.Request.Context(), img); err != nil {
		s.fail(c, err)
		return
	}
	updated, err := s.aiImages.Get(c.Request.Context(), id, false)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteAIImage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	old, err := s.aiImages.Get(c.Request.Context(), id, false)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.aiImages.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	s.pipeline.ReleaseURLs(c.Request.Context(), old.ImageURL, old.ThumbnailURL)
	c.Status(http.StatusNoContent)
}
