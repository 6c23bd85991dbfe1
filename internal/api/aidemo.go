package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jehuge/personalWeb/internal/model"
	"github.com/Jehuge/personalWeb/internal/repository"
)

func (s *Server) listAIDemos(c *gin.Context) {
	limit, offset := pagination(c)
	filter := repository.AIDemoFilter{
		Category: c.Query("category"),
		Limit:    limit,
		Offset:   offset,
	}
	if published := boolQuery(c, "published_only"); published != nil {
		filter.PublishedOnly = *published
	} else {
		filter.PublishedOnly = !s.isAuthed(c)
	}
	demos, err := s.aiDemos.List(c.Request.Context(), filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, demos)
}

func (s *Server) getAIDemo(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	demo, err := s.aiDemos.Get(c.Request.Context(), id, true)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, demo)
}

func (s *Server) getAIDemoBySlug(c *gin.Context) {
	demo, err := s.aiDemos.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, demo)
}

type aiDemoRequest struct {
	Title        string `json:"title" binding:"required"`
	Slug         string `json:"slug" binding:"required"`
	Description  string `json:"description"`
	CoverImage   string `json:"cover_image"`
	Category     string `json:"category"`
	Tags         string `json:"tags"`
	BundlePath   string `json:"bundle_path"`
	EntryFile    string `json:"entry_file"`
	ExternalURL  string `json:"external_url"`
	IframeHeight *int   `json:"iframe_height"`
	IsFeatured   bool   `json:"is_featured"`
	IsPublished  bool   `json:"is_published"`
	SortOrder    int    `json:"sort_order"`
}

func (r *aiDemoRequest) toModel(id int64) *model.AIDemo {
	return &model.AIDemo{
		ID:           id,
		Title:        r.Title,
		Slug:         r.Slug,
		Description:  r.Description,
		CoverImage:   r.CoverImage,
		Category:     r.Category,
		Tags:         r.Tags,
		BundlePath:   r.BundlePath,
		EntryFile:    r.EntryFile,
		ExternalURL:  r.ExternalURL,
		IframeHeight: r.IframeHeight,
		IsFeatured:   r.IsFeatured,
		IsPublished:  r.IsPublished,
		SortOrder:    r.SortOrder,
	}
}

func (s *Server) createAIDemo(c *gin.Context) {
	var req aiDemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title and slug are required")
		return
	}
	if req.BundlePath == "" && req.ExternalURL == "" {
		badRequest(c, "either bundle_path or external_url is required")
		return
	}
	demo := req.toModel(0)
	if err := s.aiDemos.Create(c.Request.Context(), demo); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, demo)
}

func (s *Server) updateAIDemo(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req aiDemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title and slug are required")
		return
	}

	old, err := s.aiDemos.Get(c.Request.Context(), id, false)
	if err != nil {
		s.fail(c, err)
		return
	}
	if old.CoverImage != "" && old.CoverImage != req.CoverImage {
		s.pipeline.ReleaseURLs(c.Request.Context(), old.CoverImage)
	}

	demo := req.toModel(id)
	if demo.EntryFile == "" {
		demo.EntryFile = old.EntryFile
	}
	if err := s.aiDemos.Update(c.Request.Context(), demo); err != nil {
		s.fail(c, err)
		return
	}
	updated, err := s.aiDemos.Get(c.Request.Context(), id, false)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteAIDemo(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	old, err := s.aiDemos.Get(c.Request.Context(), id, false)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.aiDemos.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	if old.CoverImage != "" {
		s.pipeline.ReleaseURLs(c.Request.Context(), old.CoverImage)
	}
	c.Status(http.StatusNoContent)
}
