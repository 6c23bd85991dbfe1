package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jehuge/personalWeb/internal/model"
	"github.com/Jehuge/personalWeb/internal/repository"
)

func (s *Server) listAIProjects(c *gin.Context) {
	limit, offset := pagination(c)
	filter := repository.AIProjectFilter{
		IsFeatured: boolQuery(c, "is_featured"),
		Limit:      limit,
		Offset:     offset,
	}
	if published := boolQuery(c, "published_only"); published != nil {
		filter.PublishedOnly = *published
	} else {
		filter.PublishedOnly = !s.isAuthed(c)
	}
	projects, err := s.aiProjects.List(c.Request.Context(), filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (s *Server) getAIProject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	project, err := s.aiProjects.Get(c.Request.Context(), id, true)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) getAIProjectBySlug(c *gin.Context) {
	project, err := s.aiProjects.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

type aiProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	Content     string `json:"content"`
	CoverImage  string `json:"cover_image"`
	DemoURL     string `json:"demo_url"`
	GithubURL   string `json:"github_url"`
	TechStack   string `json:"tech_stack"`
	IsFeatured  bool   `json:"is_featured"`
	IsPublished bool   `json:"is_published"`
}

func (r *aiProjectRequest) toModel(id int64) *model.AIProject {
	return &model.AIProject{
		ID:          id,
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		Content:     r.Content,
		CoverImage:  r.CoverImage,
		DemoURL:     r.DemoURL,
		GithubURL:   r.GithubURL,
		TechStack:   r.TechStack,
		IsFeatured:  r.IsFeatured,
		IsPublished: r.IsPublished,
	}
}

func (s *Server) createAIProject(c *gin.Context) {
	var req aiProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title and slug are required")
		return
	}
	project := req.toModel(0)
	if err := s.aiProjects.Create(c.Request.Context(), project); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (s *Server) updateAIProject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req aiProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title and slug are required")
		return
	}

	old, err := s.aiProjects.Get(c.Request.Context(), id, false)
	if err != nil {
		s.fail(c, err)
		return
	}
	if old.CoverImage != "" && old.CoverImage != req.CoverImage {
		s.pipeline.ReleaseURLs(c.Request.Context(), old.CoverImage)
	}

	project := req.toModel(id)
	if err := s.aiProjects.Update(c.Request.Context(), project); err != nil {
		s.fail(c, err)
		return
	}
	updated, err := s.aiProjects.Get(c.Request.Context(), id, false)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteAIProject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	old, err := s.aiProjects.Get(c.Request.Context(), id, false)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.aiProjects.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	if old.CoverImage != "" {
		s.pipeline.ReleaseURLs(c.Request.Context(), old.CoverImage)
	}
	c.Status(http.StatusNoContent)
}
