package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Jehuge/personalWeb/internal/model"
	"github.com/Jehuge/personalWeb/internal/repository"
)

// ---- categories ----

func (s *Server) listPhotoCategories(c *gin.Context) {
	cats, err := s.photos.ListCategories(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

type photoCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
}

func (s *Server) createPhotoCategory(c *gin.Context) {
	var req photoCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name and slug are required")
		return
	}
	cat := model.PhotoCategory{Name: req.Name, Slug: req.Slug, Description: req.Description, CoverImage: req.CoverImage}
	if err := s.photos.CreateCategory(c.Request.Context(), &cat); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (s *Server) updatePhotoCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req photoCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name and slug are required")
		return
	}
	cat := model.PhotoCategory{ID: id, Name: req.Name, Slug: req.Slug, Description: req.Description, CoverImage: req.CoverImage}
	if err := s.photos.UpdateCategory(c.Request.Context(), &cat); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (s *Server) deletePhotoCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := s.photos.DeleteCategory(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- photos ----

func (s *Server) listPhotos(c *gin.Context) {
	limit, offset := pagination(c)
	photos, err := s.photos.List(c.Request.Context(), repository.PhotoFilter{
		CategoryID: int64Query(c, "category_id"),
		IsFeatured: boolQuery(c, "is_featured"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

func (s *Server) getPhoto(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	photo, err := s.photos.Get(c.Request.Context(), id, true)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, photo)
}

type photoRequest struct {
	Title        string         `json:"title" binding:"required"`
	Description  string         `json:"description"`
	ImageURL     string         `json:"image_url" binding:"required"`
	ThumbnailURL string         `json:"thumbnail_url"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	FileSize     int64          `json:"file_size"`
	CameraMake   string         `json:"camera_make"`
	CameraModel  string         `json:"camera_model"`
	FocalLength  string         `json:"focal_length"`
	Aperture     string         `json:"aperture"`
	ShutterSpeed string         `json:"shutter_speed"`
	ISO          string         `json:"iso"`
	EXIF         map[string]any `json:"exif"`
	ShootTime    *time.Time     `json:"shoot_time"`
	CategoryID   *int64         `json:"category_id"`
	IsFeatured   bool           `json:"is_featured"`
}

func (r *photoRequest) toModel(id int64) *model.Photo {
	return &model.Photo{
		ID:           id,
		Title:        r.Title,
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		ThumbnailURL: r.ThumbnailURL,
		Width:        r.Width,
		Height:       r.Height,
		FileSize:     r.FileSize,
		CameraMake:   r.CameraMake,
		CameraModel:  r.CameraModel,
		FocalLength:  r.FocalLength,
		Aperture:     r.Aperture,
		ShutterSpeed: r.ShutterSpeed,
		ISO:          r.ISO,
		EXIF:         r.EXIF,
		ShootTime:    r.ShootTime,
		CategoryID:   r.CategoryID,
		IsFeatured:   r.IsFeatured,
	}
}

func (s *Server) createPhoto(c *gin.Context) {
	var req photoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title and image_url are required")
		return
	}
	if req.CategoryID != nil {
		exists, err := s.photos.CategoryExists(c.Request.Context(), *req.CategoryID)
		if err != nil {
			s.fail(c, err)
			return
		}
		if !exists {
			badRequest(c, "unknown category_id")
			return
		}
	}
	photo := req.toModel(0)
	if err := s.photos.Create(c.Request.Context(), photo); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

func (s *Server) updatePhoto(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req photoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title and image_url are required")
		return
	}

	old, err := s.photos.Get(c.Request.Context(), id, false)
	if err != nil {
		s.fail(c, err)
		return
	}
	// Release whichever stored objects this update replaces.
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

	photo := req.toModel(id)
	if err := s.photos.Update(c.Request.Context(), photo); err != nil {
		s.fail(c, err)
		return
	}
	updated, err := s.photos.Get(c.Request.Context(), id, false)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deletePhoto(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	old, err := s.photos.Get(c.Request.Context(), id, false)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.photos.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	s.pipeline.ReleaseURLs(c.Request.Context(), old.ImageURL, old.ThumbnailURL)
	c.Status(http.StatusNoContent)
}
