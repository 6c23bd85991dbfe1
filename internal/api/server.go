// Package api wires the HTTP surface: routing, middleware and one handler
// file per resource. Handlers stay thin; everything stateful lives in the
// repositories and the ingest pipeline.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Jehuge/personalWeb/internal/auth"
	"github.com/Jehuge/personalWeb/internal/config"
	"github.com/Jehuge/personalWeb/internal/ingest"
	"github.com/Jehuge/personalWeb/internal/repository"
)

// Server holds every dependency the handlers need.
type Server struct {
	cfg    *config.Config
	log    *slog.Logger
	pool   *pgxpool.Pool
	issuer *auth.TokenIssuer

	pipeline *ingest.Pipeline

	users      *repository.UserRepository
	blogs      *repository.BlogRepository
	photos     *repository.PhotoRepository
	aiProjects *repository.AIProjectRepository
	aiDemos    *repository.AIDemoRepository
	aiImages   *repository.AIImageRepository
	media      *repository.MediaRepository
}

// New assembles a server over an open pool and a ready pipeline.
func New(cfg *config.Config, pool *pgxpool.Pool, pipeline *ingest.Pipeline, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		cfg:        cfg,
		log:        log,
		pool:       pool,
		issuer:     auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		pipeline:   pipeline,
		users:      repository.NewUserRepository(pool),
		blogs:      repository.NewBlogRepository(pool),
		photos:     repository.NewPhotoRepository(pool),
		aiProjects: repository.NewAIProjectRepository(pool),
		aiDemos:    repository.NewAIDemoRepository(pool),
		aiImages:   repository.NewAIImageRepository(pool),
		media:      repository.NewMediaRepository(pool),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog(), s.cors(), s.metrics())

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	api.POST("/auth/login", s.login)
	api.GET("/auth/me", s.requireAuth(), s.me)

	// Public reads.
	api.GET("/home/overview", s.homeOverview)
	api.GET("/home/random-photos", s.randomPhotos)
	api.GET("/blogs", s.listBlogs)
	api.GET("/blogs/:id", s.getBlog)
	api.GET("/blogs/slug/:slug", s.getBlogBySlug)
	api.GET("/blog-categories", s.listBlogCategories)
	api.GET("/tags", s.listTags)
	api.GET("/photos", s.listPhotos)
	api.GET("/photos/:id", s.getPhoto)
	api.GET("/photo-categories", s.listPhotoCategories)
	api.GET("/ai-projects", s.listAIProjects)
	api.GET("/ai-projects/:id", s.getAIProject)
	api.GET("/ai-projects/slug/:slug", s.getAIProjectBySlug)
	api.GET("/ai-demos", s.listAIDemos)
	api.GET("/ai-demos/:id", s.getAIDemo)
	api.GET("/ai-demos/slug/:slug", s.getAIDemoBySlug)
	api.GET("/ai-images", s.listAIImages)
	api.GET("/ai-images/:id", s.getAIImage)
	api.GET("/ai-images/categories", s.listAIImageCategories)
	api.POST("/ai-images/:id/like", s.likeAIImage)

	// Everything that writes requires a valid token.
	admin := api.Group("", s.requireAuth())
	{
		admin.POST("/blogs", s.createBlog)
		admin.PUT("/blogs/:id", s.updateBlog)
		admin.DELETE("/blogs/:id", s.deleteBlog)
		admin.POST("/blog-categories", s.createBlogCategory)
		admin.PUT("/blog-categories/:id", s.updateBlogCategory)
		admin.DELETE("/blog-categories/:id", s.deleteBlogCategory)
		admin.POST("/tags", s.createTag)
		admin.DELETE("/tags/:id", s.deleteTag)

		admin.POST("/photos", s.createPhoto)
		admin.PUT("/photos/:id", s.updatePhoto)
		admin.DELETE("/photos/:id", s.deletePhoto)
		admin.POST("/photo-categories", s.createPhotoCategory)
		admin.PUT("/photo-categories/:id", s.updatePhotoCategory)
		admin.DELETE("/photo-categories/:id", s.deletePhotoCategory)

		admin.POST("/ai-projects", s.createAIProject)
		admin.PUT("/ai-projects/:id", s.updateAIProject)
		admin.DELETE("/ai-projects/:id", s.deleteAIProject)
		admin.POST("/ai-demos", s.createAIDemo)
		admin.PUT("/ai-demos/:id", s.updateAIDemo)
		admin.DELETE("/ai-demos/:id", s.deleteAIDemo)
		admin.POST("/ai-images", s.createAIImage)
		admin.PUT("/ai-images/:id", s.updateAIImage)
		admin.DELETE("/ai-images/:id", s.deleteAIImage)

		admin.GET("/users", s.listUsers)
		admin.GET("/users/:id", s.getUser)

		admin.GET("/media", s.listMedia)
		admin.GET("/media/stats", s.mediaStats)
		admin.DELETE("/media/:id", s.deleteMedia)

		admin.POST("/upload/image", s.uploadImage)
		admin.POST("/upload/analyze", s.analyzeImage)
		admin.POST("/upload/file", s.uploadFile)
		admin.POST("/upload/cleanup", s.cleanupOrphans)
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	if err := s.pool.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail translates repository and pipeline errors to HTTP responses.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, repository.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": "duplicate value for a unique field"})
	case errors.Is(err, ingest.ErrInvalidContentType),
		errors.Is(err, ingest.ErrTooLarge),
		errors.Is(err, ingest.ErrEncodeFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ingest.ErrStorageUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage not configured or unreachable"})
	default:
		s.log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
