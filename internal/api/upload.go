package api

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jehuge/personalWeb/internal/ingest"
)

// readUpload pulls the "file" part of a multipart form into memory. Uploads
// are bounded well below anything worth streaming.
func readUpload(c *gin.Context) (ingest.Upload, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "multipart field 'file' is required")
		return ingest.Upload{}, false
	}
	data, ok := readAll(c, fileHeader)
	if !ok {
		return ingest.Upload{}, false
	}
	return ingest.Upload{
		Data:        data,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}, true
}

func readAll(c *gin.Context, fh *multipart.FileHeader) ([]byte, bool) {
	f, err := fh.Open()
	if err != nil {
		badRequest(c, "unreadable upload")
		return nil, false
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		badRequest(c, "unreadable upload")
		return nil, false
	}
	return data, true
}

func (s *Server) uploadImage(c *gin.Context) {
	up, ok := readUpload(c)
	if !ok {
		return
	}
	res, err := s.pipeline.Ingest(c.Request.Context(), up)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) analyzeImage(c *gin.Context) {
	up, ok := readUpload(c)
	if !ok {
		return
	}
	analysis, err := s.pipeline.Analyze(c.Request.Context(), up)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (s *Server) uploadFile(c *gin.Context) {
	up, ok := readUpload(c)
	if !ok {
		return
	}
	res, err := s.pipeline.UploadFile(c.Request.Context(), up)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type cleanupRequest struct {
	Orphans []ingest.OrphanRef `json:"orphans" binding:"required"`
}

// cleanupOrphans deletes objects a client uploaded but never attached to a
// record. The database is never consulted.
func (s *Server) cleanupOrphans(c *gin.Context) {
	var req cleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "orphans list is required")
		return
	}
	res := s.pipeline.CleanupOrphans(c.Request.Context(), req.Orphans)
	c.JSON(http.StatusOK, res)
}
