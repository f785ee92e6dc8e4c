package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"city-issues-api/models"
	"city-issues-api/services"
	"city-issues-api/utils"
)

type PhotoController struct {
	Service *services.RequestService
}

type photoResponse struct {
	models.Photo
	URL string `json:"url"`
}

func photoURL(c *gin.Context, filePath string) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/uploads/%s", scheme, c.Request.Host, filepath.Base(filePath))
}

// Upload stores a single photo against a request. Workers attach
// before/after documentation; citizens additional problem evidence.
func (p *PhotoController) Upload(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	p.upload(c, id)
}

// UploadStandalone is the flat upload route; the target request comes in
// as a form field instead of the path.
func (p *PhotoController) UploadStandalone(c *gin.Context) {
	id, err := strconv.Atoi(c.PostForm("request_id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid request_id is required"})
		return
	}
	p.upload(c, uint(id))
}

func (p *PhotoController) upload(c *gin.Context, id uint) {
	actor := currentActor(c)

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	photoType := models.PhotoType(c.PostForm("photo_type"))
	if photoType == "" {
		photoType = models.PhotoProblem
	}

	path, err := utils.SaveUploadedPhoto(c, file, actor.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photo, err := p.Service.AddPhoto(actor, id, photoType, path)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, photoResponse{Photo: *photo, URL: photoURL(c, photo.FilePath)})
}

// ListForRequest returns a request's photos with derived download URLs.
func (p *PhotoController) ListForRequest(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}

	photos, err := p.Service.Photos(currentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]photoResponse, 0, len(photos))
	for _, photo := range photos {
		out = append(out, photoResponse{Photo: photo, URL: photoURL(c, photo.FilePath)})
	}

	c.JSON(http.StatusOK, out)
}
