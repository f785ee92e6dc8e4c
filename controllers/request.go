package controllers

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"city-issues-api/middleware"
	"city-issues-api/models"
	"city-issues-api/services"
	"city-issues-api/utils"
)

const maxSubmissionPhotos = 5

type RequestController struct {
	Service *services.RequestService
}

func currentActor(c *gin.Context) services.Actor {
	id, _ := middleware.CurrentUserID(c)
	role, _ := middleware.CurrentRole(c)
	return services.Actor{ID: id, Role: role}
}

func requestID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return 0, false
	}
	return uint(id), true
}

func removeFiles(paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			log.Printf("remove stored upload %s: %v", p, err)
		}
	}
}

// Create handles the citizen submission form: multipart fields plus up to
// five problem photos.
func (r *RequestController) Create(c *gin.Context) {
	actor := currentActor(c)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Multipart form expected"})
		return
	}

	files := form.File["photos"]
	if len(files) > maxSubmissionPhotos {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Too many photos, maximum is 5"})
		return
	}

	in := services.SubmitInput{
		Category:    models.Category(c.PostForm("category")),
		Description: c.PostForm("description"),
		Address:     c.PostForm("address"),
		Priority:    models.Priority(c.PostForm("priority")),
	}
	if v, err := strconv.ParseFloat(c.PostForm("lat"), 64); err == nil {
		in.Lat = &v
	}
	if v, err := strconv.ParseFloat(c.PostForm("lng"), 64); err == nil {
		in.Lng = &v
	}

	var saved []string
	for _, file := range files {
		path, err := utils.SaveUploadedPhoto(c, file, actor.ID)
		if err != nil {
			removeFiles(saved)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		saved = append(saved, path)
		in.Photos = append(in.Photos, services.PhotoInput{FilePath: path, Type: models.PhotoProblem})
	}

	request, err := r.Service.Submit(actor, in)
	if err != nil {
		// A rejected submission must not leave files behind.
		removeFiles(saved)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// List returns requests visible to the caller, filtered by optional
// status/category query parameters.
func (r *RequestController) List(c *gin.Context) {
	filter := services.ListFilter{
		Status:   models.Status(c.Query("status")),
		Category: models.Category(c.Query("category")),
	}

	requests, err := r.Service.List(currentActor(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (r *RequestController) Get(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}

	request, err := r.Service.Get(currentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

type updateStatusRequest struct {
	Status models.Status `json:"status" binding:"required"`
}

func (r *RequestController) UpdateStatus(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	request, err := r.Service.UpdateStatus(currentActor(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

type assignRequest struct {
	WorkerID uint   `json:"workerId" binding:"required"`
	Deadline string `json:"deadline"` // YYYY-MM-DD, optional
}

func (r *RequestController) Assign(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "workerId is required"})
		return
	}

	var deadline *time.Time
	if req.Deadline != "" {
		parsed, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "deadline must be YYYY-MM-DD"})
			return
		}
		deadline = &parsed
	}

	request, err := r.Service.AssignWorker(currentActor(c), id, req.WorkerID, deadline)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

type approveRequest struct {
	Approved *bool  `json:"approved" binding:"required"`
	Comment  string `json:"comment"`
}

func (r *RequestController) Approve(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}

	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved must be boolean"})
		return
	}

	request, err := r.Service.Approve(currentActor(c), id, *req.Approved, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}
