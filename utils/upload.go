package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxPhotoSize is the upload cap for a single photo.
const MaxPhotoSize = 5 * 1024 * 1024 // 5MB

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

var extensionsByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// UploadPath returns the photo storage directory.
func UploadPath() string {
	if p := os.Getenv("UPLOAD_PATH"); p != "" {
		return p
	}
	return "./uploads"
}

// ValidatePhoto checks the upload constraints: JPEG or PNG, at most 5MB.
func ValidatePhoto(file *multipart.FileHeader) error {
	if file.Size > MaxPhotoSize {
		return errors.New("File size exceeds 5MB limit")
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedPhotoTypes[contentType] {
		return errors.New("Only JPEG and PNG images are allowed")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png":
	default:
		return errors.New("Only JPEG and PNG images are allowed")
	}

	return nil
}

// SaveUploadedPhoto validates and stores one photo under the upload
// directory, returning the stored path. The stored name is opaque so
// original filenames never reach the filesystem.
func SaveUploadedPhoto(c *gin.Context, file *multipart.FileHeader, uploaderID uint) (string, error) {
	if err := ValidatePhoto(file); err != nil {
		return "", err
	}

	ext := extensionsByType[file.Header.Get("Content-Type")]
	name := fmt.Sprintf("%d_%s%s", uploaderID, uuid.NewString(), ext)
	dst := filepath.Join(UploadPath(), name)

	if err := os.MkdirAll(UploadPath(), os.ModePerm); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}

	return dst, nil
}
