package models

import "time"

// PhotoType distinguishes citizen problem evidence from worker
// before/after documentation.
type PhotoType string

const (
	PhotoProblem PhotoType = "problem"
	PhotoBefore  PhotoType = "before"
	PhotoAfter   PhotoType = "after"
)

func (t PhotoType) Valid() bool {
	switch t {
	case PhotoProblem, PhotoBefore, PhotoAfter:
		return true
	}
	return false
}

// Photo is immutable once created.
type Photo struct {
	ID         uint      `gorm:"primaryKey;column:id" json:"id"`
	RequestID  uint      `gorm:"column:request_id;index" json:"request_id"`
	PhotoType  PhotoType `gorm:"column:photo_type" json:"photo_type"`
	FilePath   string    `gorm:"column:file_path" json:"file_path"`
	UploadedBy uint      `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
}

func (Photo) TableName() string {
	return "photos"
}
