package models

import "time"

// ResumeFile is one entry of a user's profile resume upload history.
type ResumeFile struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID   string `gorm:"column:user_id;type:text;index" json:"user_id"`
	FileName string `gorm:"column:file_name;type:text" json:"file_name"`
	FilePath string `gorm:"column:file_path;type:text" json:"file_path"`
	PublicID string `gorm:"column:public_id;type:text" json:"public_id"`

	FileSize int64  `gorm:"column:file_size;type:bigint" json:"file_size"`
	MimeType string `gorm:"column:mime_type;type:text" json:"mime_type"`

	UploadAt time.Time `gorm:"column:upload_at;type:timestamptz;index" json:"upload_at"`
}

func (ResumeFile) TableName() string { return "resume_files" }
