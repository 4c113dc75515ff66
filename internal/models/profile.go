package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Profile is the job seeker profile. UserID is the hex id of the Mongo user.
type Profile struct {
	UserID string `gorm:"column:user_id;type:text;primaryKey" json:"user_id"`
	Bio    string `gorm:"column:bio;type:text" json:"bio"`

	Skills      pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`
	SocialLinks pq.StringArray `gorm:"column:social_links;type:text[]" json:"social_links"`

	ResumeURL          string `gorm:"column:resume_url;type:text" json:"resume_url"`
	ResumeOriginalName string `gorm:"column:resume_original_name;type:text" json:"resume_original_name"`
	ProfilePhoto       string `gorm:"column:profile_photo;type:text" json:"profile_photo"`

	// last structured resume saved by the user, kept as raw JSON
	StructuredResume datatypes.JSON `gorm:"column:structured_resume;type:jsonb" json:"structured_resume,omitempty"`

	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
