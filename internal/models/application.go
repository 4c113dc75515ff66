package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusReviewing   ApplicationStatus = "reviewing"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusRejected    ApplicationStatus = "rejected"
	StatusHired       ApplicationStatus = "hired"
)

// ApplicationStatuses is ordered the way dashboards present them.
var ApplicationStatuses = []ApplicationStatus{
	StatusPending, StatusReviewing, StatusShortlisted, StatusRejected, StatusHired,
}

func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ResumeAttachment points at the uploaded resume in object storage.
type ResumeAttachment struct {
	URL         string `bson:"url" json:"url"`
	PublicID    string `bson:"publicId" json:"publicId"`
	Filename    string `bson:"filename" json:"filename"`
	ContentType string `bson:"contentType" json:"contentType"`
}

type SectionScores struct {
	ExperienceProjects      float64 `bson:"experience_projects" json:"experience_projects"`
	Skills                  float64 `bson:"skills" json:"skills"`
	EducationCertifications float64 `bson:"education_certifications" json:"education_certifications"`
	Achievements            float64 `bson:"achievements" json:"achievements"`
	SocialValidation        float64 `bson:"social_validation" json:"social_validation"`
}

// AIAnalysis is the ranking webhook output, stored verbatim.
type AIAnalysis struct {
	CumulativeRankingScore float64       `bson:"cumulative_ranking_score" json:"cumulative_ranking_score"`
	SectionScores          SectionScores `bson:"section_scores" json:"section_scores"`
	GroupedSummary         string        `bson:"grouped_summary" json:"grouped_summary"`
	KeyObservations        []string      `bson:"key_observations" json:"key_observations"`
}

type Application struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Job     primitive.ObjectID `bson:"job" json:"job"`
	User    primitive.ObjectID `bson:"user" json:"user"`
	Company primitive.ObjectID `bson:"company" json:"company"`

	FullName string `bson:"fullName" json:"fullName"`
	Email    string `bson:"email" json:"email"`
	Phone    string `bson:"phone" json:"phone"`

	Resume *ResumeAttachment `bson:"resume,omitempty" json:"resume,omitempty"`
	Status ApplicationStatus `bson:"status" json:"status"`

	AIAnalysis *AIAnalysis `bson:"aiAnalysis,omitempty" json:"aiAnalysis,omitempty"`
	Cosine     *float64    `bson:"cosine,omitempty" json:"cosine,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Score returns the cumulative ranking score, 0 when no analysis was attached.
func (a *Application) Score() float64 {
	if a.AIAnalysis == nil {
		return 0
	}
	return a.AIAnalysis.CumulativeRankingScore
}

// Similarity returns the cosine similarity, 0 when absent.
func (a *Application) Similarity() float64 {
	if a.Cosine == nil {
		return 0
	}
	return *a.Cosine
}

// ApplicationEvent is pushed to realtime subscribers of a job.
type ApplicationEvent struct {
	Type          string            `json:"type"` // application_created|application_status
	JobID         string            `json:"job_id"`
	ApplicationID string            `json:"application_id"`
	Status        ApplicationStatus `json:"status"`
	FullName      string            `json:"full_name,omitempty"`
	Score         float64           `json:"score,omitempty"`
	At            time.Time         `json:"at"`
}
