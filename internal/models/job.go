package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	LocationTypes    = []string{"On-site", "Remote", "Hybrid"}
	EmploymentTypes  = []string{"Full-time", "Part-time", "Contract"}
	ExperienceLevels = []string{"Junior", "Mid Level", "Senior", "Lead"}
	SalaryPeriods    = []string{"Daily", "Hourly", "Weekly", "Monthly", "Yearly"}

	DefaultBenefits = []string{"Health Insurance", "Paid Time Off", "Remote Work Options"}
)

type Job struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title            string             `bson:"title" json:"title" binding:"required"`
	Description      string             `bson:"description" json:"description" binding:"required"`
	Requirements     string             `bson:"requirements" json:"requirements" binding:"required"`
	Responsibilities string             `bson:"responsibilities" json:"responsibilities" binding:"required"`
	Location         string             `bson:"location" json:"location" binding:"required"`
	LocationType     string             `bson:"locationType" json:"locationType"`
	EmploymentType   string             `bson:"employmentType" json:"employmentType"`
	ExperienceLevel  string             `bson:"experienceLevel" json:"experienceLevel"`

	SalaryMin      float64 `bson:"salaryMin" json:"salaryMin" binding:"required"`
	SalaryMax      float64 `bson:"salaryMax" json:"salaryMax" binding:"required"`
	SalaryCurrency string  `bson:"salaryCurrency" json:"salaryCurrency"`
	SalaryPeriod   string  `bson:"salaryPeriod" json:"salaryPeriod"`

	Skills              []string   `bson:"skills" json:"skills"`
	Benefits            []string   `bson:"benefits" json:"benefits"`
	ApplicationDeadline *time.Time `bson:"applicationDeadline,omitempty" json:"applicationDeadline,omitempty"`
	IsActive            bool       `bson:"isActive" json:"isActive"`
	IsFeatured          bool       `bson:"isFeatured" json:"isFeatured"`

	Company      primitive.ObjectID   `bson:"company" json:"company" binding:"required"`
	Employer     primitive.ObjectID   `bson:"employer" json:"employer"`
	Applications []primitive.ObjectID `bson:"applications" json:"applications"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ApplyDefaults fills enum and list fields the caller left empty.
func (j *Job) ApplyDefaults() {
	if j.LocationType == "" {
		j.LocationType = "On-site"
	}
	if j.EmploymentType == "" {
		j.EmploymentType = "Full-time"
	}
	if j.ExperienceLevel == "" {
		j.ExperienceLevel = "Mid Level"
	}
	if j.SalaryCurrency == "" {
		j.SalaryCurrency = "USD"
	}
	if j.SalaryPeriod == "" {
		j.SalaryPeriod = "Yearly"
	}
	if j.Skills == nil {
		j.Skills = []string{}
	}
	if j.Benefits == nil {
		j.Benefits = append([]string(nil), DefaultBenefits...)
	}
	if j.Applications == nil {
		j.Applications = []primitive.ObjectID{}
	}
}

// InvalidEnums names the enum fields holding a value outside their allowed set.
func (j *Job) InvalidEnums() []string {
	var bad []string
	if !oneOf(j.LocationType, LocationTypes) {
		bad = append(bad, "locationType")
	}
	if !oneOf(j.EmploymentType, EmploymentTypes) {
		bad = append(bad, "employmentType")
	}
	if !oneOf(j.ExperienceLevel, ExperienceLevels) {
		bad = append(bad, "experienceLevel")
	}
	if !oneOf(j.SalaryPeriod, SalaryPeriods) {
		bad = append(bad, "salaryPeriod")
	}
	return bad
}

// JobFilterOptions feeds the job search sidebar.
type JobFilterOptions struct {
	Skills      []string     `json:"skills"`
	Companies   []CompanyRef `json:"companies"`
	SalaryRange SalaryRange  `json:"salaryRange"`
}

type CompanyRef struct {
	ID   primitive.ObjectID `bson:"_id" json:"_id"`
	Name string             `bson:"name" json:"name"`
	Logo string             `bson:"logo,omitempty" json:"logo,omitempty"`
}

type SalaryRange struct {
	Min float64 `bson:"min" json:"min"`
	Max float64 `bson:"max" json:"max"`
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}
