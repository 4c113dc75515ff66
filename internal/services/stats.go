package services

import (
	"sort"
	"strings"

	"github.com/yoockh/hirex/internal/models"
)

const topPerSection = 3

// Section names as reported in stats.
const (
	SectionExperience   = "experience_projects"
	SectionSkills       = "skills"
	SectionEducation    = "education_certifications"
	SectionAchievements = "achievements"
	SectionSocial       = "social_validation"
)

var sections = []string{SectionExperience, SectionSkills, SectionEducation, SectionAchievements, SectionSocial}

type RankedApplication struct {
	ApplicationID string  `json:"applicationId"`
	FullName      string  `json:"fullName"`
	Score         float64 `json:"score"`
}

// ApplicationStats is the dashboard summary of one job's applications.
// Match values are percentages (cosine * 100).
type ApplicationStats struct {
	Total           int                              `json:"total"`
	AvgScore        float64                          `json:"avgScore"`
	AvgMatch        float64                          `json:"avgMatch"`
	HighestScore    float64                          `json:"highestScore"`
	HighestMatch    float64                          `json:"highestMatch"`
	StatusCounts    map[models.ApplicationStatus]int `json:"statusCounts"`
	SectionAverages map[string]float64               `json:"sectionAverages"`
	TopBySection    map[string][]RankedApplication   `json:"topBySection"`
}

func sectionScore(a *models.Application, section string) float64 {
	if a.AIAnalysis == nil {
		return 0
	}
	s := a.AIAnalysis.SectionScores
	switch section {
	case SectionExperience:
		return s.ExperienceProjects
	case SectionSkills:
		return s.Skills
	case SectionEducation:
		return s.EducationCertifications
	case SectionAchievements:
		return s.Achievements
	case SectionSocial:
		return s.SocialValidation
	}
	return 0
}

// ComputeStats reduces a fetched slice. Missing analysis or cosine counts as 0,
// and every average divides by the total number of applications.
func ComputeStats(apps []models.Application) ApplicationStats {
	st := ApplicationStats{
		Total:           len(apps),
		StatusCounts:    make(map[models.ApplicationStatus]int, len(models.ApplicationStatuses)),
		SectionAverages: make(map[string]float64, len(sections)),
		TopBySection:    make(map[string][]RankedApplication, len(sections)),
	}
	for _, s := range models.ApplicationStatuses {
		st.StatusCounts[s] = 0
	}
	for _, sec := range sections {
		st.SectionAverages[sec] = 0
		st.TopBySection[sec] = []RankedApplication{}
	}
	if len(apps) == 0 {
		return st
	}

	var sumScore, sumMatch float64
	sectionSums := make(map[string]float64, len(sections))
	for i := range apps {
		a := &apps[i]
		score, match := a.Score(), a.Similarity()
		sumScore += score
		sumMatch += match
		if i == 0 || score > st.HighestScore {
			st.HighestScore = score
		}
		if i == 0 || match*100 > st.HighestMatch {
			st.HighestMatch = match * 100
		}

		status := a.Status
		if status == "" {
			status = models.StatusPending
		}
		st.StatusCounts[status]++

		for _, sec := range sections {
			sectionSums[sec] += sectionScore(a, sec)
		}
	}

	n := float64(len(apps))
	st.AvgScore = sumScore / n
	st.AvgMatch = sumMatch / n * 100
	for _, sec := range sections {
		st.SectionAverages[sec] = sectionSums[sec] / n
		st.TopBySection[sec] = topBy(apps, sec)
	}
	return st
}

func topBy(apps []models.Application, section string) []RankedApplication {
	ranked := make([]RankedApplication, 0, len(apps))
	for i := range apps {
		ranked = append(ranked, RankedApplication{
			ApplicationID: apps[i].ID.Hex(),
			FullName:      apps[i].FullName,
			Score:         sectionScore(&apps[i], section),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > topPerSection {
		ranked = ranked[:topPerSection]
	}
	return ranked
}

// SortApplications orders in place by "score", "match", "date" or "name".
// Unknown keys sort by score. Ties keep their input order.
func SortApplications(apps []models.Application, by string) {
	var less func(a, b *models.Application) bool
	switch by {
	case "match":
		less = func(a, b *models.Application) bool { return a.Similarity() > b.Similarity() }
	case "date":
		less = func(a, b *models.Application) bool { return a.CreatedAt.After(b.CreatedAt) }
	case "name":
		less = func(a, b *models.Application) bool { return strings.ToLower(a.FullName) < strings.ToLower(b.FullName) }
	default:
		less = func(a, b *models.Application) bool { return a.Score() > b.Score() }
	}
	sort.SliceStable(apps, func(i, j int) bool { return less(&apps[i], &apps[j]) })
}
