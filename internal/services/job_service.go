package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/hirex/internal/cache"
	"github.com/yoockh/hirex/internal/models"
	mongorepo "github.com/yoockh/hirex/internal/repositories/mongo"
	"github.com/yoockh/hirex/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobUpdate is a partial job edit. Ownership, company and applications are not editable.
type JobUpdate struct {
	Title               *string         `json:"title"`
	Description         *string         `json:"description"`
	Requirements        *string         `json:"requirements"`
	Responsibilities    *string         `json:"responsibilities"`
	Location            *string         `json:"location"`
	LocationType        *string         `json:"locationType"`
	EmploymentType      *string         `json:"employmentType"`
	ExperienceLevel     *string         `json:"experienceLevel"`
	SalaryMin           *float64        `json:"salaryMin"`
	SalaryMax           *float64        `json:"salaryMax"`
	SalaryCurrency      *string         `json:"salaryCurrency"`
	SalaryPeriod        *string         `json:"salaryPeriod"`
	Skills              *[]string       `json:"skills"`
	Benefits            *[]string       `json:"benefits"`
	ApplicationDeadline json.RawMessage `json:"applicationDeadline"`
	IsActive            *bool           `json:"isActive"`
	IsFeatured          *bool           `json:"isFeatured"`
}

func (u *JobUpdate) fields(op string) (map[string]any, error) {
	p := newPatch(op)
	p.text("title", u.Title, true)
	p.text("description", u.Description, true)
	p.text("requirements", u.Requirements, true)
	p.text("responsibilities", u.Responsibilities, true)
	p.text("location", u.Location, true)
	p.enum("locationType", u.LocationType, models.LocationTypes)
	p.enum("employmentType", u.EmploymentType, models.EmploymentTypes)
	p.enum("experienceLevel", u.ExperienceLevel, models.ExperienceLevels)
	p.enum("salaryPeriod", u.SalaryPeriod, models.SalaryPeriods)
	p.text("salaryCurrency", u.SalaryCurrency, true)
	setPtr(p, "salaryMin", u.SalaryMin)
	setPtr(p, "salaryMax", u.SalaryMax)
	setPtr(p, "skills", u.Skills)
	setPtr(p, "benefits", u.Benefits)
	setPtr(p, "isActive", u.IsActive)
	setPtr(p, "isFeatured", u.IsFeatured)
	p.date("applicationDeadline", u.ApplicationDeadline)
	return p.set, p.err
}

type JobService interface {
	Create(ctx context.Context, caller Caller, j *models.Job) (*models.Job, error)
	Get(ctx context.Context, jobID string) (*models.Job, error)
	List(ctx context.Context, companyID string, page utils.Page) ([]models.Job, utils.Pagination, error)
	Update(ctx context.Context, caller Caller, jobID string, u JobUpdate) (*models.Job, error)
	Delete(ctx context.Context, caller Caller, jobID string) error
	FilterOptions(ctx context.Context) (*models.JobFilterOptions, error)
}

type jobService struct {
	jobs      mongorepo.JobRepository
	companies mongorepo.CompanyRepository
	cache     cache.Cache
	log       logrus.FieldLogger
}

func NewJobService(jobs mongorepo.JobRepository, companies mongorepo.CompanyRepository, c cache.Cache, l logrus.FieldLogger) JobService {
	if c == nil {
		c = cache.Nop{}
	}
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &jobService{jobs: jobs, companies: companies, cache: c, log: l}
}

func (s *jobService) Create(ctx context.Context, caller Caller, j *models.Job) (*models.Job, error) {
	const op = "JobService.Create"

	employer, err := callerID(op, caller)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job is required", nil)
	}
	if err := utils.Validate(op, j); err != nil {
		return nil, err
	}
	j.ApplyDefaults()
	if bad := j.InvalidEnums(); len(bad) > 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid values for: "+strings.Join(bad, ", "), nil)
	}
	if j.SalaryMin > j.SalaryMax {
		return nil, utils.E(utils.CodeInvalidArgument, op, "salaryMin cannot exceed salaryMax", nil)
	}

	company, err := s.companies.GetByID(ctx, j.Company)
	if err != nil {
		return nil, notFoundOr(op, "company not found", "failed to load company", err)
	}
	if !caller.owns(company) {
		return nil, utils.E(utils.CodeForbidden, op, "you can only post jobs for your own company", nil)
	}

	j.ID = primitive.NilObjectID
	j.Employer = employer
	j.Applications = []primitive.ObjectID{}
	if err := s.jobs.Create(ctx, j); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create job", err)
	}
	s.invalidate(ctx)
	return j, nil
}

func (s *jobService) Get(ctx context.Context, jobID string) (*models.Job, error) {
	const op = "JobService.Get"

	id, err := parseID(op, "job", jobID)
	if err != nil {
		return nil, err
	}

	var cached models.Job
	if hit, err := s.cache.GetJSON(ctx, cache.JobKey(jobID), &cached); err == nil && hit {
		return &cached, nil
	}

	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(op, "job not found", "failed to load job", err)
	}
	if err := s.cache.SetJSON(ctx, cache.JobKey(jobID), j, cache.JobTTL); err != nil {
		s.log.WithError(err).WithField("job_id", jobID).Debug("job cache write failed")
	}
	return j, nil
}

func (s *jobService) List(ctx context.Context, companyID string, page utils.Page) ([]models.Job, utils.Pagination, error) {
	const op = "JobService.List"

	var f mongorepo.JobFilter
	if companyID != "" {
		id, err := parseID(op, "company", companyID)
		if err != nil {
			return nil, utils.Pagination{}, err
		}
		f.CompanyID = &id
	}

	jobs, total, err := s.jobs.List(ctx, f, page.Skip, page.Limit)
	if err != nil {
		return nil, utils.Pagination{}, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return jobs, page.Of(total), nil
}

func (s *jobService) Update(ctx context.Context, caller Caller, jobID string, u JobUpdate) (*models.Job, error) {
	const op = "JobService.Update"

	job, err := s.authorize(ctx, op, caller, jobID)
	if err != nil {
		return nil, err
	}

	set, err := u.fields(op)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return job, nil
	}
	lo, hi := job.SalaryMin, job.SalaryMax
	if u.SalaryMin != nil {
		lo = *u.SalaryMin
	}
	if u.SalaryMax != nil {
		hi = *u.SalaryMax
	}
	if lo > hi {
		return nil, utils.E(utils.CodeInvalidArgument, op, "salaryMin cannot exceed salaryMax", nil)
	}

	updated, err := s.jobs.Update(ctx, job.ID, set)
	if err != nil {
		return nil, notFoundOr(op, "job not found", "failed to update job", err)
	}
	s.invalidate(ctx, jobID)
	return updated, nil
}

func (s *jobService) Delete(ctx context.Context, caller Caller, jobID string) error {
	const op = "JobService.Delete"

	job, err := s.authorize(ctx, op, caller, jobID)
	if err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, job.ID); err != nil {
		return notFoundOr(op, "job not found", "failed to delete job", err)
	}
	s.invalidate(ctx, jobID)
	return nil
}

func (s *jobService) FilterOptions(ctx context.Context) (*models.JobFilterOptions, error) {
	const op = "JobService.FilterOptions"

	var cached models.JobFilterOptions
	if hit, err := s.cache.GetJSON(ctx, cache.JobFiltersKey, &cached); err == nil && hit {
		return &cached, nil
	}
	opts, err := s.jobs.FilterOptions(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load filter options", err)
	}
	_ = s.cache.SetJSON(ctx, cache.JobFiltersKey, opts, cache.JobFiltersTTL)
	return opts, nil
}

// authorize loads the job and checks the caller owns its company.
func (s *jobService) authorize(ctx context.Context, op string, caller Caller, jobID string) (*models.Job, error) {
	if _, err := callerID(op, caller); err != nil {
		return nil, err
	}
	id, err := parseID(op, "job", jobID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(op, "job not found", "failed to load job", err)
	}
	if caller.IsAdmin() {
		return job, nil
	}
	if job.Employer.Hex() == caller.UserID {
		return job, nil
	}
	company, err := s.companies.GetByID(ctx, job.Company)
	if err == nil && caller.owns(company) {
		return job, nil
	}
	return nil, utils.E(utils.CodeForbidden, op, "not authorized to modify this job", nil)
}

func (s *jobService) invalidate(ctx context.Context, jobIDs ...string) {
	keys := []string{cache.JobFiltersKey}
	for _, id := range jobIDs {
		keys = append(keys, cache.JobKey(id))
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.log.WithError(err).Warn("job cache invalidation failed")
	}
}
