package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/hirex/internal/models"
	"github.com/yoockh/hirex/internal/realtime"
	mongorepo "github.com/yoockh/hirex/internal/repositories/mongo"
	"github.com/yoockh/hirex/internal/resume"
	"github.com/yoockh/hirex/internal/storage"
	"github.com/yoockh/hirex/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const resumeURLTTL = 15 * time.Minute

// ApplicationData is the JSON carried in the multipart "applicationData" field.
// ResumeText is accepted for compatibility and not stored.
type ApplicationData struct {
	FullName   string             `json:"fullName" binding:"required"`
	Email      string             `json:"email" binding:"required,email"`
	Phone      string             `json:"phone" binding:"required"`
	ResumeText string             `json:"resumeText"`
	AIAnalysis *models.AIAnalysis `json:"aiAnalysis"`
	Cosine     *float64           `json:"cosine"`
}

type SubmitInput struct {
	ApplicationData string
	Resume          *FileInput
}

type ApplicationService interface {
	Submit(ctx context.Context, caller Caller, jobID string, in SubmitInput) (*models.Application, error)
	Get(ctx context.Context, caller Caller, applicationID string) (*models.Application, error)
	UpdateStatus(ctx context.Context, caller Caller, applicationID string, status models.ApplicationStatus) (*models.Application, error)
	ListForJob(ctx context.Context, caller Caller, jobID, sortBy string) (*models.Job, []models.Application, error)
	StatsForJob(ctx context.Context, caller Caller, jobID string) (*ApplicationStats, error)
	ListForCompany(ctx context.Context, caller Caller, companyID string) (*models.Company, []models.Application, error)
	ListMine(ctx context.Context, caller Caller) ([]models.Application, error)
	ResumeURL(ctx context.Context, caller Caller, applicationID string) (string, error)
	// AuthorizeJobFeed checks the caller may watch a job's realtime feed.
	AuthorizeJobFeed(ctx context.Context, caller Caller, jobID string) error
}

type applicationService struct {
	apps      mongorepo.ApplicationRepository
	jobs      mongorepo.JobRepository
	users     mongorepo.UserRepository
	companies mongorepo.CompanyRepository
	store     storage.Store
	events    realtime.Publisher
	log       logrus.FieldLogger
	maxResume int64
}

type ApplicationDeps struct {
	Applications mongorepo.ApplicationRepository
	Jobs         mongorepo.JobRepository
	Users        mongorepo.UserRepository
	Companies    mongorepo.CompanyRepository
	Store        storage.Store
	Events       realtime.Publisher
	Log          logrus.FieldLogger
	// MaxResumeBytes defaults to resume.MaxSize.
	MaxResumeBytes int64
}

func NewApplicationService(d ApplicationDeps) ApplicationService {
	if d.Events == nil {
		d.Events = realtime.NopPublisher{}
	}
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	if d.MaxResumeBytes <= 0 {
		d.MaxResumeBytes = resume.MaxSize
	}
	return &applicationService{
		apps:      d.Applications,
		jobs:      d.Jobs,
		users:     d.Users,
		companies: d.Companies,
		store:     d.Store,
		events:    d.Events,
		log:       d.Log,
		maxResume: d.MaxResumeBytes,
	}
}

func (s *applicationService) Submit(ctx context.Context, caller Caller, jobID string, in SubmitInput) (*models.Application, error) {
	const op = "ApplicationService.Submit"

	userOID, err := callerID(op, caller)
	if err != nil {
		return nil, err
	}
	jobOID, err := parseID(op, "job", jobID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, jobOID)
	if err != nil {
		return nil, notFoundOr(op, "job not found", "failed to load job", err)
	}
	if job.Company.IsZero() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job has no associated company", nil)
	}

	if _, err := s.users.GetByID(ctx, userOID); err != nil {
		return nil, notFoundOr(op, "user not found", "failed to load user", err)
	}

	// not atomic with the insert below; concurrent submits can both pass
	dup, err := s.apps.ExistsForJobUser(ctx, jobOID, userOID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to check existing application", err)
	}
	if dup {
		return nil, utils.E(utils.CodeInvalidArgument, op, "you have already applied for this job", nil)
	}

	data, err := parseApplicationData(op, in.ApplicationData)
	if err != nil {
		return nil, err
	}

	app := &models.Application{
		Job:        jobOID,
		User:       userOID,
		Company:    job.Company,
		FullName:   data.FullName,
		Email:      data.Email,
		Phone:      data.Phone,
		Status:     models.StatusPending,
		AIAnalysis: data.AIAnalysis,
		Cosine:     data.Cosine,
	}

	if in.Resume != nil {
		att, err := s.uploadResume(ctx, op, caller.UserID, in.Resume)
		if err != nil {
			return nil, err
		}
		app.Resume = att
	}

	if err := s.apps.Create(ctx, app); err != nil {
		if app.Resume != nil {
			s.discardUpload(app.Resume.PublicID)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to save application", err)
	}

	if err := s.jobs.AddApplication(ctx, jobOID, app.ID); err != nil {
		// the application row is authoritative; listings query it directly
		s.log.WithError(err).WithFields(logrus.Fields{
			"job_id":         jobID,
			"application_id": app.ID.Hex(),
		}).Warn("failed to link application to job")
	}

	s.publish(ctx, "application_created", app)
	return app, nil
}

func parseApplicationData(op, raw string) (*ApplicationData, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "application data is required", nil)
	}
	var data ApplicationData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid application data format", err)
	}
	data.FullName = strings.TrimSpace(data.FullName)
	data.Email = strings.TrimSpace(data.Email)
	data.Phone = strings.TrimSpace(data.Phone)
	if err := utils.Validate(op, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (s *applicationService) uploadResume(ctx context.Context, op, userID string, f *FileInput) (*models.ResumeAttachment, error) {
	if err := resume.ValidateMax(f.ContentType, f.Size, s.maxResume); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, err.Error(), err)
	}
	if s.store == nil {
		return nil, utils.E(utils.CodeInternal, op, "storage is not configured", nil)
	}

	objectName := storage.ObjectName("resumes", userID, f.Filename)
	ct := resume.NormalizeType(f.ContentType)
	url, err := s.store.Upload(ctx, objectName, ct, f.Body)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to upload resume", err)
	}
	return &models.ResumeAttachment{
		URL:         url,
		PublicID:    objectName,
		Filename:    f.Filename,
		ContentType: ct,
	}, nil
}

// discardUpload removes an orphaned object. It outlives the request context.
func (s *applicationService) discardUpload(objectName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.store.Delete(ctx, objectName); err != nil {
		s.log.WithError(err).WithField("object", objectName).Warn("failed to delete orphaned resume")
	}
}

func (s *applicationService) publish(ctx context.Context, kind string, app *models.Application) {
	ev := models.ApplicationEvent{
		Type:          kind,
		JobID:         app.Job.Hex(),
		ApplicationID: app.ID.Hex(),
		Status:        app.Status,
		FullName:      app.FullName,
		Score:         app.Score(),
		At:            time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.WithError(err).WithField("job_id", ev.JobID).Warn("failed to publish application event")
	}
}

func (s *applicationService) Get(ctx context.Context, caller Caller, applicationID string) (*models.Application, error) {
	const op = "ApplicationService.Get"

	if _, err := callerID(op, caller); err != nil {
		return nil, err
	}
	id, err := parseID(op, "application", applicationID)
	if err != nil {
		return nil, err
	}
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(op, "application not found", "failed to load application", err)
	}
	if app.User.Hex() == caller.UserID {
		return app, nil
	}
	if err := s.requireCompanyOwner(ctx, op, caller, app.Company); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, caller Caller, applicationID string, status models.ApplicationStatus) (*models.Application, error) {
	const op = "ApplicationService.UpdateStatus"

	if _, err := callerID(op, caller); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid status", nil)
	}
	id, err := parseID(op, "application", applicationID)
	if err != nil {
		return nil, err
	}
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(op, "application not found", "failed to load application", err)
	}
	if err := s.requireCompanyOwner(ctx, op, caller, app.Company); err != nil {
		return nil, err
	}

	updated, err := s.apps.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, notFoundOr(op, "application not found", "failed to update application", err)
	}
	s.publish(ctx, "application_status", updated)
	return updated, nil
}

func (s *applicationService) ListForJob(ctx context.Context, caller Caller, jobID, sortBy string) (*models.Job, []models.Application, error) {
	const op = "ApplicationService.ListForJob"

	job, err := s.ownedJob(ctx, op, caller, jobID)
	if err != nil {
		return nil, nil, err
	}
	apps, err := s.apps.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	if apps == nil {
		apps = []models.Application{}
	}
	if sortBy != "" {
		SortApplications(apps, sortBy)
	}
	return job, apps, nil
}

func (s *applicationService) StatsForJob(ctx context.Context, caller Caller, jobID string) (*ApplicationStats, error) {
	const op = "ApplicationService.StatsForJob"

	job, err := s.ownedJob(ctx, op, caller, jobID)
	if err != nil {
		return nil, err
	}
	apps, err := s.apps.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	stats := ComputeStats(apps)
	return &stats, nil
}

func (s *applicationService) AuthorizeJobFeed(ctx context.Context, caller Caller, jobID string) error {
	_, err := s.ownedJob(ctx, "ApplicationService.AuthorizeJobFeed", caller, jobID)
	return err
}

func (s *applicationService) ListForCompany(ctx context.Context, caller Caller, companyID string) (*models.Company, []models.Application, error) {
	const op = "ApplicationService.ListForCompany"

	if _, err := callerID(op, caller); err != nil {
		return nil, nil, err
	}
	id, err := parseID(op, "company", companyID)
	if err != nil {
		return nil, nil, err
	}
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, nil, notFoundOr(op, "company not found", "failed to load company", err)
	}
	if !caller.owns(company) {
		return nil, nil, utils.E(utils.CodeForbidden, op, "not authorized to view these applications", nil)
	}
	apps, err := s.apps.ListByCompany(ctx, id)
	if err != nil {
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return company, apps, nil
}

func (s *applicationService) ListMine(ctx context.Context, caller Caller) ([]models.Application, error) {
	const op = "ApplicationService.ListMine"

	userOID, err := callerID(op, caller)
	if err != nil {
		return nil, err
	}
	apps, err := s.apps.ListByUser(ctx, userOID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return apps, nil
}

func (s *applicationService) ResumeURL(ctx context.Context, caller Caller, applicationID string) (string, error) {
	const op = "ApplicationService.ResumeURL"

	app, err := s.Get(ctx, caller, applicationID)
	if err != nil {
		return "", err
	}
	if app.Resume == nil {
		return "", utils.E(utils.CodeNotFound, op, "application has no resume", nil)
	}
	signer, ok := s.store.(storage.Signer)
	if !ok || app.Resume.PublicID == "" {
		return app.Resume.URL, nil
	}
	url, err := signer.SignedGetURL(ctx, app.Resume.PublicID, resumeURLTTL)
	if err != nil {
		s.log.WithError(err).WithField("application_id", applicationID).Warn("failed to sign resume url")
		return app.Resume.URL, nil
	}
	return url, nil
}

// ownedJob loads a job whose company the caller owns.
func (s *applicationService) ownedJob(ctx context.Context, op string, caller Caller, jobID string) (*models.Job, error) {
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
	if caller.IsAdmin() || job.Employer.Hex() == caller.UserID {
		return job, nil
	}
	if err := s.requireCompanyOwner(ctx, op, caller, job.Company); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *applicationService) requireCompanyOwner(ctx context.Context, op string, caller Caller, companyID primitive.ObjectID) error {
	if caller.IsAdmin() {
		return nil
	}
	if companyID.IsZero() {
		return utils.E(utils.CodeForbidden, op, "not authorized", nil)
	}
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeForbidden, op, "not authorized", nil)
		}
		return utils.E(utils.CodeInternal, op, "failed to load company", err)
	}
	if !caller.owns(company) {
		return utils.E(utils.CodeForbidden, op, "not authorized", nil)
	}
	return nil
}

// notFoundOr maps the repository not-found sentinel to NOT_FOUND and anything else to INTERNAL.
func notFoundOr(op, notFoundMsg, internalMsg string, err error) error {
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeNotFound, op, notFoundMsg, err)
	}
	return utils.E(utils.CodeInternal, op, internalMsg, err)
}
