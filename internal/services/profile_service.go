package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/hirex/internal/models"
	pgrepo "github.com/yoockh/hirex/internal/repositories/postgres"
	"github.com/yoockh/hirex/internal/resume"
	"github.com/yoockh/hirex/internal/storage"
	"github.com/yoockh/hirex/internal/utils"
	"gorm.io/datatypes"
)

const resumeHistoryLimit = 10

// ProfileView is what GET /api/users/profile returns.
type ProfileView struct {
	User    *models.User        `json:"user"`
	Profile *models.Profile     `json:"profile"`
	Resumes []models.ResumeFile `json:"resumes"`
}

// ProfileUpdate carries the editable profile fields. Nil slices and empty
// strings leave the stored value unchanged.
type ProfileUpdate struct {
	Name             string          `json:"name"`
	PhoneNumber      string          `json:"phoneNumber"`
	Bio              string          `json:"bio"`
	Skills           []string        `json:"skills"`
	SocialLinks      []string        `json:"socialLinks"`
	ProfilePhoto     string          `json:"profilePhoto"`
	StructuredResume json.RawMessage `json:"structuredResume"`
}

type ProfileService interface {
	GetMe(ctx context.Context, caller Caller) (*ProfileView, error)
	Update(ctx context.Context, caller Caller, in ProfileUpdate, file *FileInput) (*ProfileView, error)
}

type profileService struct {
	users     UserService
	profiles  pgrepo.ProfileRepository
	files     pgrepo.ResumeFileRepository
	uploader  storage.Uploader
	log       logrus.FieldLogger
	maxResume int64
}

func NewProfileService(users UserService, profiles pgrepo.ProfileRepository, files pgrepo.ResumeFileRepository, uploader storage.Uploader, l logrus.FieldLogger, maxResume int64) ProfileService {
	if l == nil {
		l = logrus.StandardLogger()
	}
	if maxResume <= 0 {
		maxResume = resume.MaxSize
	}
	return &profileService{users: users, profiles: profiles, files: files, uploader: uploader, log: l, maxResume: maxResume}
}

func (s *profileService) GetMe(ctx context.Context, caller Caller) (*ProfileView, error) {
	const op = "ProfileService.GetMe"

	u, err := s.users.Get(ctx, caller)
	if err != nil {
		return nil, err
	}

	p, err := s.profiles.GetByUserID(ctx, caller.UserID)
	switch {
	case errors.Is(err, utils.ErrNotFound):
		p = &models.Profile{UserID: caller.UserID, Skills: pq.StringArray{}, SocialLinks: pq.StringArray{}}
	case err != nil:
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}

	files, err := s.files.ListByUser(ctx, caller.UserID, resumeHistoryLimit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list resumes", err)
	}
	if files == nil {
		files = []models.ResumeFile{}
	}
	return &ProfileView{User: u, Profile: p, Resumes: files}, nil
}

func (s *profileService) Update(ctx context.Context, caller Caller, in ProfileUpdate, file *FileInput) (*ProfileView, error) {
	const op = "ProfileService.Update"

	if _, err := callerID(op, caller); err != nil {
		return nil, err
	}
	if len(in.StructuredResume) > 0 && !json.Valid(in.StructuredResume) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "structuredResume must be valid JSON", nil)
	}

	if in.Name != "" || in.PhoneNumber != "" {
		if _, err := s.users.Update(ctx, caller, in.Name, in.PhoneNumber); err != nil {
			return nil, err
		}
	}

	p, err := s.profiles.GetByUserID(ctx, caller.UserID)
	if errors.Is(err, utils.ErrNotFound) {
		p, err = &models.Profile{UserID: caller.UserID}, nil
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}

	if in.Bio != "" {
		p.Bio = strings.TrimSpace(in.Bio)
	}
	if in.Skills != nil {
		p.Skills = pq.StringArray(trimAll(in.Skills))
	}
	if in.SocialLinks != nil {
		p.SocialLinks = pq.StringArray(trimAll(in.SocialLinks))
	}
	if in.ProfilePhoto != "" {
		p.ProfilePhoto = in.ProfilePhoto
	}
	if len(in.StructuredResume) > 0 {
		p.StructuredResume = datatypes.JSON(in.StructuredResume)
	}

	if file != nil {
		row, err := s.storeResume(ctx, op, caller.UserID, file)
		if err != nil {
			return nil, err
		}
		p.ResumeURL = row.FilePath
		p.ResumeOriginalName = row.FileName
	}

	p.UpdatedAt = time.Now().UTC()
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to upsert profile", err)
	}
	return s.GetMe(ctx, caller)
}

func (s *profileService) storeResume(ctx context.Context, op, userID string, f *FileInput) (*models.ResumeFile, error) {
	if err := resume.ValidateMax(f.ContentType, f.Size, s.maxResume); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, err.Error(), err)
	}
	if s.uploader == nil {
		return nil, utils.E(utils.CodeInternal, op, "storage is not configured", nil)
	}

	objectName := storage.ObjectName("profiles", userID, f.Filename)
	ct := resume.NormalizeType(f.ContentType)
	url, err := s.uploader.Upload(ctx, objectName, ct, f.Body)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload resume", err)
	}

	row := &models.ResumeFile{
		ID:       uuid.NewString(),
		UserID:   userID,
		FileName: f.Filename,
		FilePath: url,
		PublicID: objectName,
		FileSize: f.Size,
		MimeType: ct,
		UploadAt: time.Now().UTC(),
	}
	if err := s.files.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist resume metadata", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "object": objectName}).Info("profile resume stored")
	return row, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
