package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/hirex/internal/models"
	mongorepo "github.com/yoockh/hirex/internal/repositories/mongo"
	"github.com/yoockh/hirex/internal/storage"
	"github.com/yoockh/hirex/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxLogoBytes = 2 << 20

var logoTypes = map[string]struct{}{
	"image/png": {}, "image/jpeg": {}, "image/webp": {}, "image/gif": {}, "image/svg+xml": {},
}

// CompanyUpdate is a partial company edit. Owner, logo and verification are not editable here.
type CompanyUpdate struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	Industry    *string             `json:"industry"`
	CompanyType *string             `json:"companyType"`
	CompanySize *string             `json:"companySize"`
	FoundedYear *int                `json:"foundedYear" binding:"omitempty,min=1800"`
	Website     *string             `json:"website"`
	Email       *string             `json:"email" binding:"omitempty,email"`
	Phone       *string             `json:"phone"`
	Address     *string             `json:"address"`
	City        *string             `json:"city"`
	State       *string             `json:"state"`
	Country     *string             `json:"country"`
	ZipCode     *string             `json:"zipCode"`
	SocialMedia *models.SocialMedia `json:"socialMedia"`
	Benefits    *[]string           `json:"benefits"`
	Culture     *string             `json:"culture"`
}

func (u *CompanyUpdate) fields(op string) (map[string]any, error) {
	if err := utils.Validate(op, u); err != nil {
		return nil, err
	}
	p := newPatch(op)
	p.text("name", u.Name, true)
	p.text("description", u.Description, true)
	p.text("industry", u.Industry, true)
	p.text("companyType", u.CompanyType, true)
	p.text("companySize", u.CompanySize, true)
	p.text("email", u.Email, true)
	p.text("city", u.City, true)
	p.text("country", u.Country, true)
	p.text("website", u.Website, false)
	p.text("phone", u.Phone, false)
	p.text("address", u.Address, false)
	p.text("state", u.State, false)
	p.text("zipCode", u.ZipCode, false)
	p.text("culture", u.Culture, false)
	setPtr(p, "foundedYear", u.FoundedYear)
	setPtr(p, "socialMedia", u.SocialMedia)
	setPtr(p, "benefits", u.Benefits)
	return p.set, p.err
}

type CompanyService interface {
	Create(ctx context.Context, caller Caller, c *models.Company, logo *FileInput) (*models.Company, error)
	Get(ctx context.Context, companyID string) (*models.Company, error)
	// List returns the companies of userID when set (self or admin only), otherwise a page of all companies.
	List(ctx context.Context, caller Caller, userID string, page utils.Page) ([]models.Company, utils.Pagination, error)
	Update(ctx context.Context, caller Caller, companyID string, u CompanyUpdate) (*models.Company, error)
	Delete(ctx context.Context, caller Caller, companyID string) error
}

type companyService struct {
	companies mongorepo.CompanyRepository
	store     storage.Store
	log       logrus.FieldLogger
}

func NewCompanyService(companies mongorepo.CompanyRepository, store storage.Store, l logrus.FieldLogger) CompanyService {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &companyService{companies: companies, store: store, log: l}
}

func (s *companyService) Create(ctx context.Context, caller Caller, c *models.Company, logo *FileInput) (*models.Company, error) {
	const op = "CompanyService.Create"

	owner, err := callerID(op, caller)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "company is required", nil)
	}
	c.Name = strings.TrimSpace(c.Name)
	if err := utils.Validate(op, c); err != nil {
		return nil, err
	}

	c.ID = primitive.NilObjectID
	c.UserID = owner
	c.IsVerified = false
	c.Logo, c.LogoPublicID = "", ""

	if logo != nil {
		url, objectName, err := s.uploadLogo(ctx, caller.UserID, logo)
		if err != nil {
			// the company is still created, just without a logo
			s.log.WithError(err).WithField("user_id", caller.UserID).Warn("company logo upload failed")
		} else {
			c.Logo, c.LogoPublicID = url, objectName
		}
	}

	if err := s.companies.Create(ctx, c); err != nil {
		if c.LogoPublicID != "" {
			s.removeLogo(c.LogoPublicID)
		}
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "you already have a company with this name", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create company", err)
	}
	return c, nil
}

func (s *companyService) uploadLogo(ctx context.Context, owner string, f *FileInput) (string, string, error) {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(f.ContentType, ";", 2)[0]))
	if _, ok := logoTypes[ct]; !ok {
		return "", "", errors.New("unsupported logo type " + ct)
	}
	if f.Size > maxLogoBytes {
		return "", "", errors.New("logo too large")
	}
	if s.store == nil {
		return "", "", errors.New("storage is not configured")
	}
	objectName := storage.ObjectName("logos", owner, f.Filename)
	url, err := s.store.Upload(ctx, objectName, ct, f.Body)
	if err != nil {
		return "", "", err
	}
	return url, objectName, nil
}

func (s *companyService) removeLogo(objectName string) {
	if s.store == nil || objectName == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.store.Delete(ctx, objectName); err != nil {
		s.log.WithError(err).WithField("object", objectName).Warn("failed to delete company logo")
	}
}

func (s *companyService) Get(ctx context.Context, companyID string) (*models.Company, error) {
	const op = "CompanyService.Get"

	id, err := parseID(op, "company", companyID)
	if err != nil {
		return nil, err
	}
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(op, "company not found", "failed to load company", err)
	}
	return c, nil
}

func (s *companyService) List(ctx context.Context, caller Caller, userID string, page utils.Page) ([]models.Company, utils.Pagination, error) {
	const op = "CompanyService.List"

	if _, err := callerID(op, caller); err != nil {
		return nil, utils.Pagination{}, err
	}

	if userID != "" {
		if userID != caller.UserID && !caller.IsAdmin() {
			return nil, utils.Pagination{}, utils.E(utils.CodeForbidden, op, "not authorized to view these companies", nil)
		}
		uid, err := parseID(op, "user", userID)
		if err != nil {
			return nil, utils.Pagination{}, err
		}
		out, err := s.companies.ListByUser(ctx, uid)
		if err != nil {
			return nil, utils.Pagination{}, utils.E(utils.CodeInternal, op, "failed to list companies", err)
		}
		if out == nil {
			out = []models.Company{}
		}
		n := int64(len(out))
		return out, utils.Pagination{Total: n, Page: 1, Limit: n, Pages: 1}, nil
	}

	out, total, err := s.companies.List(ctx, page.Skip, page.Limit)
	if err != nil {
		return nil, utils.Pagination{}, utils.E(utils.CodeInternal, op, "failed to list companies", err)
	}
	if out == nil {
		out = []models.Company{}
	}
	return out, page.Of(total), nil
}

func (s *companyService) Update(ctx context.Context, caller Caller, companyID string, u CompanyUpdate) (*models.Company, error) {
	const op = "CompanyService.Update"

	c, err := s.owned(ctx, op, caller, companyID)
	if err != nil {
		return nil, err
	}

	set, err := u.fields(op)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return c, nil
	}

	updated, err := s.companies.Update(ctx, c.ID, set)
	if err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "you already have a company with this name", err)
		}
		return nil, notFoundOr(op, "company not found", "failed to update company", err)
	}
	return updated, nil
}

func (s *companyService) Delete(ctx context.Context, caller Caller, companyID string) error {
	const op = "CompanyService.Delete"

	c, err := s.owned(ctx, op, caller, companyID)
	if err != nil {
		return err
	}
	if err := s.companies.Delete(ctx, c.ID); err != nil {
		return notFoundOr(op, "company not found", "failed to delete company", err)
	}
	s.removeLogo(c.LogoPublicID)
	return nil
}

func (s *companyService) owned(ctx context.Context, op string, caller Caller, companyID string) (*models.Company, error) {
	if _, err := callerID(op, caller); err != nil {
		return nil, err
	}
	id, err := parseID(op, "company", companyID)
	if err != nil {
		return nil, err
	}
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(op, "company not found", "failed to load company", err)
	}
	if !caller.owns(c) {
		return nil, utils.E(utils.CodeForbidden, op, "not authorized to modify this company", nil)
	}
	return c, nil
}
