package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/yoockh/hirex/internal/models"
	mongorepo "github.com/yoockh/hirex/internal/repositories/mongo"
	"github.com/yoockh/hirex/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUsers struct {
	byID map[primitive.ObjectID]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: map[primitive.ObjectID]*models.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return utils.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	u, ok := f.byID[id]
	if !ok {
		return utils.ErrNotFound
	}
	u.Password = hash
	return nil
}

func (f *fakeUsers) Update(_ context.Context, id primitive.ObjectID, fields map[string]any) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	if v, ok := fields["name"].(string); ok {
		u.Name = v
	}
	if v, ok := fields["phoneNumber"].(string); ok {
		u.PhoneNumber = v
	}
	return u, nil
}

type fakeCompanies struct {
	byID    map[primitive.ObjectID]*models.Company
	lastSet map[string]any
}

func newFakeCompanies(cs ...*models.Company) *fakeCompanies {
	f := &fakeCompanies{byID: map[primitive.ObjectID]*models.Company{}}
	for _, c := range cs {
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeCompanies) Create(_ context.Context, c *models.Company) error {
	for _, existing := range f.byID {
		if existing.UserID == c.UserID && existing.Name == c.Name {
			return utils.ErrDuplicate
		}
	}
	c.ID = primitive.NewObjectID()
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCompanies) GetByID(_ context.Context, id primitive.ObjectID) (*models.Company, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return c, nil
}

func (f *fakeCompanies) List(_ context.Context, skip, limit int64) ([]models.Company, int64, error) {
	var out []models.Company
	for _, c := range f.byID {
		out = append(out, *c)
	}
	total := int64(len(out))
	if skip >= total {
		return nil, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return out[skip:end], total, nil
}

func (f *fakeCompanies) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Company, error) {
	var out []models.Company
	for _, c := range f.byID {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCompanies) Update(_ context.Context, id primitive.ObjectID, fields map[string]any) (*models.Company, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	f.lastSet = fields
	if v, ok := fields["name"].(string); ok {
		c.Name = v
	}
	if v, ok := fields["description"].(string); ok {
		c.Description = v
	}
	if v, ok := fields["logo"].(string); ok {
		c.Logo = v
	}
	return c, nil
}

func (f *fakeCompanies) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.byID[id]; !ok {
		return utils.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeJobs struct {
	byID       map[primitive.ObjectID]*models.Job
	linked     map[primitive.ObjectID][]primitive.ObjectID
	linkErr    error
	filterOpts *models.JobFilterOptions
	filterHits int
	lastSet    map[string]any
}

func newFakeJobs(js ...*models.Job) *fakeJobs {
	f := &fakeJobs{byID: map[primitive.ObjectID]*models.Job{}, linked: map[primitive.ObjectID][]primitive.ObjectID{}}
	for _, j := range js {
		f.byID[j.ID] = j
	}
	return f
}

func (f *fakeJobs) Create(_ context.Context, j *models.Job) error {
	j.ID = primitive.NewObjectID()
	f.byID[j.ID] = j
	return nil
}

func (f *fakeJobs) GetByID(_ context.Context, id primitive.ObjectID) (*models.Job, error) {
	j, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (f *fakeJobs) List(_ context.Context, flt mongorepo.JobFilter, skip, limit int64) ([]models.Job, int64, error) {
	var out []models.Job
	for _, j := range f.byID {
		if flt.CompanyID != nil && j.Company != *flt.CompanyID {
			continue
		}
		out = append(out, *j)
	}
	return out, int64(len(out)), nil
}

func (f *fakeJobs) Update(_ context.Context, id primitive.ObjectID, fields map[string]any) (*models.Job, error) {
	j, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	f.lastSet = fields
	if v, ok := fields["title"].(string); ok {
		j.Title = v
	}
	if v, ok := fields["locationType"].(string); ok {
		j.LocationType = v
	}
	if v, ok := fields["company"].(primitive.ObjectID); ok {
		j.Company = v
	}
	cp := *j
	return &cp, nil
}

func (f *fakeJobs) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.byID[id]; !ok {
		return utils.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeJobs) AddApplication(_ context.Context, jobID, appID primitive.ObjectID) error {
	if f.linkErr != nil {
		return f.linkErr
	}
	for _, id := range f.linked[jobID] {
		if id == appID {
			return nil
		}
	}
	f.linked[jobID] = append(f.linked[jobID], appID)
	return nil
}

func (f *fakeJobs) FilterOptions(context.Context) (*models.JobFilterOptions, error) {
	f.filterHits++
	if f.filterOpts == nil {
		return &models.JobFilterOptions{Skills: []string{}, Companies: []models.CompanyRef{}}, nil
	}
	return f.filterOpts, nil
}

type fakeApplications struct {
	mu        sync.Mutex
	rows      []*models.Application
	createErr error
}

func (f *fakeApplications) Create(_ context.Context, a *models.Application) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = primitive.NewObjectID()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	f.rows = append(f.rows, a)
	return nil
}

func (f *fakeApplications) GetByID(_ context.Context, id primitive.ObjectID) (*models.Application, error) {
	for _, a := range f.rows {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeApplications) ExistsForJobUser(_ context.Context, jobID, userID primitive.ObjectID) (bool, error) {
	for _, a := range f.rows {
		if a.Job == jobID && a.User == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApplications) list(match func(*models.Application) bool) []models.Application {
	out := []models.Application{}
	for _, a := range f.rows {
		if match(a) {
			out = append(out, *a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeApplications) ListByJob(_ context.Context, jobID primitive.ObjectID) ([]models.Application, error) {
	return f.list(func(a *models.Application) bool { return a.Job == jobID }), nil
}

func (f *fakeApplications) ListByCompany(_ context.Context, companyID primitive.ObjectID) ([]models.Application, error) {
	return f.list(func(a *models.Application) bool { return a.Company == companyID }), nil
}

func (f *fakeApplications) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Application, error) {
	return f.list(func(a *models.Application) bool { return a.User == userID }), nil
}

func (f *fakeApplications) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.ApplicationStatus) (*models.Application, error) {
	for _, a := range f.rows {
		if a.ID == id {
			a.Status = status
			cp := *a
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

type fakeStore struct {
	uploadErr error
	uploaded  map[string][]byte
	deleted   []string
}

func newFakeStore() *fakeStore { return &fakeStore{uploaded: map[string][]byte{}} }

func (f *fakeStore) Upload(_ context.Context, objectName, _ string, r io.Reader) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.uploaded[objectName] = b
	return "https://storage.example.com/bucket/" + objectName, nil
}

func (f *fakeStore) Delete(_ context.Context, objectName string) error {
	f.deleted = append(f.deleted, objectName)
	delete(f.uploaded, objectName)
	return nil
}

type signingStore struct{ *fakeStore }

func (signingStore) SignedGetURL(_ context.Context, objectName string, ttl time.Duration) (string, error) {
	return "https://signed.example.com/" + objectName + "?ttl=" + ttl.String(), nil
}

type fakePublisher struct {
	events []models.ApplicationEvent
}

func (f *fakePublisher) Publish(_ context.Context, ev models.ApplicationEvent) error {
	f.events = append(f.events, ev)
	return nil
}

type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (m *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func (m *memCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type fakeProfiles struct {
	byUser map[string]*models.Profile
}

func (f *fakeProfiles) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	p, ok := f.byUser[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, p *models.Profile) error {
	cp := *p
	f.byUser[p.UserID] = &cp
	return nil
}

type fakeResumeFiles struct {
	rows []models.ResumeFile
}

func (f *fakeResumeFiles) Insert(_ context.Context, r *models.ResumeFile) error {
	f.rows = append(f.rows, *r)
	return nil
}

func (f *fakeResumeFiles) LatestByUser(_ context.Context, userID string) (*models.ResumeFile, error) {
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == userID {
			r := f.rows[i]
			return &r, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeResumeFiles) ListByUser(_ context.Context, userID string, limit int) ([]models.ResumeFile, error) {
	var out []models.ResumeFile
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

type fakeLLM struct {
	out    string
	err    error
	system string
	prompt string
}

func (f *fakeLLM) GenerateJSON(_ context.Context, system, prompt string) (string, error) {
	f.system, f.prompt = system, prompt
	return f.out, f.err
}

func (f *fakeLLM) Close() error { return nil }

type fakeTokens struct{}

func (fakeTokens) Issue(userID, role string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, errors.New("empty subject")
	}
	return "token-" + userID + "-" + role, time.Now().Add(time.Hour), nil
}

func ptr[T any](v T) *T { return &v }
