package mongo

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/yoockh/hirex/internal/models"
	"github.com/yoockh/hirex/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type JobFilter struct {
	CompanyID *primitive.ObjectID
}

type JobRepository interface {
	Create(ctx context.Context, j *models.Job) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error)
	List(ctx context.Context, f JobFilter, skip, limit int64) ([]models.Job, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Job, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddApplication(ctx context.Context, jobID, applicationID primitive.ObjectID) error
	FilterOptions(ctx context.Context) (*models.JobFilterOptions, error)
}

type jobRepo struct {
	col       *mongo.Collection
	companies *mongo.Collection
}

func NewJobRepo(db *mongo.Database) JobRepository {
	return &jobRepo{col: db.Collection("jobs"), companies: db.Collection("companies")}
}

func (r *jobRepo) Create(ctx context.Context, j *models.Job) error {
	now := time.Now().UTC()
	j.CreatedAt, j.UpdatedAt = now, now
	res, err := r.col.InsertOne(ctx, j)
	if err != nil {
		return err
	}
	j.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error) {
	var j models.Job
	err := r.col.FindOne(ctx, byID(id)).Decode(&j)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &j, err
}

func (r *jobRepo) List(ctx context.Context, f JobFilter, skip, limit int64) ([]models.Job, int64, error) {
	filter := jobListFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := r.col.Find(ctx, filter, pageOf(skip, limit))
	if err != nil {
		return nil, 0, err
	}
	var out []models.Job
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *jobRepo) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Job, error) {
	var j models.Job
	err := r.col.FindOneAndUpdate(ctx,
		byID(id),
		setFields(fields, time.Now().UTC()),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&j)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *jobRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// AddApplication is a set-add; repeating it with the same id is a no-op.
func (r *jobRepo) AddApplication(ctx context.Context, jobID, applicationID primitive.ObjectID) error {
	res, err := r.col.UpdateOne(ctx, byID(jobID), addApplication(applicationID))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *jobRepo) FilterOptions(ctx context.Context) (*models.JobFilterOptions, error) {
	out := &models.JobFilterOptions{Skills: []string{}, Companies: []models.CompanyRef{}}

	rawSkills, err := r.col.Distinct(ctx, "skills", activeJobs)
	if err != nil {
		return nil, err
	}
	for _, v := range rawSkills {
		if s, ok := v.(string); ok && s != "" {
			out.Skills = append(out.Skills, s)
		}
	}
	sort.Strings(out.Skills)

	rawCompanies, err := r.col.Distinct(ctx, "company", activeJobs)
	if err != nil {
		return nil, err
	}
	if len(rawCompanies) > 0 {
		cur, err := r.companies.Find(ctx,
			bson.M{"_id": bson.M{"$in": rawCompanies}},
			options.Find().
				SetProjection(bson.M{"name": 1, "logo": 1}).
				SetSort(bson.D{{Key: "name", Value: 1}}),
		)
		if err != nil {
			return nil, err
		}
		if err := cur.All(ctx, &out.Companies); err != nil {
			return nil, err
		}
	}

	cur, err := r.col.Aggregate(ctx, salaryRangePipeline())
	if err != nil {
		return nil, err
	}
	var ranges []models.SalaryRange
	if err := cur.All(ctx, &ranges); err != nil {
		return nil, err
	}
	if len(ranges) > 0 {
		out.SalaryRange = ranges[0]
	}
	return out, nil
}
