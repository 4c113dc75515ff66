package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/hirex/internal/models"
	"github.com/yoockh/hirex/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ApplicationRepository interface {
	Create(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error)
	ExistsForJobUser(ctx context.Context, jobID, userID primitive.ObjectID) (bool, error)
	ListByJob(ctx context.Context, jobID primitive.ObjectID) ([]models.Application, error)
	ListByCompany(ctx context.Context, companyID primitive.ObjectID) ([]models.Application, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ApplicationStatus) (*models.Application, error)
}

type applicationRepo struct {
	col *mongo.Collection
}

func NewApplicationRepo(db *mongo.Database) ApplicationRepository {
	return &applicationRepo{col: db.Collection("applications")}
}

func (r *applicationRepo) Create(ctx context.Context, a *models.Application) error {
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	res, err := r.col.InsertOne(ctx, a)
	if err != nil {
		return err
	}
	a.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error) {
	var a models.Application
	err := r.col.FindOne(ctx, byID(id)).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &a, err
}

func (r *applicationRepo) ExistsForJobUser(ctx context.Context, jobID, userID primitive.ObjectID) (bool, error) {
	n, err := r.col.CountDocuments(ctx,
		applicationOf(jobID, userID),
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID primitive.ObjectID) ([]models.Application, error) {
	return r.listNewest(ctx, bson.M{"job": jobID})
}

func (r *applicationRepo) ListByCompany(ctx context.Context, companyID primitive.ObjectID) ([]models.Application, error) {
	return r.listNewest(ctx, bson.M{"company": companyID})
}

func (r *applicationRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Application, error) {
	return r.listNewest(ctx, bson.M{"user": userID})
}

func (r *applicationRepo) listNewest(ctx context.Context, filter bson.M) ([]models.Application, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	out := []models.Application{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ApplicationStatus) (*models.Application, error) {
	var a models.Application
	err := r.col.FindOneAndUpdate(ctx,
		byID(id),
		setFields(map[string]any{"status": status}, time.Now().UTC()),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
