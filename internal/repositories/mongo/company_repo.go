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

type CompanyRepository interface {
	Create(ctx context.Context, c *models.Company) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error)
	List(ctx context.Context, skip, limit int64) ([]models.Company, int64, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Company, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Company, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type companyRepo struct {
	col *mongo.Collection
}

func NewCompanyRepo(db *mongo.Database) CompanyRepository {
	return &companyRepo{col: db.Collection("companies")}
}

func (r *companyRepo) Create(ctx context.Context, c *models.Company) error {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	if c.Benefits == nil {
		c.Benefits = []string{}
	}
	res, err := r.col.InsertOne(ctx, c)
	if mongo.IsDuplicateKeyError(err) {
		return utils.ErrDuplicate
	}
	if err != nil {
		return err
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *companyRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error) {
	var c models.Company
	err := r.col.FindOne(ctx, byID(id)).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &c, err
}

func (r *companyRepo) List(ctx context.Context, skip, limit int64) ([]models.Company, int64, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	cur, err := r.col.Find(ctx, bson.M{}, pageOf(skip, limit))
	if err != nil {
		return nil, 0, err
	}
	var out []models.Company
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *companyRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Company, error) {
	cur, err := r.col.Find(ctx, bson.M{"userId": userID}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	var out []models.Company
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *companyRepo) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Company, error) {
	var c models.Company
	err := r.col.FindOneAndUpdate(ctx,
		byID(id),
		setFields(fields, time.Now().UTC()),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, utils.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return nil, utils.ErrDuplicate
	case err != nil:
		return nil, err
	}
	return &c, nil
}

func (r *companyRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}
