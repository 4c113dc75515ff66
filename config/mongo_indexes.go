package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes(dbName string) error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}
	db := MongoClient.Database(dbName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("uniq_email").SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("companies").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetName("uniq_user_name").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("by_created"),
		},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("jobs").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "company", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("by_company_created"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("by_created"),
		},
	})
	if err != nil {
		return err
	}

	// (job, user) is not unique; duplicates are rejected by a pre-check.
	_, err = db.Collection("applications").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "job", Value: 1}, {Key: "user", Value: 1}},
			Options: options.Index().SetName("by_job_user"),
		},
		{
			Keys:    bson.D{{Key: "company", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("by_company_created"),
		},
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("by_user_created"),
		},
	})
	return err
}
