package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

var activeJobs = bson.M{"isActive": true}

func byID(id primitive.ObjectID) bson.M { return bson.M{"_id": id} }

func jobListFilter(f JobFilter) bson.M {
	filter := bson.M{}
	if f.CompanyID != nil {
		filter["company"] = *f.CompanyID
	}
	return filter
}

// pageOf returns one page in newest-first order.
func pageOf(skip, limit int64) *options.FindOptions {
	return options.Find().SetSort(newestFirst).SetSkip(skip).SetLimit(limit)
}

// setFields builds a $set that also stamps updatedAt. fields is not modified.
func setFields(fields map[string]any, now time.Time) bson.M {
	set := make(bson.M, len(fields)+1)
	for k, v := range fields {
		set[k] = v
	}
	set["updatedAt"] = now
	return bson.M{"$set": set}
}

func applicationOf(jobID, userID primitive.ObjectID) bson.M {
	return bson.M{"job": jobID, "user": userID}
}

func addApplication(applicationID primitive.ObjectID) bson.M {
	return bson.M{"$addToSet": bson.M{"applications": applicationID}}
}

func salaryRangePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: activeJobs}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"min": bson.M{"$min": "$salaryMin"},
			"max": bson.M{"$max": "$salaryMax"},
		}}},
	}
}
