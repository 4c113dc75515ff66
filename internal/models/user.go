package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RoleUser     UserRole = "user"
	RoleEmployer UserRole = "employer"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password,omitempty" json:"-"`
	PhoneNumber string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Role        UserRole           `bson:"role" json:"role"`
	Provider    string             `bson:"provider" json:"provider"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
