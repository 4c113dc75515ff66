package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SocialMedia struct {
	LinkedIn  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
}

type Company struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name" binding:"required"`
	Description string             `bson:"description" json:"description" binding:"required"`
	Industry    string             `bson:"industry" json:"industry" binding:"required"`
	CompanyType string             `bson:"companyType" json:"companyType" binding:"required"`
	CompanySize string             `bson:"companySize" json:"companySize" binding:"required"`
	FoundedYear int                `bson:"foundedYear,omitempty" json:"foundedYear,omitempty"`
	Website     string             `bson:"website,omitempty" json:"website,omitempty"`
	Email       string             `bson:"email" json:"email" binding:"required,email"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	City        string             `bson:"city" json:"city" binding:"required"`
	State       string             `bson:"state,omitempty" json:"state,omitempty"`
	Country     string             `bson:"country" json:"country" binding:"required"`
	ZipCode     string             `bson:"zipCode,omitempty" json:"zipCode,omitempty"`

	Logo         string `bson:"logo,omitempty" json:"logo,omitempty"`
	LogoPublicID string `bson:"logoPublicId,omitempty" json:"logoPublicId,omitempty"`

	SocialMedia SocialMedia `bson:"socialMedia" json:"socialMedia"`
	Benefits    []string    `bson:"benefits" json:"benefits"`
	Culture     string      `bson:"culture,omitempty" json:"culture,omitempty"`
	IsVerified  bool        `bson:"isVerified" json:"isVerified"`

	UserID primitive.ObjectID `bson:"userId" json:"userId"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
