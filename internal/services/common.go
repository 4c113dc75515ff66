package services

import (
	"io"
	"strings"

	"github.com/yoockh/hirex/internal/models"
	"github.com/yoockh/hirex/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Caller is the authenticated identity a request acts as.
type Caller struct {
	UserID string
	Role   string
}

func (c Caller) IsAdmin() bool { return c.Role == string(models.RoleAdmin) }

// owns reports whether the caller owns the company or is an admin.
func (c Caller) owns(company *models.Company) bool {
	if c.IsAdmin() {
		return true
	}
	return company != nil && company.UserID.Hex() == c.UserID
}

// FileInput is an uploaded file already opened by the transport layer.
type FileInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func parseID(op, what, raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, utils.E(utils.CodeInvalidArgument, op, "invalid "+what+" id", err)
	}
	return id, nil
}

func callerID(op string, c Caller) (primitive.ObjectID, error) {
	if c.UserID == "" {
		return primitive.NilObjectID, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}
	id, err := primitive.ObjectIDFromHex(c.UserID)
	if err != nil {
		return primitive.NilObjectID, utils.E(utils.CodeUnauthorized, op, "unauthorized", err)
	}
	return id, nil
}
