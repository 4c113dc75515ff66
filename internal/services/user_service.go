package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yoockh/hirex/internal/models"
	mongorepo "github.com/yoockh/hirex/internal/repositories/mongo"
	"github.com/yoockh/hirex/internal/utils"
)

// TokenIssuer mints access tokens for signed-in users.
type TokenIssuer interface {
	Issue(userID, role string) (string, time.Time, error)
}

// SignupInput cannot request the admin role; admins are provisioned out of band.
type SignupInput struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role" binding:"omitempty,oneof=user employer"`
}

type SigninInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

type UserService interface {
	Signup(ctx context.Context, in SignupInput) (*models.User, error)
	Signin(ctx context.Context, in SigninInput) (*Session, error)
	Get(ctx context.Context, caller Caller) (*models.User, error)
	Update(ctx context.Context, caller Caller, name, phone string) (*models.User, error)
	ChangePassword(ctx context.Context, caller Caller, in ChangePasswordInput) error
}

type userService struct {
	users  mongorepo.UserRepository
	tokens TokenIssuer
}

func NewUserService(users mongorepo.UserRepository, tokens TokenIssuer) UserService {
	return &userService{users: users, tokens: tokens}
}

func (s *userService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	const op = "UserService.Signup"

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := utils.Validate(op, in); err != nil {
		return nil, err
	}

	role := models.RoleUser
	if models.UserRole(in.Role) == models.RoleEmployer {
		role = models.RoleEmployer
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	u := &models.User{
		Name:        in.Name,
		Email:       in.Email,
		Password:    hash,
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Role:        role,
		Provider:    "credentials",
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "user already exists", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create user", err)
	}
	return u, nil
}

func (s *userService) Signin(ctx context.Context, in SigninInput) (*Session, error) {
	const op = "UserService.Signin"

	in.Email = strings.TrimSpace(in.Email)
	if err := utils.Validate(op, in); err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeUnauthorized, op, "invalid email or password", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	if u.Password == "" || utils.CheckPassword(u.Password, in.Password) != nil {
		return nil, utils.E(utils.CodeUnauthorized, op, "invalid email or password", nil)
	}

	role := string(u.Role)
	if role == "" {
		role = string(models.RoleUser)
	}
	token, exp, err := s.tokens.Issue(u.ID.Hex(), role)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return &Session{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s *userService) Get(ctx context.Context, caller Caller) (*models.User, error) {
	const op = "UserService.Get"

	id, err := callerID(op, caller)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(op, "user not found", "failed to load user", err)
	}
	return u, nil
}

func (s *userService) Update(ctx context.Context, caller Caller, name, phone string) (*models.User, error) {
	const op = "UserService.Update"

	id, err := callerID(op, caller)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if name = strings.TrimSpace(name); name != "" {
		fields["name"] = name
	}
	if phone = strings.TrimSpace(phone); phone != "" {
		fields["phoneNumber"] = phone
	}
	if len(fields) == 0 {
		return s.Get(ctx, caller)
	}
	u, err := s.users.Update(ctx, id, fields)
	if err != nil {
		return nil, notFoundOr(op, "user not found", "failed to update user", err)
	}
	return u, nil
}

func (s *userService) ChangePassword(ctx context.Context, caller Caller, in ChangePasswordInput) error {
	const op = "UserService.ChangePassword"

	id, err := callerID(op, caller)
	if err != nil {
		return err
	}
	if err := utils.Validate(op, in); err != nil {
		return err
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(op, "user not found", "failed to load user", err)
	}
	if utils.CheckPassword(u.Password, in.CurrentPassword) != nil {
		return utils.E(utils.CodeInvalidArgument, op, "current password is incorrect", nil)
	}

	hash, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return notFoundOr(op, "user not found", "failed to update password", err)
	}
	return nil
}
