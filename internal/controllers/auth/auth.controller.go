package authController

import (
	"context"
	"errors"
	"strings"
	"time"

	"housemanagement/internal/database"
	. "housemanagement/internal/models"
	"housemanagement/internal/repositories"
	"housemanagement/internal/services"
	"housemanagement/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	MsgRequired      = "This field is required."
	MsgInvalidEmail  = "Enter a valid email address."
	MsgShortPassword = "This password is too short. It must contain at least 8 characters."
	minPasswordLen   = 8
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type RegisterRequest struct {
	Username  string `json:"username"   form:"username"`
	Email     string `json:"email"      form:"email"`
	Password  string `json:"password"   form:"password"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name"  form:"last_name"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Remember bool   `json:"remember" form:"remember"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type AuthControllerInterface interface {
	Register(ctx context.Context, request *RegisterRequest) (*User, error)
	Login(ctx context.Context, request *LoginRequest) (*LoginResponse, error)
}

type AuthController struct {
	userRepo    repositories.UserRepository
	authService *services.AuthService
	db          database.DB
	log         logger.Logger
}

func New(services services.Service, repos repositories.Repository, db database.DB) AuthControllerInterface {
	return &AuthController{
		userRepo:    repos.User,
		authService: services.Auth,
		db:          db,
		log:         logger.New("authController"),
	}
}

func (c *AuthController) Register(ctx context.Context, request *RegisterRequest) (*User, error) {
	log := c.log.Function("Register").TraceFromContext(ctx)

	errs := types.NewValidationError()
	username := strings.TrimSpace(request.Username)
	email := strings.TrimSpace(request.Email)
	if username == "" {
		errs.Add("username", MsgRequired)
	}
	if email != "" && !strings.Contains(email, "@") {
		errs.Add("email", MsgInvalidEmail)
	}
	if len(request.Password) < minPasswordLen {
		errs.Add("password", MsgShortPassword)
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	if _, err := c.userRepo.GetByUsername(ctx, c.db.SQL, username); err == nil {
		return nil, types.FieldError("username", repositories.MsgUsernameTaken)
	} else if !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}

	hash, err := services.HashPassword(request.Password)
	if err != nil {
		return nil, log.Err("failed to hash password", err)
	}

	user := &User{
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(request.FirstName),
		LastName:     strings.TrimSpace(request.LastName),
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := c.userRepo.Create(ctx, c.db.SQL, user); err != nil {
		return nil, err
	}

	log.Info("User registered", "userID", user.ID, "username", user.Username)
	return user, nil
}

func (c *AuthController) Login(ctx context.Context, request *LoginRequest) (*LoginResponse, error) {
	log := c.log.Function("Login").TraceFromContext(ctx)

	user, err := c.userRepo.GetByUsername(ctx, c.db.SQL, strings.TrimSpace(request.Username))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive || !services.CheckPassword(user.PasswordHash, request.Password) {
		log.Info("login rejected", "username", user.Username)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := c.authService.IssueToken(user, request.Remember)
	if err != nil {
		return nil, log.Err("failed to issue token", err, "userID", user.ID)
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := c.userRepo.Update(ctx, c.db.SQL, user); err != nil {
		log.Warn("failed to record last login", "userID", user.ID, "error", err)
	}

	return &LoginResponse{Token: token, ExpiresAt: expiresAt, User: user.ToResponse()}, nil
}
