package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"housemanagement/internal/database"
	. "housemanagement/internal/models"
	"housemanagement/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	USER_CACHE_EXPIRY = 24 * time.Hour
	USER_CACHE_PREFIX = "user"
)

const MsgUsernameTaken = "A user with that username already exists."

type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*User, error)
	Create(ctx context.Context, tx *gorm.DB, user *User) error
	Update(ctx context.Context, tx *gorm.DB, user *User) error
	UpsertProfile(ctx context.Context, tx *gorm.DB, profile *Profile) error
	AdminEmails(ctx context.Context, tx *gorm.DB) ([]string, error)
	ClearUserCache(ctx context.Context, userID uint)
}

type userRepository struct {
	cache database.CacheClient
}

func NewUserRepository(cache database.CacheClient) UserRepository {
	return &userRepository{cache: cache}
}

// GetByID serves the auth middleware, so it reads through the user cache.
func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*User, error) {
	log := logger.New("userRepository").TraceFromContext(ctx).Function("GetByID")

	var cached User
	found, err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		Get(&cached)
	if err != nil && !errors.Is(err, database.ErrCacheDisabled) {
		log.Warn("failed to get user from cache", "userID", id, "error", err)
	}
	if found {
		return &cached, nil
	}

	user, err := gorm.G[User](tx).Preload("Profile", nil).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, notFound(err)
	}

	err = database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		WithStruct(user).
		WithTTL(USER_CACHE_EXPIRY).
		Set()
	if err != nil && !errors.Is(err, database.ErrCacheDisabled) {
		log.Warn("failed to add user to cache", "userID", id, "error", err)
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(
	ctx context.Context,
	tx *gorm.DB,
	username string,
) (*User, error) {
	user, err := gorm.G[User](tx).
		Preload("Profile", nil).
		Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username))).
		First(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	log := logger.New("userRepository").TraceFromContext(ctx).Function("Create")

	if err := tx.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return types.FieldError("username", MsgUsernameTaken)
		}
		return log.Err("failed to create user", err, "username", user.Username)
	}

	return nil
}

// userUpdatableColumns leaves password_hash alone; cached users carry no hash.
var userUpdatableColumns = []string{
	"username",
	"email",
	"first_name",
	"last_name",
	"full_name",
	"is_staff",
	"is_superuser",
	"is_active",
	"last_login_at",
}

func (r *userRepository) Update(ctx context.Context, tx *gorm.DB, user *User) error {
	log := logger.New("userRepository").TraceFromContext(ctx).Function("Update")

	err := tx.WithContext(ctx).
		Model(user).
		Select(userUpdatableColumns).
		Updates(user).Error
	if err != nil {
		return log.Err("failed to update user", err, "userID", user.ID)
	}

	r.ClearUserCache(ctx, user.ID)
	return nil
}

func (r *userRepository) UpsertProfile(ctx context.Context, tx *gorm.DB, profile *Profile) error {
	log := logger.New("userRepository").TraceFromContext(ctx).Function("UpsertProfile")

	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"phone", "address", "national_id", "tax_id", "updated_at"}),
		}).
		Create(profile).Error
	if err != nil {
		return log.Err("failed to upsert profile", err, "userID", profile.UserID)
	}

	r.ClearUserCache(ctx, profile.UserID)
	return nil
}

// AdminEmails returns the non-empty addresses of every superuser.
func (r *userRepository) AdminEmails(ctx context.Context, tx *gorm.DB) ([]string, error) {
	log := logger.New("userRepository").TraceFromContext(ctx).Function("AdminEmails")

	var emails []string
	err := tx.WithContext(ctx).
		Model(&User{}).
		Where("is_superuser = ? AND is_active = ? AND email <> ''", true, true).
		Order("id").
		Pluck("email", &emails).Error
	if err != nil {
		return nil, log.Err("failed to load admin emails", err)
	}

	return emails, nil
}

func (r *userRepository) ClearUserCache(ctx context.Context, userID uint) {
	err := database.NewCacheBuilder(r.cache, userID).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		Delete()
	if err != nil && !errors.Is(err, database.ErrCacheDisabled) {
		logger.New("userRepository").TraceFromContext(ctx).
			Function("ClearUserCache").
			Warn("failed to clear user cache", "userID", userID, "error", err)
	}
}
