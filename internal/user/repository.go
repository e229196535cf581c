package user

import (
	"context"
	"errors"
	"time"

	"github.com/thesrcielos/ZombieDefense/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(ctx context.Context, email, password, displayName string) (*User, error)
	ValidateUser(ctx context.Context, email, password string) (*User, error)
	GetUser(ctx context.Context, id uint) (*User, error)
	UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*Profile, error)
}

type GormUserRepository struct {
	db         *gorm.DB
	bcryptCost int
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db, bcryptCost: bcrypt.DefaultCost}
}

// SetBcryptCost overrides the hashing cost; tests use bcrypt.MinCost.
func (r *GormUserRepository) SetBcryptCost(cost int) {
	r.bcryptCost = cost
}

var errInvalidCredentials = errors.New("invalid credentials")

// CreateUser stores the user, its profile and an empty stats row in one
// transaction.
func (r *GormUserRepository) CreateUser(ctx context.Context, email, password, displayName string) (*User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), r.bcryptCost)
	if err != nil {
		return nil, apperrors.Internal("error hashing password", err)
	}

	newUser := User{
		Email:    email,
		Password: string(hashed),
		Profile:  &Profile{DisplayName: displayName},
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.Conflict("user already exists", nil)
		}
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		return tx.Create(&UserStats{UserID: newUser.ID}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperrors.Conflict("user already exists", err)
	}
	if err != nil {
		return nil, apperrors.FromDB(err, "user not found")
	}
	return &newUser, nil
}

func (r *GormUserRepository) ValidateUser(ctx context.Context, email, password string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Preload("Profile").Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, apperrors.FromDB(err, "user not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	return &u, nil
}

func (r *GormUserRepository) GetUser(ctx context.Context, id uint) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&u, id).Error; err != nil {
		return nil, apperrors.FromDB(err, "user not found")
	}
	return &u, nil
}

func (r *GormUserRepository) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*Profile, error) {
	var profile Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&profile, "user_id = ?", userID).Error; err != nil {
			return err
		}
		if update.DisplayName != nil {
			profile.DisplayName = *update.DisplayName
		}
		if update.AvatarURL != nil {
			profile.AvatarURL = update.AvatarURL
		}
		profile.UpdatedAt = time.Now()
		return tx.Save(&profile).Error
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "profile not found")
	}
	return &profile, nil
}
