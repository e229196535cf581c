package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/thesrcielos/ZombieDefense/internal/apperrors"
)

const (
	maxDisplayName = 50
	maxAvatarURL   = 200
)

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (u *UserService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = strings.TrimSpace(req.Name)
	}
	if email == "" || req.Password == "" || displayName == "" {
		return nil, apperrors.InvalidArgument("email, password and display_name are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.InvalidArgument("invalid email")
	}
	if len(displayName) > maxDisplayName {
		return nil, apperrors.InvalidArgument("display_name must not exceed 50 characters")
	}

	created, err := u.repo.CreateUser(ctx, email, req.Password, displayName)
	if err != nil {
		return nil, err
	}
	return u.authResponse(created)
}

func (u *UserService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperrors.InvalidArgument("email and password are required")
	}
	userRetrieved, err := u.repo.ValidateUser(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, errInvalidCredentials) {
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, err
	}
	return u.authResponse(userRetrieved)
}

func (u *UserService) Me(ctx context.Context, userID uint) (*User, error) {
	return u.repo.GetUser(ctx, userID)
}

// UpdateProfile only lets a user edit their own profile.
func (u *UserService) UpdateProfile(ctx context.Context, actingUserID, targetUserID uint, update ProfileUpdate) (*Profile, error) {
	if actingUserID != targetUserID {
		return nil, apperrors.Forbidden("unauthorized")
	}
	if update.DisplayName != nil {
		name := strings.TrimSpace(*update.DisplayName)
		if name == "" || len(name) > maxDisplayName {
			return nil, apperrors.InvalidArgument("display_name must be between 1 and 50 characters")
		}
		update.DisplayName = &name
	}
	if update.AvatarURL != nil && len(*update.AvatarURL) > maxAvatarURL {
		return nil, apperrors.InvalidArgument("avatar_url must not exceed 200 characters")
	}
	return u.repo.UpdateProfile(ctx, targetUserID, update)
}

func (u *UserService) authResponse(user *User) (*AuthResponse, error) {
	token, errJWT := GenerateJWT(user.ID)
	if errJWT != nil {
		return nil, apperrors.NewAppError(500, "error creating jwt token", errJWT)
	}
	return &AuthResponse{Token: token, User: user}, nil
}
