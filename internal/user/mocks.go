package user

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, email, password, displayName string) (*User, error) {
	args := m.Called(ctx, email, password, displayName)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *MockUserRepository) ValidateUser(ctx context.Context, email, password string) (*User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *MockUserRepository) GetUser(ctx context.Context, id uint) (*User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*Profile, error) {
	args := m.Called(ctx, userID, update)
	p, _ := args.Get(0).(*Profile)
	return p, args.Error(1)
}
