package mocks

import (
	"context"

	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/stretchr/testify/mock"
)

type UserRepository struct {
	mock.Mock
}

func (u *UserRepository) Create(ctx context.Context, user *model.User) error {
	args := u.Called(ctx, user)
	return args.Error(0)
}

func (u *UserRepository) GetByID(id int64) (*model.User, error) {
	args := u.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (u *UserRepository) List(search string, limit int) ([]model.User, error) {
	args := u.Called(search, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (u *UserRepository) UpdateRole(ctx context.Context, userID int64, role model.Role) error {
	args := u.Called(ctx, userID, role)
	return args.Error(0)
}
