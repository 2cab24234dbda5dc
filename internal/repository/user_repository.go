package repository

import (
	"context"

	"github.com/google/uuid"

	"sweetshop/internal/db"
	"sweetshop/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepository struct {
	gw *db.Gateway
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(gw *db.Gateway) UserRepository {
	return &userRepository{gw: gw}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	dbc, err := r.gw.DB(ctx)
	if err != nil {
		return err
	}
	return dbc.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	dbc, err := r.gw.DB(ctx)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := dbc.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	dbc, err := r.gw.DB(ctx)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := dbc.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
