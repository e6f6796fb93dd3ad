package service

import (
	"context"

	"github.com/xxxsen/mauth/internal/model"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetUserData(ctx context.Context, userID string) (model.UserData, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.UserData{}, err
	}
	return user.Data(), nil
}
