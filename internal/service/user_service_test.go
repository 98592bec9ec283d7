package service

import (
	"context"
	"testing"

	"auth_service/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetUser(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewUserService(repo)

	repo.On("FindByID", mock.Anything, 1).Return(&model.User{ID: 1, Email: "john@example.com"}, nil)

	user, err := svc.GetUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", user.Email)
}

func TestGetUser_NotFound(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewUserService(repo)

	repo.On("FindByID", mock.Anything, 99).Return(nil, nil)

	_, err := svc.GetUser(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNoSuchUser)
}

func TestGetAllUsers(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewUserService(repo)

	repo.On("FindAll", mock.Anything).Return([]model.User{{ID: 1}, {ID: 2}}, nil)

	users, err := svc.GetAllUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestDeleteUser_NotFound(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewUserService(repo)

	repo.On("Delete", mock.Anything, 99).Return(pgx.ErrNoRows)

	err := svc.DeleteUser(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNoSuchUser)
}
