package service

import (
	"context"
	"io"
	"testing"

	"tenanthub/internal/database"
	"tenanthub/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserServiceForTest() (*UserService, *mockUserRepo, *mockSessionRepo) {
	repo := new(mockUserRepo)
	sessions := new(mockSessionRepo)
	logger := zerolog.New(io.Discard)
	return NewUserService(repo, sessions, &logger), repo, sessions
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password", func(t *testing.T) {
		svc, repo, _ := newUserServiceForTest()
		repo.On("CreateUser", ctx, mock.Anything).Return(nil).Once()

		user, err := svc.Register(ctx, "alice", "alice@example.com", "correcthorse", "Alice", "")
		require.NoError(t, err)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "correcthorse", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correcthorse")))
		repo.AssertExpectations(t)
	})

	t.Run("rejects blank identity", func(t *testing.T) {
		svc, _, _ := newUserServiceForTest()
		_, err := svc.Register(ctx, "  ", "alice@example.com", "correcthorse", "", "")
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)

		_, err = svc.Register(ctx, "alice", "", "correcthorse", "", "")
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("rejects short password", func(t *testing.T) {
		svc, _, _ := newUserServiceForTest()
		_, err := svc.Register(ctx, "alice", "alice@example.com", "short", "", "")
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("passes duplicate through", func(t *testing.T) {
		svc, repo, _ := newUserServiceForTest()
		repo.On("CreateUser", ctx, mock.Anything).Return(database.ErrDuplicate).Once()
		_, err := svc.Register(ctx, "alice", "alice@example.com", "correcthorse", "", "")
		assert.ErrorIs(t, err, database.ErrDuplicate)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("correcthorse"), bcrypt.MinCost)
	require.NoError(t, err)

	activeUser := func() *models.User {
		return &models.User{ID: 7, Username: "alice", PasswordHash: string(hash), IsActive: true}
	}

	t.Run("success opens a session", func(t *testing.T) {
		svc, repo, sessions := newUserServiceForTest()
		repo.On("GetUserByUsername", ctx, "alice").Return(activeUser(), nil).Once()
		repo.On("UpdateUserLastLogin", ctx, int64(7)).Return(nil).Once()
		sessions.On("SetSession", ctx, mock.Anything).Return(nil).Once()

		user, session, err := svc.Authenticate(ctx, "alice", "correcthorse")
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
		require.NotNil(t, session)
		assert.NotEmpty(t, session.Token)
		assert.Equal(t, int64(7), session.UserID)
		sessions.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, repo, _ := newUserServiceForTest()
		repo.On("GetUserByUsername", ctx, "alice").Return(activeUser(), nil).Once()
		repo.On("UpdateUserLastLogin", ctx, mock.Anything).Return(nil).Maybe()

		_, _, err := svc.Authenticate(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, repo, _ := newUserServiceForTest()
		repo.On("GetUserByUsername", ctx, "ghost").Return(nil, database.ErrNotFound).Once()

		// Ошибка та же, что и при неверном пароле
		_, _, err := svc.Authenticate(ctx, "ghost", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("deactivated user", func(t *testing.T) {
		svc, repo, _ := newUserServiceForTest()
		inactive := activeUser()
		inactive.IsActive = false
		repo.On("GetUserByUsername", ctx, "alice").Return(inactive, nil).Once()

		_, _, err := svc.Authenticate(ctx, "alice", "correcthorse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserService_Logout(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions := newUserServiceForTest()
	sessions.On("ClearSession", ctx, "tok").Return(nil).Once()
	assert.NoError(t, svc.Logout(ctx, "tok"))
	sessions.AssertExpectations(t)
}
