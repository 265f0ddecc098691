package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"tenanthub/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockSessionStore struct {
	mock.Mock
}

func (m *mockSessionStore) GetSession(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *mockSessionStore) SetSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionStore) ClearSession(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockSessionStore) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func TestFailoverSessionRepository(t *testing.T) {
	primary := new(mockSessionStore)
	fallback := new(mockSessionStore)
	logger := zerolog.New(io.Discard)
	repo := NewFailoverSessionRepository(primary, fallback, &logger)
	ctx := context.Background()

	t.Run("PrimarySuccess", func(t *testing.T) {
		session := &models.Session{Token: "a", UserID: 1}
		primary.On("GetSession", ctx, "a").Return(session, nil).Once()

		got, err := repo.GetSession(ctx, "a")
		assert.NoError(t, err)
		assert.Equal(t, session, got)
		primary.AssertExpectations(t)
	})

	t.Run("PrimaryFailFallbackSuccess", func(t *testing.T) {
		session := &models.Session{Token: "b", UserID: 2}
		primary.On("GetSession", ctx, "b").Return(nil, errors.New("fail")).Once()
		fallback.On("GetSession", ctx, "b").Return(session, nil).Once()

		got, err := repo.GetSession(ctx, "b")
		assert.NoError(t, err)
		assert.Equal(t, session, got)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("SetGoesToFallbackWhileDown", func(t *testing.T) {
		repo.isDown.Store(true)
		repo.lastCheck = time.Now()

		session := &models.Session{Token: "c", UserID: 3}
		fallback.On("SetSession", ctx, session).Return(nil).Once()

		assert.NoError(t, repo.SetSession(ctx, session))
		fallback.AssertExpectations(t)
	})

	t.Run("RecoveryAttempt", func(t *testing.T) {
		repo.isDown.Store(true)
		repo.lastCheck = time.Now().Add(-2 * time.Minute)

		session := &models.Session{Token: "d", UserID: 4}
		primary.On("GetSession", ctx, "d").Return(session, nil).Once()

		got, err := repo.GetSession(ctx, "d")
		assert.NoError(t, err)
		assert.Equal(t, session, got)
		assert.False(t, repo.isDown.Load())
		primary.AssertExpectations(t)
	})

	t.Run("RecoveryAttemptFail", func(t *testing.T) {
		repo.isDown.Store(true)
		repo.lastCheck = time.Now().Add(-2 * time.Minute)

		primary.On("GetSession", ctx, "e").Return(nil, errors.New("still down")).Once()
		fallback.On("GetSession", ctx, "e").Return(nil, nil).Once()

		got, err := repo.GetSession(ctx, "e")
		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.True(t, repo.isDown.Load())
	})

	t.Run("RateLimitFallsBack", func(t *testing.T) {
		repo.isDown.Store(false)
		primary.On("CheckRateLimit", ctx, "k", 5, time.Minute).Return(false, errors.New("fail")).Once()
		fallback.On("CheckRateLimit", ctx, "k", 5, time.Minute).Return(true, nil).Once()

		allowed, err := repo.CheckRateLimit(ctx, "k", 5, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
	})
}
