package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tenanthub/internal/database"
	"tenanthub/internal/domain"
	"tenanthub/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// UserService is the credential-checking collaborator: registration hashes
// with bcrypt, Authenticate compares hashes and maintains last_login.
type UserService struct {
	repo     domain.UserRepository
	sessions domain.SessionRepository
	logger   *zerolog.Logger
}

func NewUserService(repo domain.UserRepository, sessions domain.SessionRepository, logger *zerolog.Logger) *UserService {
	return &UserService{repo: repo, sessions: sessions, logger: logger}
}

func (s *UserService) Register(ctx context.Context, username, email, password, firstName, lastName string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return nil, validation("username and email are required")
	}
	if len(password) < 8 {
		return nil, validation("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the password and opens a session on success.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, *models.Session, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := s.repo.UpdateUserLastLogin(ctx, user.ID); err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("update last login")
	}

	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: time.Now(),
		LastSeen:  time.Now(),
	}
	if s.sessions != nil {
		if err := s.sessions.SetSession(ctx, session); err != nil {
			s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("store session")
		}
	}

	return user, session, nil
}

func (s *UserService) Logout(ctx context.Context, token string) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.ClearSession(ctx, token)
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, user *models.User) error {
	return s.repo.UpdateUserProfile(ctx, user)
}

func (s *UserService) DeactivateUser(ctx context.Context, id int64) error {
	return s.repo.SetUserActive(ctx, id, false)
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

func (s *UserService) UserExists(ctx context.Context, id int64) (bool, error) {
	return s.repo.UserExists(ctx, id)
}
