package service

import (
	"context"
	"strings"

	"tenanthub/internal/database"
	"tenanthub/internal/domain"
	"tenanthub/internal/events"
	"tenanthub/internal/models"

	"github.com/rs/zerolog"
)

// MessagingService gates every thread operation behind participation checks.
type MessagingService struct {
	repo     domain.MessagingRepository
	users    domain.UserDirectory
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewMessagingService(repo domain.MessagingRepository, users domain.UserDirectory, eventBus domain.EventPublisher, logger *zerolog.Logger) *MessagingService {
	return &MessagingService{repo: repo, users: users, eventBus: eventBus, logger: logger}
}

// StartThread creates a thread with the given participants. At least two
// distinct users are required.
func (s *MessagingService) StartThread(ctx context.Context, participants []int64) (*models.Thread, error) {
	seen := make(map[int64]struct{}, len(participants))
	distinct := make([]int64, 0, len(participants))
	for _, id := range participants {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	if len(distinct) < 2 {
		return nil, validation("a thread needs at least two participants")
	}

	for _, id := range distinct {
		exists, err := s.users.UserExists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, database.ErrNotFound
		}
	}

	thread, err := s.repo.CreateThread(ctx, distinct)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("thread_id", thread.ID).Int("participants", len(distinct)).Msg("thread created")
	return thread, nil
}

func (s *MessagingService) GetThread(ctx context.Context, threadID, userID int64) (*models.Thread, error) {
	if err := s.requireParticipant(ctx, threadID, userID); err != nil {
		return nil, err
	}
	return s.repo.GetThread(ctx, threadID)
}

func (s *MessagingService) GetThreadsForUser(ctx context.Context, userID int64) ([]*models.Thread, error) {
	return s.repo.GetThreadsForUser(ctx, userID)
}

func (s *MessagingService) AddParticipant(ctx context.Context, threadID, byUserID, newUserID int64) error {
	if err := s.requireParticipant(ctx, threadID, byUserID); err != nil {
		return err
	}
	exists, err := s.users.UserExists(ctx, newUserID)
	if err != nil {
		return err
	}
	if !exists {
		return database.ErrNotFound
	}
	return s.repo.AddParticipant(ctx, threadID, newUserID)
}

func (s *MessagingService) LeaveThread(ctx context.Context, threadID, userID int64) error {
	if err := s.requireParticipant(ctx, threadID, userID); err != nil {
		return err
	}
	return s.repo.RemoveParticipant(ctx, threadID, userID)
}

// SendMessage stores the message and announces it; only participants may post.
func (s *MessagingService) SendMessage(ctx context.Context, threadID, senderID int64, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, validation("message content is required")
	}
	if err := s.requireParticipant(ctx, threadID, senderID); err != nil {
		return nil, err
	}

	msg := &models.Message{ThreadID: threadID, SenderID: senderID, Content: content}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		payload := events.MessageEventPayload{MessageID: msg.ID, ThreadID: threadID, SenderID: senderID}
		if err := s.eventBus.PublishJSON(events.EventMessageSent, payload); err != nil {
			s.logger.Error().Err(err).Int64("message_id", msg.ID).Msg("publish message event")
		}
	}
	return msg, nil
}

func (s *MessagingService) GetThreadMessages(ctx context.Context, threadID, userID int64) ([]*models.Message, error) {
	if err := s.requireParticipant(ctx, threadID, userID); err != nil {
		return nil, err
	}
	return s.repo.GetThreadMessages(ctx, threadID)
}

// MarkRead flips the read flag; only a recipient may mark a message read.
func (s *MessagingService) MarkRead(ctx context.Context, messageID, userID int64) error {
	msg, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID == userID {
		return validation("sender cannot mark own message read")
	}
	if err := s.requireParticipant(ctx, msg.ThreadID, userID); err != nil {
		return err
	}
	return s.repo.SetMessageRead(ctx, messageID, true)
}

// DeleteMessage soft-deletes; only the sender may delete their message.
func (s *MessagingService) DeleteMessage(ctx context.Context, messageID, userID int64) error {
	msg, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != userID {
		return database.ErrNotParticipant
	}
	return s.repo.SetMessageDeleted(ctx, messageID, true)
}

func (s *MessagingService) UnreadCount(ctx context.Context, threadID, userID int64) (int, error) {
	if err := s.requireParticipant(ctx, threadID, userID); err != nil {
		return 0, err
	}
	return s.repo.UnreadCount(ctx, threadID, userID)
}

func (s *MessagingService) LastMessage(ctx context.Context, threadID, userID int64) (*models.Message, error) {
	if err := s.requireParticipant(ctx, threadID, userID); err != nil {
		return nil, err
	}
	return s.repo.LastMessage(ctx, threadID)
}

func (s *MessagingService) requireParticipant(ctx context.Context, threadID, userID int64) error {
	ok, err := s.repo.HasParticipant(ctx, threadID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return database.ErrNotParticipant
	}
	return nil
}
