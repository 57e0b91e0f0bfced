package service

import (
	"errors"

	"Nova_Community/internal/model"
	"Nova_Community/internal/repository/memory"
)

type MessageService struct {
	repo *memory.MessageRepository
}

func NewMessageService(store *memory.Store) *MessageService {
	return &MessageService{
		repo: &memory.MessageRepository{Store: store},
	}
}

func (s *MessageService) Post(commID, senderID int64, content, msgType, mediaURL string, replyToID int64) (*model.Message, model.ModResult, error) {
	if content == "" && mediaURL == "" {
		return nil, model.ModInvalid, errors.New("message content required")
	}
	m, res := s.repo.Post(commID, senderID, content, msgType, mediaURL, replyToID)
	return m, res, nil
}

func (s *MessageService) Upvote(commID, userID, msgID int64) error {
	return s.repo.Upvote(commID, userID, msgID)
}

func (s *MessageService) TogglePin(commID, actorID, msgID int64) model.ModResult {
	return s.repo.TogglePin(commID, actorID, msgID)
}

func (s *MessageService) Delete(commID, actorID, msgID int64) model.ModResult {
	return s.repo.Delete(commID, actorID, msgID)
}

func (s *MessageService) CreatePoll(commID, senderID int64, question string, allowMultiple bool, options []string) (*model.Message, model.ModResult, error) {
	if question == "" {
		return nil, model.ModInvalid, errors.New("poll question required")
	}
	if len(options) < 2 {
		return nil, model.ModInvalid, errors.New("poll needs at least two options")
	}
	m, res := s.repo.CreatePoll(commID, senderID, question, allowMultiple, options)
	return m, res, nil
}

func (s *MessageService) ToggleVote(commID, userID, msgID, optionID int64) error {
	return s.repo.ToggleVote(commID, userID, msgID, optionID)
}

func (s *MessageService) History(commID int64, offset, limit int) ([]*model.Message, error) {
	return s.repo.History(commID, offset, limit)
}
