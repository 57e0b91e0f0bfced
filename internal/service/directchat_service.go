package service

import (
	"errors"

	"Nova_Community/internal/model"
	"Nova_Community/internal/repository/memory"
)

type DirectChatService struct {
	repo  *memory.DirectChatRepository
	users *memory.UserRepository
}

func NewDirectChatService(store *memory.Store) *DirectChatService {
	return &DirectChatService{
		repo:  &memory.DirectChatRepository{Store: store},
		users: &memory.UserRepository{Store: store},
	}
}

func (s *DirectChatService) Send(senderID, receiverID int64, content string, replyToID int64, msgType, mediaURL string) (*model.DirectMessage, error) {
	if content == "" && mediaURL == "" {
		return nil, errors.New("message content required")
	}
	return s.repo.Send(senderID, receiverID, content, replyToID, msgType, mediaURL)
}

func (s *DirectChatService) React(userID, friendID, msgID int64, reaction string) error {
	return s.repo.React(userID, friendID, msgID, reaction)
}

func (s *DirectChatService) Delete(userID, friendID, msgID int64) error {
	return s.repo.Delete(userID, friendID, msgID)
}

func (s *DirectChatService) List(viewerID, friendID int64, offset, limit int) ([]*model.DirectMessage, error) {
	return s.repo.List(viewerID, friendID, offset, limit)
}

// ActiveChats 返回有私聊往来的用户
func (s *DirectChatService) ActiveChats(userID int64) []*model.User {
	ids := s.repo.ActiveChats(userID)
	out := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if u, err := s.users.FindByID(id); err == nil {
			out = append(out, u)
		}
	}
	return out
}
