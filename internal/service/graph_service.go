package service

import (
	"Nova_Community/internal/model"
	"Nova_Community/internal/repository/memory"
)

// GraphService 好友图和图算法的入口。
// 好友列表、推荐结果都会顺带解析出用户名方便展示。
type GraphService struct {
	repo  *memory.GraphRepository
	users *memory.UserRepository
}

func NewGraphService(store *memory.Store) *GraphService {
	return &GraphService{
		repo:  &memory.GraphRepository{Store: store},
		users: &memory.UserRepository{Store: store},
	}
}

// AddFriendship 直接建边（调试/导入用，正常流程走请求-接受）
func (s *GraphService) AddFriendship(u, v int64) error {
	if _, err := s.users.FindByID(u); err != nil {
		return err
	}
	if _, err := s.users.FindByID(v); err != nil {
		return err
	}
	s.repo.AddFriendship(u, v)
	return nil
}

func (s *GraphService) RemoveFriendship(u, v int64) {
	s.repo.RemoveFriendship(u, v)
}

func (s *GraphService) FriendList(id int64) []*model.User {
	return s.resolveUsers(s.repo.Friends(id))
}

func (s *GraphService) RelationDegree(start, target int64) int {
	return s.repo.RelationDegree(start, target)
}

func (s *GraphService) ConnectionsByDegree(start int64, degree int) []*model.User {
	return s.resolveUsers(s.repo.ConnectionsByDegree(start, degree))
}

func (s *GraphService) Recommend(userID int64) []model.Recommendation {
	return s.repo.Recommend(userID)
}

func (s *GraphService) SendRequest(senderID, targetID int64) error {
	return s.repo.SendRequest(senderID, targetID)
}

func (s *GraphService) AcceptRequest(userID, requesterID int64) error {
	return s.repo.AcceptRequest(userID, requesterID)
}

func (s *GraphService) DeclineRequest(userID, requesterID int64) error {
	return s.repo.DeclineRequest(userID, requesterID)
}

func (s *GraphService) PendingRequests(userID int64) ([]*model.User, error) {
	ids, err := s.repo.PendingRequests(userID)
	if err != nil {
		return nil, err
	}
	return s.resolveUsers(ids), nil
}

func (s *GraphService) RelationStatus(me, target int64) string {
	return s.repo.RelationStatus(me, target)
}

func (s *GraphService) resolveUsers(ids []int64) []*model.User {
	out := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if u, err := s.users.FindByID(id); err == nil {
			out = append(out, u)
		}
	}
	return out
}
