package service

import (
	"errors"

	"Nova_Community/internal/model"
	"Nova_Community/internal/repository/memory"
)

// CommunityService 社区与治理。治理方法把 ModResult 原样
// 往上传，错误分类的取舍见 pkg/errors.go 的注释。
type CommunityService struct {
	repo  *memory.CommunityRepository
	users *memory.UserRepository
}

func NewCommunityService(store *memory.Store) *CommunityService {
	return &CommunityService{
		repo:  &memory.CommunityRepository{Store: store},
		users: &memory.UserRepository{Store: store},
	}
}

func (s *CommunityService) Create(name, description string, tags []string, creatorID int64, coverURL string) (*model.Community, error) {
	if name == "" {
		return nil, errors.New("community name required")
	}
	return s.repo.Create(name, description, tags, creatorID, coverURL)
}

func (s *CommunityService) Join(userID, commID int64) model.ModResult {
	return s.repo.Join(userID, commID)
}

func (s *CommunityService) Leave(userID, commID int64) model.ModResult {
	return s.repo.Leave(userID, commID)
}

func (s *CommunityService) Ban(commID, actorID, targetID int64) model.ModResult {
	return s.repo.Ban(commID, actorID, targetID)
}

func (s *CommunityService) Unban(commID, actorID, targetID int64) model.ModResult {
	return s.repo.Unban(commID, actorID, targetID)
}

func (s *CommunityService) PromoteAdmin(commID, actorID, targetID int64) model.ModResult {
	return s.repo.PromoteAdmin(commID, actorID, targetID)
}

func (s *CommunityService) DemoteAdmin(commID, actorID, targetID int64) model.ModResult {
	return s.repo.DemoteAdmin(commID, actorID, targetID)
}

func (s *CommunityService) TransferOwnership(commID, actorID, targetID int64) model.ModResult {
	return s.repo.TransferOwnership(commID, actorID, targetID)
}

func (s *CommunityService) Get(commID int64) (*model.Community, error) {
	return s.repo.Get(commID)
}

func (s *CommunityService) List() []*model.Community {
	return s.repo.List()
}

func (s *CommunityService) Popular() []*model.Community {
	return s.repo.Popular()
}

func (s *CommunityService) Joined(userID int64) []*model.Community {
	return s.repo.Joined(userID)
}

func (s *CommunityService) Recommend(userID int64) []*model.Community {
	return s.repo.RecommendCommunities(userID)
}

// Members 成员列表，带用户名和 karma
func (s *CommunityService) Members(commID int64) ([]*model.User, error) {
	ids, err := s.repo.Members(commID)
	if err != nil {
		return nil, err
	}
	out := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if u, err := s.users.FindByID(id); err == nil {
			out = append(out, u)
		}
	}
	return out, nil
}
