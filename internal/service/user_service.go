package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"Nova_Community/internal/model"
	"Nova_Community/internal/pkg"
	"Nova_Community/internal/repository/memory"
)

type UserService struct {
	repo *memory.UserRepository
}

func NewUserService(store *memory.Store) *UserService {
	return &UserService{
		repo: &memory.UserRepository{Store: store},
	}
}

// Register 注册。密码哈希后入库，引擎把哈希当不透明凭证保存。
func (s *UserService) Register(username, password, email, avatarURL string, tags []string) (int64, error) {
	if username == "" {
		return 0, errors.New("username required")
	}
	if password == "" {
		return 0, errors.New("password required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	return s.repo.Create(username, email, string(hash), avatarURL, tags)
}

// Login 校验凭证并签发 token 对
func (s *UserService) Login(username, password string) (int64, *pkg.Pair, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		return 0, nil, pkg.ErrNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return 0, nil, pkg.ErrInvalidCredential
	}

	token, err := pkg.GeneratePair(user.ID)
	if err != nil {
		return 0, nil, err
	}
	return user.ID, token, nil
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	return pkg.Refresh(refreshToken)
}

func (s *UserService) GetUser(id int64) (*model.User, error) {
	return s.repo.FindByID(id)
}

func (s *UserService) UpdateProfile(id int64, email, avatarURL string, tags []string) error {
	return s.repo.UpdateProfile(id, email, avatarURL, tags)
}

func (s *UserService) Search(query, tagFilter string) []*model.User {
	return s.repo.Search(query, tagFilter)
}
