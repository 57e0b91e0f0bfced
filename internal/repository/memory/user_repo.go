package memory

import (
	"sort"
	"strings"

	"Nova_Community/internal/model"
	"Nova_Community/internal/pkg"
)

// UserRepository 用户存储（身份库），用户名索引保证唯一且大小写敏感
type UserRepository struct {
	Store *Store
}

// Create 注册新用户，id 顺序分配。用户名重复返回 ErrDuplicateUsername。
func (r *UserRepository) Create(username, email, password, avatarURL string, tags []string) (int64, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usernameIndex[username]; exists {
		return 0, pkg.ErrDuplicateUsername
	}

	id := s.nextUserID
	s.nextUserID++

	s.users[id] = &model.User{
		ID:              id,
		Username:        username,
		Email:           email,
		Password:        password,
		AvatarURL:       avatarURL,
		Tags:            append([]string(nil), tags...),
		PendingRequests: make(map[int64]struct{}),
	}
	s.usernameIndex[username] = id
	s.touch()
	return id, nil
}

// FindByUsername 登录用：按用户名取用户
func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	s := r.Store
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	return copyUser(s.users[id]), nil
}

// FindByID 返回用户副本，调用方改副本不影响库内状态
func (r *UserRepository) FindByID(id int64) (*model.User, error) {
	s := r.Store
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	return copyUser(u), nil
}

// UpdateProfile 更新邮箱/头像/标签，用户不存在返回 ErrNotFound
func (r *UserRepository) UpdateProfile(id int64, email, avatarURL string, tags []string) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return pkg.ErrNotFound
	}
	u.Email = email
	u.AvatarURL = avatarURL
	u.Tags = append([]string(nil), tags...)
	s.touch()
	return nil
}

// Search 按用户名子串搜索，tagFilter 非空时要求命中该兴趣标签
func (r *UserRepository) Search(query, tagFilter string) []*model.User {
	s := r.Store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.User
	for _, u := range s.users {
		if query != "" && !strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) {
			continue
		}
		if tagFilter != "" && !hasTag(u.Tags, tagFilter) {
			continue
		}
		out = append(out, copyUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

func copyUser(u *model.User) *model.User {
	c := *u
	c.Tags = append([]string(nil), u.Tags...)
	c.PendingRequests = make(map[int64]struct{}, len(u.PendingRequests))
	for id := range u.PendingRequests {
		c.PendingRequests[id] = struct{}{}
	}
	return &c
}
