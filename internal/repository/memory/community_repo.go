package memory

import (
	"fmt"
	"sort"

	"Nova_Community/internal/model"
	"Nova_Community/internal/pkg"
)

// CommunityRepository 社区与治理状态机。
// (用户, 社区) 的状态：outsider → member → moderator → admin，
// banned 与 member 互斥。治理操作返回 ModResult 标签，不抛 error。
type CommunityRepository struct {
	Store *Store
}

// Create 建社区，创建者自动成为成员和版主
func (r *CommunityRepository) Create(name, description string, tags []string, creatorID int64, coverURL string) (*model.Community, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[creatorID]; !ok {
		return nil, pkg.ErrNotFound
	}

	c := &model.Community{
		ID:          s.nextCommunityID,
		Name:        name,
		Description: description,
		CoverURL:    coverURL,
		Tags:        append([]string(nil), tags...),
		Members:     map[int64]struct{}{creatorID: {}},
		Moderators:  map[int64]struct{}{creatorID: {}},
		Admins:      make(map[int64]struct{}),
		BannedUsers: make(map[int64]struct{}),
		NextMsgID:   1,
	}
	s.nextCommunityID++
	s.communities[c.ID] = c
	s.touch()
	return copyCommunityMeta(c), nil
}

// Join 加入社区。被封禁的用户静默失败（状态不变）。
// 接管规则：插入后版主集合为空，则新人直接接任版主并发系统置顶公告。
func (r *CommunityRepository) Join(userID, commID int64) model.ModResult {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.communities[commID]
	if !ok {
		return model.ModNotFound
	}
	if _, ok := s.users[userID]; !ok {
		return model.ModNotFound
	}
	if c.IsBanned(userID) {
		return model.ModDenied
	}

	c.Members[userID] = struct{}{}

	if len(c.Moderators) == 0 {
		c.Moderators[userID] = struct{}{}
		s.appendSystemMessageLocked(c, fmt.Sprintf("%s has reclaimed this community and is now a moderator.", s.displayName(userID)))
	}
	s.touch()
	return model.ModOK
}

// Leave 退出社区。继任规则：退出者是最后一名版主且还有成员时，
// 自动提拔编号最小的成员，保证有成员的社区一次转移内恢复治理。
func (r *CommunityRepository) Leave(userID, commID int64) model.ModResult {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.communities[commID]
	if !ok {
		return model.ModNotFound
	}
	if !c.IsMember(userID) {
		return model.ModInvalid
	}

	delete(c.Members, userID)
	delete(c.Moderators, userID)
	delete(c.Admins, userID)

	if len(c.Moderators) == 0 && len(c.Members) > 0 {
		successor := lowestID(c.Members)
		c.Moderators[successor] = struct{}{}
		s.appendSystemMessageLocked(c, fmt.Sprintf("%s has been promoted to moderator.", s.displayName(successor)))
	}
	s.touch()
	return model.ModOK
}

// Ban 封禁：移出成员并记入封禁集合。不允许封自己，
// 因此封禁永远不会清空版主集合（继任只挂在 join/leave 上）。
func (r *CommunityRepository) Ban(commID, actorID, targetID int64) model.ModResult {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.communities[commID]
	if !ok {
		return model.ModNotFound
	}
	if !c.IsModerator(actorID) {
		return model.ModDenied
	}
	if actorID == targetID {
		return model.ModInvalid
	}
	if c.IsBanned(targetID) {
		return model.ModInvalid
	}

	delete(c.Members, targetID)
	delete(c.Moderators, targetID)
	delete(c.Admins, targetID)
	c.BannedUsers[targetID] = struct{}{}
	s.touch()
	return model.ModOK
}

// Unban 只解除封禁标记，不恢复成员身份
func (r *CommunityRepository) Unban(commID, actorID, targetID int64) model.ModResult {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.communities[commID]
	if !ok {
		return model.ModNotFound
	}
	if !c.IsModerator(actorID) {
		return model.ModDenied
	}
	if !c.IsBanned(targetID) {
		return model.ModInvalid
	}
	delete(c.BannedUsers, targetID)
	s.touch()
	return model.ModOK
}

// PromoteAdmin 提拔管理员。保持 admins ⊆ moderators ⊆ members 链，
// 目标同时进入版主集合。
func (r *CommunityRepository) PromoteAdmin(commID, actorID, targetID int64) model.ModResult {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.communities[commID]
	if !ok {
		return model.ModNotFound
	}
	if !c.IsModerator(actorID) {
		return model.ModDenied
	}
	if !c.IsMember(targetID) {
		return model.ModInvalid
	}
	c.Moderators[targetID] = struct{}{}
	c.Admins[targetID] = struct{}{}
	s.touch()
	return model.ModOK
}

// DemoteAdmin 撤掉管理员身份，保留版主
func (r *CommunityRepository) DemoteAdmin(commID, actorID, targetID int64) model.ModResult {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.communities[commID]
	if !ok {
		return model.ModNotFound
	}
	if !c.IsModerator(actorID) {
		return model.ModDenied
	}
	if !c.IsAdmin(targetID) {
		return model.ModInvalid
	}
	delete(c.Admins, targetID)
	s.touch()
	return model.ModOK
}

// TransferOwnership 移交最高权限。执行者必须是唯一或最资深
// （id 最小）的版主；先确认接收方进集合，再撤自己，
// 保证移交过程中版主集合不会被观察到为空。
func (r *CommunityRepository) TransferOwnership(commID, actorID, targetID int64) model.ModResult {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.communities[commID]
	if !ok {
		return model.ModNotFound
	}
	if !c.IsModerator(actorID) {
		return model.ModDenied
	}
	if len(c.Moderators) > 1 && lowestID(c.Moderators) != actorID {
		return model.ModDenied
	}
	if actorID == targetID {
		return model.ModInvalid
	}
	if !c.IsMember(targetID) {
		return model.ModInvalid
	}

	c.Moderators[targetID] = struct{}{}
	delete(c.Moderators, actorID)
	delete(c.Admins, actorID)
	s.touch()
	return model.ModOK
}

// Get 返回社区元信息副本（不含聊天记录，历史走 MessageRepository）
func (r *CommunityRepository) Get(commID int64) (*model.Community, error) {
	s := r.Store
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.communities[commID]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	return copyCommunityMeta(c), nil
}

// List 全部社区，按 id 升序
func (r *CommunityRepository) List() []*model.Community {
	s := r.Store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Community, 0, len(s.communities))
	for _, c := range s.communities {
		out = append(out, copyCommunityMeta(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Popular 按成员数降序，平局按 id 升序
func (r *CommunityRepository) Popular() []*model.Community {
	out := r.List()
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Members) != len(out[j].Members) {
			return len(out[i].Members) > len(out[j].Members)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Joined 用户已加入的社区
func (r *CommunityRepository) Joined(userID int64) []*model.Community {
	s := r.Store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Community
	for _, c := range s.communities {
		if c.IsMember(userID) {
			out = append(out, copyCommunityMeta(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Members 成员 id 升序列表
func (r *CommunityRepository) Members(commID int64) ([]int64, error) {
	s := r.Store
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.communities[commID]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	return sortedIDs(c.Members), nil
}

// RecommendCommunities 社区推荐：好友在内的社区优先，
// 兴趣标签重合加分。已加入或被封禁的不推荐。
func (r *CommunityRepository) RecommendCommunities(userID int64) []*model.Community {
	s := r.Store
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil
	}

	type scored struct {
		c     *model.Community
		score int
	}
	var candidates []scored
	for _, c := range s.communities {
		if c.IsMember(userID) || c.IsBanned(userID) {
			continue
		}
		score := 0
		for friend := range s.adj[userID] {
			if c.IsMember(friend) {
				score += 2
			}
		}
		for _, tag := range c.Tags {
			if hasTag(u.Tags, tag) {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{c, score})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].c.ID < candidates[j].c.ID
	})

	out := make([]*model.Community, 0, len(candidates))
	for _, sc := range candidates {
		out = append(out, copyCommunityMeta(sc.c))
	}
	return out
}

// appendSystemMessageLocked 追加系统公告（置顶），调用方持有写锁
func (s *Store) appendSystemMessageLocked(c *model.Community, content string) {
	m := &model.Message{
		ID:         c.NextMsgID,
		SenderID:   model.SystemSenderID,
		SenderName: "System",
		Content:    content,
		Timestamp:  clockNow(),
		Upvoters:   make(map[int64]struct{}),
		IsPinned:   true,
		ReplyToID:  model.NoReply,
		Type:       model.MsgTypeText,
	}
	c.NextMsgID++
	c.ChatHistory = append(c.ChatHistory, m)
}

func (s *Store) displayName(userID int64) string {
	if u, ok := s.users[userID]; ok {
		return u.Username
	}
	return fmt.Sprintf("user %d", userID)
}

func lowestID(set map[int64]struct{}) int64 {
	first := true
	var min int64
	for id := range set {
		if first || id < min {
			min = id
			first = false
		}
	}
	return min
}

func copyCommunityMeta(c *model.Community) *model.Community {
	out := &model.Community{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CoverURL:    c.CoverURL,
		Tags:        append([]string(nil), c.Tags...),
		Members:     copySet(c.Members),
		Moderators:  copySet(c.Moderators),
		Admins:      copySet(c.Admins),
		BannedUsers: copySet(c.BannedUsers),
		NextMsgID:   c.NextMsgID,
	}
	return out
}

func copySet(set map[int64]struct{}) map[int64]struct{} {
	out := make(map[int64]struct{}, len(set))
	for id := range set {
		out[id] = struct{}{}
	}
	return out
}
