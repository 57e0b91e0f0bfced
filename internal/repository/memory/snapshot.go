package memory

import (
	"Nova_Community/internal/model"
)

// Snapshot 全量状态快照，落盘和装载都走这里。
// Export 在读锁下整体深拷贝，保证写盘的不是撕裂状态。
type Snapshot struct {
	Users           []*model.User
	Adjacency       map[int64][]int64
	Communities     []*model.Community
	DirectChats     []*model.DirectChat
	NextCommunityID int64
}

// Export 导出当前全部状态
func (s *Store) Export() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		Adjacency:       make(map[int64][]int64, len(s.adj)),
		NextCommunityID: s.nextCommunityID,
	}
	for _, u := range s.users {
		snap.Users = append(snap.Users, copyUser(u))
	}
	for id, neighbors := range s.adj {
		snap.Adjacency[id] = sortedIDs(neighbors)
	}
	for _, c := range s.communities {
		snap.Communities = append(snap.Communities, copyCommunityFull(c))
	}
	for _, chat := range s.chats {
		snap.DirectChats = append(snap.DirectChats, copyChat(chat))
	}
	return snap
}

// Import 用快照整体替换内存状态（启动装载用）。
// 图数据装载时自动清洗：去自环、去重边、补对称。
func (s *Store) Import(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[int64]*model.User, len(snap.Users))
	s.usernameIndex = make(map[string]int64, len(snap.Users))
	s.nextUserID = 1
	for _, u := range snap.Users {
		cp := copyUser(u)
		s.users[cp.ID] = cp
		s.usernameIndex[cp.Username] = cp.ID
		if cp.ID >= s.nextUserID {
			s.nextUserID = cp.ID + 1
		}
	}

	s.adj = make(map[int64]map[int64]struct{}, len(snap.Adjacency))
	for id, neighbors := range snap.Adjacency {
		for _, n := range neighbors {
			if n == id {
				continue
			}
			if s.adj[id] == nil {
				s.adj[id] = make(map[int64]struct{})
			}
			if s.adj[n] == nil {
				s.adj[n] = make(map[int64]struct{})
			}
			s.adj[id][n] = struct{}{}
			s.adj[n][id] = struct{}{}
		}
	}

	s.communities = make(map[int64]*model.Community, len(snap.Communities))
	s.nextCommunityID = model.FirstCommunityID
	if snap.NextCommunityID > s.nextCommunityID {
		s.nextCommunityID = snap.NextCommunityID
	}
	for _, c := range snap.Communities {
		cp := copyCommunityFull(c)
		// 老文件没有消息计数时按最大消息 id 重算
		if cp.NextMsgID <= 0 {
			cp.NextMsgID = 1
			for _, m := range cp.ChatHistory {
				if m.ID >= cp.NextMsgID {
					cp.NextMsgID = m.ID + 1
				}
			}
		}
		s.communities[cp.ID] = cp
		if cp.ID >= s.nextCommunityID {
			s.nextCommunityID = cp.ID + 1
		}
	}

	s.chats = make(map[string]*model.DirectChat, len(snap.DirectChats))
	for _, chat := range snap.DirectChats {
		cp := copyChat(chat)
		if cp.NextMsgID <= 0 {
			cp.NextMsgID = 1
			for _, m := range cp.Messages {
				if m.ID >= cp.NextMsgID {
					cp.NextMsgID = m.ID + 1
				}
			}
		}
		s.chats[cp.ChatKey] = cp
	}

	s.touch()
}

func copyCommunityFull(c *model.Community) *model.Community {
	out := copyCommunityMeta(c)
	out.ChatHistory = make([]*model.Message, 0, len(c.ChatHistory))
	for _, m := range c.ChatHistory {
		out.ChatHistory = append(out.ChatHistory, copyMessage(m))
	}
	return out
}

func copyChat(chat *model.DirectChat) *model.DirectChat {
	out := &model.DirectChat{
		ChatKey:   chat.ChatKey,
		NextMsgID: chat.NextMsgID,
		Messages:  make([]*model.DirectMessage, 0, len(chat.Messages)),
	}
	for _, m := range chat.Messages {
		c := *m
		out.Messages = append(out.Messages, &c)
	}
	return out
}
