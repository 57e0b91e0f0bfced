package memory

import (
	"sort"

	"Nova_Community/internal/model"
	"Nova_Community/internal/pkg"
)

// maxSearchDepth BFS 深度上限。稠密图上查 3 度以外代价太高，
// 超出直接判定为不可达，换完整性保延迟。
const maxSearchDepth = 3

// GraphRepository 好友关系图。邻接表保证对称、无自环、无重边。
type GraphRepository struct {
	Store *Store
}

// AddFriendship 建立双向好友边。自环和已存在的边均为无操作。
func (r *GraphRepository) AddFriendship(u, v int64) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addEdgeLocked(u, v)
}

func (s *Store) addEdgeLocked(u, v int64) {
	if u == v {
		return
	}
	if _, ok := s.adj[u][v]; ok {
		return
	}
	if s.adj[u] == nil {
		s.adj[u] = make(map[int64]struct{})
	}
	if s.adj[v] == nil {
		s.adj[v] = make(map[int64]struct{})
	}
	s.adj[u][v] = struct{}{}
	s.adj[v][u] = struct{}{}
	s.touch()
}

// RemoveFriendship 双向删边
func (r *GraphRepository) RemoveFriendship(u, v int64) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.adj[u][v]; !ok {
		return
	}
	delete(s.adj[u], v)
	delete(s.adj[v], u)
	s.touch()
}

// Friends 返回排好序的好友 id 列表
func (r *GraphRepository) Friends(id int64) []int64 {
	s := r.Store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedIDs(s.adj[id])
}

// AreFriends 是否直接相连
func (r *GraphRepository) AreFriends(u, v int64) bool {
	s := r.Store
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.adj[u][v]
	return ok
}

// RelationDegree BFS 求两人间的跳数。同一人返回 0，
// 3 度以内找不到返回 -1。
func (r *GraphRepository) RelationDegree(start, target int64) int {
	if start == target {
		return 0
	}

	s := r.Store
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.adj[start]; !ok {
		return -1
	}

	type entry struct {
		id    int64
		depth int
	}
	queue := []entry{{start, 0}}
	visited := map[int64]struct{}{start: {}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.id == target {
			return cur.depth
		}
		if cur.depth >= maxSearchDepth {
			continue
		}
		for neighbor := range s.adj[cur.id] {
			if _, seen := visited[neighbor]; !seen {
				visited[neighbor] = struct{}{}
				queue = append(queue, entry{neighbor, cur.depth + 1})
			}
		}
	}
	return -1
}

// ConnectionsByDegree 返回恰好在 degree 跳处首次到达的节点。
// 更近的节点不回填，BFS 也不越过请求深度。
func (r *GraphRepository) ConnectionsByDegree(start int64, degree int) []int64 {
	s := r.Store
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		id    int64
		depth int
	}
	queue := []entry{{start, 0}}
	visited := map[int64]struct{}{start: {}}

	var result []int64
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		// degree 0 就是起点自己
		if cur.depth == degree {
			result = append(result, cur.id)
			continue
		}
		if cur.depth > degree {
			continue
		}
		for neighbor := range s.adj[cur.id] {
			if _, seen := visited[neighbor]; !seen {
				visited[neighbor] = struct{}{}
				queue = append(queue, entry{neighbor, cur.depth + 1})
			}
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Recommend 好友推荐：统计每个二度邻居经由多少个不同的共同好友可达，
// 按共同好友数降序排，平局按 id 升序保证确定性。
func (r *GraphRepository) Recommend(userID int64) []model.Recommendation {
	s := r.Store
	s.mu.RLock()
	defer s.mu.RUnlock()

	frequency := make(map[int64]int)
	exclude := map[int64]struct{}{userID: {}}
	for friend := range s.adj[userID] {
		exclude[friend] = struct{}{}
	}

	for friend := range s.adj[userID] {
		for candidate := range s.adj[friend] {
			if _, skip := exclude[candidate]; !skip {
				frequency[candidate]++
			}
		}
	}

	out := make([]model.Recommendation, 0, len(frequency))
	for id, count := range frequency {
		rec := model.Recommendation{UserID: id, MutualFriends: count}
		if u, ok := s.users[id]; ok {
			rec.Username = u.Username
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MutualFriends != out[j].MutualFriends {
			return out[i].MutualFriends > out[j].MutualFriends
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// SendRequest 发送好友请求，落在对方的 pendingRequests 里
func (r *GraphRepository) SendRequest(senderID, targetID int64) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	if senderID == targetID {
		return pkg.ErrInvalidState
	}
	target, ok := s.users[targetID]
	if !ok {
		return pkg.ErrNotFound
	}
	if _, ok := s.users[senderID]; !ok {
		return pkg.ErrNotFound
	}
	if _, friends := s.adj[senderID][targetID]; friends {
		return pkg.ErrInvalidState
	}
	target.PendingRequests[senderID] = struct{}{}
	s.touch()
	return nil
}

// AcceptRequest 接受请求：移除 pending 并建边
func (r *GraphRepository) AcceptRequest(userID, requesterID int64) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return pkg.ErrNotFound
	}
	if _, pending := u.PendingRequests[requesterID]; !pending {
		return pkg.ErrInvalidState
	}
	delete(u.PendingRequests, requesterID)
	s.addEdgeLocked(userID, requesterID)
	s.touch()
	return nil
}

// DeclineRequest 拒绝请求，只清 pending
func (r *GraphRepository) DeclineRequest(userID, requesterID int64) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return pkg.ErrNotFound
	}
	delete(u.PendingRequests, requesterID)
	s.touch()
	return nil
}

// PendingRequests 待处理请求的发送方 id 列表（升序）
func (r *GraphRepository) PendingRequests(userID int64) ([]int64, error) {
	s := r.Store
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	return sortedIDs(u.PendingRequests), nil
}

// RelationStatus 两人关系：friends / pending_sent / pending_received / none
func (r *GraphRepository) RelationStatus(me, target int64) string {
	s := r.Store
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.adj[me][target]; ok {
		return "friends"
	}
	if t, ok := s.users[target]; ok {
		if _, pending := t.PendingRequests[me]; pending {
			return "pending_sent"
		}
	}
	if m, ok := s.users[me]; ok {
		if _, pending := m.PendingRequests[target]; pending {
			return "pending_received"
		}
	}
	return "none"
}

func sortedIDs(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
