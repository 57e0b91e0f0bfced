package memory

import (
	"sync"
	"time"

	"Nova_Community/internal/model"
)

// Store 持有全部内存状态。单把读写锁罩住整个引擎：
// 写操作互斥，BFS/推荐等只读路径走读锁。
// 构造后显式传给各 repository，不走全局变量。
type Store struct {
	mu sync.RWMutex

	users         map[int64]*model.User
	usernameIndex map[string]int64
	nextUserID    int64

	adj map[int64]map[int64]struct{}

	communities     map[int64]*model.Community
	nextCommunityID int64

	chats map[string]*model.DirectChat

	// version 每次写操作递增，快照落盘器据此判断是否有脏数据
	version uint64
}

func NewStore() *Store {
	return &Store{
		users:           make(map[int64]*model.User),
		usernameIndex:   make(map[string]int64),
		nextUserID:      1,
		adj:             make(map[int64]map[int64]struct{}),
		communities:     make(map[int64]*model.Community),
		nextCommunityID: model.FirstCommunityID,
		chats:           make(map[string]*model.DirectChat),
	}
}

// Version 返回写计数，只增不减
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// touch 标脏，调用方必须已持有写锁
func (s *Store) touch() {
	s.version++
}

// clockNow 消息时间戳沿用 HH:MM 展示格式，排序以插入顺序为准
func clockNow() string {
	return time.Now().Format("15:04")
}
