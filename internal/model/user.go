package model

// User 用户实体，id 注册时顺序分配，永不复用
type User struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Password  string   `json:"-"` // bcrypt 哈希，引擎只当作不透明凭证
	AvatarURL string   `json:"avatar_url"`
	Tags      []string `json:"tags"`
	Karma     int      `json:"karma"`

	// PendingRequests 收到但未处理的好友请求（发送方 id 集合）
	PendingRequests map[int64]struct{} `json:"-"`
}

// HasPending 是否存在来自 from 的待处理好友请求
func (u *User) HasPending(from int64) bool {
	_, ok := u.PendingRequests[from]
	return ok
}
