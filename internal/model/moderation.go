package model

// ModResult 治理类操作的结果标签。引擎层显式区分，
// HTTP 层沿用旧行为对调用方静默（统一 200），但日志和测试能看到区别。
type ModResult int

const (
	ModOK       ModResult = iota // 操作生效
	ModDenied                    // 权限不足，状态未变
	ModNotFound                  // 社区/用户/消息不存在
	ModInvalid                   // 状态不允许（如重复封禁）
)

func (r ModResult) String() string {
	switch r {
	case ModOK:
		return "ok"
	case ModDenied:
		return "denied"
	case ModNotFound:
		return "not_found"
	case ModInvalid:
		return "invalid"
	}
	return "unknown"
}

// Recommendation 好友推荐条目
type Recommendation struct {
	UserID        int64  `json:"id"`
	Username      string `json:"name"`
	MutualFriends int    `json:"mutual_friends"`
}
