// Package textfile 实现分隔文本表的快照持久化（用户/图/社区/消息/私聊五张表）。
// 装载是宽容的：缺尾部可选字段取默认值，数字解析失败按 0，
// 空集合用 NULL 哨兵占位；保存永远写全量最新 schema（只追加升级）。
package textfile

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"Nova_Community/internal/model"
	"Nova_Community/internal/repository/memory"
)

const (
	usersFile       = "users.txt"
	graphFile       = "graph.txt"
	communitiesFile = "communities.txt"
	messagesFile    = "messages.txt"
	dmsFile         = "dms.txt"

	// nullToken 区分"空集合"和"字段缺失"
	nullToken = "NULL"
)

// Codec 读写 dir 下的数据文件
type Codec struct {
	Dir string
}

func NewCodec(dir string) *Codec {
	return &Codec{Dir: dir}
}

// Load 读取全部表。文件不存在按空表处理（首次启动）。
func (c *Codec) Load() (*memory.Snapshot, error) {
	snap := &memory.Snapshot{Adjacency: make(map[int64][]int64)}

	if err := c.eachLine(usersFile, func(line string) {
		if u := parseUserLine(line); u != nil {
			snap.Users = append(snap.Users, u)
		}
	}); err != nil {
		return nil, err
	}

	if err := c.eachLine(graphFile, func(line string) {
		id, friends, ok := parseGraphLine(line)
		if ok {
			snap.Adjacency[id] = friends
		}
	}); err != nil {
		return nil, err
	}

	comms := make(map[int64]*model.Community)
	if err := c.eachLine(communitiesFile, func(line string) {
		if cm := parseCommunityLine(line); cm != nil {
			comms[cm.ID] = cm
		}
	}); err != nil {
		return nil, err
	}

	if err := c.eachLine(messagesFile, func(line string) {
		commID, m := parseMessageLine(line)
		if m == nil {
			return
		}
		if cm, ok := comms[commID]; ok {
			cm.ChatHistory = append(cm.ChatHistory, m)
		}
	}); err != nil {
		return nil, err
	}

	for _, cm := range comms {
		snap.Communities = append(snap.Communities, cm)
	}
	sort.Slice(snap.Communities, func(i, j int) bool {
		return snap.Communities[i].ID < snap.Communities[j].ID
	})

	chats := make(map[string]*model.DirectChat)
	if err := c.eachLine(dmsFile, func(line string) {
		key, m := parseDMLine(line)
		if m == nil {
			return
		}
		chat, ok := chats[key]
		if !ok {
			chat = &model.DirectChat{ChatKey: key}
			chats[key] = chat
		}
		chat.Messages = append(chat.Messages, m)
	}); err != nil {
		return nil, err
	}
	for _, chat := range chats {
		snap.DirectChats = append(snap.DirectChats, chat)
	}
	sort.Slice(snap.DirectChats, func(i, j int) bool {
		return snap.DirectChats[i].ChatKey < snap.DirectChats[j].ChatKey
	})

	return snap, nil
}

// Save 全量重写所有表，输出顺序固定保证规范化 round-trip
func (c *Codec) Save(snap *memory.Snapshot) error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return err
	}

	users := append([]*model.User(nil), snap.Users...)
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	var ub strings.Builder
	for _, u := range users {
		writeUserLine(&ub, u)
	}
	if err := c.writeFile(usersFile, ub.String()); err != nil {
		return err
	}

	ids := make([]int64, 0, len(snap.Adjacency))
	for id := range snap.Adjacency {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var gb strings.Builder
	for _, id := range ids {
		writeGraphLine(&gb, id, snap.Adjacency[id])
	}
	if err := c.writeFile(graphFile, gb.String()); err != nil {
		return err
	}

	comms := append([]*model.Community(nil), snap.Communities...)
	sort.Slice(comms, func(i, j int) bool { return comms[i].ID < comms[j].ID })
	var cb, mb strings.Builder
	for _, cm := range comms {
		writeCommunityLine(&cb, cm)
		for _, m := range cm.ChatHistory {
			writeMessageLine(&mb, cm.ID, m)
		}
	}
	if err := c.writeFile(communitiesFile, cb.String()); err != nil {
		return err
	}
	if err := c.writeFile(messagesFile, mb.String()); err != nil {
		return err
	}

	chats := append([]*model.DirectChat(nil), snap.DirectChats...)
	sort.Slice(chats, func(i, j int) bool { return chats[i].ChatKey < chats[j].ChatKey })
	var db strings.Builder
	for _, chat := range chats {
		for _, m := range chat.Messages {
			writeDMLine(&db, chat.ChatKey, m)
		}
	}
	return c.writeFile(dmsFile, db.String())
}

func (c *Codec) eachLine(name string, fn func(line string)) error {
	f, err := os.Open(filepath.Join(c.Dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fn(line)
	}
	return scanner.Err()
}

func (c *Codec) writeFile(name, content string) error {
	return os.WriteFile(filepath.Join(c.Dir, name), []byte(content), 0o644)
}

// ---- 宽容解析的小工具 ----

// fieldAt 取第 idx 个字段，缺失返回默认值
func fieldAt(parts []string, idx int, def string) string {
	if idx >= len(parts) {
		return def
	}
	return parts[idx]
}

// intAt 数字字段：缺失取默认值，解析失败按 0（不弃整个文件）
func intAt(parts []string, idx int, def int64) int64 {
	if idx >= len(parts) {
		return def
	}
	v, err := strconv.ParseInt(parts[idx], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func boolAt(parts []string, idx int, def bool) bool {
	if idx >= len(parts) {
		return def
	}
	return parts[idx] == "1"
}

func parseIDList(field string, sep string) []int64 {
	if field == "" || field == nullToken {
		return nil
	}
	var out []int64
	for _, p := range strings.Split(field, sep) {
		if p == "" {
			continue
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

func parseStringList(field string, sep string) []string {
	if field == "" || field == nullToken {
		return nil
	}
	var out []string
	for _, p := range strings.Split(field, sep) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func idSetToField(set map[int64]struct{}, sep string) string {
	if len(set) == 0 {
		return nullToken
	}
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, sep)
}

func stringListToField(list []string, sep string) string {
	if len(list) == 0 {
		return nullToken
	}
	return strings.Join(list, sep)
}

func idSetFromList(ids []int64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

var sanitizer = strings.NewReplacer("|", " ", "\n", " ", "\r", " ")

// sanitize 写盘前剥掉记录分隔符和换行，防止回读时字段错位
func sanitize(s string) string {
	return sanitizer.Replace(s)
}

var commaSanitizer = strings.NewReplacer(",", " ", "\n", " ", "\r", " ", ";", " ")

func sanitizeComma(s string) string {
	return commaSanitizer.Replace(s)
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
