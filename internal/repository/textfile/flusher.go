package textfile

import (
	"context"
	"time"

	"go.uber.org/zap"

	"Nova_Community/internal/repository/memory"
)

// Flusher 定时把内存状态整体落盘。
// 每次都是全量快照重写，没有增量写路径；
// Export 在读锁下拷贝，不会写出撕裂的快照。
type Flusher struct {
	store       *memory.Store
	codec       *Codec
	interval    time.Duration
	log         *zap.Logger
	lastVersion uint64
}

func NewFlusher(store *memory.Store, codec *Codec, interval time.Duration, log *zap.Logger) *Flusher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Flusher{
		store:    store,
		codec:    codec,
		interval: interval,
		log:      log,
	}
}

// Run 启动落盘循环。退出前的最终写出由调用方 Flush 负责，
// 避免和关停路径并发重写同一批文件。
func (f *Flusher) Run(ctx context.Context) {
	t := time.NewTicker(f.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			f.flushIfDirty()
		}
	}
}

// flushIfDirty 版本没动就跳过，避免空转重写文件
func (f *Flusher) flushIfDirty() {
	v := f.store.Version()
	if v == f.lastVersion {
		return
	}
	if err := f.codec.Save(f.store.Export()); err != nil {
		f.log.Error("snapshot flush failed", zap.Error(err))
		return
	}
	f.lastVersion = v
}

// Flush 无条件写一次（退出前调用）
func (f *Flusher) Flush() {
	if err := f.codec.Save(f.store.Export()); err != nil {
		f.log.Error("snapshot flush failed", zap.Error(err))
		return
	}
	f.lastVersion = f.store.Version()
}
