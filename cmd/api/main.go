package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Nova_Community/internal/config"
	"Nova_Community/internal/pkg"
	"Nova_Community/internal/repository/memory"
	"Nova_Community/internal/repository/textfile"
	"Nova_Community/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if err := pkg.InitLogger(cfg.Env); err != nil {
		panic(err)
	}
	defer pkg.SyncLogger()
	log := pkg.L()

	pkg.SetSecrets(cfg.JWTAccessSecret, cfg.JWTRefreshSecret)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 装载上次的快照
	store := memory.NewStore()
	codec := textfile.NewCodec(cfg.DataDir)
	snap, err := codec.Load()
	if err != nil {
		log.Fatal("load snapshot failed", zap.Error(err))
	}
	store.Import(snap)
	log.Info("snapshot loaded",
		zap.Int("users", len(snap.Users)),
		zap.Int("communities", len(snap.Communities)))

	// 后台定时落盘
	ctx, cancel := context.WithCancel(context.Background())
	flusher := textfile.NewFlusher(store, codec, cfg.FlushInterval, log)
	go flusher.Run(ctx)

	r := router.InitRouter(store, log)
	srv := &http.Server{Addr: cfg.Addr, Handler: r}

	go func() {
		log.Info("server listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// 优雅退出：停服、停落盘循环、最后整体写一次盘
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}

	cancel()
	flusher.Flush()
}
