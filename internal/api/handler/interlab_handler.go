package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/scd892/GoldAssayTracker/internal/dto"
	"github.com/scd892/GoldAssayTracker/internal/service"
	"github.com/scd892/GoldAssayTracker/pkg/response"
)

// InterlabHandler 实验室间比对模块 HTTP 处理器
type InterlabHandler struct {
	interlabSvc service.InterlabService
}

// NewInterlabHandler 创建 InterlabHandler
func NewInterlabHandler(interlabSvc service.InterlabService) *InterlabHandler {
	return &InterlabHandler{interlabSvc: interlabSvc}
}

// CreateLab 新增外部实验室
// POST /api/v1/interlab/labs
func (h *InterlabHandler) CreateLab(c *gin.Context) {
	var req dto.CreateLabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	lab, err := h.interlabSvc.CreateLab(c.Request.Context(), &req)
	if err != nil {
		h.handleInterlabError(c, err)
		return
	}
	response.Created(c, lab)
}

// ListLabs 外部实验室列表
// GET /api/v1/interlab/labs?active_only=true
func (h *InterlabHandler) ListLabs(c *gin.Context) {
	activeOnly := c.DefaultQuery("active_only", "false") == "true"

	labs, err := h.interlabSvc.ListLabs(c.Request.Context(), activeOnly)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": labs})
}

// DeactivateLab 停用外部实验室（软删除）
// DELETE /api/v1/interlab/labs/:id
func (h *InterlabHandler) DeactivateLab(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.BadRequest(c, 10001, "实验室ID无效")
		return
	}

	if err := h.interlabSvc.DeactivateLab(c.Request.Context(), id); err != nil {
		h.handleInterlabError(c, err)
		return
	}
	response.OK(c, nil)
}

// BenchmarkLab 当前基准实验室
// GET /api/v1/interlab/labs/benchmark
func (h *InterlabHandler) BenchmarkLab(c *gin.Context) {
	lab, err := h.interlabSvc.GetBenchmarkLab(c.Request.Context())
	if err != nil {
		h.handleInterlabError(c, err)
		return
	}
	response.OK(c, lab)
}

// SetBenchmarkLab 指定基准实验室
// PUT /api/v1/interlab/labs/benchmark
func (h *InterlabHandler) SetBenchmarkLab(c *gin.Context) {
	var req dto.SetBenchmarkLabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	lab, err := h.interlabSvc.SetBenchmarkLab(c.Request.Context(), req.LabID)
	if err != nil {
		h.handleInterlabError(c, err)
		return
	}
	response.OK(c, lab)
}

// CreateResult 录入外部检测结果
// POST /api/v1/interlab/results
func (h *InterlabHandler) CreateResult(c *gin.Context) {
	var req dto.CreateInterlabResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.interlabSvc.CreateResult(c.Request.Context(), &req)
	if err != nil {
		h.handleInterlabError(c, err)
		return
	}
	response.Created(c, result)
}

// ListResults 某实验室的检测结果列表
// GET /api/v1/interlab/labs/:id/results
func (h *InterlabHandler) ListResults(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.BadRequest(c, 10001, "实验室ID无效")
		return
	}

	results, err := h.interlabSvc.ListResults(c.Request.Context(), id)
	if err != nil {
		h.handleInterlabError(c, err)
		return
	}
	response.OK(c, gin.H{"list": results})
}

// CreateComparison 建立内外部结果比对
// POST /api/v1/interlab/comparisons
func (h *InterlabHandler) CreateComparison(c *gin.Context) {
	var req dto.CreateComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cmp, err := h.interlabSvc.CreateComparison(c.Request.Context(), &req)
	if err != nil {
		h.handleInterlabError(c, err)
		return
	}
	response.Created(c, cmp)
}

// ComparisonReport 比对报表
// GET /api/v1/interlab/comparisons
func (h *InterlabHandler) ComparisonReport(c *gin.Context) {
	report, err := h.interlabSvc.ComparisonReport(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": report})
}

// handleInterlabError 统一处理实验室间比对模块业务错误
func (h *InterlabHandler) handleInterlabError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLabNotFound):
		response.NotFound(c, 15001, "外部实验室不存在")
	case errors.Is(err, service.ErrLabExists):
		response.Conflict(c, 15002, "实验室编码已存在")
	case errors.Is(err, service.ErrLabHasResults):
		response.BadRequest(c, 15003, "实验室存在检测结果，不能删除")
	case errors.Is(err, service.ErrDuplicateInterlab):
		response.Conflict(c, 15004, "该实验室对此样品已有记录")
	case errors.Is(err, service.ErrInterlabResultNotFound):
		response.NotFound(c, 15005, "外部检测结果不存在")
	case errors.Is(err, service.ErrDuplicateComparison):
		response.Conflict(c, 15006, "该内外部结果已建立比对")
	case errors.Is(err, service.ErrComparisonSampleDiff):
		response.BadRequest(c, 15007, "内外部结果的样品编号不一致")
	case errors.Is(err, service.ErrNoBenchmarkLab):
		response.NotFound(c, 15008, "未设置基准实验室")
	case errors.Is(err, service.ErrResultNotFound):
		response.NotFound(c, 13001, "化验结果不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/interlab_handler.go
