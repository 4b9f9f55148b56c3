package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/scd892/GoldAssayTracker/internal/dto"
	"github.com/scd892/GoldAssayTracker/internal/model"
	"github.com/scd892/GoldAssayTracker/internal/service"
	"github.com/scd892/GoldAssayTracker/pkg/response"
)

// TraineeHandler 学员认证模块 HTTP 处理器
type TraineeHandler struct {
	traineeSvc service.TraineeService
}

// NewTraineeHandler 创建 TraineeHandler
func NewTraineeHandler(traineeSvc service.TraineeService) *TraineeHandler {
	return &TraineeHandler{traineeSvc: traineeSvc}
}

// Register 注册学员（员工编号重复时幂等返回既有记录）
// POST /api/v1/trainees
func (h *TraineeHandler) Register(c *gin.Context) {
	var req dto.RegisterTraineeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	trainee, err := h.traineeSvc.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleTraineeError(c, err)
		return
	}
	response.Created(c, trainee)
}

// List 学员列表
// GET /api/v1/trainees?active_only=true
func (h *TraineeHandler) List(c *gin.Context) {
	activeOnly := c.DefaultQuery("active_only", "false") == "true"

	trainees, err := h.traineeSvc.List(c.Request.Context(), activeOnly)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": trainees})
}

// Get 学员详情
// GET /api/v1/trainees/:id
func (h *TraineeHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.BadRequest(c, 10001, "学员ID无效")
		return
	}

	trainee, err := h.traineeSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleTraineeError(c, err)
		return
	}
	response.OK(c, trainee)
}

// Progress 学员认证进度
// GET /api/v1/trainees/:id/progress
func (h *TraineeHandler) Progress(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.BadRequest(c, 10001, "学员ID无效")
		return
	}

	progress, err := h.traineeSvc.Progress(c.Request.Context(), id)
	if err != nil {
		h.handleTraineeError(c, err)
		return
	}
	response.OK(c, progress)
}

// History 学员逐日评估汇总
// GET /api/v1/trainees/:id/history?type=accuracy
func (h *TraineeHandler) History(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.BadRequest(c, 10001, "学员ID无效")
		return
	}
	evalType := c.Query("type")
	if evalType != "" && evalType != model.EvaluationTypeAccuracy && evalType != model.EvaluationTypeConsistency {
		response.BadRequest(c, 10001, "评估类型无效")
		return
	}

	history, err := h.traineeSvc.History(c.Request.Context(), id, evalType)
	if err != nil {
		h.handleTraineeError(c, err)
		return
	}
	response.OK(c, gin.H{"list": history})
}

// CreateEvaluation 录入学员评估
// POST /api/v1/trainees/evaluations
func (h *TraineeHandler) CreateEvaluation(c *gin.Context) {
	var req dto.CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	eval, err := h.traineeSvc.CreateEvaluation(c.Request.Context(), &req)
	if err != nil {
		h.handleTraineeError(c, err)
		return
	}
	response.Created(c, eval)
}

// CreateMaterial 新增标准物质
// POST /api/v1/reference-materials
func (h *TraineeHandler) CreateMaterial(c *gin.Context) {
	var req dto.CreateReferenceMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	material, err := h.traineeSvc.CreateMaterial(c.Request.Context(), &req)
	if err != nil {
		h.handleTraineeError(c, err)
		return
	}
	response.Created(c, material)
}

// ListMaterials 标准物质列表
// GET /api/v1/reference-materials?active_only=true
func (h *TraineeHandler) ListMaterials(c *gin.Context) {
	activeOnly := c.DefaultQuery("active_only", "false") == "true"

	materials, err := h.traineeSvc.ListMaterials(c.Request.Context(), activeOnly)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": materials})
}

// GetThresholds 当前认证阈值
// GET /api/v1/certification-thresholds
func (h *TraineeHandler) GetThresholds(c *gin.Context) {
	thresholds, err := h.traineeSvc.GetThresholds(c.Request.Context())
	if err != nil {
		h.handleTraineeError(c, err)
		return
	}
	response.OK(c, thresholds)
}

// UpdateThresholds 更新认证阈值并重评全部学员
// PUT /api/v1/certification-thresholds
func (h *TraineeHandler) UpdateThresholds(c *gin.Context) {
	var req dto.UpdateThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	thresholds, err := h.traineeSvc.UpdateThresholds(c.Request.Context(), &req)
	if err != nil {
		h.handleTraineeError(c, err)
		return
	}
	response.OK(c, thresholds)
}

// handleTraineeError 统一处理学员认证模块业务错误
func (h *TraineeHandler) handleTraineeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTraineeNotFound):
		response.NotFound(c, 16001, "学员不存在")
	case errors.Is(err, service.ErrMaterialNotFound):
		response.NotFound(c, 16002, "标准物质不存在")
	case errors.Is(err, service.ErrMaterialExists):
		response.Conflict(c, 16003, "标准物质编码已存在")
	case errors.Is(err, service.ErrThresholdsNotFound):
		response.NotFound(c, 16004, "认证阈值未配置")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/trainee_handler.go
