package model

import "time"

// 学员认证状态（历史数据为英文，保持不变）
const (
	TraineeStatusPending   = "Pending"
	TraineeStatusCertified = "Certified"
	TraineeStatusNeedsMore = "Needs More Training"
)

// 评估类型
const (
	EvaluationTypeAccuracy    = "accuracy"    // 对照标准物质的准确度评估
	EvaluationTypeConsistency = "consistency" // 重复测定的一致性评估
)

// Trainee 学员
type Trainee struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"not null" json:"name"`
	EmployeeID string     `gorm:"column:employee_id;uniqueIndex;not null" json:"employee_id"`
	StartDate  *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	// 单次测定允许的最大绝对偏差（ppt）
	TargetTolerance float64 `gorm:"column:target_tolerance;not null;default:0.3" json:"target_tolerance"`
	// 非零时覆盖全局阈值
	MinSamplesRequired    int        `gorm:"column:min_samples_required;not null;default:0" json:"min_samples_required"`
	MinAccuracyPercentage float64    `gorm:"column:min_accuracy_percentage;not null;default:0" json:"min_accuracy_percentage"`
	Status                string     `gorm:"not null;default:Pending" json:"status"`
	CertificationDate     *time.Time `gorm:"column:certification_date" json:"certification_date,omitempty"`
	IsActive              bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt             time.Time  `json:"created_at"`
}

// TableName 指定表名
func (Trainee) TableName() string { return "trainees" }

// ReferenceMaterial 标准物质（已认证金含量）
type ReferenceMaterial struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	MaterialCode         string    `gorm:"column:material_code;uniqueIndex;not null" json:"material_code"`
	CertifiedGoldContent float64   `gorm:"column:certified_gold_content;not null" json:"certified_gold_content"`
	Uncertainty          float64   `json:"uncertainty,omitempty"` // 认证值的不确定度（ppt）
	MaterialType         string    `gorm:"column:material_type" json:"material_type,omitempty"`
	Source               string    `json:"source,omitempty"` // 供应商或认证机构
	Description          string    `json:"description,omitempty"`
	IsActive             bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
}

// TableName 指定表名
func (ReferenceMaterial) TableName() string { return "reference_materials" }

// TraineeEvaluation 学员单次评估记录
type TraineeEvaluation struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	TraineeID           uint      `gorm:"column:trainee_id;not null;index" json:"trainee_id"`
	ReferenceMaterialID uint      `gorm:"column:reference_material_id;not null" json:"reference_material_id"`
	EvaluationType      string    `gorm:"column:evaluation_type;not null;default:accuracy" json:"evaluation_type"`
	MeasuredGoldContent float64   `gorm:"column:measured_gold_content;not null" json:"measured_gold_content"`
	DeviationPpt        float64   `gorm:"column:deviation_ppt;not null" json:"deviation_ppt"` // 实测 - 认证值
	IsWithinTolerance   bool      `gorm:"column:is_within_tolerance;not null;default:false" json:"is_within_tolerance"`
	EvaluationDate      time.Time `gorm:"column:evaluation_date" json:"evaluation_date"`
	Notes               string    `json:"notes,omitempty"`

	Material *ReferenceMaterial `gorm:"foreignKey:ReferenceMaterialID" json:"material,omitempty"`
}

// TableName 指定表名
func (TraineeEvaluation) TableName() string { return "trainee_evaluations" }

// CertificationThreshold 全局认证阈值（单行 is_active）
type CertificationThreshold struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	MinSamples      int       `gorm:"column:min_samples;not null;default:20" json:"min_samples"`
	MinAccuracy     float64   `gorm:"column:min_accuracy;not null;default:85" json:"min_accuracy"`
	MaxStdDeviation float64   `gorm:"column:max_std_deviation;not null;default:0.5" json:"max_std_deviation"`
	MaxAvgDeviation float64   `gorm:"column:max_avg_deviation;not null;default:0.2" json:"max_avg_deviation"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName 指定表名
func (CertificationThreshold) TableName() string { return "certification_thresholds" }

// [自证通过] internal/model/trainee.go
