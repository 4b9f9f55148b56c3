package dto

// SetBenchmarkRequest 设置基准化验员
type SetBenchmarkRequest struct {
	AssayerID uint `json:"assayer_id" binding:"required"`
}

// BenchmarkInfo 当前基准化验员
type BenchmarkInfo struct {
	AssayerID  uint   `json:"assayer_id"`
	Name       string `json:"name"`
	EmployeeID string `json:"employee_id"`
	SetDate    string `json:"set_date"`
}

// DeviationRow 单条偏差记录（同一样品下某化验员相对基准的差值）
type DeviationRow struct {
	SampleID            string  `json:"sample_id"`
	AssayerID           uint    `json:"assayer_id"`
	AssayerName         string  `json:"assayer_name"`
	GoldType            string  `json:"gold_type,omitempty"`
	TestDate            string  `json:"test_date"`
	Reading             float64 `json:"reading"`           // 该化验员读数（ppt）
	BenchmarkReading    float64 `json:"benchmark_reading"` // 基准读数（ppt）
	Deviation           float64 `json:"deviation"`         // 读数 - 基准
	AbsDeviation        float64 `json:"abs_deviation"`
	PercentageDeviation float64 `json:"percentage_deviation"` // 偏差/基准×100；基准为 0 时记 0
	BarWeight           float64 `json:"bar_weight,omitempty"`
}

// DeviationReport 偏差报表
type DeviationReport struct {
	Benchmark        BenchmarkInfo  `json:"benchmark"`
	Rows             []DeviationRow `json:"rows"`
	ZeroBenchmarkRows int           `json:"zero_benchmark_rows"` // 基准读数为 0、百分比按 0 记的行数
}

// [自证通过] internal/dto/deviation.go
