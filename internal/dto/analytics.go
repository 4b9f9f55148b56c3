package dto

// AssayerPerformance 化验员绩效汇总
type AssayerPerformance struct {
	AssayerID        uint    `json:"assayer_id"`
	AssayerName      string  `json:"assayer_name"`
	SampleCount      int64   `json:"sample_count"`
	AvgDeviation     float64 `json:"avg_deviation"`
	AvgAbsDeviation  float64 `json:"avg_abs_deviation"`
	StdDeviation     float64 `json:"std_deviation"`
	AvgAbsPercentage float64 `json:"avg_abs_percentage"` // AVG(|偏差|/基准×100)
	FirstTestDate    string  `json:"first_test_date"`
	LastTestDate     string  `json:"last_test_date"`
}

// GoldTypeAnalysis 按金类型的偏差分析
type GoldTypeAnalysis struct {
	GoldType        string  `json:"gold_type"`
	SampleCount     int64   `json:"sample_count"`
	AvgAbsDeviation float64 `json:"avg_abs_deviation"`
	StdDeviation    float64 `json:"std_deviation"` // 围绕零的均方根，保留三位小数
	MinAbsDeviation float64 `json:"min_abs_deviation"`
	MaxAbsDeviation float64 `json:"max_abs_deviation"`
	ConsistencyRank int     `json:"consistency_rank"`
	VariabilityRank int     `json:"variability_rank"`
}

// DistributionShape 偏差分布形态
type DistributionShape struct {
	AssayerID   uint    `json:"assayer_id"`
	AssayerName string  `json:"assayer_name"`
	SampleCount int64   `json:"sample_count"`
	Mean        float64 `json:"mean"`
	Median      float64 `json:"median"`
	StdDev      float64 `json:"std_dev"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Q25         float64 `json:"q25"`
	Q75         float64 `json:"q75"`
	IQR         float64 `json:"iqr"`
	SkewRatio   float64 `json:"skew_ratio"` // (均值-中位数)/标准差
	Skewness    string  `json:"skewness"`   // symmetric / right-skewed / left-skewed
	CV          float64 `json:"cv"`         // |标准差/均值|
	Spread      string  `json:"spread"`     // narrow / moderate / wide
}

// AssayerGoldTypeAnalysis 按化验员×金类型的偏差分析
type AssayerGoldTypeAnalysis struct {
	AssayerID       uint    `json:"assayer_id"`
	AssayerName     string  `json:"assayer_name"`
	GoldType        string  `json:"gold_type"`
	SampleCount     int64   `json:"sample_count"`
	AvgDeviation    float64 `json:"avg_deviation"`
	AvgAbsDeviation float64 `json:"avg_abs_deviation"`
	StdDeviation    float64 `json:"std_deviation"`
	MinAbsDeviation float64 `json:"min_abs_deviation"`
	MaxAbsDeviation float64 `json:"max_abs_deviation"`
}

// HeatmapCell 单个 ISO 周内的平均百分比偏差
type HeatmapCell struct {
	Week        string  `json:"week"` // ISO 周，如 2026-W31
	SampleCount int64   `json:"sample_count"`
	MeanPct     float64 `json:"mean_pct"` // 周内平均百分比偏差（相对基准读数）
}

// HeatmapRow 热力图中单个化验员的一行
type HeatmapRow struct {
	AssayerID   uint          `json:"assayer_id"`
	AssayerName string        `json:"assayer_name"`
	Cells       []HeatmapCell `json:"cells"`
	WeeklyStd   float64       `json:"weekly_std"` // 周均值序列的标准差，衡量周际稳定性
}

// HeatmapHotspot 周均百分比偏差超出告警线的热点
type HeatmapHotspot struct {
	AssayerName string  `json:"assayer_name"`
	Week        string  `json:"week"`
	MeanPct     float64 `json:"mean_pct"`
}

// DeviationHeatmap 周×化验员偏差热力图及摘要
type DeviationHeatmap struct {
	Weeks           []string         `json:"weeks"`
	Rows            []HeatmapRow     `json:"rows"`
	Hotspots        []HeatmapHotspot `json:"hotspots"`
	MostConsistent  []string         `json:"most_consistent"`  // 周际波动最小的化验员（至多三名）
	LeastConsistent []string         `json:"least_consistent"` // 周际波动最大的化验员（至多三名）
}

// MovingAveragePoint 滑动平均序列中的一个点
type MovingAveragePoint struct {
	Date          string  `json:"date"`
	DailyMean     float64 `json:"daily_mean"`
	MovingAverage float64 `json:"moving_average"`
}

// MovingAverageSeries 单个化验员的滑动平均序列
type MovingAverageSeries struct {
	AssayerID   uint                 `json:"assayer_id"`
	AssayerName string               `json:"assayer_name"`
	Window      int                  `json:"window"`
	Points      []MovingAveragePoint `json:"points"`
}

// [自证通过] internal/dto/analytics.go
