package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/scd892/GoldAssayTracker/internal/dto"
)

func TestCreateResultDuplicateRejected(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	resultSvc := NewResultService(repo, zap.NewNop())

	smith := seedAssayer(t, repo, "Smith", "E001")

	req := &dto.CreateResultRequest{
		AssayerID:   smith.ID,
		SampleID:    "S-100",
		GoldContent: 994.0,
		TestDate:    "2026-08-01",
	}
	if _, err := resultSvc.Create(ctx, req); err != nil {
		t.Fatalf("首次录入应成功: %v", err)
	}
	if _, err := resultSvc.Create(ctx, req); err != ErrDuplicateResult {
		t.Fatalf("同一化验员重复录入同一样品应被拒绝，实际 %v", err)
	}

	// 其他化验员对同一样品不受限
	garcia := seedAssayer(t, repo, "Garcia", "E002")
	req2 := &dto.CreateResultRequest{
		AssayerID:   garcia.ID,
		SampleID:    "S-100",
		GoldContent: 993.5,
		TestDate:    "2026-08-01",
	}
	if _, err := resultSvc.Create(ctx, req2); err != nil {
		t.Fatalf("不同化验员录入同一样品应成功: %v", err)
	}
}

func TestCreateResultInactiveAssayerRejected(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	resultSvc := NewResultService(repo, zap.NewNop())

	jones := seedAssayer(t, repo, "Jones", "E003")
	jones.IsActive = false
	repo.Assayer.Update(ctx, jones)

	req := &dto.CreateResultRequest{
		AssayerID:   jones.ID,
		SampleID:    "S-200",
		GoldContent: 990.0,
		TestDate:    "2026-08-01",
	}
	if _, err := resultSvc.Create(ctx, req); err != ErrAssayerInactive {
		t.Fatalf("停用化验员录入应被拒绝，实际 %v", err)
	}
	if _, err := resultSvc.Create(ctx, &dto.CreateResultRequest{
		AssayerID:   9999,
		SampleID:    "S-201",
		GoldContent: 990.0,
		TestDate:    "2026-08-01",
	}); err != ErrAssayerNotFound {
		t.Fatalf("不存在的化验员应返回 ErrAssayerNotFound，实际 %v", err)
	}
}

func TestCreateResultAcceptsFlexibleDates(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	resultSvc := NewResultService(repo, zap.NewNop())

	smith := seedAssayer(t, repo, "Smith", "E001")

	// 日期与 RFC3339 两种格式都应接受
	if _, err := resultSvc.Create(ctx, &dto.CreateResultRequest{
		AssayerID: smith.ID, SampleID: "S-300", GoldContent: 994.0, TestDate: "2026-08-01",
	}); err != nil {
		t.Fatalf("日期格式应被接受: %v", err)
	}
	if _, err := resultSvc.Create(ctx, &dto.CreateResultRequest{
		AssayerID: smith.ID, SampleID: "S-301", GoldContent: 994.0, TestDate: "2026-08-01T10:30:00Z",
	}); err != nil {
		t.Fatalf("RFC3339 格式应被接受: %v", err)
	}
	if _, err := resultSvc.Create(ctx, &dto.CreateResultRequest{
		AssayerID: smith.ID, SampleID: "S-302", GoldContent: 994.0, TestDate: "01/08/2026",
	}); err == nil {
		t.Fatalf("无法解析的日期应报错")
	}
}

func TestListResultsEndDateInclusive(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	resultSvc := NewResultService(repo, zap.NewNop())

	smith := seedAssayer(t, repo, "Smith", "E001")
	seedResult(t, repo, smith.ID, "S-1", 994.0, 1000, "2026-08-01")
	seedResult(t, repo, smith.ID, "S-2", 994.0, 1000, "2026-08-02")
	seedResult(t, repo, smith.ID, "S-3", 994.0, 1000, "2026-08-03")

	results, total, err := resultSvc.List(ctx, &dto.ListResultsQuery{
		StartDate: "2026-08-01",
		EndDate:   "2026-08-02",
		Page:      1,
		PageSize:  20,
	})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	// 截止日期含当日
	if total != 2 || len(results) != 2 {
		t.Fatalf("应命中 2 条记录，实际 total=%d len=%d", total, len(results))
	}
	for _, r := range results {
		if r.SampleID == "S-3" {
			t.Fatalf("截止日期之后的记录不应出现")
		}
	}
}

func TestUpdateResultPartialFields(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	resultSvc := NewResultService(repo, zap.NewNop())

	smith := seedAssayer(t, repo, "Smith", "E001")
	result := seedResult(t, repo, smith.ID, "S-1", 994.0, 1000, "2026-08-01")

	content := 994.5
	notes := "复检后修正"
	updated, err := resultSvc.Update(ctx, result.ID, &dto.UpdateResultRequest{
		GoldContent: &content,
		Notes:       &notes,
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.GoldContent != 994.5 || updated.Notes != "复检后修正" {
		t.Fatalf("更新字段未生效: %+v", updated)
	}
	// 未提供的字段保持原值
	if updated.BarWeight != 1000 || updated.SampleID != "S-1" {
		t.Fatalf("未更新字段不应改变: %+v", updated)
	}

	badDate := "01/08/2026"
	if _, err := resultSvc.Update(ctx, result.ID, &dto.UpdateResultRequest{TestDate: &badDate}); err == nil {
		t.Fatalf("无法解析的日期应报错")
	}
	if _, err := resultSvc.Update(ctx, 9999, &dto.UpdateResultRequest{}); err != ErrResultNotFound {
		t.Fatalf("不存在的结果应返回 ErrResultNotFound，实际 %v", err)
	}
}

func TestListResultsSearch(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	resultSvc := NewResultService(repo, zap.NewNop())

	smith := seedAssayer(t, repo, "Smith", "E001")
	garcia := seedAssayer(t, repo, "Garcia", "E002")
	seedResult(t, repo, smith.ID, "LOT-2026-001", 994.0, 1000, "2026-08-01")
	seedResult(t, repo, garcia.ID, "LOT-2026-002", 993.5, 1000, "2026-08-01")

	// 按样品编号模糊命中
	_, total, err := resultSvc.List(ctx, &dto.ListResultsQuery{Search: "2026-001", Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 1 {
		t.Fatalf("样品编号检索应命中 1 条，实际 %d", total)
	}

	// 按化验员姓名模糊命中
	results, total, err := resultSvc.List(ctx, &dto.ListResultsQuery{Search: "Garcia", Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 1 || results[0].AssayerID != garcia.ID {
		t.Fatalf("姓名检索应命中 Garcia 的记录，实际 total=%d", total)
	}

	_, total, err = resultSvc.List(ctx, &dto.ListResultsQuery{Search: "无此样品", Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 0 {
		t.Fatalf("无匹配时应为 0 条，实际 %d", total)
	}
}

func TestDeleteBenchmarkResultProtected(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	resultSvc := NewResultService(repo, zap.NewNop())

	smith := seedAssayer(t, repo, "Smith", "E001")
	garcia := seedAssayer(t, repo, "Garcia", "E002")
	if err := repo.Benchmark.SetActive(ctx, smith.ID); err != nil {
		t.Fatalf("设置基准应成功: %v", err)
	}

	benchmarkResult := seedResult(t, repo, smith.ID, "S-1", 994.0, 1000, "2026-08-01")
	normalResult := seedResult(t, repo, garcia.ID, "S-1", 993.5, 1000, "2026-08-01")

	if err := resultSvc.Delete(ctx, benchmarkResult.ID); err != ErrResultIsBenchmark {
		t.Fatalf("基准化验员的结果应受保护，实际 %v", err)
	}
	if err := resultSvc.Delete(ctx, normalResult.ID); err != nil {
		t.Fatalf("普通结果删除应成功: %v", err)
	}
	if err := resultSvc.Delete(ctx, normalResult.ID); err != ErrResultNotFound {
		t.Fatalf("重复删除应返回 ErrResultNotFound，实际 %v", err)
	}
}

// [自证通过] internal/service/result_service_test.go
