package service

import (
	"context"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/scd892/GoldAssayTracker/internal/dto"
	"github.com/scd892/GoldAssayTracker/internal/model"
	"github.com/scd892/GoldAssayTracker/internal/repository"
)

func newTraineeFixture(t *testing.T) (*repository.Repository, TraineeService) {
	t.Helper()
	repo := newMockRepository()
	traineeSvc := NewTraineeService(repo, zap.NewNop())

	// 迁移脚本会写入默认全局阈值
	err := repo.Trainee.UpdateThresholds(context.Background(), &model.CertificationThreshold{
		ID:              1,
		MinSamples:      20,
		MinAccuracy:     85.0,
		MaxStdDeviation: 0.5,
		MaxAvgDeviation: 0.2,
		IsActive:        true,
	})
	if err != nil {
		t.Fatalf("写入默认阈值应成功: %v", err)
	}
	return repo, traineeSvc
}

func seedTraineeWithMaterial(t *testing.T, traineeSvc TraineeService) (*model.Trainee, *model.ReferenceMaterial) {
	t.Helper()
	ctx := context.Background()
	trainee, err := traineeSvc.Register(ctx, &dto.RegisterTraineeRequest{
		Name:       "Lee",
		EmployeeID: "T-001",
	})
	if err != nil {
		t.Fatalf("注册学员应成功: %v", err)
	}
	material, err := traineeSvc.CreateMaterial(ctx, &dto.CreateReferenceMaterialRequest{
		MaterialCode:         "RM-100",
		CertifiedGoldContent: 995.0,
	})
	if err != nil {
		t.Fatalf("创建标准物质应成功: %v", err)
	}
	return trainee, material
}

func TestCreateMaterialCarriesCertificationMetadata(t *testing.T) {
	ctx := context.Background()
	_, traineeSvc := newTraineeFixture(t)

	material, err := traineeSvc.CreateMaterial(ctx, &dto.CreateReferenceMaterialRequest{
		MaterialCode:         "RM-200",
		CertifiedGoldContent: 999.5,
		Uncertainty:          0.05,
		MaterialType:         "granule",
		Source:               "NIST",
	})
	if err != nil {
		t.Fatalf("创建标准物质应成功: %v", err)
	}
	if math.Abs(material.Uncertainty-0.05) > 1e-9 {
		t.Fatalf("不确定度应随创建保存，实际 %v", material.Uncertainty)
	}
	if material.MaterialType != "granule" || material.Source != "NIST" {
		t.Fatalf("物质类型与来源应随创建保存，实际 %+v", material)
	}
}

func addEvaluations(t *testing.T, traineeSvc TraineeService, trainee *model.Trainee, material *model.ReferenceMaterial, deviations []float64) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	for i, dev := range deviations {
		_, err := traineeSvc.CreateEvaluation(ctx, &dto.CreateEvaluationRequest{
			TraineeID:           trainee.ID,
			ReferenceMaterialID: material.ID,
			MeasuredGoldContent: material.CertifiedGoldContent + dev,
			EvaluationDate:      base.AddDate(0, 0, i).Format("2006-01-02"),
		})
		if err != nil {
			t.Fatalf("录入第 %d 条评估应成功: %v", i+1, err)
		}
	}
}

func TestTraineeHistoryGroupsByDay(t *testing.T) {
	ctx := context.Background()
	_, traineeSvc := newTraineeFixture(t)
	trainee, material := seedTraineeWithMaterial(t, traineeSvc)

	add := func(dev float64, day, evalType string) {
		t.Helper()
		_, err := traineeSvc.CreateEvaluation(ctx, &dto.CreateEvaluationRequest{
			TraineeID:           trainee.ID,
			ReferenceMaterialID: material.ID,
			EvaluationType:      evalType,
			MeasuredGoldContent: material.CertifiedGoldContent + dev,
			EvaluationDate:      day,
		})
		if err != nil {
			t.Fatalf("录入评估应成功: %v", err)
		}
	}
	// 第二天先录，验证按日期排序
	add(-0.2, "2026-07-02", "")
	add(0.1, "2026-07-01", "")
	add(0.5, "2026-07-01", "") // 超出缺省容差 0.3
	add(0.2, "2026-07-03", model.EvaluationTypeConsistency)

	history, err := traineeSvc.History(ctx, trainee.ID, "")
	if err != nil {
		t.Fatalf("History 应成功: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("不过滤时应有 3 天记录，实际 %d", len(history))
	}

	day1 := history[0]
	if day1.Date != "2026-07-01" || day1.EvaluationCount != 2 || day1.WithinTolerance != 1 {
		t.Fatalf("首日汇总不符: %+v", day1)
	}
	if math.Abs(day1.AccuracyPercentage-50.0) > 1e-9 {
		t.Fatalf("首日合格率应为 50%%，实际 %v", day1.AccuracyPercentage)
	}
	if math.Abs(day1.AvgDeviation-0.3) > 1e-9 {
		t.Fatalf("首日平均偏差应为 0.3，实际 %v", day1.AvgDeviation)
	}

	day2 := history[1]
	if day2.Date != "2026-07-02" || day2.EvaluationCount != 1 || day2.WithinTolerance != 1 {
		t.Fatalf("次日汇总不符: %+v", day2)
	}

	// 按评估类型过滤
	accuracyOnly, err := traineeSvc.History(ctx, trainee.ID, model.EvaluationTypeAccuracy)
	if err != nil {
		t.Fatalf("History 应成功: %v", err)
	}
	if len(accuracyOnly) != 2 {
		t.Fatalf("仅准确度评估应有 2 天记录，实际 %d", len(accuracyOnly))
	}
	consistencyOnly, err := traineeSvc.History(ctx, trainee.ID, model.EvaluationTypeConsistency)
	if err != nil {
		t.Fatalf("History 应成功: %v", err)
	}
	if len(consistencyOnly) != 1 || consistencyOnly[0].Date != "2026-07-03" {
		t.Fatalf("仅一致性评估应有 1 天记录: %+v", consistencyOnly)
	}

	if _, err := traineeSvc.History(ctx, 9999, ""); err != ErrTraineeNotFound {
		t.Fatalf("不存在的学员应返回 ErrTraineeNotFound，实际 %v", err)
	}
}

func TestRegisterTraineeIdempotent(t *testing.T) {
	ctx := context.Background()
	_, traineeSvc := newTraineeFixture(t)

	first, err := traineeSvc.Register(ctx, &dto.RegisterTraineeRequest{Name: "Lee", EmployeeID: "T-001"})
	if err != nil {
		t.Fatalf("注册应成功: %v", err)
	}
	if first.TargetTolerance != 0.3 {
		t.Fatalf("缺省容差应为 0.3，实际 %v", first.TargetTolerance)
	}

	second, err := traineeSvc.Register(ctx, &dto.RegisterTraineeRequest{Name: "Other", EmployeeID: "T-001"})
	if err != nil {
		t.Fatalf("重复注册应幂等: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("重复注册应返回既有记录，实际 %d != %d", second.ID, first.ID)
	}
}

func TestEvaluationDeviationAndTolerance(t *testing.T) {
	ctx := context.Background()
	_, traineeSvc := newTraineeFixture(t)
	trainee, material := seedTraineeWithMaterial(t, traineeSvc)

	eval, err := traineeSvc.CreateEvaluation(ctx, &dto.CreateEvaluationRequest{
		TraineeID:           trainee.ID,
		ReferenceMaterialID: material.ID,
		MeasuredGoldContent: 995.2,
	})
	if err != nil {
		t.Fatalf("录入评估应成功: %v", err)
	}
	if math.Abs(eval.DeviationPpt-0.2) > 1e-9 {
		t.Fatalf("偏差应为 0.2，实际 %v", eval.DeviationPpt)
	}
	if !eval.IsWithinTolerance {
		t.Fatalf("0.2 ≤ 0.3 应在容差内")
	}

	out, err := traineeSvc.CreateEvaluation(ctx, &dto.CreateEvaluationRequest{
		TraineeID:           trainee.ID,
		ReferenceMaterialID: material.ID,
		MeasuredGoldContent: 995.5,
	})
	if err != nil {
		t.Fatalf("录入评估应成功: %v", err)
	}
	if out.IsWithinTolerance {
		t.Fatalf("0.5 > 0.3 应超出容差")
	}
}

func TestCertificationGranted(t *testing.T) {
	ctx := context.Background()
	_, traineeSvc := newTraineeFixture(t)
	trainee, material := seedTraineeWithMaterial(t, traineeSvc)

	// 20 条评估：18 条 +0.1（容差内），2 条 +0.4（超容差）
	// 准确率 90% ≥ 85%，均值 0.13 ≤ 0.2，标准差 ≈ 0.098 ≤ 0.5 → 认证
	devs := make([]float64, 0, 20)
	for i := 0; i < 18; i++ {
		devs = append(devs, 0.1)
	}
	devs = append(devs, 0.4, 0.4)
	addEvaluations(t, traineeSvc, trainee, material, devs)

	updated, err := traineeSvc.GetByID(ctx, trainee.ID)
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if updated.Status != model.TraineeStatusCertified {
		t.Fatalf("应认证通过，实际状态 %s", updated.Status)
	}
	if updated.CertificationDate == nil {
		t.Fatalf("认证日期应已盖章")
	}
}

func TestCertificationPendingBelowMinSamples(t *testing.T) {
	ctx := context.Background()
	_, traineeSvc := newTraineeFixture(t)
	trainee, material := seedTraineeWithMaterial(t, traineeSvc)

	addEvaluations(t, traineeSvc, trainee, material, []float64{0.1, 0.1, 0.1})

	updated, _ := traineeSvc.GetByID(ctx, trainee.ID)
	if updated.Status != model.TraineeStatusPending {
		t.Fatalf("样品数不足时应为 Pending，实际 %s", updated.Status)
	}
}

func TestCertificationNeedsMoreTrainingOnHighBias(t *testing.T) {
	ctx := context.Background()
	_, traineeSvc := newTraineeFixture(t)
	trainee, material := seedTraineeWithMaterial(t, traineeSvc)

	// 全部 +0.25：容差内（100%），但均值 0.25 > 0.2 → 未通过
	devs := make([]float64, 20)
	for i := range devs {
		devs[i] = 0.25
	}
	addEvaluations(t, traineeSvc, trainee, material, devs)

	updated, _ := traineeSvc.GetByID(ctx, trainee.ID)
	if updated.Status != model.TraineeStatusNeedsMore {
		t.Fatalf("均值超限时应为 Needs More Training，实际 %s", updated.Status)
	}
	if updated.CertificationDate != nil {
		t.Fatalf("未认证不应有认证日期")
	}
}

func TestCertificationDateStampedOnce(t *testing.T) {
	ctx := context.Background()
	_, traineeSvc := newTraineeFixture(t)
	trainee, material := seedTraineeWithMaterial(t, traineeSvc)

	devs := make([]float64, 20)
	for i := range devs {
		devs[i] = 0.1
	}
	addEvaluations(t, traineeSvc, trainee, material, devs)

	first, _ := traineeSvc.GetByID(ctx, trainee.ID)
	if first.Status != model.TraineeStatusCertified || first.CertificationDate == nil {
		t.Fatalf("应认证并盖章: %+v", first)
	}
	stamped := *first.CertificationDate

	// 追加评估导致跌出标准后再恢复，认证日期不应被改写
	addEvaluations2 := func(devs []float64, offset int) {
		base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		for i, dev := range devs {
			_, err := traineeSvc.CreateEvaluation(ctx, &dto.CreateEvaluationRequest{
				TraineeID:           trainee.ID,
				ReferenceMaterialID: material.ID,
				MeasuredGoldContent: material.CertifiedGoldContent + dev,
				EvaluationDate:      base.AddDate(0, 0, offset+i).Format("2006-01-02"),
			})
			if err != nil {
				t.Fatalf("追加评估应成功: %v", err)
			}
		}
	}
	addEvaluations2([]float64{2.0, 2.0, 2.0, 2.0, 2.0}, 0)

	demoted, _ := traineeSvc.GetByID(ctx, trainee.ID)
	if demoted.Status != model.TraineeStatusNeedsMore {
		t.Fatalf("大偏差后应跌出认证，实际 %s", demoted.Status)
	}
	if demoted.CertificationDate == nil || !demoted.CertificationDate.Equal(stamped) {
		t.Fatalf("认证日期不应被改写")
	}
}

func TestThresholdUpdateRescoresTrainees(t *testing.T) {
	ctx := context.Background()
	_, traineeSvc := newTraineeFixture(t)
	trainee, material := seedTraineeWithMaterial(t, traineeSvc)

	// 10 条容差内评估：在 min_samples=20 下为 Pending
	devs := make([]float64, 10)
	for i := range devs {
		devs[i] = 0.1
	}
	addEvaluations(t, traineeSvc, trainee, material, devs)

	before, _ := traineeSvc.GetByID(ctx, trainee.ID)
	if before.Status != model.TraineeStatusPending {
		t.Fatalf("更新前应为 Pending，实际 %s", before.Status)
	}

	// 降低 min_samples 到 10 后重评应通过
	_, err := traineeSvc.UpdateThresholds(ctx, &dto.UpdateThresholdsRequest{
		MinSamples:      10,
		MinAccuracy:     85.0,
		MaxStdDeviation: 0.5,
		MaxAvgDeviation: 0.2,
	})
	if err != nil {
		t.Fatalf("更新阈值应成功: %v", err)
	}

	after, _ := traineeSvc.GetByID(ctx, trainee.ID)
	if after.Status != model.TraineeStatusCertified {
		t.Fatalf("重评后应认证，实际 %s", after.Status)
	}
}

func TestPerTraineeThresholdOverride(t *testing.T) {
	ctx := context.Background()
	_, traineeSvc := newTraineeFixture(t)

	trainee, err := traineeSvc.Register(ctx, &dto.RegisterTraineeRequest{
		Name:               "Wong",
		EmployeeID:         "T-002",
		MinSamplesRequired: 5,
	})
	if err != nil {
		t.Fatalf("注册应成功: %v", err)
	}
	material, err := traineeSvc.CreateMaterial(ctx, &dto.CreateReferenceMaterialRequest{
		MaterialCode:         "RM-200",
		CertifiedGoldContent: 995.0,
	})
	if err != nil {
		t.Fatalf("创建标准物质应成功: %v", err)
	}

	// 个体 min_samples=5 覆盖全局 20
	addEvaluations(t, traineeSvc, trainee, material, []float64{0.1, 0.1, 0.1, 0.1, 0.1})

	updated, _ := traineeSvc.GetByID(ctx, trainee.ID)
	if updated.Status != model.TraineeStatusCertified {
		t.Fatalf("个体阈值覆盖后应认证，实际 %s", updated.Status)
	}
}

func TestConsistencyEvaluationsGateCertification(t *testing.T) {
	ctx := context.Background()
	_, traineeSvc := newTraineeFixture(t)
	trainee, material := seedTraineeWithMaterial(t, traineeSvc)

	devs := make([]float64, 20)
	for i := range devs {
		devs[i] = 0.1
	}
	addEvaluations(t, traineeSvc, trainee, material, devs)

	// 一致性评估波动过大：两项都要通过才能认证
	base := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	for i, dev := range []float64{1.0, -1.0, 1.0, -1.0} {
		_, err := traineeSvc.CreateEvaluation(ctx, &dto.CreateEvaluationRequest{
			TraineeID:           trainee.ID,
			ReferenceMaterialID: material.ID,
			EvaluationType:      model.EvaluationTypeConsistency,
			MeasuredGoldContent: material.CertifiedGoldContent + dev,
			EvaluationDate:      base.AddDate(0, 0, i).Format("2006-01-02"),
		})
		if err != nil {
			t.Fatalf("录入一致性评估应成功: %v", err)
		}
	}

	updated, _ := traineeSvc.GetByID(ctx, trainee.ID)
	if updated.Status != model.TraineeStatusNeedsMore {
		t.Fatalf("一致性不达标时应为 Needs More Training，实际 %s", updated.Status)
	}

	progress, err := traineeSvc.Progress(ctx, trainee.ID)
	if err != nil {
		t.Fatalf("Progress 应成功: %v", err)
	}
	if progress.ConsistencyPassed == nil || *progress.ConsistencyPassed {
		t.Fatalf("一致性应判定未通过: %+v", progress.ConsistencyPassed)
	}
	if progress.ConsistencyCount != 4 {
		t.Fatalf("一致性评估数应为 4，实际 %d", progress.ConsistencyCount)
	}
}

func TestProgressReportsAccuracy(t *testing.T) {
	ctx := context.Background()
	_, traineeSvc := newTraineeFixture(t)
	trainee, material := seedTraineeWithMaterial(t, traineeSvc)

	addEvaluations(t, traineeSvc, trainee, material, []float64{0.1, 0.1, 0.5, 0.5})

	progress, err := traineeSvc.Progress(ctx, trainee.ID)
	if err != nil {
		t.Fatalf("Progress 应成功: %v", err)
	}
	if progress.SampleCount != 4 {
		t.Fatalf("样品数应为 4，实际 %d", progress.SampleCount)
	}
	if progress.AccuracyPercentage != 50.0 {
		t.Fatalf("准确率应为 50%%，实际 %v", progress.AccuracyPercentage)
	}
	if progress.RequiredSamples != 20 || progress.RequiredAccuracy != 85.0 {
		t.Fatalf("阈值展示不符: %+v", progress)
	}
}

// [自证通过] internal/service/trainee_service_test.go
