package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/scd892/GoldAssayTracker/internal/dto"
	"github.com/scd892/GoldAssayTracker/internal/model"
	"github.com/scd892/GoldAssayTracker/internal/repository"
	"github.com/scd892/GoldAssayTracker/pkg/stats"
)

// ── 学员认证模块业务错误 ──

var (
	ErrTraineeNotFound    = errors.New("学员不存在")
	ErrMaterialNotFound   = errors.New("标准物质不存在")
	ErrMaterialExists     = errors.New("标准物质编码已存在")
	ErrThresholdsNotFound = errors.New("认证阈值未配置")
)

// 注册时的缺省单次容差（ppt）
const defaultTargetTolerance = 0.3

// TraineeService 学员认证业务接口
type TraineeService interface {
	// Register 注册学员；员工编号已存在时返回既有记录
	Register(ctx context.Context, req *dto.RegisterTraineeRequest) (*model.Trainee, error)
	GetByID(ctx context.Context, id uint) (*model.Trainee, error)
	List(ctx context.Context, activeOnly bool) ([]model.Trainee, error)

	CreateMaterial(ctx context.Context, req *dto.CreateReferenceMaterialRequest) (*model.ReferenceMaterial, error)
	ListMaterials(ctx context.Context, activeOnly bool) ([]model.ReferenceMaterial, error)

	// CreateEvaluation 录入评估并基于全部历史重算认证状态
	CreateEvaluation(ctx context.Context, req *dto.CreateEvaluationRequest) (*model.TraineeEvaluation, error)
	Progress(ctx context.Context, traineeID uint) (*dto.TraineeProgress, error)
	// History 按评估日期逐日汇总，用于进步曲线；evalType 非空时仅统计该类评估
	History(ctx context.Context, traineeID uint, evalType string) ([]dto.TraineeHistoryDay, error)

	GetThresholds(ctx context.Context) (*model.CertificationThreshold, error)
	// UpdateThresholds 更新全局阈值并对所有在册学员重新评定
	UpdateThresholds(ctx context.Context, req *dto.UpdateThresholdsRequest) (*model.CertificationThreshold, error)
}

type traineeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTraineeService 创建 TraineeService 实例
func NewTraineeService(repo *repository.Repository, logger *zap.Logger) TraineeService {
	return &traineeService{repo: repo, logger: logger}
}

// ────────────────────── Register ──────────────────────

func (s *traineeService) Register(ctx context.Context, req *dto.RegisterTraineeRequest) (*model.Trainee, error) {
	if existing, err := s.repo.Trainee.GetTraineeByEmployeeID(ctx, req.EmployeeID); err == nil {
		// 重复注册幂等，返回既有记录
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	trainee := &model.Trainee{
		Name:                  req.Name,
		EmployeeID:            req.EmployeeID,
		TargetTolerance:       req.TargetTolerance,
		MinSamplesRequired:    req.MinSamplesRequired,
		MinAccuracyPercentage: req.MinAccuracyPercentage,
		Status:                model.TraineeStatusPending,
		IsActive:              true,
	}
	if trainee.TargetTolerance <= 0 {
		trainee.TargetTolerance = defaultTargetTolerance
	}
	if req.StartDate != "" {
		startDate, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return nil, err
		}
		trainee.StartDate = &startDate
	}

	if err := s.repo.Trainee.CreateTrainee(ctx, trainee); err != nil {
		s.logger.Error("注册学员失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}
	return trainee, nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *traineeService) GetByID(ctx context.Context, id uint) (*model.Trainee, error) {
	trainee, err := s.repo.Trainee.GetTraineeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTraineeNotFound
		}
		return nil, err
	}
	return trainee, nil
}

func (s *traineeService) List(ctx context.Context, activeOnly bool) ([]model.Trainee, error) {
	return s.repo.Trainee.ListTrainees(ctx, activeOnly)
}

// ────────────────────── CreateMaterial / ListMaterials ──────────────────────

func (s *traineeService) CreateMaterial(ctx context.Context, req *dto.CreateReferenceMaterialRequest) (*model.ReferenceMaterial, error) {
	if _, err := s.repo.Trainee.GetMaterialByCode(ctx, req.MaterialCode); err == nil {
		return nil, ErrMaterialExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	material := &model.ReferenceMaterial{
		MaterialCode:         req.MaterialCode,
		CertifiedGoldContent: req.CertifiedGoldContent,
		Uncertainty:          req.Uncertainty,
		MaterialType:         req.MaterialType,
		Source:               req.Source,
		Description:          req.Description,
		IsActive:             true,
	}
	if err := s.repo.Trainee.CreateMaterial(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *traineeService) ListMaterials(ctx context.Context, activeOnly bool) ([]model.ReferenceMaterial, error) {
	return s.repo.Trainee.ListMaterials(ctx, activeOnly)
}

// ────────────────────── CreateEvaluation ──────────────────────

func (s *traineeService) CreateEvaluation(ctx context.Context, req *dto.CreateEvaluationRequest) (*model.TraineeEvaluation, error) {
	trainee, err := s.GetByID(ctx, req.TraineeID)
	if err != nil {
		return nil, err
	}
	material, err := s.repo.Trainee.GetMaterialByID(ctx, req.ReferenceMaterialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}

	evalType := req.EvaluationType
	if evalType == "" {
		evalType = model.EvaluationTypeAccuracy
	}
	evalDate := time.Now()
	if req.EvaluationDate != "" {
		if evalDate, err = parseFlexibleDate(req.EvaluationDate); err != nil {
			return nil, err
		}
	}

	deviation := req.MeasuredGoldContent - material.CertifiedGoldContent
	eval := &model.TraineeEvaluation{
		TraineeID:           trainee.ID,
		ReferenceMaterialID: material.ID,
		EvaluationType:      evalType,
		MeasuredGoldContent: req.MeasuredGoldContent,
		DeviationPpt:        deviation,
		IsWithinTolerance:   math.Abs(deviation) <= trainee.TargetTolerance,
		EvaluationDate:      evalDate,
		Notes:               req.Notes,
	}
	if err := s.repo.Trainee.CreateEvaluation(ctx, eval); err != nil {
		s.logger.Error("录入学员评估失败", zap.Uint("trainee_id", trainee.ID), zap.Error(err))
		return nil, err
	}

	if err := s.recomputeStatus(ctx, trainee); err != nil {
		return nil, err
	}
	return eval, nil
}

// ────────────────────── 认证状态机 ──────────────────────

// effectiveThresholds 学员自身非零项覆盖全局阈值
func (s *traineeService) effectiveThresholds(ctx context.Context, trainee *model.Trainee) (minSamples int, minAccuracy, maxStd, maxAvg float64, err error) {
	global, err := s.repo.Trainee.GetActiveThresholds(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, 0, 0, ErrThresholdsNotFound
		}
		return 0, 0, 0, 0, err
	}

	minSamples = global.MinSamples
	minAccuracy = global.MinAccuracy
	if trainee.MinSamplesRequired > 0 {
		minSamples = trainee.MinSamplesRequired
	}
	if trainee.MinAccuracyPercentage > 0 {
		minAccuracy = trainee.MinAccuracyPercentage
	}
	return minSamples, minAccuracy, global.MaxStdDeviation, global.MaxAvgDeviation, nil
}

// recomputeStatus 基于全部评估历史重算认证状态。
// 认证日期只在首次达到 Certified 时盖章，之后不再改写。
func (s *traineeService) recomputeStatus(ctx context.Context, trainee *model.Trainee) error {
	minSamples, minAccuracy, maxStd, maxAvg, err := s.effectiveThresholds(ctx, trainee)
	if err != nil {
		return err
	}

	evals, err := s.repo.Trainee.ListEvaluationsByTrainee(ctx, trainee.ID)
	if err != nil {
		return err
	}

	var accuracyDevs, consistencyDevs []float64
	var withinCount int
	for _, eval := range evals {
		switch eval.EvaluationType {
		case model.EvaluationTypeConsistency:
			consistencyDevs = append(consistencyDevs, eval.DeviationPpt)
		default:
			accuracyDevs = append(accuracyDevs, eval.DeviationPpt)
			if eval.IsWithinTolerance {
				withinCount++
			}
		}
	}

	status := model.TraineeStatusPending
	if len(accuracyDevs) >= minSamples {
		pct := float64(withinCount) / float64(len(accuracyDevs)) * 100
		avg := stats.Mean(accuracyDevs)
		std := stats.StdDev(accuracyDevs)
		accuracyPassed := pct >= minAccuracy && math.Abs(avg) <= maxAvg && std <= maxStd

		passed := accuracyPassed
		if len(consistencyDevs) > 0 {
			// 存在一致性评估时两项都要通过
			passed = accuracyPassed && stats.StdDev(consistencyDevs) <= maxStd
		}

		if passed {
			status = model.TraineeStatusCertified
		} else {
			status = model.TraineeStatusNeedsMore
		}
	}

	if status == trainee.Status {
		return nil
	}
	trainee.Status = status
	if status == model.TraineeStatusCertified && trainee.CertificationDate == nil {
		now := time.Now()
		trainee.CertificationDate = &now
	}
	s.logger.Info("学员认证状态更新",
		zap.Uint("trainee_id", trainee.ID),
		zap.String("status", status))
	return s.repo.Trainee.UpdateTrainee(ctx, trainee)
}

// ────────────────────── Progress ──────────────────────

func (s *traineeService) Progress(ctx context.Context, traineeID uint) (*dto.TraineeProgress, error) {
	trainee, err := s.GetByID(ctx, traineeID)
	if err != nil {
		return nil, err
	}
	minSamples, minAccuracy, maxStd, _, err := s.effectiveThresholds(ctx, trainee)
	if err != nil {
		return nil, err
	}

	evals, err := s.repo.Trainee.ListEvaluationsByTrainee(ctx, traineeID)
	if err != nil {
		return nil, err
	}

	var accuracyDevs, consistencyDevs []float64
	var withinCount int
	for _, eval := range evals {
		switch eval.EvaluationType {
		case model.EvaluationTypeConsistency:
			consistencyDevs = append(consistencyDevs, eval.DeviationPpt)
		default:
			accuracyDevs = append(accuracyDevs, eval.DeviationPpt)
			if eval.IsWithinTolerance {
				withinCount++
			}
		}
	}

	progress := &dto.TraineeProgress{
		TraineeID:        trainee.ID,
		Name:             trainee.Name,
		EmployeeID:       trainee.EmployeeID,
		Status:           trainee.Status,
		SampleCount:      int64(len(accuracyDevs)),
		RequiredSamples:  minSamples,
		RequiredAccuracy: minAccuracy,
		AvgDeviation:     stats.Mean(accuracyDevs),
		StdDeviation:     stats.StdDev(accuracyDevs),
		ConsistencyCount: int64(len(consistencyDevs)),
	}
	if trainee.CertificationDate != nil {
		progress.CertificationDate = trainee.CertificationDate.Format("2006-01-02")
	}
	if len(accuracyDevs) > 0 {
		progress.AccuracyPercentage = float64(withinCount) / float64(len(accuracyDevs)) * 100
	}
	if len(consistencyDevs) > 0 {
		passed := stats.StdDev(consistencyDevs) <= maxStd
		progress.ConsistencyPassed = &passed
	}
	return progress, nil
}

// ────────────────────── History ──────────────────────

func (s *traineeService) History(ctx context.Context, traineeID uint, evalType string) ([]dto.TraineeHistoryDay, error) {
	if _, err := s.GetByID(ctx, traineeID); err != nil {
		return nil, err
	}

	evals, err := s.repo.Trainee.ListEvaluationsByTrainee(ctx, traineeID)
	if err != nil {
		return nil, err
	}

	type dayAgg struct {
		devs   []float64
		within int
	}
	days := make(map[string]*dayAgg)
	order := make([]string, 0)
	for _, eval := range evals {
		if evalType != "" && eval.EvaluationType != evalType {
			continue
		}
		key := eval.EvaluationDate.Format("2006-01-02")
		agg, ok := days[key]
		if !ok {
			agg = &dayAgg{}
			days[key] = agg
			order = append(order, key)
		}
		agg.devs = append(agg.devs, eval.DeviationPpt)
		if eval.IsWithinTolerance {
			agg.within++
		}
	}
	sort.Strings(order)

	history := make([]dto.TraineeHistoryDay, 0, len(order))
	for _, key := range order {
		agg := days[key]
		day := dto.TraineeHistoryDay{
			Date:            key,
			EvaluationCount: len(agg.devs),
			WithinTolerance: agg.within,
			AvgDeviation:    stats.Mean(agg.devs),
			StdDeviation:    stats.StdDev(agg.devs),
		}
		day.AccuracyPercentage = float64(agg.within) / float64(len(agg.devs)) * 100
		history = append(history, day)
	}
	return history, nil
}

// ────────────────────── Thresholds ──────────────────────

func (s *traineeService) GetThresholds(ctx context.Context) (*model.CertificationThreshold, error) {
	t, err := s.repo.Trainee.GetActiveThresholds(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThresholdsNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *traineeService) UpdateThresholds(ctx context.Context, req *dto.UpdateThresholdsRequest) (*model.CertificationThreshold, error) {
	t, err := s.GetThresholds(ctx)
	if err != nil {
		return nil, err
	}

	t.MinSamples = req.MinSamples
	t.MinAccuracy = req.MinAccuracy
	t.MaxStdDeviation = req.MaxStdDeviation
	t.MaxAvgDeviation = req.MaxAvgDeviation
	if err := s.repo.Trainee.UpdateThresholds(ctx, t); err != nil {
		return nil, err
	}

	// 阈值变化影响所有在册学员的评定
	trainees, err := s.repo.Trainee.ListTrainees(ctx, true)
	if err != nil {
		return nil, err
	}
	for i := range trainees {
		if err := s.recomputeStatus(ctx, &trainees[i]); err != nil {
			return nil, err
		}
	}

	s.logger.Info("认证阈值已更新并重评全部学员",
		zap.Int("min_samples", t.MinSamples),
		zap.Float64("min_accuracy", t.MinAccuracy),
		zap.Int("trainees", len(trainees)))
	return t, nil
}

// [自证通过] internal/service/trainee_service.go
