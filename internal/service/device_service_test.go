package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/AbnormalDerp/TMM-Dashboard/internal/model"
)

// ── 测试辅助 ──

func setupTestDeviceService(now time.Time) (DeviceService, *testRepos) {
	repos := newTestRepos()
	svc := NewDeviceService(testAppConfig(), repos.toRepository(), zap.NewNop())
	svc.(*deviceService).now = func() time.Time { return now }
	return svc, repos
}

// ════════════════════════════════════════════════════════════
// GetInfo 测试
// ════════════════════════════════════════════════════════════

func TestDeviceService_GetInfo_InCourseWithCompletion(t *testing.T) {
	// 课程 2025-02-10 ~ 2025-02-20，当前 2025-02-15 → 完成度 50%
	svc, repos := setupTestDeviceService(d(2025, 2, 15))

	s := testSession("SIN0601", "E1", "SIA", d(2025, 2, 10), d(2025, 2, 20))
	s.TraineeFirstName, s.TraineeLastName = "Amy", "Tan"
	repos.seedSessionBatch([]model.Session{s})
	repos.seedAssetBatch([]model.Asset{
		{AssetID: "L01", Location: "SIN0601", Status: "Ready", Category: model.CategoryLaptop},
		{AssetID: "AIP01", Location: "SIN0601", Status: "Ready", Category: model.CategoryTablet},
		{AssetID: "L02", Location: "M01-13", Status: "Ready", Category: model.CategoryLaptop},
	})

	info, err := svc.GetInfo(context.Background(), "L01")
	if err != nil {
		t.Fatalf("GetInfo 应成功: %v", err)
	}
	if info.Location != "SIN0601" {
		t.Errorf("期望位置 SIN0601，实际: %q", info.Location)
	}
	if info.From != "10 Feb 2025" || info.To != "20 Feb 2025" {
		t.Errorf("课程日期不符，实际: %q ~ %q", info.From, info.To)
	}
	if info.CompletionPct != 50 {
		t.Errorf("期望完成度 50，实际: %v", info.CompletionPct)
	}
	if len(info.OtherAssetIDs) != 1 || info.OtherAssetIDs[0] != "AIP01" {
		t.Errorf("期望伴随设备 [AIP01]，实际: %v", info.OtherAssetIDs)
	}
}

// 学员组内有更晚场次时结课日取组内最大值
func TestDeviceService_GetInfo_TraineeGroupExtendsToDate(t *testing.T) {
	svc, repos := setupTestDeviceService(d(2025, 2, 15))

	s1 := testSession("SIN0701", "E1", "SIA", d(2025, 2, 10), d(2025, 2, 14))
	s1.TraineeFirstName, s1.TraineeLastName = "Amy", "Tan"
	s2 := testSession("SIN0702", "E2", "SIA", d(2025, 2, 17), d(2025, 2, 28))
	s2.TraineeFirstName, s2.TraineeLastName = "Amy", "Tan"
	repos.seedSessionBatch([]model.Session{s1, s2})
	repos.seedAssetBatch([]model.Asset{
		{AssetID: "L01", Location: "SIN0701", Status: "Ready", Category: model.CategoryLaptop},
	})

	info, err := svc.GetInfo(context.Background(), "L01")
	if err != nil {
		t.Fatalf("GetInfo 应成功: %v", err)
	}
	if info.To != "28 Feb 2025" {
		t.Errorf("应取学员组内最大结课日 28 Feb 2025，实际: %q", info.To)
	}
}

// 完成度上下钳制
func TestDeviceService_GetInfo_CompletionClamped(t *testing.T) {
	seed := func(now time.Time) DeviceService {
		svc, repos := setupTestDeviceService(now)
		s := testSession("SIN0801", "E1", "SIA", d(2025, 2, 10), d(2025, 2, 20))
		s.TraineeFirstName, s.TraineeLastName = "Amy", "Tan"
		repos.seedSessionBatch([]model.Session{s})
		repos.seedAssetBatch([]model.Asset{
			{AssetID: "L01", Location: "SIN0801", Status: "Ready", Category: model.CategoryLaptop},
		})
		return svc
	}

	info, err := seed(d(2025, 3, 15)).GetInfo(context.Background(), "L01")
	if err != nil {
		t.Fatalf("GetInfo 应成功: %v", err)
	}
	if info.CompletionPct != 100 {
		t.Errorf("结课后完成度应钳制为 100，实际: %v", info.CompletionPct)
	}

	info, err = seed(d(2025, 1, 15)).GetInfo(context.Background(), "L01")
	if err != nil {
		t.Fatalf("GetInfo 应成功: %v", err)
	}
	if info.CompletionPct != 0 {
		t.Errorf("开课前完成度应钳制为 0，实际: %v", info.CompletionPct)
	}
}

// 设备在仓库时返回零值摘要，不触碰场次快照
func TestDeviceService_GetInfo_StagingDeviceZeroSummary(t *testing.T) {
	svc, repos := setupTestDeviceService(d(2025, 2, 15))
	// 故意不 seed 场次快照：零值摘要不应依赖它
	repos.seedAssetBatch([]model.Asset{
		{AssetID: "L01", Location: "M01-13", Status: "Ready", Category: model.CategoryLaptop},
	})

	info, err := svc.GetInfo(context.Background(), "L01")
	if err != nil {
		t.Fatalf("GetInfo 应成功: %v", err)
	}
	if info.Location != "M01-13" {
		t.Errorf("期望位置 M01-13，实际: %q", info.Location)
	}
	if info.From != "" || info.To != "" || info.CompletionPct != 0 {
		t.Errorf("仓库设备应返回零值摘要，实际: %+v", info)
	}
	if info.OtherAssetIDs == nil || len(info.OtherAssetIDs) != 0 {
		t.Errorf("伴随设备应为空切片，实际: %v", info.OtherAssetIDs)
	}
}

func TestDeviceService_GetInfo_DeviceNotFound(t *testing.T) {
	svc, repos := setupTestDeviceService(d(2025, 2, 15))
	repos.seedAssetBatch([]model.Asset{
		{AssetID: "L01", Location: "M01-13", Status: "Ready", Category: model.CategoryLaptop},
	})

	_, err := svc.GetInfo(context.Background(), "L99")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("期望 ErrDeviceNotFound，实际: %v", err)
	}
}

// 设备位置形似课程但场次快照中无该课程
func TestDeviceService_GetInfo_LocationNotFound(t *testing.T) {
	svc, repos := setupTestDeviceService(d(2025, 2, 15))
	repos.seedSessionBatch([]model.Session{})
	repos.seedAssetBatch([]model.Asset{
		{AssetID: "L01", Location: "SIN0901", Status: "Ready", Category: model.CategoryLaptop},
	})

	_, err := svc.GetInfo(context.Background(), "L01")
	if !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("期望 ErrLocationNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/device_service_test.go
