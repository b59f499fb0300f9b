package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/AbnormalDerp/TMM-Dashboard/internal/model"
)

// ── 测试辅助 ──

func setupTestImportService() (ImportService, *testRepos) {
	repos := newTestRepos()
	svc := NewImportService(testAppConfig(), repos.toRepository(), zap.NewNop())
	return svc, repos
}

var sessionHeader = []interface{}{
	"Course", "From", "To", "Course Type", "Course Type Name",
	"Seat Number", "Customer", "Customer Name",
	"Trainee Firstname", "Trainee Lastname",
}

// buildSessionWorkbook 在内存中构造课程场次工作簿
func buildSessionWorkbook(t *testing.T, header []interface{}, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("写入表头失败: %v", err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("写入数据行失败: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("生成工作簿失败: %v", err)
	}
	return buf
}

// ════════════════════════════════════════════════════════════
// ImportSessions 测试
// ════════════════════════════════════════════════════════════

func TestImportService_ImportSessions_Success(t *testing.T) {
	svc, repos := setupTestImportService()

	buf := buildSessionWorkbook(t, sessionHeader,
		[]interface{}{"SIN0601", "2025-02-10", "2025-02-20", "E1", "A320 Type Rating",
			"1", "SIA", "Singapore Airlines", "Amy", "Tan"},
		[]interface{}{"SIN0602", "10-Feb-25", "20-Feb-25", "V2", "A350 Refresher",
			"2", "99Y", "RSAF", "Bob", "Lim"},
	)

	result, err := svc.ImportSessions(context.Background(), buf, "forecast.xlsx", "user-1")
	if err != nil {
		t.Fatalf("ImportSessions 应成功: %v", err)
	}
	if result.RowCount != 2 || result.Skipped != 0 {
		t.Errorf("期望 2 行 0 跳过，实际: %d / %d", result.RowCount, result.Skipped)
	}
	if result.BatchID == "" {
		t.Error("应生成批次 ID")
	}

	stored, _ := repos.session.ListByBatch(context.Background(), result.BatchID)
	if len(stored) != 2 {
		t.Fatalf("期望落库 2 行，实际: %d", len(stored))
	}
	// 机队族别在解析时打标
	if stored[0].Family != model.FamilyA320 {
		t.Errorf("E1 应标记为 A320 族，实际: %v", stored[0].Family)
	}
	if stored[1].Family != model.FamilyA350 {
		t.Errorf("V2 应标记为 A350 族，实际: %v", stored[1].Family)
	}
	if !stored[1].FromDate.Equal(d(2025, 2, 10)) {
		t.Errorf("02-Jan-06 格式日期解析不符，实际: %v", stored[1].FromDate)
	}
}

// 可选列 course nature code 存在时过滤 dry 性质的行
func TestImportService_ImportSessions_SkipsDryRows(t *testing.T) {
	svc, _ := setupTestImportService()

	header := append(append([]interface{}{}, sessionHeader...), "Course Nature Code")
	buf := buildSessionWorkbook(t, header,
		[]interface{}{"SIN0601", "2025-02-10", "2025-02-20", "E1", "A320 Type Rating",
			"1", "SIA", "Singapore Airlines", "Amy", "Tan", "Wet"},
		[]interface{}{"SIN0602", "2025-02-10", "2025-02-20", "E1", "A320 Type Rating",
			"2", "SIA", "Singapore Airlines", "Bob", "Lim", "Dry"},
	)

	result, err := svc.ImportSessions(context.Background(), buf, "forecast.xlsx", "user-1")
	if err != nil {
		t.Fatalf("ImportSessions 应成功: %v", err)
	}
	if result.RowCount != 1 || result.Skipped != 1 {
		t.Errorf("dry 行应被过滤，实际: %d 行 %d 跳过", result.RowCount, result.Skipped)
	}
}

// 缺少必需列整批拒绝
func TestImportService_ImportSessions_MissingColumns(t *testing.T) {
	svc, repos := setupTestImportService()

	buf := buildSessionWorkbook(t,
		[]interface{}{"Course", "From", "To"},
		[]interface{}{"SIN0601", "2025-02-10", "2025-02-20"},
	)

	_, err := svc.ImportSessions(context.Background(), buf, "forecast.xlsx", "user-1")
	var missingErr *MissingColumnsError
	if !errors.As(err, &missingErr) {
		t.Fatalf("期望 MissingColumnsError，实际: %v", err)
	}
	if len(missingErr.Columns) != 7 {
		t.Errorf("期望报告 7 个缺失列，实际: %v", missingErr.Columns)
	}
	if len(repos.importBatch.batches) != 0 {
		t.Error("整批拒绝时不应创建批次")
	}
}

// 日期无法解析整批拒绝，并报告行号与列名
func TestImportService_ImportSessions_InvalidDate(t *testing.T) {
	svc, _ := setupTestImportService()

	buf := buildSessionWorkbook(t, sessionHeader,
		[]interface{}{"SIN0601", "2025-02-10", "2025-02-20", "E1", "A320 Type Rating",
			"1", "SIA", "Singapore Airlines", "Amy", "Tan"},
		[]interface{}{"SIN0602", "not-a-date", "2025-02-20", "E1", "A320 Type Rating",
			"2", "SIA", "Singapore Airlines", "Bob", "Lim"},
	)

	_, err := svc.ImportSessions(context.Background(), buf, "forecast.xlsx", "user-1")
	var dateErr *InvalidDateError
	if !errors.As(err, &dateErr) {
		t.Fatalf("期望 InvalidDateError，实际: %v", err)
	}
	if dateErr.Row != 3 || dateErr.Column != "From" {
		t.Errorf("期望第 3 行 From 列报错，实际: 第 %d 行 %s 列", dateErr.Row, dateErr.Column)
	}
}

// 开课晚于结课违反日期顺序
func TestImportService_ImportSessions_FromAfterTo(t *testing.T) {
	svc, _ := setupTestImportService()

	buf := buildSessionWorkbook(t, sessionHeader,
		[]interface{}{"SIN0601", "2025-02-20", "2025-02-10", "E1", "A320 Type Rating",
			"1", "SIA", "Singapore Airlines", "Amy", "Tan"},
	)

	_, err := svc.ImportSessions(context.Background(), buf, "forecast.xlsx", "user-1")
	var dateErr *InvalidDateError
	if !errors.As(err, &dateErr) {
		t.Fatalf("期望 InvalidDateError，实际: %v", err)
	}
	if dateErr.Column != "From/To" {
		t.Errorf("期望 From/To 列报错，实际: %s", dateErr.Column)
	}
}

// 重复导入生成新批次，旧批次保留
func TestImportService_ImportSessions_NewBatchPerUpload(t *testing.T) {
	svc, repos := setupTestImportService()

	row := []interface{}{"SIN0601", "2025-02-10", "2025-02-20", "E1", "A320 Type Rating",
		"1", "SIA", "Singapore Airlines", "Amy", "Tan"}

	first, err := svc.ImportSessions(context.Background(),
		buildSessionWorkbook(t, sessionHeader, row), "v1.xlsx", "user-1")
	if err != nil {
		t.Fatalf("首次导入应成功: %v", err)
	}
	second, err := svc.ImportSessions(context.Background(),
		buildSessionWorkbook(t, sessionHeader, row), "v2.xlsx", "user-1")
	if err != nil {
		t.Fatalf("再次导入应成功: %v", err)
	}
	if first.BatchID == second.BatchID {
		t.Error("每次上传应生成独立批次")
	}

	old, _ := repos.session.ListByBatch(context.Background(), first.BatchID)
	if len(old) != 1 {
		t.Errorf("旧批次数据应保留，实际: %d 行", len(old))
	}
}

// ════════════════════════════════════════════════════════════
// ImportAssets 测试
// ════════════════════════════════════════════════════════════

func TestImportService_ImportAssets_Success(t *testing.T) {
	svc, repos := setupTestImportService()

	csvData := strings.Join([]string{
		"Asset ID,Location,FSA,Status",
		"L01,M01-13,FSA5,Ready",
		"AIP01,SIN0601,NIL,Ready",
		"PRJ01,M01-13,NIL,Ready",
		",,,",
	}, "\n")

	result, err := svc.ImportAssets(context.Background(),
		strings.NewReader(csvData), "assets.csv", "user-1")
	if err != nil {
		t.Fatalf("ImportAssets 应成功: %v", err)
	}
	if result.RowCount != 3 || result.Skipped != 1 {
		t.Errorf("期望 3 行 1 跳过，实际: %d / %d", result.RowCount, result.Skipped)
	}

	stored, _ := repos.asset.ListByBatch(context.Background(), result.BatchID)
	if len(stored) != 3 {
		t.Fatalf("期望落库 3 行，实际: %d", len(stored))
	}
	// 设备类别按前缀打标：AIP 优先于 L，其余归 other
	if stored[0].Category != model.CategoryLaptop {
		t.Errorf("L01 应为笔记本，实际: %v", stored[0].Category)
	}
	if stored[1].Category != model.CategoryTablet {
		t.Errorf("AIP01 应为平板，实际: %v", stored[1].Category)
	}
	if stored[2].Category != model.CategoryOther {
		t.Errorf("PRJ01 应为其它类别，实际: %v", stored[2].Category)
	}
}

func TestImportService_ImportAssets_MissingColumns(t *testing.T) {
	svc, _ := setupTestImportService()

	csvData := "Asset ID,Location\nL01,M01-13\n"
	_, err := svc.ImportAssets(context.Background(),
		strings.NewReader(csvData), "assets.csv", "user-1")

	var missingErr *MissingColumnsError
	if !errors.As(err, &missingErr) {
		t.Fatalf("期望 MissingColumnsError，实际: %v", err)
	}
	if len(missingErr.Columns) != 2 {
		t.Errorf("期望报告 2 个缺失列，实际: %v", missingErr.Columns)
	}
}

// 行宽不齐整时缺失字段按空值处理
func TestImportService_ImportAssets_RaggedRows(t *testing.T) {
	svc, repos := setupTestImportService()

	csvData := "Asset ID,Location,FSA,Status\nL01,M01-13\n"
	result, err := svc.ImportAssets(context.Background(),
		strings.NewReader(csvData), "assets.csv", "user-1")
	if err != nil {
		t.Fatalf("ImportAssets 应成功: %v", err)
	}

	stored, _ := repos.asset.ListByBatch(context.Background(), result.BatchID)
	if len(stored) != 1 {
		t.Fatalf("期望落库 1 行，实际: %d", len(stored))
	}
	if stored[0].FSA != "" || stored[0].Status != "" {
		t.Errorf("缺失字段应为空值，实际: %q / %q", stored[0].FSA, stored[0].Status)
	}
}

// ════════════════════════════════════════════════════════════
// Status 测试
// ════════════════════════════════════════════════════════════

func TestImportService_Status(t *testing.T) {
	svc, _ := setupTestImportService()

	// 尚无任何批次
	status, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("Status 应成功: %v", err)
	}
	if status.Sessions != nil || status.Assets != nil {
		t.Errorf("无批次时两侧均应为空，实际: %+v", status)
	}

	row := []interface{}{"SIN0601", "2025-02-10", "2025-02-20", "E1", "A320 Type Rating",
		"1", "SIA", "Singapore Airlines", "Amy", "Tan"}
	_, _ = svc.ImportSessions(context.Background(),
		buildSessionWorkbook(t, sessionHeader, row), "v1.xlsx", "user-1")
	latest, err := svc.ImportSessions(context.Background(),
		buildSessionWorkbook(t, sessionHeader, row), "v2.xlsx", "user-1")
	if err != nil {
		t.Fatalf("导入应成功: %v", err)
	}

	status, err = svc.Status(context.Background())
	if err != nil {
		t.Fatalf("Status 应成功: %v", err)
	}
	if status.Sessions == nil || status.Sessions.BatchID != latest.BatchID {
		t.Errorf("应返回最新批次 %s，实际: %+v", latest.BatchID, status.Sessions)
	}
	if status.Sessions.SourceName != "v2.xlsx" {
		t.Errorf("期望来源 v2.xlsx，实际: %q", status.Sessions.SourceName)
	}
	if status.Assets != nil {
		t.Error("资产侧仍应为空")
	}
}

// [自证通过] internal/service/import_service_test.go
