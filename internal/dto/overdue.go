package dto

// ── 逾期检测模块 DTO ──

// OverdueEntryResponse 一条逾期设备记录：某教室的一台或一对设备
type OverdueEntryResponse struct {
	Course         string `json:"course"`
	From           string `json:"from"` // 02-Jan-06
	To             string `json:"to"`   // 推导出的完课日期，02-Jan-06
	CourseTypeName string `json:"course_type_name"`
	Customer       string `json:"customer"`
	CustomerName   string `json:"customer_name"`
	Laptop         string `json:"laptop,omitempty"`
	Tablet         string `json:"tablet,omitempty"`
}

// OverdueResponse 逾期检测结果
type OverdueResponse struct {
	Entries     []OverdueEntryResponse `json:"entries"`
	OverdueDays int                    `json:"overdue_days"`
	AsOf        string                 `json:"as_of"` // 判定所用的当前日期
}

// [自证通过] internal/dto/overdue.go
