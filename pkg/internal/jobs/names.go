package jobs

// 任务名称常量.
const (
	JobOrphanSweep = "documents.orphan_sweep"
)
