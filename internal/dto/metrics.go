package dto

// ── 监控面板 DTO ──

// DashboardMetrics 面板汇总
type DashboardMetrics struct {
	ActiveUsers  int64            `json:"active_users"`
	TotalUsers   int64            `json:"total_users"`
	UserRoles    map[string]int64 `json:"user_roles"`
	Activity     []DailyActivity  `json:"activity"`
	Resources    ResourceSummary  `json:"resources"`
	TopResources []TopResource    `json:"top_resources"`
	Models       ModelSummary     `json:"models"`
	System       []SystemSample   `json:"system"`
}

// DailyActivity 每日学习活跃度
type DailyActivity struct {
	Date           string `json:"date"` // YYYY-MM-DD
	ActiveStudents int64  `json:"active_students"`
	Records        int64  `json:"records"`
}

// ResourceSummary 资源汇总
type ResourceSummary struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Downloads int64 `json:"downloads"`
}

// TopResource 下载量排行项
type TopResource struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	DownloadCount int    `json:"download_count"`
	ViewCount     int    `json:"view_count"`
}

// ModelSummary 模型汇总
type ModelSummary struct {
	Total       int64   `json:"total"`
	Training    int64   `json:"training"`
	Deployed    int64   `json:"deployed"`
	AvgAccuracy float64 `json:"avg_accuracy"`
}

// SystemSample 主机资源采样
type SystemSample struct {
	Time   string  `json:"time"` // RFC3339
	CPU    float64 `json:"cpu"`
	Memory float64 `json:"memory"`
	GPU    float64 `json:"gpu"`
}

// ModelMetrics 模型指标
type ModelMetrics struct {
	ByStatus    map[string]int64 `json:"by_status"`
	AvgAccuracy float64          `json:"avg_accuracy"`
	Models      []ModelMetric    `json:"models"`
}

// ModelMetric 单个模型指标
type ModelMetric struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Status        string   `json:"status"`
	Accuracy      *float64 `json:"accuracy"`
	LastTrainedAt *string  `json:"last_trained_at"`
}

// ResourceMetrics 资源指标
type ResourceMetrics struct {
	TotalDownloads int64            `json:"total_downloads"`
	TotalViews     int64            `json:"total_views"`
	ByType         map[string]int64 `json:"by_type"`
	ByStatus       map[string]int64 `json:"by_status"`
	Top            []TopResource    `json:"top"`
}
