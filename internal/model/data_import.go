package model

// 导入状态
const (
	ImportProcessing = "processing"
	ImportSuccess    = "success"
	ImportFailed     = "failed"
)

// DataImport 数据导入记录（表 data_imports）
type DataImport struct {
	ID           uint    `gorm:"primaryKey"                                json:"id"`
	Filename     string  `gorm:"type:varchar(255);not null"                json:"filename"`
	Status       string  `gorm:"type:varchar(20);not null;default:processing" json:"status"`
	SuccessCount int     `gorm:"not null;default:0"                        json:"success_count"`
	FailedCount  int     `gorm:"not null;default:0"                        json:"failed_count"`
	ErrorMessage *string `gorm:"type:varchar(512)"                         json:"error_message"`
	OperatorID   *uint   `json:"operator_id"`
	BaseModel
}

// TableName 指定表名
func (DataImport) TableName() string { return "data_imports" }
