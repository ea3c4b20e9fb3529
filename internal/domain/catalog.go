package domain

// SizeClass is read-only reference data (small / medium / large).
type SizeClass struct {
	ID    int64  `json:"id" gorm:"primaryKey"`
	Label string `json:"label"`
}

func (SizeClass) TableName() string { return "size_classes" }

// WashType is the read-only service catalog (wash variants).
type WashType struct {
	ID    int64  `json:"id" gorm:"primaryKey"`
	Label string `json:"label"`
}

func (WashType) TableName() string { return "wash_types" }
