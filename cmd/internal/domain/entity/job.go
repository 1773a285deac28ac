package entity

type Job struct {
	ID          int64          `gorm:"primaryKey;autoIncrement:false"`
	Title       string         `gorm:"not null"`
	Company     string         `gorm:"not null"`
	Location    string         `gorm:"not null;default:''"`
	Type        string         `gorm:"not null"`
	Description string         `gorm:"not null;default:''"`
	ApplyURL    string         `gorm:"not null;default:''"`
	SalaryRange string         `gorm:"not null;default:''"`
	PostedByID  string         `gorm:"not null;index"` // References: profiles(id)
	Status      ApprovalStatus `gorm:"not null;type:varchar(16);index"`
	CreatedAt   int64          `gorm:"not null"`
	UpdatedAt   int64          `gorm:"not null;autoUpdateTime:false"`
}
