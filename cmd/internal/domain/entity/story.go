package entity

type SuccessStory struct {
	ID        int64          `gorm:"primaryKey;autoIncrement:false"`
	UserID    string         `gorm:"not null;index"` // References: profiles(id)
	FullName  string         `gorm:"not null"`
	Title     string         `gorm:"not null"`
	Category  string         `gorm:"not null"`
	Content   string         `gorm:"not null"`
	Status    ApprovalStatus `gorm:"not null;type:varchar(16);index"`
	CreatedAt int64          `gorm:"not null"`
	UpdatedAt int64          `gorm:"not null;autoUpdateTime:false"`

	// Relations
	Author Profile `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}
